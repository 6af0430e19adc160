package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobwatch/internal/secrets"
)

var secretAccount string

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Manage the mail password in the OS keyring",
	Long: "The mail password is read from config or MAIL_PASS first. When neither is set,\n" +
		"jobwatch looks it up in the OS keyring under service \"" + secrets.KeyringService + "\".",
}

var secretSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store the mail password (read from stdin)",
	RunE:  runSecretSet,
}

var secretDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the stored mail password",
	RunE:  runSecretDelete,
}

func init() {
	secretCmd.PersistentFlags().StringVar(&secretAccount, "account", "", "keyring account (default: mail user from config or MAIL_USER)")
	secretCmd.AddCommand(secretSetCmd, secretDeleteCmd)
	rootCmd.AddCommand(secretCmd)
}

func secretAccountName() (string, error) {
	if secretAccount != "" {
		return secretAccount, nil
	}
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return "", err
	}
	if cfg.Mail.User == "" {
		return "", errors.New("no account: pass --account or set mail.user / MAIL_USER")
	}
	return cfg.Mail.User, nil
}

func runSecretSet(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	account, err := secretAccountName()
	if err != nil {
		logger.Error("failed to resolve account", "error", err)
		os.Exit(1)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Mail password for %s: ", account)
	password, err := readSecret(cmd.InOrStdin())
	if err != nil {
		logger.Error("failed to read password", "error", err)
		os.Exit(1)
	}

	if err := secrets.SetMailPassword(account, password); err != nil {
		logger.Error("failed to store password", "account", account, "error", err)
		os.Exit(1)
	}
	logger.Info("mail password stored in keyring", "account", account)
	return nil
}

func runSecretDelete(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	account, err := secretAccountName()
	if err != nil {
		logger.Error("failed to resolve account", "error", err)
		os.Exit(1)
	}

	err = secrets.DeleteMailPassword(account)
	switch {
	case errors.Is(err, secrets.ErrNotFound):
		logger.Info("no mail password stored", "account", account)
	case err != nil:
		logger.Error("failed to delete password", "account", account, "error", err)
		os.Exit(1)
	default:
		logger.Info("mail password removed from keyring", "account", account)
	}
	return nil
}

// readSecret reads the first line of r with the trailing newline trimmed.
func readSecret(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("empty password")
	}
	return line, nil
}
