package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

// KeyringService groups jobwatch secrets in the OS keychain.
const KeyringService = "jobwatch"

// ErrNotFound is returned when no password is stored for the account.
var ErrNotFound = errors.New("mail password not found in keyring")

// MailPassword returns the stored password for the mail account.
func MailPassword(account string) (string, error) {
	if strings.TrimSpace(account) == "" {
		return "", errors.New("keyring account name is empty")
	}
	pw, err := keyring.Get(KeyringService, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("reading keyring for %s: %w", account, err)
	}
	if strings.TrimSpace(pw) == "" {
		return "", ErrNotFound
	}
	return pw, nil
}

// SetMailPassword stores password for the mail account.
func SetMailPassword(account, password string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("password is empty")
	}
	return keyring.Set(KeyringService, account, password)
}

// DeleteMailPassword removes the stored password for the mail account.
func DeleteMailPassword(account string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	err := keyring.Delete(KeyringService, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// ResolveMailPassword returns configured when set, otherwise the keyring
// entry for user. A missing keyring entry is not an error: the caller decides
// whether a password is needed.
func ResolveMailPassword(user, configured string) (string, error) {
	if configured != "" || user == "" {
		return configured, nil
	}
	pw, err := MailPassword(user)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return pw, err
}
