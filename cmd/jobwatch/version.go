package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set at build time:
//
//	go build -ldflags "-X main.version=v1.2.0" ./cmd/jobwatch
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version info",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), versionString(version, debug.ReadBuildInfo))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// versionString prefers the linker-injected version, then the module version
// recorded by `go install`, then the VCS revision.
func versionString(injected string, buildInfo func() (*debug.BuildInfo, bool)) string {
	if injected != "" && injected != "dev" {
		return "jobwatch " + injected
	}
	info, ok := buildInfo()
	if !ok {
		return "jobwatch dev"
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return "jobwatch " + v
	}
	var revision, modified string
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			modified = s.Value
		}
	}
	if revision == "" {
		return "jobwatch dev"
	}
	if len(revision) > 12 {
		revision = revision[:12]
	}
	if modified == "true" {
		revision += "-dirty"
	}
	return fmt.Sprintf("jobwatch dev (%s)", revision)
}
