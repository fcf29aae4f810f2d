package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/retain/internal/config"
	"github.com/vango-dev/retain/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "retain",
		Short: "A retained-tree reconciliation engine",
		Long: `retain keeps a live canvas in sync with a virtual tree.

Components render lightweight node trees; the engine diffs each new tree
against the previous one and applies the minimal set of create, insert,
remove, replace, attribute, text and listener operations to the canvas.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Path to "+config.ConfigFileName+" (default: ./"+config.ConfigFileName+")")

	load := func() (*config.Config, error) {
		var (
			cfg *config.Config
			err error
		)
		if configPath != "" {
			cfg, err = config.Load(configPath)
		} else {
			cfg, err = config.LoadFromDir(".")
		}
		if err != nil {
			return nil, err
		}
		return cfg, cfg.Validate()
	}

	rootCmd.AddCommand(
		demoCmd(load),
		serveCmd(load),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		errors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

// loader reads and validates the configuration selected by --config.
type loader func() (*config.Config, error)

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
