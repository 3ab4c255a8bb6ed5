// Package main is the entry point for the dicontainer manifest tool.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	logLevel string
	envFiles []string
)

var rootCmd = &cobra.Command{
	Use:   "dicontainer",
	Short: "Inspect dependency injection manifests",
	Long: `dicontainer checks YAML and TOML binding manifests and shows the order in which
a provider would construct a contract and its dependencies.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if len(envFiles) > 0 {
			if err := godotenv.Load(envFiles...); err != nil {
				return fmt.Errorf("failed to load env files: %w", err)
			}
		}

		logger, err := newLogger(logLevel, os.Stderr)
		if err != nil {
			return err
		}
		log.Logger = logger
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil,
		"env files loaded before manifests are read, for ${VAR} expansion")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
