package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gburgyan/go-dicontainer/manifest"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var lintWatch bool

var lintCmd = &cobra.Command{
	Use:   "lint <manifest>",
	Short: "Check a binding manifest",
	Long: `Check a binding manifest for missing names, duplicate implementations, needs that
no binding declares, and contracts that need themselves.`,
	Args: cobra.ExactArgs(1),
	RunE: runLint,
}

func init() {
	lintCmd.Flags().BoolVar(&lintWatch, "watch", false, "lint again every time the manifest changes")
	rootCmd.AddCommand(lintCmd)
}

func runLint(cmd *cobra.Command, args []string) error {
	path := args[0]
	m, err := manifest.Load(path)
	if err != nil {
		return err
	}
	lintErr := report(cmd.OutOrStdout(), path, m)
	if !lintWatch {
		return lintErr
	}

	w, err := manifest.NewWatcher(path, manifest.WithLogger(log.Logger))
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	defer func() {
		if cerr := w.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("failed to close manifest watcher")
		}
	}()
	w.OnReload(func(m *manifest.Manifest) error {
		_ = report(cmd.OutOrStdout(), path, m)
		return nil
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log.Info().Str("path", w.Path()).Msg("watching manifest")
	return w.Watch(ctx)
}

func report(out io.Writer, path string, m *manifest.Manifest) error {
	if err := m.Lint(); err != nil {
		fmt.Fprintf(out, "%s: %v\n", path, err)
		return err
	}
	fmt.Fprintf(out, "%s: ok (%d bindings)\n", path, len(m.Bindings))
	return nil
}
