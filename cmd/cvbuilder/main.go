// Package main provides the cvbuilder command: a local CV workspace plus the REST API server.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jonathan/cv-builder/internal/config"
	"github.com/jonathan/cv-builder/internal/session"
)

var (
	configFile string
	verbose    bool

	// cfg is loaded before every command runs.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "cvbuilder",
	Short: "Build, export and sync a CV",
	Long: `cvbuilder keeps a working copy of your CV on disk, exports it as Markdown or PDF and syncs it
with a cvbuilder server. Run "cvbuilder serve" to start the REST API.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a JSON config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed output")
}

func loadConfig(_ *cobra.Command, _ []string) error {
	loaded, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if verbose {
		loaded.Verbose = true
	}
	cfg = loaded
	setupLogging(cfg.Verbose)
	return nil
}

// setupLogging sends human-readable logs to stderr. serve switches to JSON.
func setupLogging(debug bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
}

// openSession opens the working copy configured by cfg.
func openSession(ctx context.Context) (*session.Session, error) {
	return session.Open(ctx, session.Options{
		Dir:           cfg.SnapshotDir,
		RedisURL:      cfg.SnapshotRedisURL,
		AutosaveDelay: cfg.AutosaveDelay.Std(),
	})
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
