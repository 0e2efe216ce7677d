package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jonathan/cv-builder/internal/server"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that stores CVs in PostgreSQL and exposes the CRUD, template and export endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from PORT or 5000)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	// Structured logs for the server
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Str("service", "cvbuilder").Logger()

	port := cfg.Port
	if cmd.Flags().Changed("port") {
		port = servePort
	}

	srv, err := server.New(context.Background(), server.Config{
		Port:          port,
		DatabaseURL:   cfg.DatabaseURL,
		FrontendURL:   cfg.FrontendURL,
		ChromePath:    cfg.ChromePath,
		ExportTimeout: cfg.ExportTimeout.Std(),
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
