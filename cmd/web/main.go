package main

import (
	"fmt"
	"net"
	"os"

	handlers "github.com/de-tools/patient-reports/pkg/handlers/reports"
	"github.com/de-tools/patient-reports/pkg/runtime/app"
	"github.com/de-tools/patient-reports/pkg/server"
	"github.com/de-tools/patient-reports/pkg/services/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfgPath  string
	seedPath string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for patient reports",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to the YAML config (default: built-in defaults and REPORTS_* env)")
	rootCmd.Flags().StringVar(&seedPath, "seed", "",
		"JSON array of documents to load at startup")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	engine, err := app.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize report engine: %w", err)
	}
	defer engine.Close()

	if seedPath != "" {
		n, err := engine.LoadDocuments(ctx, seedPath)
		if err != nil {
			return err
		}
		logger.Info().Int("documents", n).Msgf("Documents from `%s` loaded.", seedPath)
	}

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	webAPI := server.NewWebAPI(logger, server.Config{
		Addr:            addr,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Dependencies: server.Dependencies{
			NewRunner: func() handlers.Runner { return engine.NewDispatcher() },
			Catalog:   engine.Schemas,
			Location:  engine.Location(),
			Locale:    engine.Locale(),
		},
	})

	return webAPI.Start()
}
