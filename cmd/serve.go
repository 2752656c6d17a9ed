package cmd

import (
	"github.com/ethpandaops/injuryboard/pkg/engine"
	"github.com/ethpandaops/injuryboard/pkg/server"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra commands are typically global
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard server",
	Long:  `Serves the dashboard page and its API until interrupted.`,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	// Silence usage on error
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	// Load configuration
	config, err := LoadConfig(cfgFile, envFile)
	if err != nil {
		return err
	}

	// The config file level applies unless --log-level was given
	if !cmd.Flags().Changed("log-level") {
		level, err := logrus.ParseLevel(config.Logging)
		if err != nil {
			return err
		}
		logger.SetLevel(level)
	}

	logger.WithField("config", cfgFile).Info("Configuration loaded")

	svc, err := engine.NewService(logger, config)
	if err != nil {
		return err
	}

	srv, err := server.NewServer(logger, &config.Server, svc)
	if err != nil {
		return err
	}

	return srv.Start(cmd.Context())
}
