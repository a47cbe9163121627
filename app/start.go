package app

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/permgate/permgate/internal/config"
	"github.com/permgate/permgate/internal/daemon"
	"github.com/permgate/permgate/internal/logger"
)

func init() { //nolint: gochecknoinits
	startCmd.Flags().BoolVar(&devMode, "dev", false, "Enable dev mode")

	rootCmd.AddCommand(startCmd)
}

var (
	cfg     config.Config
	devMode bool

	startCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the permgate web service",
		PreRunE: func(_ *cobra.Command, _ []string) error {
			var err error
			if cfg, err = config.ReadConfig(configPath()); err != nil {
				return err
			}

			if devMode {
				cfg.DevMode = true
			}

			return logger.Init(cfg.Log)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := daemon.New(cmd.Context(), &cfg)
			if err != nil {
				log.Error().Err(err).Msg("failed to start daemon")
				return err
			}

			return d.Start()
		},
	}
)
