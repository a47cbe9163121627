package app

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/permgate/permgate/internal/config"
	"github.com/permgate/permgate/internal/daemon"
	"github.com/permgate/permgate/internal/permission"
	"github.com/permgate/permgate/internal/web/handler"
)

func init() { //nolint: gochecknoinits
	catalogCmd.Flags().StringVar(&catalogMode, "mode", "", "Permission mode, defaults to the configured mode")

	rootCmd.AddCommand(catalogCmd)
}

var (
	catalogMode string

	catalogCmd = &cobra.Command{
		Use:   "catalog",
		Short: "Print the controller catalog as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode := catalogMode
			if mode == "" {
				c, err := config.ReadConfig(configPath())
				if err != nil {
					return err
				}

				mode = c.Permissions.Mode
			}

			m, err := permission.ParseMode(mode)
			if err != nil {
				return err
			}

			registry, _, err := daemon.Registry(m, nil, &handler.Deps{})
			if err != nil {
				return err
			}

			catalog, err := registry.Discover(cmd.Context())
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(catalog, "", "  ")
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))

			return err
		},
	}
)
