// Package app implements the main application commands.
package app

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	defaultConfigPath = "./etc/main.toml"
	configKey         = "config"
)

var rootCmd = &cobra.Command{
	Use:   "permgate",
	Short: "permgate is a role based permission engine for HTTP APIs",
	Long: `permgate guards the controller actions of an HTTP API with role grants
managed at runtime, either per action or per read/write bucket.`,
	Args: cobra.OnlyValidArgs,
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().String(configKey, defaultConfigPath, "Path to the TOML configuration file")

	// PERMGATE_CONFIG overrides the default path
	viper.SetEnvPrefix("permgate")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.BindPFlag(configKey, rootCmd.PersistentFlags().Lookup(configKey)); err != nil {
		panic(err)
	}
}

// configPath returns the configuration path from the flag or the environment.
func configPath() string {
	return viper.GetString(configKey)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
