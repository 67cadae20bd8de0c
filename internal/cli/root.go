// Package cli implements the watchly operator commands.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"watchly/internal/config"

	"github.com/spf13/cobra"
)

var configPath string

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:          "watchly",
	Short:        "Operator tools for the Watchly backend",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if configPath != "" {
			os.Setenv(config.ConfigPathEnvVar, configPath)
		}
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $CONFIG_PATH or ./config.yaml)")
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return nil
}
