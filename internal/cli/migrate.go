package cli

import (
	"fmt"

	"watchly/db"
	"watchly/internal/config"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Args:  cobra.NoArgs,
		RunE:  runMigrate,
	})
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	conn, err := db.Open(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer conn.Close()

	if err := db.Migrate(cmd.Context(), conn); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "schema applied (%s)\n", cfg.Database.Driver)
	return nil
}
