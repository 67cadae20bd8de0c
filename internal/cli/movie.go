package cli

import (
	"fmt"
	"strconv"

	"watchly/internal/app"
	"watchly/internal/config"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "movie <tmdb-id>",
		Short: "Print the merged detail view for a movie",
		Args:  cobra.ExactArgs(1),
		RunE:  runMovie,
	}

	cmd.Flags().StringP("region", "r", "", "Watch provider region (default: TMDB_REGION)")

	RootCmd.AddCommand(cmd)
}

func runMovie(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid movie id %q", args[0])
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	region, _ := cmd.Flags().GetString("region")
	if region == "" {
		region = cfg.TMDB.Region
	}

	view, err := app.NewTMDBClient(cfg, nil).MovieView(cmd.Context(), id, region)
	if err != nil {
		return err
	}
	return printJSON(cmd, view)
}
