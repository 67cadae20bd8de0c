package cli

import (
	"watchly/internal/app"
	"watchly/internal/config"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Run the mood recommendation pipeline once",
		Args:  cobra.NoArgs,
		RunE:  runRecommend,
	}

	cmd.Flags().StringP("mood", "m", "", "Free-text mood (required)")
	cmd.MarkFlagRequired("mood")

	RootCmd.AddCommand(cmd)
}

func runRecommend(cmd *cobra.Command, args []string) error {
	mood, _ := cmd.Flags().GetString("mood")

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	service := app.NewRecommendService(cfg, app.NewTMDBClient(cfg, nil))

	result, err := service.Recommend(cmd.Context(), mood)
	if err != nil {
		return err
	}

	return printJSON(cmd, map[string]interface{}{
		"recommendations": result.Recommendations,
		"degraded":        result.Degraded,
		"model":           result.ModelUsed,
	})
}
