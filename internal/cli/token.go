package cli

import (
	"errors"
	"fmt"
	"time"

	"watchly/internal/config"
	"watchly/internal/middleware"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Issue a bearer token for local testing",
		Args:  cobra.ExactArgs(1),
		RunE:  runToken,
	}

	cmd.Flags().StringP("email", "e", "", "Email claim")
	cmd.Flags().Duration("ttl", 24*time.Hour, "Token lifetime")

	RootCmd.AddCommand(cmd)
}

func runToken(cmd *cobra.Command, args []string) error {
	userID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", args[0], err)
	}
	email, _ := cmd.Flags().GetString("email")
	ttl, _ := cmd.Flags().GetDuration("ttl")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}

	token, err := middleware.SignToken(cfg.Auth.JWTSecret, userID.String(), email, ttl)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
