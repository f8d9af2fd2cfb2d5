package main

import (
	"context"

	"tennistinder/internal/back"
	"tennistinder/internal/config"

	"github.com/spf13/cobra"
)

func fixturesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dev:fixtures",
		Short: "Create default data for quick testing during development",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withBack(cmd.Context(), func(ctx context.Context, _ *config.Config, b *back.Back) error {
				return b.LoadFixtures(ctx)
			})
		},
	}
}
