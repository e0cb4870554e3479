package main

import (
	"context"
	"fmt"
	"os"

	"contentlib/config"
	"contentlib/internal/content/model"
	"contentlib/internal/content/repository"
	"contentlib/pkg/logger"

	"github.com/spf13/cobra"
)

func strPtr(s string) *string { return &s }

var samples = []model.NewContent{
	{
		Title:       "Welcome to Content Library",
		Description: strPtr("This is your first content item. You can create, edit, view, and delete content items using this GraphQL-powered application."),
	},
	{
		Title:       "Getting Started Guide",
		Description: strPtr("Learn how to use the Content Library system to manage your content effectively. This guide covers all the basic operations."),
	},
	{
		Title:       "GraphQL Integration",
		Description: strPtr("This application demonstrates a full GraphQL integration, showing how to perform queries and mutations from server-rendered pages."),
	},
	{
		Title: "Sample Article",
	},
	{
		Title:       "Go Web Service Practices",
		Description: strPtr("Exploring a schema-first GraphQL API, gorilla/mux routing and html/template pages in a single Go service."),
	},
}

// seed inserts the sample records, clearing the store first unless keep is set.
func seed(ctx context.Context, repo repository.ContentRepository, keep bool) (int, error) {
	if !keep {
		if err := repo.DeleteAll(ctx); err != nil {
			return 0, fmt.Errorf("clear contents: %w", err)
		}
	}
	for i, s := range samples {
		if _, err := repo.Create(ctx, s); err != nil {
			return i, fmt.Errorf("insert %q: %w", s.Title, err)
		}
	}
	return len(samples), nil
}

func newRootCmd() *cobra.Command {
	var keep bool

	cmd := &cobra.Command{
		Use:          "seed",
		Short:        "Populate the content store with sample records",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			logger.Init(cfg.LogLevel)
			defer logger.Sync()

			repo, closeStore, err := repository.Open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			n, err := seed(cmd.Context(), repo, keep)
			if err != nil {
				return err
			}
			logger.Sugar.Infof("Database seeded successfully! (%d records)", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&keep, "keep", false, "keep existing records instead of clearing the store first")
	return cmd
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
