package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/steemit/yatube/internal/cache"
	"github.com/steemit/yatube/internal/db"
	"github.com/steemit/yatube/internal/models"
	"github.com/steemit/yatube/pkg/logging"
)

var (
	flagTitle       string
	flagSlug        string
	flagDescription string
)

type groupInput struct {
	Title       string `validate:"required,max=200"`
	Slug        string `validate:"required,max=50"`
	Description string
}

func createGroup(ctx context.Context, repo *db.Repository, c *cache.Cache, in groupInput) (*models.Group, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("invalid group: %w", err)
	}
	group := &models.Group{Title: in.Title, Slug: in.Slug, Description: in.Description}
	if err := group.Validate(); err != nil {
		return nil, fmt.Errorf("invalid group: %w", err)
	}

	if err := db.NewGroupRepository(repo).Create(ctx, group); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, fmt.Errorf("a group with title %q or slug %q already exists", in.Title, in.Slug)
		}
		return nil, err
	}
	invalidateGroups(ctx, c)
	return group, nil
}

func deleteGroup(ctx context.Context, repo *db.Repository, c *cache.Cache, slug string) error {
	groups := db.NewGroupRepository(repo)
	group, err := groups.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if group == nil {
		return errors.New("group not found: " + slug)
	}
	if err := groups.Delete(ctx, group.ID); err != nil {
		return err
	}
	invalidateGroups(ctx, c, cache.GroupKey(group.ID))
	return nil
}

// invalidateGroups drops the cached group list and any extra keys
func invalidateGroups(ctx context.Context, c *cache.Cache, keys ...string) {
	err := c.Delete(ctx, append([]string{cache.GroupListKey}, keys...)...)
	if err != nil && !errors.Is(err, cache.ErrCacheDisabled) {
		logging.GetLogger().Warn("Failed to invalidate group cache", zap.Error(err))
	}
}

var createGroupCmd = &cobra.Command{
	Use:   "creategroup",
	Short: "Create a group posts can be filed under",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		group, err := createGroup(cmd.Context(), current.repo, current.cache, groupInput{
			Title:       flagTitle,
			Slug:        flagSlug,
			Description: flagDescription,
		})
		if err != nil {
			return err
		}
		logging.GetLogger().Info("Group created", zap.Int64("group_id", group.ID), zap.String("slug", group.Slug))
		fmt.Fprintf(cmd.OutOrStdout(), "Created group %s (id: %d)\n", group.Slug, group.ID)
		return nil
	},
}

var deleteGroupCmd = &cobra.Command{
	Use:   "deletegroup <slug>",
	Short: "Delete a group; its posts are kept without a group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := deleteGroup(cmd.Context(), current.repo, current.cache, args[0]); err != nil {
			return err
		}
		logging.GetLogger().Info("Group deleted", zap.String("slug", args[0]))
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted group %s\n", args[0])
		return nil
	},
}

func init() {
	createGroupCmd.Flags().StringVar(&flagTitle, "title", "", "Group title")
	createGroupCmd.Flags().StringVar(&flagSlug, "slug", "", "URL slug (letters, digits, hyphens, underscores)")
	createGroupCmd.Flags().StringVar(&flagDescription, "description", "", "Group description")
	_ = createGroupCmd.MarkFlagRequired("title")
	_ = createGroupCmd.MarkFlagRequired("slug")

	rootCmd.AddCommand(createGroupCmd)
	rootCmd.AddCommand(deleteGroupCmd)
}
