package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/steemit/yatube/internal/auth"
	"github.com/steemit/yatube/internal/db"
	"github.com/steemit/yatube/internal/models"
	"github.com/steemit/yatube/pkg/logging"
)

var (
	flagPassword string
	flagInactive bool

	validate = validator.New()
)

type userInput struct {
	Username string `validate:"required,max=150"`
	Password string `validate:"required,min=8"`
}

func createUser(ctx context.Context, repo *db.Repository, in userInput, active bool) (*models.User, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("invalid user: %w", err)
	}

	users := db.NewUserRepository(repo)
	existing, err := users.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("user %q already exists", in.Username)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	user := &models.User{Username: in.Username, Password: hash, IsActive: active}
	if err := users.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, fmt.Errorf("user %q already exists", in.Username)
		}
		return nil, err
	}
	return user, nil
}

func deleteUser(ctx context.Context, repo *db.Repository, username string) error {
	users := db.NewUserRepository(repo)
	user, err := users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if user == nil {
		return errors.New("user not found: " + username)
	}
	return users.Delete(ctx, user.ID)
}

var createUserCmd = &cobra.Command{
	Use:   "createuser <username>",
	Short: "Create a user account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := createUser(cmd.Context(), current.repo, userInput{Username: args[0], Password: flagPassword}, !flagInactive)
		if err != nil {
			return err
		}
		logging.GetLogger().Info("User created", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
		fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (id: %d)\n", user.Username, user.ID)
		return nil
	},
}

var deleteUserCmd = &cobra.Command{
	Use:   "deleteuser <username>",
	Short: "Delete a user together with their posts, comments and follows",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := deleteUser(cmd.Context(), current.repo, args[0]); err != nil {
			return err
		}
		logging.GetLogger().Info("User deleted", zap.String("username", args[0]))
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted user %s\n", args[0])
		return nil
	},
}

func init() {
	createUserCmd.Flags().StringVar(&flagPassword, "password", "", "Password for the new account")
	createUserCmd.Flags().BoolVar(&flagInactive, "inactive", false, "Create the account disabled")
	_ = createUserCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(createUserCmd)
	rootCmd.AddCommand(deleteUserCmd)
}
