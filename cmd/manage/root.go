package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/steemit/yatube/internal/cache"
	"github.com/steemit/yatube/internal/db"
	"github.com/steemit/yatube/pkg/config"
	"github.com/steemit/yatube/pkg/logging"
)

// app holds the connections shared by every command
type app struct {
	db    *db.DB
	repo  *db.Repository
	cache *cache.Cache
}

func (a *app) close() {
	_ = a.cache.Close()
	_ = a.db.Close()
	logging.Sync()
}

var current *app

var rootCmd = &cobra.Command{
	Use:   "manage",
	Short: "Yatube administration commands",
	Long: `Administrative tasks for a Yatube deployment.

  manage migrate                                   Create or update the schema
  manage createuser leo --password secret          Create an account
  manage deleteuser leo                            Delete an account and its content
  manage creategroup --title Cats --slug cats      Create a group
  manage deletegroup cats                          Delete a group`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := logging.InitLogger(&cfg.Logging); err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}

		database, err := db.New(&cfg.Database, cfg.Logging.Level)
		if err != nil {
			return err
		}
		redisCache, err := cache.New(&cfg.Redis)
		if err != nil {
			_ = database.Close()
			return err
		}

		current = &app{
			db:    database,
			repo:  db.NewRepository(database.DB),
			cache: redisCache,
		}
		return nil
	},
}

// Execute runs the root command and releases the connections it opened,
// whether or not the command succeeded.
func Execute() error {
	defer func() {
		if current != nil {
			current.close()
		}
	}()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
