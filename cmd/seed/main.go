// Command seed fills the Alley database with demo data.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"alley/internal/config"
	"alley/internal/database"
	"alley/internal/middleware"
	"alley/internal/seed"

	"github.com/urfave/cli/v3"
	"gorm.io/gorm"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:  "seed",
		Usage: "Populate the Alley database with demo data",
		Commands: []*cli.Command{
			randomCommand(),
			fixtureCommand(),
			migrateCommand(),
		},
	}
	if err := app.Run(ctx, os.Args); err != nil {
		middleware.Logger.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

var cleanFlag = &cli.BoolFlag{
	Name:  "clean",
	Usage: "Delete existing rows before seeding",
}

func connect() (*gorm.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return db, nil
}

func newSeeder(ctx context.Context, clean bool) (*seed.Seeder, func(), error) {
	db, err := connect()
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	s, err := seed.NewSeeder(db)
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	if clean {
		if err := s.ClearAll(ctx); err != nil {
			closeDB()
			return nil, nil, fmt.Errorf("cleanup failed: %w", err)
		}
	}
	return s, closeDB, nil
}

func randomCommand() *cli.Command {
	opts := seed.DefaultOptions()
	return &cli.Command{
		Name:  "random",
		Usage: "Generate random users, artworks, comments, likes and follows",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "users", Value: opts.Users, Destination: &opts.Users, Usage: "Number of users"},
			&cli.IntFlag{Name: "artworks", Value: opts.ArtworksPerUser, Destination: &opts.ArtworksPerUser, Usage: "Artworks per user"},
			&cli.IntFlag{Name: "tags", Value: opts.MaxTags, Destination: &opts.MaxTags, Usage: "Maximum tags per artwork"},
			&cli.IntFlag{Name: "comments", Value: opts.CommentsPerUser, Destination: &opts.CommentsPerUser, Usage: "Comments per user"},
			&cli.IntFlag{Name: "likes", Value: opts.LikesPerUser, Destination: &opts.LikesPerUser, Usage: "Like attempts per user"},
			&cli.IntFlag{Name: "follows", Value: opts.FollowsPerUser, Destination: &opts.FollowsPerUser, Usage: "Follow attempts per user"},
			&cli.Int64Flag{Name: "seed", Destination: &opts.Seed, Usage: "Random seed; 0 picks one"},
			cleanFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, closeDB, err := newSeeder(ctx, cmd.Bool("clean"))
			if err != nil {
				return err
			}
			defer closeDB()

			if _, err := s.Random(ctx, opts); err != nil {
				return err
			}
			middleware.Logger.Info("seeded accounts share one password", slog.String("password", seed.DefaultPassword))
			return nil
		},
	}
}

func fixtureCommand() *cli.Command {
	return &cli.Command{
		Name:      "fixture",
		Usage:     "Load a YAML fixture file",
		ArgsUsage: "<path>",
		Flags:     []cli.Flag{cleanFlag},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return fmt.Errorf("fixture path is required")
			}
			fixture, err := seed.LoadFixtureFile(path)
			if err != nil {
				return err
			}

			s, closeDB, err := newSeeder(ctx, cmd.Bool("clean"))
			if err != nil {
				return err
			}
			defer closeDB()

			_, err = s.Apply(ctx, fixture)
			return err
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create or update tables and the listing view",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			db, err := connect()
			if err != nil {
				return err
			}
			defer func() {
				if sqlDB, err := db.DB(); err == nil {
					_ = sqlDB.Close()
				}
			}()

			middleware.Logger.Info("Running migrations...")
			if err := database.Migrate(db.WithContext(ctx)); err != nil {
				return err
			}
			middleware.Logger.Info("All migrations completed successfully")
			return nil
		},
	}
}
