package main

import (
	"context"
	"flag"
	"os"

	"github.com/angelmondragon/shoplytics-backend/internal/seed"
	"github.com/angelmondragon/shoplytics-backend/pkg/config"
	"github.com/angelmondragon/shoplytics-backend/pkg/db"
	"github.com/angelmondragon/shoplytics-backend/pkg/logger"
	"github.com/angelmondragon/shoplytics-backend/pkg/migrate"
	"github.com/joho/godotenv"
)

func main() {
	users := flag.Int("users", 0, "number of users to generate (0 uses the config default)")
	orders := flag.Int("orders", 0, "number of orders to generate (0 uses the config default)")
	windowDays := flag.Int("window-days", 0, "trailing days orders are spread over")
	platformDays := flag.Int("platform-days", 0, "length of the platform daily series")
	seedValue := flag.Int64("seed", 0, "PRNG seed (0 uses the pinned demo seed)")
	onlyIfEmpty := flag.Bool("if-empty", false, "seed only when the users table is empty")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "seed"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRun(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run schema migrations", err)
		os.Exit(1)
	}

	seeder, err := seed.New(dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create seeder", err)
		os.Exit(1)
	}

	opts := seed.FromConfig(cfg.Seed)
	if *users > 0 {
		opts.Users = *users
	}
	if *orders > 0 {
		opts.Orders = *orders
	}
	if *windowDays > 0 {
		opts.OrderWindowDays = *windowDays
	}
	if *platformDays > 0 {
		opts.PlatformDays = *platformDays
	}
	if *seedValue != 0 {
		opts.Seed = *seedValue
	}

	ctx := context.Background()
	if *onlyIfEmpty {
		seeded, err := seeder.RunIfEmpty(ctx, opts)
		if err != nil {
			logg.Error(ctx, "seeding failed", err)
			os.Exit(1)
		}
		if !seeded {
			logg.Info(ctx, "store already populated, nothing to do")
		}
		return
	}

	if _, err := seeder.Run(ctx, opts); err != nil {
		logg.Error(ctx, "seeding failed", err)
		os.Exit(1)
	}
}
