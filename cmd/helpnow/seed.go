package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"helpnow/internal/seed"

	"github.com/k0kubun/pp/v3"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with fake volunteer needs",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:    "count",
			Aliases: []string{"c"},
			Usage:   "Number of needs to create",
			Value:   10,
		},
		&cli.BoolFlag{
			Name:  "print",
			Usage: "Pretty print the created needs",
		},
	},
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c.String("env-prefix"))
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger := newLogger(cfg)
		ctx := context.Background()

		repos, err := openStores(ctx, cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to open storage: %w", err)
		}
		defer repos.close()

		rng := rand.New(rand.NewSource(time.Now().UnixNano()))

		logger.WithField("count", c.Int("count")).Info("seeding volunteer needs")
		needs, err := seed.SeedNeeds(ctx, repos.needs, rng, c.Int("count"))
		if err != nil {
			return fmt.Errorf("failed to seed needs: %w", err)
		}

		if c.Bool("print") {
			pp.Println(needs)
		}

		logger.WithField("created", len(needs)).Info("volunteer needs seeded successfully")

		return nil
	},
}
