package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/salesdash/backend/internal/application/seed"
	"github.com/salesdash/backend/internal/infrastructure/config"
	"github.com/salesdash/backend/internal/infrastructure/logger"
	"github.com/salesdash/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

func main() {
	var (
		logLevel string
		timeout  time.Duration
	)

	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.DurationVar(&timeout, "timeout", time.Minute, "Overall timeout for seeding")
	flag.Parse()

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	seeder := seed.NewSeeder(
		persistence.NewGormCustomerRepository(db.DB),
		persistence.NewGormProductRepository(db.DB),
		persistence.NewGormSaleRepository(db.DB),
		log,
	)

	if err := seeder.Run(ctx); err != nil {
		log.Fatal("Seeding failed", zap.Error(err))
	}
	log.Info("Seeding finished")
}
