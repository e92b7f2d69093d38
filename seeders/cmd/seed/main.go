package main

import (
	"context"
	"flag"
	"os"

	"maintenance-system/migrations"
	"maintenance-system/pkg/config"
	"maintenance-system/pkg/database/postgresql"
	applogger "maintenance-system/pkg/logger"
	"maintenance-system/seeders"

	"go.uber.org/zap"
)

func main() {
	runCatalog := flag.Bool("catalog", false, "seed teams and categories")
	runUsers := flag.Bool("users", false, "seed user accounts")
	runAssets := flag.Bool("assets", false, "seed equipment and work centers")
	runAll := flag.Bool("all", false, "run every seeder (same as -catalog -users -assets)")
	file := flag.String("file", "", "YAML seed file; the built-in data set is used when empty")
	flag.Parse()

	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log)
	defer logger.Sync()

	if !*runCatalog && !*runUsers && !*runAssets && !*runAll {
		flag.PrintDefaults()
		return
	}

	data, err := loadData(*file)
	if err != nil {
		logger.Fatal("could not load seed data", zap.Error(err))
	}

	ctx := context.Background()
	dbPool, err := postgresql.ConnectDB(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect to PostgreSQL", zap.Error(err))
	}
	defer dbPool.Close()

	if err := postgresql.Migrate(ctx, dbPool, migrations.FS, logger); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	s := seeders.New(dbPool, logger)
	if *runAll {
		err = s.SeedAll(ctx, data)
	} else {
		if err == nil && *runCatalog {
			err = s.SeedCatalog(ctx, data)
		}
		if err == nil && *runUsers {
			err = s.SeedUsers(ctx, data)
		}
		if err == nil && *runAssets {
			err = s.SeedAssets(ctx, data)
		}
	}
	if err != nil {
		logger.Fatal("seeding failed", zap.Error(err))
	}
	logger.Info("seeding finished")
}

func loadData(path string) (*seeders.Data, error) {
	if path == "" {
		return seeders.DefaultData()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return seeders.LoadData(f)
}
