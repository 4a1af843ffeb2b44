// Command migrate imports the legacy Mongo deployment into Postgres.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"log/slog"

	"github.com/studydex/studydex/studydex"
	"github.com/studydex/studydex/studydex/database"
	"github.com/studydex/studydex/studydex/logger"
	"github.com/studydex/studydex/studydex/migration"
)

func main() {
	slog.SetDefault(slog.New(logger.NewHandler("Migrate")))

	configPath := flag.String("config", "config.toml", "path to config")
	mongoURI := flag.String("mongo-uri", "mongodb://localhost:27017", "legacy mongo connection uri")
	mongoDB := flag.String("mongo-db", "studydex", "legacy mongo database name")
	batchSize := flag.Int("batch-size", 500, "insert batch size")
	flag.Parse()

	cfg, err := studydex.LoadConfig(*configPath)
	if err != nil {
		logger.LogError("Failed to load configuration", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	db, err := database.New(ctx, database.DBConfig{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Database,
		PoolSize: cfg.DB.PoolSize,
	})
	if err != nil {
		logger.LogError("Failed to connect to database", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.InitializeSchema(ctx); err != nil {
		logger.LogError("Failed to initialize schema", err)
		os.Exit(1)
	}

	legacy, err := migration.Connect(ctx, *mongoURI, *mongoDB)
	if err != nil {
		logger.LogError("Failed to connect to legacy mongo", err)
		os.Exit(1)
	}

	migrator := migration.NewMigrator(db.BunDB(), legacy)
	migrator.SetBatchSize(*batchSize)

	if err := migrator.MigrateAll(ctx); err != nil {
		logger.LogError("Migration failed", err)
		os.Exit(1)
	}

	logger.LogSystem("Migration completed successfully")
}
