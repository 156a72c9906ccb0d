package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/hamadpass/khodarji-backend/pkg/config"
	"github.com/hamadpass/khodarji-backend/pkg/db"
	"github.com/hamadpass/khodarji-backend/pkg/logger"
	"github.com/hamadpass/khodarji-backend/pkg/migrate"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "migrate"})

	_ = godotenv.Load()

	cmd := flag.String("cmd", "up", "migration command: up|down|status")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to connect to database", err)
		os.Exit(1)
	}
	defer func() { _ = client.Close() }()

	sqlDB, err := client.DB().DB()
	if err != nil {
		logg.Error(ctx, "failed to unwrap sql.DB", err)
		os.Exit(1)
	}

	dialect := migrate.DialectPostgres
	if cfg.DB.IsSQLite() {
		dialect = migrate.DialectSQLite
	}

	switch *cmd {
	case "up":
		err = migrate.Up(ctx, sqlDB, dialect)
	case "down":
		err = migrate.Down(ctx, sqlDB, dialect)
	case "status":
		err = migrate.Status(ctx, sqlDB, dialect)
	default:
		logg.Error(ctx, "unknown migration command", fmt.Errorf("unsupported command %q", *cmd))
		os.Exit(2)
	}
	if err != nil {
		logg.Error(ctx, "migration failed", err)
		os.Exit(1)
	}

	logg.Info(logg.WithField(ctx, "cmd", *cmd), "migration command completed")
}
