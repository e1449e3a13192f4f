package main

import (
	"context"
	"log"
	"os"

	"log/slog"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"printora.com/app/internal/archive"
	"printora.com/app/internal/config"
	apphttp "printora.com/app/internal/http"
	"printora.com/app/internal/mailer"
)

func main() {
	// Load .env file (ignore error if not found - prod uses real env vars)
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg := config.FromEnv()
	if cfg.DBDSN == "" {
		log.Fatal("DB_DSN environment variable is required")
	}

	db, err := gorm.Open(mysql.Open(cfg.DBDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	deps := apphttp.Deps{}

	arc, err := archive.FromEnv(context.Background())
	if err != nil {
		log.Fatalf("failed to init callback archive: %v", err)
	}
	deps.Archive = arc.Store
	logger.Info("callback archive ready", "driver", arc.Driver)

	if cfg.SMTP.Host != "" {
		deps.Mailer = mailer.NewSMTPMailer(cfg.SMTP)
	}

	r := apphttp.NewRouter(logger, db, cfg, deps)
	logger.Info("listening", "addr", cfg.HTTPAddr)
	_ = r.Run(cfg.HTTPAddr)
}
