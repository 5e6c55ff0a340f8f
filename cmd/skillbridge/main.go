package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/skillbridge/skillbridge-api/internal/app"
	"github.com/skillbridge/skillbridge-api/internal/config"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	migrationsPath := flag.String("migrations", "migrations", "path to migration files")
	runMigrations := flag.Bool("migrate", false, "run database migrations and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if *runMigrations {
		migrator, err := migrate.New("file://"+*migrationsPath, cfg.Database.URL)
		if err != nil {
			log.Fatalf("create migrator: %v", err)
		}
		if err := migrator.Up(); err != nil && err != migrate.ErrNoChange {
			log.Fatalf("run migrations: %v", err)
		}
		log.Println("migrations applied")
		return
	}

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("initialize app: %v", err)
	}

	go func() {
		if err := application.Run(); err != nil {
			log.Fatalf("run app: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := application.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
}
