package main

import (
	"context"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"goanova/adapters/memory"
	"goanova/adapters/postgres"
	"goanova/app"
	"goanova/internal/config"
	"goanova/ports"
	"goanova/ui"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var runs ports.RunRepository
	if cfg.Database.URL != "" {
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		repo := postgres.NewRunRepository(db)
		if err := repo.EnsureSchema(context.Background()); err != nil {
			log.Fatalf("Failed to prepare database schema: %v", err)
		}
		runs = repo
		log.Println("Storing runs in PostgreSQL")
	} else {
		runs = memory.NewRunRepository()
		log.Println("DATABASE_URL not set, storing runs in memory")
	}

	service := app.NewAnalysisService(runs)
	a := ui.NewApp(service, runs)
	if err := a.Start(cfg.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
