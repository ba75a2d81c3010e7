package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"shapeview/internal/config"
	"shapeview/internal/record"
	"shapeview/internal/recordserver"
)

func main() {
	if err := config.LoadEnvFile(".env"); err != nil {
		log.Fatalf("load .env: %v", err)
	}
	cfg := config.LoadServer()

	store, err := record.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer store.Close()

	n, err := recordserver.Seed(context.Background(), store, cfg.AppID, cfg.SeedFile)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	if n > 0 {
		log.Printf("Seeded %d records into app %d from %s", n, cfg.AppID, cfg.SeedFile)
	}

	app := recordserver.New(store, recordserver.Options{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
	})

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Record Server on %s (db: %s)", addr, cfg.DBPath)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
