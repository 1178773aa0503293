package main

import (
	"context"
	"net/http"

	"github.com/apasimboraymond02/Tournament-app/internal/config"
	"github.com/apasimboraymond02/Tournament-app/internal/db"
	"github.com/apasimboraymond02/Tournament-app/internal/events"
	"github.com/apasimboraymond02/Tournament-app/internal/service"
	"github.com/apasimboraymond02/Tournament-app/internal/store"
	"github.com/charmbracelet/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", "error", err)
	}

	database := db.InitDB(cfg.DatabaseDSN)
	defer database.Close()

	if err := db.RunMigrations(database.DB, cfg.MigrationsDir); err != nil {
		log.Fatal("Failed to run migrations", "error", err)
	}

	var publisher events.Publisher = events.Noop{}
	if cfg.PubSubProjectID != "" {
		publisher = events.New(cfg.PubSubProjectID)
	}

	registry := store.NewBracketStore()
	tournamentStore := store.NewTournamentStore(database)
	tournamentService := service.NewTournamentService(database, registry, tournamentStore, publisher)
	matchService := service.NewMatchService(database, registry, tournamentStore, publisher)

	if err := tournamentService.LoadActive(context.Background()); err != nil {
		log.Fatal("Failed to rehydrate brackets", "error", err)
	}

	router := newRouter(tournamentService, matchService)

	log.Info("Server starting", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatal("Server stopped", "error", err)
	}
}
