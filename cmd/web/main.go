package main

import (
	"log"
	"math/rand/v2"
	"net/http"

	"github.com/AdamBeresnev/knockout/internal/config"
	"github.com/AdamBeresnev/knockout/internal/db"
	"github.com/AdamBeresnev/knockout/internal/service"
	"github.com/AdamBeresnev/knockout/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	database := db.InitDB(cfg.DatabasePath)
	defer database.Close()

	if err := db.RunMigrations(database.DB, cfg.MigrationsURL); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	var rng *rand.Rand
	if cfg.ByeSeed != nil {
		rng = rand.New(rand.NewPCG(*cfg.ByeSeed, *cfg.ByeSeed))
		log.Printf("Bye draw seeded with %d", *cfg.ByeSeed)
	}

	tournamentStore := store.NewTournamentStore(database)
	app := &application{
		tournaments: service.NewTournamentService(database, tournamentStore),
		teams:       service.NewTeamService(database, tournamentStore),
		brackets:    service.NewBracketService(database, tournamentStore, rng),
		matches:     service.NewMatchService(database, tournamentStore),
	}

	router := newRouter(app, cfg.AllowedOrigins)

	log.Printf("Server starting on http://localhost%s", cfg.Addr())
	if err := http.ListenAndServe(cfg.Addr(), router); err != nil {
		log.Fatal(err)
	}
}
