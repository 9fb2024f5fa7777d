package main

import (
	"evertale-team-optimiser/internal/db"
	"evertale-team-optimiser/internal/env"
	"evertale-team-optimiser/internal/router"

	"github.com/rs/zerolog/log"
)

func main() {
	environment, err := env.Get()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get environment variables")
	}

	dbClient, err := db.CreateTeamOptimiserDBClient(environment)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to db")
	}

	cfg := router.RouterConfig{DB: dbClient.Conn}
	r := router.NewRouter(cfg)

	err = r.Start(":8080")
	if err != nil {
		return
	}
}
