package main

import (
	"evertale-team-optimiser/internal/catalog"
	"evertale-team-optimiser/internal/db"
	"evertale-team-optimiser/internal/env"

	"github.com/rs/zerolog/log"
)

// imports the unit catalog into postgres, from the community endpoints by default
// use `go run main.go --use-cache` to import from the local file cache instead
func main() {
	e, err := env.Get()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to get environment variables")
	}

	log.Debug().Msg("connecting to database")
	dbClient, err := db.NewDatabase(db.Config{
		Host:     e.PgHost,
		Port:     e.PgPort,
		User:     e.PgUser,
		Password: e.PgPassword,
		Name:     e.PgName,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	defer func(dbClient *db.Database) {
		_ = dbClient.Close()
	}(dbClient)

	client := catalog.New(e)

	log.Debug().Msg("Importing units.")
	err = catalog.ImportUnits(dbClient, client)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to import units.")
	}
	log.Debug().Msg("All units imported OK.")
}
