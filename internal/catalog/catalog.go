package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"evertale-team-optimiser/internal/cache"
	"evertale-team-optimiser/internal/db"
	"evertale-team-optimiser/internal/helpers"
	"evertale-team-optimiser/internal/models"
)

// ImportUnits pulls the catalog into the units table. With --use-cache the
// units come from the local file cache instead of the network; fresh fetches
// always refresh the cache, and --cache-only stops before touching the db.
func ImportUnits(database *db.Database, client *Client) error {
	useCache := helpers.ContainsStr(os.Args, "--use-cache")

	unitsCache, err := cache.NewJSONFileCache("./file-caches/units-cache.json")
	if err != nil {
		return err
	}

	if helpers.ContainsStr(os.Args, "--purge-cache") {
		fmt.Println("--purge-cache provided - purging units file cache")
		err := unitsCache.Purge()
		if err != nil {
			return err
		}
	}

	var units []models.UnitRecord
	if useCache {
		log.Info().Msg("--use-cache provided - pulling units from file cache.")
		data, err := getUnitsFromCache(unitsCache)
		if err != nil {
			log.Error().Err(err).Msg("Failed to get units from file cache.")
			return err
		}
		log.Info().Msg("Retrieved units from file cache.")
		units = data
	} else {
		log.Info().Msg("Fetching units from the catalog.")
		res, err := getUnitsFromCatalog(client)
		if err != nil {
			log.Error().Err(err).Msg("Failed to get units from the catalog.")
			return err
		}
		log.Info().Msgf("Retrieved %d units from the catalog.", len(res))
		units = res

		log.Info().Msg("Updating unit file cache with catalog units.")
		err = updateUnitFileCache(unitsCache, units)
		if err != nil {
			log.Error().Err(err).Msg("Failed to update unit cache with catalog units.")
			return err
		}
		log.Info().Msgf("Added %d units to file cache.", len(units))
	}

	if helpers.ContainsStr(os.Args, "--cache-only") {
		log.Info().Msg("--cache-only was provided - Not persisting units in db.")
		return nil
	}

	log.Info().Msg("Beginning transaction.")
	tx, err := database.Conn.Begin()
	if err != nil {
		log.Error().Err(err).Msg("Failed to begin transaction.")
		return err
	}

	err = models.UpsertManyUnit(tx, units)
	if err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return rollbackErr
		}
		return err
	}

	err = tx.Commit()
	if err != nil {
		return err
	}

	return nil
}

func getUnitsFromCache(unitsCache cache.FileCache) ([]models.UnitRecord, error) {
	all, err := unitsCache.All()
	if err != nil {
		log.Error().Err(err).Msg("failed to get units from cache")
		return nil, err
	}

	keys := all.Keys()
	if len(keys) == 0 {
		return nil, errors.New("no units to import found in cache")
	}

	units := make([]models.UnitRecord, 0, len(keys))
	for i := 0; i < len(keys); i++ {
		key := keys[i]
		unit := models.UnitRecord{}
		err := all.Get(key, &unit)
		if err != nil {
			log.Error().Err(err).Msgf("failed to get unit %s from cache", key)
			return nil, err
		}

		units = append(units, unit)
	}

	return units, nil
}

func getUnitsFromCatalog(client *Client) ([]models.UnitRecord, error) {
	raw, err := client.FetchUnits(context.Background())
	if err != nil {
		return nil, err
	}

	units := NormalizeUnits(raw)
	if len(units) == 0 {
		return nil, errors.New("no units to import in catalog response")
	}

	skills, err := client.FetchLeaderSkills(context.Background())
	if err != nil {
		// leader skills are an enrichment, not a requirement
		log.Warn().Err(err).Msg("Failed to fetch leader skills, importing units without them.")
		return units, nil
	}

	return MergeLeaderSkills(units, skills), nil
}

func updateUnitFileCache(unitsCache cache.FileCache, units []models.UnitRecord) error {
	for i := 0; i < len(units); i++ {
		log.Debug().Msgf("Storing unit %s in file cache", units[i].ID)
		err := unitsCache.Store(units[i].ID, units[i])
		if err != nil {
			return err
		}
	}

	return nil
}
