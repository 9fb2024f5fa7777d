package units_router

import (
	"database/sql"
	"evertale-team-optimiser/internal/models"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

func Bind(e *echo.Group, db *sql.DB) *echo.Group {
	e.GET("", func(c echo.Context) error {
		units, err := models.GetUnits(db)
		if err != nil {
			log.Error().Err(err).Msg("Failed to get units")
			return c.String(500, err.Error())
		}

		return c.JSON(200, units)
	})

	e.GET("/:unit_id", func(c echo.Context) error {
		id := c.Param("unit_id")

		unit, err := models.GetUnitById(db, id)
		if err != nil {
			log.Error().Err(err).Msgf("Failed to get unit %s", id)
			return c.String(404, "Unit not found")
		}

		return c.JSON(200, unit)
	})

	return e
}
