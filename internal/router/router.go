package router

import (
	"database/sql"
	teams_router "evertale-team-optimiser/internal/router/teams"
	units_router "evertale-team-optimiser/internal/router/units"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterConfig struct {
	DB *sql.DB
}

func NewRouter(config RouterConfig) *echo.Echo {
	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")

	unitsGroup := api.Group("/units")
	units_router.Bind(unitsGroup, config.DB)

	teamsGroup := api.Group("/teams")
	teams_router.Bind(teamsGroup, config.DB)

	return e
}
