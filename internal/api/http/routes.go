package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/nws-weather/internal/store"
	"github.com/i474232898/nws-weather/internal/weather"
)

var validate = validator.New()

// StateReader is the read side of the state store.
type StateReader interface {
	GetLatest(station string) (weather.State, error)
	Available(station string) bool
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, entity *weather.Entity, states StateReader) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather", func(c *fiber.Ctx) error {
		q := stationQuery{Station: c.Query("station", entity.Station())}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		state, err := states.GetLatest(q.Station)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no weather data for requested station")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read weather state")
		}

		return c.JSON(fiber.Map{
			"available": states.Available(q.Station),
			"state":     state,
		})
	})

	v1.Get("/weather/forecast", func(c *fiber.Ctx) error {
		q := forecastQuery{Limit: c.QueryInt("limit", maxForecastLimit)}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		forecast := entity.Forecast()
		if len(forecast) > q.Limit {
			forecast = forecast[:q.Limit]
		}

		return c.JSON(fiber.Map{
			"station":  entity.Station(),
			"forecast": forecast,
		})
	})

	v1.Post("/weather/refresh", func(c *fiber.Ctx) error {
		if err := entity.Update(c.UserContext()); err != nil {
			if errors.Is(err, weather.ErrThrottled) {
				return fiber.NewError(fiber.StatusTooManyRequests, err.Error())
			}
			return fiber.NewError(fiber.StatusBadGateway, "refresh failed: "+err.Error())
		}
		return c.JSON(entity.State())
	})
}

const maxForecastLimit = 14

// stationQuery identifies the station whose state is requested.
type stationQuery struct {
	Station string `validate:"required,alphanum,max=16"`
}

// forecastQuery bounds the number of forecast periods returned.
type forecastQuery struct {
	Limit int `validate:"gte=1,lte=14"`
}
