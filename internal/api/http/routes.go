package httpapi

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"github.com/i474232898/weather-forecast-summary/internal/store"
	"github.com/i474232898/weather-forecast-summary/internal/weather"
)

var validate = validator.New()

// refreshTimeout bounds a manual refresh triggered over HTTP.
const refreshTimeout = 30 * time.Second

// RegisterRoutes wires the HTTP handlers into the Fiber app. limiter throttles
// manual refreshes; nil disables throttling.
func RegisterRoutes(app *fiber.App, service *weather.Service, limiter *rate.Limiter) {
	v1 := app.Group("/api/v1")

	v1.Get("/forecast/summary", func(c *fiber.Ctx) error {
		report, err := service.GetLatest()
		if err != nil {
			return lookupError(err, "no forecast report available yet")
		}
		return c.JSON(report)
	})

	v1.Get("/forecast/summary/text", func(c *fiber.Ctx) error {
		report, err := service.GetLatest()
		if err != nil {
			return lookupError(err, "no forecast report available yet")
		}
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.SendString(report.Text)
	})

	v1.Get("/forecast/days/:date", func(c *fiber.Ctx) error {
		q := dayQuery{Date: c.Params("date")}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		day, err := weather.ParseDayKey(q.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		summary, err := service.GetDay(day)
		if err != nil {
			return lookupError(err, "no forecast for requested day")
		}
		return c.JSON(summary)
	})

	v1.Get("/forecast/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		reports, err := service.GetRange(req.From, req.To)
		if err != nil {
			return lookupError(err, "no forecast reports for requested range")
		}

		return c.JSON(fiber.Map{
			"from":    req.From,
			"to":      req.To,
			"reports": reports,
		})
	})

	v1.Post("/forecast/refresh", func(c *fiber.Ctx) error {
		if limiter != nil && !limiter.Allow() {
			return fiber.NewError(fiber.StatusTooManyRequests, "refresh rate limit exceeded")
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), refreshTimeout)
		defer cancel()

		report, err := service.Refresh(ctx)
		if err != nil {
			if errors.Is(err, weather.ErrNoStore) {
				return fiber.NewError(fiber.StatusInternalServerError, "report store not configured")
			}
			return fiber.NewError(fiber.StatusBadGateway, fmt.Sprintf("%s stage failed: %v", weather.StageOf(err), err))
		}

		return c.Status(fiber.StatusCreated).JSON(report)
	})
}

func lookupError(err error, notFoundMsg string) error {
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, weather.ErrDayNotFound) {
		return fiber.NewError(fiber.StatusNotFound, notFoundMsg)
	}
	return fiber.NewError(fiber.StatusInternalServerError, "failed to read forecast data")
}

// dayQuery holds the path parameter of the day endpoint.
type dayQuery struct {
	Date string `validate:"required,datetime=2006-01-02"`
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	From time.Time `validate:"required"`
	To   time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
