package weather

import (
	"context"
	"time"
)

// Provider abstracts the forecast endpoint. A single call performs one
// request; failures are *FetchError or *ParseError.
type Provider interface {
	Name() string
	FetchForecast(ctx context.Context) ([]ForecastEntry, error)
}

// Store is the contract the in-memory report store must satisfy.
type Store interface {
	SaveReport(report Report)
	GetLatest() (Report, error)
	GetRange(from, to time.Time) ([]Report, error)
}
