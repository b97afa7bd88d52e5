package weather

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// Service runs the fetch, aggregate and format pipeline and optionally keeps
// the produced reports in a Store.
type Service struct {
	provider Provider
	store    Store
	now      func() time.Time
}

// NewService creates a new Service. store may be nil when reports are not retained.
func NewService(provider Provider, store Store) *Service {
	return &Service{
		provider: provider,
		store:    store,
		now:      time.Now,
	}
}

// BuildReport fetches the forecast once and renders a summary per day.
// Nothing is returned unless every stage succeeds.
func (s *Service) BuildReport(ctx context.Context) (Report, error) {
	entries, err := s.provider.FetchForecast(ctx)
	if err != nil {
		return Report{}, err
	}

	log.Printf("DEBUG: fetched %d forecast entries from %s", len(entries), s.provider.Name())

	days, err := Aggregate(entries)
	if err != nil {
		return Report{}, fmt.Errorf("aggregate forecast from %s: %w", s.provider.Name(), err)
	}

	return Report{
		ID:        uuid.NewString(),
		Source:    s.provider.Name(),
		FetchedAt: s.now().UTC(),
		Days:      days,
		Text:      FormatReport(days),
	}, nil
}

// Refresh builds a report and saves it. On failure the previously stored
// report is left untouched.
func (s *Service) Refresh(ctx context.Context) (Report, error) {
	if s.store == nil {
		return Report{}, ErrNoStore
	}

	report, err := s.BuildReport(ctx)
	if err != nil {
		log.Printf("ERROR: %s stage failed, keeping last good report: %v", StageOf(err), err)
		return Report{}, err
	}

	s.store.SaveReport(report)
	log.Printf("INFO: stored report %s with %d days", report.ID, len(report.Days))
	return report, nil
}

// GetLatest delegates to the underlying store.
func (s *Service) GetLatest() (Report, error) {
	if s.store == nil {
		return Report{}, ErrNoStore
	}
	return s.store.GetLatest()
}

// GetRange delegates to the underlying store.
func (s *Service) GetRange(from, to time.Time) ([]Report, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	return s.store.GetRange(from, to)
}

// GetDay returns the given day from the latest report.
func (s *Service) GetDay(day DayKey) (DailySummary, error) {
	latest, err := s.GetLatest()
	if err != nil {
		return DailySummary{}, err
	}
	d, ok := latest.Day(day)
	if !ok {
		return DailySummary{}, ErrDayNotFound
	}
	return d, nil
}
