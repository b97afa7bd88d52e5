package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-forecast-summary/internal/weather"
)

const defaultInterval = 15 * time.Minute

// Refresher is the part of weather.Service the scheduler drives.
type Refresher interface {
	Refresh(ctx context.Context) (weather.Report, error)
}

// Scheduler periodically refreshes the forecast report.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   Refresher
	interval  time.Duration
	timeout   time.Duration
}

// New creates a new Scheduler. timeout bounds each refresh run.
func New(interval, timeout time.Duration, service Refresher) *Scheduler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		service:   service,
		interval:  interval,
		timeout:   timeout,
	}
}

// Start schedules the refresh job and starts the underlying scheduler.
// The first run happens immediately.
func (s *Scheduler) Start() error {
	interval := s.interval
	if interval <= 0 {
		interval = defaultInterval
	}

	_, err := s.scheduler.Every(interval).SingletonMode().Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) run() {
	log.Println("scheduler: running forecast refresh job")

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	report, err := s.service.Refresh(ctx)
	if err != nil {
		log.Printf("scheduler: refresh failed (%s): %v", weather.StageOf(err), err)
		return
	}
	log.Printf("scheduler: completed forecast refresh job, report %s", report.ID)
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
