// Command forecast-summary fetches the forecast once and prints a summary per day.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/i474232898/weather-forecast-summary/internal/config"
	"github.com/i474232898/weather-forecast-summary/internal/weather"
	"github.com/i474232898/weather-forecast-summary/internal/weather/providers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := run(ctx, cfg, os.Stdout); err != nil {
		log.Printf("ERROR: %s stage failed: %v", weather.StageOf(err), err)
		stop()
		os.Exit(1)
	}
}

// run performs one fetch-and-report cycle, writes the text to w and returns it.
// Nothing is written unless the whole pipeline succeeds.
func run(ctx context.Context, cfg *config.AppConfig, w io.Writer) (string, error) {
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	provider := providers.NewForecastEndpointProvider(httpClient, cfg.ForecastURL)
	service := weather.NewService(provider, nil)

	report, err := service.BuildReport(ctx)
	if err != nil {
		return "", err
	}

	if _, err := fmt.Fprint(w, report.Text); err != nil {
		return "", fmt.Errorf("write summary: %w", err)
	}
	return report.Text, nil
}
