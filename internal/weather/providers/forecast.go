package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/dustin/go-humanize"
	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-forecast-summary/internal/weather"
)

// ForecastEndpointProvider implements weather.Provider for an HTTP endpoint
// serving a JSON array of hourly forecast entries.
type ForecastEndpointProvider struct {
	name    string
	url     string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker

	maxBodyBytes int64
}

// defaultMaxBodyBytes caps how much of a response body is read.
const defaultMaxBodyBytes = 10 << 20

func NewForecastEndpointProvider(client *http.Client, url string) *ForecastEndpointProvider {
	return &ForecastEndpointProvider{
		name:    "forecast-endpoint",
		url:     url,
		client:  client,
		circuit: newCircuitBreaker("forecast-endpoint"),

		maxBodyBytes: defaultMaxBodyBytes,
	}
}

func (p *ForecastEndpointProvider) Name() string {
	return p.name
}

func (p *ForecastEndpointProvider) FetchForecast(ctx context.Context) ([]weather.ForecastEntry, error) {
	resp, err := doRequest(ctx, p.client, p.circuit, p.url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, p.maxBodyBytes+1))
	if err != nil {
		return nil, classifyFetchError(p.url, fmt.Errorf("read response body: %w", err))
	}
	if int64(len(body)) > p.maxBodyBytes {
		return nil, &weather.ParseError{
			Index: -1,
			Err:   fmt.Errorf("%w: limit is %s", errBodyTooLarge, humanize.Bytes(uint64(p.maxBodyBytes))),
		}
	}

	log.Printf("DEBUG: %s returned %s", p.name, humanize.Bytes(uint64(len(body))))

	return decodeEntries(body)
}

// entryPayload mirrors one element of the response. Pointers distinguish a
// missing field from a zero value.
type entryPayload struct {
	DateTime           *string  `json:"date_time"`
	AverageTemperature *float64 `json:"average_temperature"`
	ProbabilityOfRain  *float64 `json:"probability_of_rain"`
}

var (
	errNotArray     = errors.New("expected a JSON array of forecast entries")
	errMissingField = errors.New("missing required field")
	errBodyTooLarge = errors.New("response body too large")
	errNotISO8601   = errors.New("timestamp is not ISO-8601")
)

// isoTimestamp matches YYYY-MM-DD, optionally followed by "T" or a space and
// hh:mm[:ss[.frac]], and an optional numeric UTC offset.
var isoTimestamp = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}([T ]\d{2}:\d{2}(:\d{2}(\.\d+)?)?([+-]\d{2}:?\d{2})?)?$`)

func decodeEntries(body []byte) ([]weather.ForecastEntry, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		if !json.Valid(trimmed) {
			return nil, &weather.ParseError{Index: -1, Err: errors.New("response body is not valid JSON")}
		}
		return nil, &weather.ParseError{Index: -1, Err: errNotArray}
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, &weather.ParseError{Index: -1, Err: err}
	}

	entries := make([]weather.ForecastEntry, 0, len(raw))
	for i, item := range raw {
		var payload entryPayload
		if err := json.Unmarshal(item, &payload); err != nil {
			return nil, &weather.ParseError{Index: i, Err: err}
		}

		switch {
		case payload.DateTime == nil:
			return nil, &weather.ParseError{Index: i, Field: "date_time", Err: errMissingField}
		case payload.AverageTemperature == nil:
			return nil, &weather.ParseError{Index: i, Field: "average_temperature", Err: errMissingField}
		case payload.ProbabilityOfRain == nil:
			return nil, &weather.ParseError{Index: i, Field: "probability_of_rain", Err: errMissingField}
		}

		ts, err := parseTimestamp(*payload.DateTime)
		if err != nil {
			return nil, &weather.ParseError{Index: i, Field: "date_time", Err: err}
		}

		entries = append(entries, weather.ForecastEntry{
			Timestamp:          ts,
			AverageTemperature: *payload.AverageTemperature,
			ProbabilityOfRain:  *payload.ProbabilityOfRain,
		})
	}

	return entries, nil
}

// parseTimestamp reads an ISO-8601 timestamp. A trailing "Z" is rewritten to
// "+00:00" first; values without an offset are taken as UTC. Anything not
// ISO-shaped is rejected before dateparse sees it.
func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	if strings.HasSuffix(s, "Z") {
		s = strings.TrimSuffix(s, "Z") + "+00:00"
	}
	if !isoTimestamp.MatchString(s) {
		return time.Time{}, fmt.Errorf("%w: %q", errNotISO8601, s)
	}

	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts.UTC(), nil
	}

	ts, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return ts.UTC(), nil
}
