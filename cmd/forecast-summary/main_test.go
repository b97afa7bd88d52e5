package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-forecast-summary/internal/config"
	"github.com/i474232898/weather-forecast-summary/internal/weather"
)

func serve(t *testing.T, status int, body string) *config.AppConfig {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	cfg := config.Defaults()
	cfg.ForecastURL = srv.URL
	cfg.HTTPTimeout = 2 * time.Second
	return cfg
}

func TestRunWritesAndReturnsSummary(t *testing.T) {
	cfg := serve(t, http.StatusOK, `[
		{"date_time": "2023-10-04T02:00:00Z", "average_temperature": 3, "probability_of_rain": 10},
		{"date_time": "2023-10-03T07:00:00Z", "average_temperature": 10, "probability_of_rain": 0},
		{"date_time": "2023-10-03T09:00:00Z", "average_temperature": 20, "probability_of_rain": 100},
		{"date_time": "2023-10-03T14:00:00Z", "average_temperature": 30, "probability_of_rain": 50},
		{"date_time": "2023-10-03T20:00:00Z", "average_temperature": 5, "probability_of_rain": 0}
	]`)

	var out bytes.Buffer
	text, err := run(context.Background(), cfg, &out)
	require.NoError(t, err)

	want := "Day: Tuesday October 3\n\n" +
		"Morning Average Temperature: 15\n" +
		"Morning Chance Of Rain: 50.0\n" +
		"Afternoon Average Temperature: 30\n" +
		"Afternoon Chance Of Rain: 50.0\n" +
		"High Temperature: 30\n" +
		"Low Temperature: 5\n" +
		"\n" +
		"Day: Wednesday October 4\n\n" +
		"Morning Average Temperature: Insufficient forecast data\n" +
		"Morning Chance Of Rain: Insufficient forecast data\n" +
		"Afternoon Average Temperature: Insufficient forecast data\n" +
		"Afternoon Chance Of Rain: Insufficient forecast data\n" +
		"High Temperature: 3\n" +
		"Low Temperature: 3\n" +
		"\n"

	assert.Equal(t, want, text)
	assert.Equal(t, want, out.String())
}

func TestRunFailuresProduceNoOutput(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		stage  weather.Stage
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `boom`, stage: weather.StageFetch},
		{name: "malformed body", status: http.StatusOK, body: `{"not": "a list"}`, stage: weather.StageParse},
		{name: "empty forecast", status: http.StatusOK, body: `[]`, stage: weather.StageAggregate},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := serve(t, tc.status, tc.body)

			var out bytes.Buffer
			text, err := run(context.Background(), cfg, &out)
			require.Error(t, err)
			assert.Equal(t, tc.stage, weather.StageOf(err))
			assert.Empty(t, text)
			assert.Empty(t, out.String())
		})
	}
}

func TestRunFetchErrorType(t *testing.T) {
	cfg := serve(t, http.StatusNotFound, ``)

	_, err := run(context.Background(), cfg, &bytes.Buffer{})
	var fe *weather.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusNotFound, fe.StatusCode)
}
