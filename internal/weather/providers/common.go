package providers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/i474232898/weather-forecast-summary/internal/weather"
	"github.com/sony/gobreaker"
)

var errNoHTTPClient = errors.New("http client not configured")

// newCircuitBreaker returns the breaker settings shared by endpoint providers.
func newCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
}

// doRequest executes exactly one GET through the circuit breaker. Any failure
// comes back as a *weather.FetchError; the caller owns the body on success.
func doRequest(
	ctx context.Context,
	client *http.Client,
	cb *gobreaker.CircuitBreaker,
	rawURL string,
) (*http.Response, error) {
	if client == nil {
		return nil, &weather.FetchError{URL: rawURL, Err: errNoHTTPClient}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &weather.FetchError{URL: rawURL, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := client.Do(req)
		if execErr != nil {
			return nil, execErr
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, &weather.FetchError{
				URL:        rawURL,
				StatusCode: resp.StatusCode,
				Err:        weather.ErrUnexpectedStatus,
			}
		}

		return resp, nil
	})
	if err != nil {
		return nil, classifyFetchError(rawURL, err)
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, &weather.FetchError{URL: rawURL, Err: fmt.Errorf("unexpected result type from circuit breaker")}
	}
	return resp, nil
}

func classifyFetchError(rawURL string, err error) error {
	var fe *weather.FetchError
	if errors.As(err, &fe) {
		return fe
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &weather.FetchError{URL: rawURL, Err: fmt.Errorf("%w: %v", weather.ErrCircuitOpen, err)}
	}

	if isTimeout(err) {
		return &weather.FetchError{URL: rawURL, Err: fmt.Errorf("%w: %v", weather.ErrFetchTimeout, err)}
	}

	return &weather.FetchError{URL: rawURL, Err: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
