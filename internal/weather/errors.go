package weather

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when there are no forecast entries to aggregate.
	ErrEmptyInput = errors.New("no forecast entries to aggregate")

	ErrFetchTimeout     = errors.New("forecast request timed out")
	ErrUnexpectedStatus = errors.New("unexpected status code")
	ErrCircuitOpen      = errors.New("circuit breaker open")

	ErrNoStore     = errors.New("no report store configured")
	ErrDayNotFound = errors.New("no forecast for requested day")
)

// FetchError reports a failed request to the forecast endpoint: transport
// failures, timeouts and non-2xx responses.
type FetchError struct {
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Timeout reports whether the request was abandoned because it took too long.
func (e *FetchError) Timeout() bool {
	return errors.Is(e.Err, ErrFetchTimeout)
}

// ParseError reports a response body that is not a JSON array of forecast entries.
// Index is -1 when the failure is not tied to a single element.
type ParseError struct {
	Index int
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	switch {
	case e.Index < 0:
		return fmt.Sprintf("parse forecast: %v", e.Err)
	case e.Field == "":
		return fmt.Sprintf("parse forecast entry %d: %v", e.Index, e.Err)
	default:
		return fmt.Sprintf("parse forecast entry %d: field %q: %v", e.Index, e.Field, e.Err)
	}
}

func (e *ParseError) Unwrap() error { return e.Err }

// Stage names the pipeline step an error came from.
type Stage string

const (
	StageFetch     Stage = "fetch"
	StageParse     Stage = "parse"
	StageAggregate Stage = "aggregate"
	StageUnknown   Stage = "unknown"
)

// StageOf maps an error produced by the pipeline to its stage.
func StageOf(err error) Stage {
	var fe *FetchError
	var pe *ParseError
	switch {
	case errors.As(err, &fe):
		return StageFetch
	case errors.As(err, &pe):
		return StageParse
	case errors.Is(err, ErrEmptyInput):
		return StageAggregate
	default:
		return StageUnknown
	}
}
