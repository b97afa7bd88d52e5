package weather

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStageOf(t *testing.T) {
	fetch := &FetchError{URL: "http://x", Err: errors.New("connection refused")}
	parse := &ParseError{Index: 2, Field: "date_time", Err: errors.New("bad")}

	assert.Equal(t, StageFetch, StageOf(fetch))
	assert.Equal(t, StageFetch, StageOf(fmt.Errorf("wrapped: %w", fetch)))
	assert.Equal(t, StageParse, StageOf(parse))
	assert.Equal(t, StageAggregate, StageOf(fmt.Errorf("x: %w", ErrEmptyInput)))
	assert.Equal(t, StageUnknown, StageOf(errors.New("other")))
}

func TestFetchErrorTimeout(t *testing.T) {
	timeout := &FetchError{URL: "http://x", Err: fmt.Errorf("%w: deadline", ErrFetchTimeout)}
	assert.True(t, timeout.Timeout())
	assert.ErrorIs(t, timeout, ErrFetchTimeout)

	status := &FetchError{URL: "http://x", StatusCode: 500, Err: ErrUnexpectedStatus}
	assert.False(t, status.Timeout())
	assert.Equal(t, "fetch http://x: status 500: unexpected status code", status.Error())
}

func TestParseErrorMessage(t *testing.T) {
	err := &ParseError{Index: 1, Field: "average_temperature", Err: errors.New("missing required field")}
	assert.Equal(t, `parse forecast entry 1: field "average_temperature": missing required field`, err.Error())

	err = &ParseError{Index: -1, Err: errors.New("not json")}
	assert.Equal(t, "parse forecast: not json", err.Error())
}
