package weather

import (
	"encoding/json"
	"fmt"
	"time"
)

// ForecastEntry is a single timestamped forecast point as served by the endpoint.
type ForecastEntry struct {
	Timestamp          time.Time `json:"date_time"` // always UTC
	AverageTemperature float64   `json:"average_temperature"`
	ProbabilityOfRain  float64   `json:"probability_of_rain"`
}

// DayKey is a calendar date (UTC) without a time component.
type DayKey struct {
	Year  int
	Month time.Month
	Day   int
}

const dayKeyLayout = "2006-01-02"

// DayKeyOf returns the UTC calendar date of t.
func DayKeyOf(t time.Time) DayKey {
	y, m, d := t.UTC().Date()
	return DayKey{Year: y, Month: m, Day: d}
}

// ParseDayKey parses a YYYY-MM-DD date.
func ParseDayKey(s string) (DayKey, error) {
	t, err := time.Parse(dayKeyLayout, s)
	if err != nil {
		return DayKey{}, fmt.Errorf("invalid day %q: %w", s, err)
	}
	return DayKeyOf(t), nil
}

// Time returns midnight UTC of the day.
func (d DayKey) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d DayKey) String() string {
	return d.Time().Format(dayKeyLayout)
}

// Before reports whether d is an earlier calendar day than o.
func (d DayKey) Before(o DayKey) bool {
	return d.Time().Before(o.Time())
}

func (d DayKey) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *DayKey) UnmarshalText(b []byte) error {
	k, err := ParseDayKey(string(b))
	if err != nil {
		return err
	}
	*d = k
	return nil
}

// Optional is a float that may be absent. A zero Value with Valid set is a
// real zero, not missing data.
type Optional struct {
	Value float64
	Valid bool
}

// Some returns a present Optional holding v.
func Some(v float64) Optional {
	return Optional{Value: v, Valid: true}
}

// Get returns the value and whether it is present.
func (o Optional) Get() (float64, bool) {
	return o.Value, o.Valid
}

func (o Optional) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

func (o *Optional) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*o = Optional{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

// Bucket is a time-of-day period used for averaging.
type Bucket int

const (
	BucketNone Bucket = iota
	BucketMorning
	BucketAfternoon
	BucketNight
)

func (b Bucket) String() string {
	switch b {
	case BucketMorning:
		return "morning"
	case BucketAfternoon:
		return "afternoon"
	case BucketNight:
		return "night"
	default:
		return "none"
	}
}

// BucketOf classifies an hour of day using half-open ranges:
// morning [6,12), afternoon [12,18), night [18,22). Anything else is BucketNone.
func BucketOf(hour int) Bucket {
	switch {
	case hour >= 6 && hour < 12:
		return BucketMorning
	case hour >= 12 && hour < 18:
		return BucketAfternoon
	case hour >= 18 && hour < 22:
		return BucketNight
	default:
		return BucketNone
	}
}

// BucketStats holds the means of one bucket. Both are absent when the bucket
// had no entries.
type BucketStats struct {
	Temperature  Optional `json:"averageTemperature"`
	ChanceOfRain Optional `json:"chanceOfRain"`
}

// ForecastSummary is the aggregated view of a single day.
// High and Low cover every entry of the day, including those outside all buckets.
type ForecastSummary struct {
	Morning   BucketStats `json:"morning"`
	Afternoon BucketStats `json:"afternoon"`
	Night     BucketStats `json:"night"`

	HighTemperature float64 `json:"highTemperature"`
	LowTemperature  float64 `json:"lowTemperature"`
}

// Bucket returns the stats for b. BucketNone yields empty stats.
func (s ForecastSummary) Bucket(b Bucket) BucketStats {
	switch b {
	case BucketMorning:
		return s.Morning
	case BucketAfternoon:
		return s.Afternoon
	case BucketNight:
		return s.Night
	default:
		return BucketStats{}
	}
}

// DailySummary pairs a day with its summary.
type DailySummary struct {
	Day     DayKey          `json:"day"`
	Entries int             `json:"entries"`
	Summary ForecastSummary `json:"summary"`
}

// Report is the outcome of one fetch-and-aggregate run.
// Days are ordered chronologically.
type Report struct {
	ID        string         `json:"id"`
	Source    string         `json:"source"`
	FetchedAt time.Time      `json:"fetchedAt"`
	Days      []DailySummary `json:"days"`
	Text      string         `json:"text"`
}

// Day returns the summary for the given day, if the report has one.
func (r Report) Day(k DayKey) (DailySummary, bool) {
	for _, d := range r.Days {
		if d.Day == k {
			return d, true
		}
	}
	return DailySummary{}, false
}
