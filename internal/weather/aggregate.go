package weather

import "sort"

// mean accumulates a running sum for an arithmetic mean.
type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v float64) {
	m.sum += v
	m.n++
}

// value returns the mean, or an absent Optional when nothing was added.
func (m mean) value() Optional {
	if m.n == 0 {
		return Optional{}
	}
	return Some(m.sum / float64(m.n))
}

type bucketAcc struct {
	temp mean
	rain mean
}

func (a bucketAcc) stats() BucketStats {
	return BucketStats{
		Temperature:  a.temp.value(),
		ChanceOfRain: a.rain.value(),
	}
}

// GroupByDay partitions entries by the UTC calendar date of their timestamp.
// Entries keep their input order within a day.
func GroupByDay(entries []ForecastEntry) map[DayKey][]ForecastEntry {
	groups := make(map[DayKey][]ForecastEntry)
	for _, e := range entries {
		k := DayKeyOf(e.Timestamp)
		groups[k] = append(groups[k], e)
	}
	return groups
}

// SummarizeDay computes bucket means and the daily high/low for one day's entries.
// No rounding is applied.
func SummarizeDay(entries []ForecastEntry) (ForecastSummary, error) {
	if len(entries) == 0 {
		return ForecastSummary{}, ErrEmptyInput
	}

	var (
		morning   bucketAcc
		afternoon bucketAcc
		night     bucketAcc
	)

	high := entries[0].AverageTemperature
	low := entries[0].AverageTemperature

	for _, e := range entries {
		if e.AverageTemperature > high {
			high = e.AverageTemperature
		}
		if e.AverageTemperature < low {
			low = e.AverageTemperature
		}

		var acc *bucketAcc
		switch BucketOf(e.Timestamp.UTC().Hour()) {
		case BucketMorning:
			acc = &morning
		case BucketAfternoon:
			acc = &afternoon
		case BucketNight:
			acc = &night
		default:
			// Counted in high/low only.
			continue
		}
		acc.temp.add(e.AverageTemperature)
		acc.rain.add(e.ProbabilityOfRain)
	}

	return ForecastSummary{
		Morning:         morning.stats(),
		Afternoon:       afternoon.stats(),
		Night:           night.stats(),
		HighTemperature: high,
		LowTemperature:  low,
	}, nil
}

// Aggregate groups entries by day and summarizes each day.
// The result is ordered chronologically.
func Aggregate(entries []ForecastEntry) ([]DailySummary, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyInput
	}

	groups := GroupByDay(entries)

	keys := make([]DayKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	days := make([]DailySummary, 0, len(keys))
	for _, k := range keys {
		summary, err := SummarizeDay(groups[k])
		if err != nil {
			return nil, err
		}
		days = append(days, DailySummary{
			Day:     k,
			Entries: len(groups[k]),
			Summary: summary,
		})
	}

	return days, nil
}
