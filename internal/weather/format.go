package weather

import (
	"math"
	"strconv"
	"strings"
)

// InsufficientData replaces a bucket value that has no contributing entries.
const InsufficientData = "Insufficient forecast data"

// FormatDay renders the text block for one day. Night values are not rendered.
func FormatDay(day DayKey, s ForecastSummary) string {
	var b strings.Builder

	// "January 2" drops the leading zero of the day of month.
	b.WriteString("Day: " + day.Time().Format("Monday January 2") + "\n\n")

	writeLine(&b, "Morning Average Temperature", formatTemperature(s.Morning.Temperature))
	writeLine(&b, "Morning Chance Of Rain", formatChance(s.Morning.ChanceOfRain))
	writeLine(&b, "Afternoon Average Temperature", formatTemperature(s.Afternoon.Temperature))
	writeLine(&b, "Afternoon Chance Of Rain", formatChance(s.Afternoon.ChanceOfRain))
	writeLine(&b, "High Temperature", formatRaw(s.HighTemperature))
	writeLine(&b, "Low Temperature", formatRaw(s.LowTemperature))

	return b.String()
}

// FormatReport renders every day in order, each block followed by a blank line.
func FormatReport(days []DailySummary) string {
	var b strings.Builder
	for _, d := range days {
		b.WriteString(FormatDay(d.Day, d.Summary))
		b.WriteString("\n")
	}
	return b.String()
}

func writeLine(b *strings.Builder, label, value string) {
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteString("\n")
}

// formatTemperature rounds a mean temperature to the nearest integer, ties to even.
func formatTemperature(o Optional) string {
	v, ok := o.Get()
	if !ok {
		return InsufficientData
	}
	return formatRaw(math.RoundToEven(v))
}

// formatChance rounds a mean rain probability to two decimal places from its
// exact binary value and keeps at least one decimal ("50.0", "33.3", "33.33").
func formatChance(o Optional) string {
	v, ok := o.Get()
	if !ok {
		return InsufficientData
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimSuffix(s, "0")
	if s == "-0.0" {
		s = "0.0"
	}
	return s
}

func formatRaw(v float64) string {
	if v == 0 {
		// Avoid "-0".
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
