package importer

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// excelEpochOffset is the serial number of 1970-01-01 in spreadsheet date encoding.
	excelEpochOffset = 25569
	// maxSerial is 9999-12-31, the last day a spreadsheet can encode.
	maxSerial = 2958465
)

var (
	isoLayouts = []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		time.DateOnly,
		"2006/01/02",
	}

	dateSeparators = regexp.MustCompile(`[-/.]`)
)

// ParseDate reads a spreadsheet date cell and returns the calendar day at UTC midnight.
// It accepts serial numbers, ISO strings and day-first D-M-YYYY tokens separated by
// '-', '/' or '.'. Anything else, including a missing value, yields the day of now.
func ParseDate(v any, now time.Time) time.Time {
	fallback := day(now)

	switch x := v.(type) {
	case nil:
		return fallback
	case time.Time:
		return day(x)
	case float64:
		return fromSerial(x, fallback)
	case int:
		return fromSerial(float64(x), fallback)
	case int64:
		return fromSerial(float64(x), fallback)
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return fromSerial(f, fallback)
		}
	}

	s := strings.TrimSpace(fmt.Sprint(v))
	if s == "" {
		return fallback
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return day(t)
		}
	}
	if t, ok := parseDayFirst(s); ok {
		return t
	}
	return fallback
}

func parseDayFirst(s string) (time.Time, bool) {
	parts := dateSeparators.Split(s, -1)
	if len(parts) != 3 || len(parts[0]) > 2 || len(parts[2]) != 4 {
		return time.Time{}, false
	}
	d, errD := strconv.Atoi(parts[0])
	m, errM := strconv.Atoi(parts[1])
	y, errY := strconv.Atoi(parts[2])
	if errD != nil || errM != nil || errY != nil {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	// Reject values time.Date would normalize, like 31-02-2025.
	if t.Day() != d || int(t.Month()) != m {
		return time.Time{}, false
	}
	return t, true
}

func fromSerial(serial float64, fallback time.Time) time.Time {
	if math.IsNaN(serial) || serial < 0 || serial > maxSerial {
		return fallback
	}
	seconds := (serial - excelEpochOffset) * 86400
	return day(time.Unix(int64(seconds), 0).UTC())
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
