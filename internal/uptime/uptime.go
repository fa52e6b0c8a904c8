// Package uptime parses human-readable uptime strings such as
// "5 days, 3 hours, 12 minutes" into fractional day counts.
//
// Parse reports why a string could not be read; Days folds every failure
// into zero so a single bad row never fails a batch.
package uptime

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	hoursPerDay   = 24
	minutesPerDay = 1440

	// dayMarker must appear in a string for any magnitude to be read.
	dayMarker = "days"

	segmentSeparator = ", "
	maxSegments      = 3
)

var (
	// ErrNoDays is returned for strings without a day component.
	// Sub-day uptimes ("3 hours, 10 minutes") fall in this case.
	ErrNoDays = errors.New("uptime has no day component")

	// ErrMalformed is returned when a magnitude cannot be read as a
	// non-negative integer.
	ErrMalformed = errors.New("malformed uptime")
)

// Duration is a parsed uptime broken into its magnitudes. Magnitudes are
// whole numbers held as float64 so counts beyond the int range still parse.
type Duration struct {
	Days    float64
	Hours   float64
	Minutes float64
}

// InDays returns the duration as a fractional number of days.
func (d Duration) InDays() float64 {
	return d.Days + d.Hours/hoursPerDay + d.Minutes/minutesPerDay
}

// Parse reads s as "<days> days[, <hours> hours][, <minutes> minutes]".
//
// Magnitudes are positional: the second segment is always hours and the third
// always minutes, whatever unit word follows them. Segments past the third are
// ignored. On error the returned Duration is zero.
func Parse(s string) (Duration, error) {
	if !strings.Contains(s, dayMarker) {
		return Duration{}, ErrNoDays
	}

	segments := strings.Split(s, segmentSeparator)
	if len(segments) > maxSegments {
		segments = segments[:maxSegments]
	}

	var magnitudes [maxSegments]float64
	for i, segment := range segments {
		n, err := leadingMagnitude(segment)
		if err != nil {
			return Duration{}, fmt.Errorf("%w: segment %d of %q: %v", ErrMalformed, i, s, err)
		}
		magnitudes[i] = n
	}

	return Duration{
		Days:    magnitudes[0],
		Hours:   magnitudes[1],
		Minutes: magnitudes[2],
	}, nil
}

// Days returns the uptime in s as fractional days, or 0 if s cannot be parsed.
// It never fails and never returns a negative value.
func Days(s string) float64 {
	d, err := Parse(s)
	if err != nil {
		return 0
	}
	return d.InDays()
}

// leadingMagnitude parses the first whitespace-delimited token of segment as
// a non-negative integer. Integers too large for int are read as the nearest
// float64.
func leadingMagnitude(segment string) (float64, error) {
	fields := strings.Fields(segment)
	if len(fields) == 0 {
		return 0, errors.New("empty segment")
	}

	var n float64
	i, err := strconv.Atoi(fields[0])
	switch {
	case err == nil:
		n = float64(i)
	case errors.Is(err, strconv.ErrRange):
		// Atoi only reports ErrRange for well-formed integers.
		n, err = strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return 0, err
		}
	default:
		return 0, err
	}

	if n < 0 {
		return 0, fmt.Errorf("negative magnitude %s", fields[0])
	}
	return n, nil
}

// FormatDays renders a day count for CSV output using the shortest decimal
// that round-trips, always with a fractional part ("7.0", "10.083333333333334").
func FormatDays(days float64) string {
	s := strconv.FormatFloat(days, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
