// Package dates normalizes the heterogeneous date representations found in
// CMMS spreadsheet exports into canonical calendar dates and ISO week buckets.
package dates

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrUnparseable is returned when a value cannot be interpreted as a date in
// any supported representation. Callers treat it as "no date", never as a
// batch failure.
var ErrUnparseable = errors.New("unparseable date")

// serialEpoch is the day the spreadsheet serial scheme anchors to. Serial day
// 1 is 1899-12-31, matching the Excel 1900 date system including its
// historical leap year quirk.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// genericLayouts are the fallback layouts tried after the explicit
// representations have been rejected.
var genericLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02 Jan 2006",
	"Jan 2, 2006",
}

// Parse converts a raw cell value into a canonical calendar date.
// Representations are tried in a fixed precedence order, first success wins:
//
//  1. numeric serial day count (spreadsheet serial date)
//  2. ISO string with a YYYY-MM-DD prefix
//  3. slash / dash / space delimited day month year triplet
//  4. generic layouts
//
// Anything else yields ErrUnparseable; Parse never panics.
func Parse(value any) (time.Time, error) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, ErrUnparseable
	case time.Time:
		if v.IsZero() {
			return time.Time{}, ErrUnparseable
		}
		return dateOnly(v), nil
	case float64:
		return fromSerial(v)
	case float32:
		return fromSerial(float64(v))
	case int:
		return fromSerial(float64(v))
	case int64:
		return fromSerial(float64(v))
	case string:
		return parseString(v)
	default:
		return time.Time{}, fmt.Errorf("%w: unsupported type %T", ErrUnparseable, value)
	}
}

// ParseOrNil is a convenience wrapper returning a *time.Time for record
// fields where "unparseable" is represented as nil.
func ParseOrNil(value any) *time.Time {
	t, err := Parse(value)
	if err != nil {
		return nil
	}
	return &t
}

func parseString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrUnparseable
	}

	// Serial day counts show up as plain numeric strings in some exports.
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		return fromSerial(serial)
	}

	// ISO prefixed strings: YYYY-MM-DD optionally followed by a time part.
	if t, ok := parseISO(s); ok {
		return t, nil
	}

	// Day month year triplet with /, - or space separators.
	if t, ok := parseDayMonthYear(s); ok {
		return t, nil
	}

	for _, layout := range genericLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOnly(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseable, s)
}

func fromSerial(serial float64) (time.Time, error) {
	// Serial 0 predates the scheme; negative values are rejected outright.
	if serial <= 0 || serial > 200000 {
		return time.Time{}, fmt.Errorf("%w: serial %v out of range", ErrUnparseable, serial)
	}
	return serialEpoch.AddDate(0, 0, int(serial)), nil
}

func parseISO(s string) (time.Time, bool) {
	if len(s) < 10 {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", s[:10])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func parseDayMonthYear(s string) (time.Time, bool) {
	sep := ""
	for _, candidate := range []string{"/", "-", " "} {
		if strings.Contains(s, candidate) {
			sep = candidate
			break
		}
	}
	if sep == "" {
		return time.Time{}, false
	}

	parts := strings.Split(s, sep)
	if len(parts) != 3 {
		return time.Time{}, false
	}

	day, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return time.Time{}, false
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflowing days (e.g. 31/04) into the next
	// month; reject those instead of silently shifting the date.
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

// FormatDisplay renders a date as zero padded DD/MM/YYYY. The zero time
// renders as the empty string.
func FormatDisplay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

// WeekBucket returns the ISO-8601 year-week bucket for a date, formatted as
// "{year}-W{week:02d}". Weeks start Monday; week 1 contains the year's first
// Thursday, so the owning year can differ from the calendar year at year
// boundaries.
func WeekBucket(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// MonthWeekBucket returns the year-month-week composite bucket
// "{year}-{month:02d}-W{week:02d}" used by month-scoped charts. The week
// number is identical to the one WeekBucket yields for the same date.
func MonthWeekBucket(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-%02d-W%02d", year, int(t.Month()), week)
}

// WeekRange converts a "{year}-W{week:02d}" bucket back into its inclusive
// calendar bounds: the Monday the ISO week starts on and the following
// Sunday. Used when filter bounds arrive as week buckets.
func WeekRange(bucket string) (time.Time, time.Time, error) {
	var year, week int
	if _, err := fmt.Sscanf(bucket, "%d-W%d", &year, &week); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: week bucket %q", ErrUnparseable, bucket)
	}
	if week < 1 || week > 53 {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: week bucket %q", ErrUnparseable, bucket)
	}

	// January 4th is always inside ISO week 1 of its year.
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	weekday := int(jan4.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	week1Monday := jan4.AddDate(0, 0, 1-weekday)

	monday := week1Monday.AddDate(0, 0, (week-1)*7)
	sunday := monday.AddDate(0, 0, 6)
	return monday, sunday, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
