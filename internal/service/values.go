package service

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Spreadsheet serials count days from 1899-12-31 as day 1 and treat 1900 as
// a leap year, hence the epoch of 1900-01-01 and an offset of two days.
var spreadsheetEpoch = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// maxSerial is 9999-12-31.
const maxSerial = 2958465

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"02.01.2006",
	"2.1.2006",
	"02-Jan-2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 January 2006",
}

// ParseDate normalizes a purchase date cell. It accepts a time.Time, a
// spreadsheet serial number or free text in one of the common layouts, and
// returns nil for empty, zero or unparseable input. It never panics.
func ParseDate(value any) *time.Time {
	switch v := value.(type) {
	case nil:
		return nil
	case time.Time:
		if v.IsZero() {
			return nil
		}
		return &v
	case *time.Time:
		if v == nil || v.IsZero() {
			return nil
		}
		t := *v
		return &t
	case float64:
		return fromSerial(v)
	case float32:
		return fromSerial(float64(v))
	case int:
		return fromSerial(float64(v))
	case int64:
		return fromSerial(float64(v))
	case int32:
		return fromSerial(float64(v))
	case string:
		return parseDateString(v)
	}
	return nil
}

func fromSerial(n float64) *time.Time {
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) || n < 0 || n > maxSerial {
		return nil
	}
	days := math.Floor(n)
	frac := n - days
	t := spreadsheetEpoch.AddDate(0, 0, int(days)-2).
		Add(time.Duration(math.Round(frac * float64(24*time.Hour/time.Second))) * time.Second)
	return &t
}

func parseDateString(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

var leadingNumber = regexp.MustCompile(`^[-+]?(\d+(\.\d*)?|\.\d+)`)

// ParseAmount reads a paid amount cell. Numbers pass through; text drops
// currency symbols, spaces and thousands separators, then keeps the leading
// numeric part. Anything else is 0.
func ParseAmount(value any) float64 {
	switch v := value.(type) {
	case nil:
		return 0
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return v
	case float32:
		return ParseAmount(float64(v))
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		cleaned := strings.Map(func(r rune) rune {
			switch {
			case r == ',' || r == ' ' || r == '\u00a0':
				return -1
			case r == '.' || r == '-' || r == '+' || (r >= '0' && r <= '9'):
				return r
			case strings.ContainsRune("$€£¥", r):
				return -1
			}
			return r
		}, strings.TrimSpace(v))
		m := leadingNumber.FindString(cleaned)
		if m == "" {
			return 0
		}
		f, err := strconv.ParseFloat(m, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return f
	}
	return 0
}

// MarkupPrice is the sell price derived from a purchase cost: cost plus 50%,
// rounded to cents. A non-positive cost yields 0.
func MarkupPrice(cost float64) float64 {
	if cost <= 0 {
		return 0
	}
	return math.Round(cost*1.5*100) / 100
}
