package gnss

import (
	"fmt"
	"strconv"
	"time"
)

// Epoch is the start of GPS week 0
var Epoch = time.Date(1980, time.January, 6, 0, 0, 0, 0, time.UTC)

const week = 7 * 24 * time.Hour

// DateLayout is the layout accepted by ParseDate
const DateLayout = "2006-01-02"

// Week returns the GNSS week of t and the day of that week (0 = Sunday).
// Leap seconds are ignored, product directories are organised by calendar day.
func Week(t time.Time) (int, int, error) {
	t = t.UTC()
	if t.Before(Epoch) {
		return 0, 0, fmt.Errorf("%s is before the GNSS epoch %s", t.Format(DateLayout), Epoch.Format(DateLayout))
	}
	elapsed := t.Sub(Epoch)
	w := int(elapsed / week)
	dow := int((elapsed % week) / (24 * time.Hour))
	return w, dow, nil
}

// WeekStart returns the Sunday 00:00 UTC starting week w
func WeekStart(w int) time.Time {
	return Epoch.AddDate(0, 0, 7*w)
}

// WeekID returns the archive directory name of the week containing t
func WeekID(t time.Time) (string, error) {
	w, _, err := Week(t)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(w), nil
}

// ParseDate parses a YYYY-MM-DD date as UTC midnight
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return t, nil
}
