// Package timeutil provides utility functions and types for working with
// time-related operations.
package timeutil

import (
	"fmt"
	"strconv"
	"time"
)

const secondsInAnHour = 3600

// HourBucket identifies a clock hour as a whole number of hours since the
// Unix epoch. It is independent of locale and calendar, so the same instant
// always maps to the same bucket regardless of the device timezone.
type HourBucket int64

// BucketOf returns the hour bucket containing t. Minutes, seconds and
// sub-second components are discarded.
func BucketOf(t time.Time) HourBucket {
	return HourBucket(t.Truncate(time.Hour).Unix() / secondsInAnHour)
}

// Time returns the start of the bucket's hour in the local timezone.
func (b HourBucket) Time() time.Time {
	return time.Unix(int64(b)*secondsInAnHour, 0)
}

// Key converts the bucket to a database key for Bolt.
func (b HourBucket) Key() []byte {
	return []byte(strconv.FormatInt(int64(b), 10))
}

// ParseBucketKey is the inverse of Key.
func ParseBucketKey(key []byte) (HourBucket, error) {
	i, err := strconv.ParseInt(string(key), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hour bucket key %q: %w", key, err)
	}

	return HourBucket(i), nil
}

// OnDay reports whether the bucket's hour falls on the same local calendar
// day as day.
func (b HourBucket) OnDay(day time.Time) bool {
	return SameDay(b.Time(), day)
}

// SameDay reports whether a and b fall on the same local calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// RoundToStart resets the given time to the start of the day.
func RoundToStart(t time.Time) time.Time {
	return time.Date(
		t.Year(),
		t.Month(),
		t.Day(),
		0,
		0,
		0,
		0,
		t.Location(),
	)
}

// RoundToEnd resets the given time to the end of the day.
func RoundToEnd(t time.Time) time.Time {
	return time.Date(
		t.Year(),
		t.Month(),
		t.Day(),
		23,
		59,
		59,
		0,
		t.Location(),
	)
}

// DayFormat collapses a time value to a sortable yyyymmdd integer.
func DayFormat(t time.Time) int {
	d := fmt.Sprintf("%d%02d%02d", t.Year(), t.Month(), t.Day())

	i, _ := strconv.Atoi(d)

	return i
}

// ToKey converts a time value to a database key for Bolt.
func ToKey(t time.Time) []byte {
	return []byte(t.Format(time.RFC3339Nano))
}
