package attendance

import (
	"errors"
	"time"
)

// halfDayThresholdMinutes: a worked day under four hours counts as half_day.
const halfDayThresholdMinutes = 240

var ErrCheckOutBeforeCheckIn = errors.New("check-out before check-in")

// TotalMinutes returns whole elapsed minutes between the two stamps, floored.
func TotalMinutes(checkIn, checkOut time.Time) (int, error) {
	if checkOut.Before(checkIn) {
		return 0, ErrCheckOutBeforeCheckIn
	}
	return int(checkOut.Sub(checkIn) / time.Minute), nil
}

// StatusForMinutes derives the day's status at check-out time.
func StatusForMinutes(minutes int) string {
	if minutes < halfDayThresholdMinutes {
		return StatusHalfDay
	}
	return StatusPresent
}

// DayOf truncates a timestamp to its calendar day in UTC; this is the unique
// key component alongside the employee id.
func DayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
