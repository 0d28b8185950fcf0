// Package sessions tracks the daily count of completed focus sessions.
package sessions

import "time"

// DateLayout is the local calendar date format stored next to the count.
const DateLayout = "2006-01-02"

// Record is the persisted focus session counter.
type Record struct {
	Count int
	Date  string
}

// DateKey returns the local calendar date of t.
func DateKey(t time.Time) string {
	return t.Local().Format(DateLayout)
}

// Rollover resets the count when the persisted date is not today.
// It returns the count to use and the date to store.
func Rollover(persistedDate string, persistedCount int, today string) (int, string) {
	if persistedDate != today || persistedCount < 0 {
		return 0, today
	}
	return persistedCount, persistedDate
}

// Load applies Rollover to a persisted record for the day containing now.
// changed reports whether the result differs from the input and should be saved.
func Load(record Record, now time.Time) (Record, bool) {
	count, date := Rollover(record.Date, record.Count, DateKey(now))
	rolled := Record{Count: count, Date: date}
	return rolled, rolled != record
}
