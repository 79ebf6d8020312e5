package model

import "time"

// ActivityEntry is one user's tracking record for a single calendar day.
type ActivityEntry struct {
	UserID           int64
	Date             time.Time
	WorkoutCompleted bool
	MealPlanFollowed bool
	Steps            int
}

// CalendarDay strips the time of day, keeping the UTC date.
func CalendarDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
