// society-service/internal/services/period.go

package services

import (
	"time"

	"github.com/towerline/society-service/internal/constants"
)

// RetentionPeriod identifies the current monthly retention cycle,
// derived fresh from "now" on every request. Nothing here is persisted;
// the anchor dates are captured onto the cleanup log when it is first
// created.
type RetentionPeriod struct {
	Month int
	Year  int
	Day   int

	ReminderStartDate time.Time
	ScheduledDate     time.Time
	CutoffDate        time.Time

	IsReminderPeriod bool
	IsCleanupDay     bool
	IsPastCleanupDay bool
}

// CurrentRetentionPeriod computes the period for the given instant.
// Pure and deterministic.
func CurrentRetentionPeriod(now time.Time) RetentionPeriod {
	y, m, d := now.Date()

	return RetentionPeriod{
		Month:             int(m),
		Year:              y,
		Day:               d,
		ReminderStartDate: time.Date(y, m, constants.ReminderStartDay, 0, 0, 0, 0, now.Location()),
		ScheduledDate:     time.Date(y, m, constants.CleanupDay, 0, 0, 0, 0, now.Location()),
		CutoffDate:        calendarMonthsAgo(now, constants.RetentionMonths),
		IsReminderPeriod:  d >= constants.ReminderStartDay && d < constants.CleanupDay,
		IsCleanupDay:      d == constants.CleanupDay,
		IsPastCleanupDay:  d > constants.CleanupDay,
	}
}

// DaysUntilCleanup is the number of days from the period's day to the
// cleanup anchor date. Negative once the anchor has passed.
func (p RetentionPeriod) DaysUntilCleanup() int {
	return constants.CleanupDay - p.Day
}

// calendarMonthsAgo steps back whole calendar months and truncates to
// midnight. Plain AddDate would overflow short months (May 31 minus 3
// months lands on Mar 2/3), so the day is clamped to the last day of
// the target month instead.
func calendarMonthsAgo(t time.Time, months int) time.Time {
	firstOfTarget := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, -months, 0)
	day := t.Day()
	if last := lastDayOfMonth(firstOfTarget).Day(); day > last {
		day = last
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, 0, 0, 0, 0, t.Location())
}

func lastDayOfMonth(t time.Time) time.Time {
	n := t.AddDate(0, 1, 0)
	return time.Date(n.Year(), n.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, 0, -1)
}
