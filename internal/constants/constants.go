package constants

const (
	// Reminder window opens on the 20th and runs through the 24th.
	ReminderStartDay = 20

	// Nominal cleanup day of each month.
	CleanupDay = 25

	// Records older than this many calendar months become eligible.
	RetentionMonths = 3

	// GetHistory returns at most this many cleanup logs.
	HistoryLimit = 12
)
