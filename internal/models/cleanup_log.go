package models

import (
	"time"

	"github.com/google/uuid"
)

type CleanupStatusType string

const (
	CleanupStatusPending    CleanupStatusType = "PENDING"
	CleanupStatusReminded   CleanupStatusType = "REMINDED"
	CleanupStatusDownloaded CleanupStatusType = "DOWNLOADED"
	CleanupStatusCompleted  CleanupStatusType = "COMPLETED"
	CleanupStatusSkipped    CleanupStatusType = "SKIPPED"
)

// CleanupLog tracks one monthly retention cycle. Exactly one row exists
// per (month, year) once the period has been accessed.
type CleanupLog struct {
	ID    uuid.UUID `json:"id"`
	Month int       `json:"month"`
	Year  int       `json:"year"`

	Status CleanupStatusType `json:"status"`

	BookingsDownloaded      bool `json:"bookings_downloaded"`
	VisitorsDownloaded      bool `json:"visitors_downloaded"`
	ComplaintsDownloaded    bool `json:"complaints_downloaded"`
	NotificationsDownloaded bool `json:"notifications_downloaded"`
	NoticesDownloaded       bool `json:"notices_downloaded"`

	BookingsDeleted      *int `json:"bookings_deleted,omitempty"`
	VisitorsDeleted      *int `json:"visitors_deleted,omitempty"`
	ComplaintsDeleted    *int `json:"complaints_deleted,omitempty"`
	NotificationsDeleted *int `json:"notifications_deleted,omitempty"`
	NoticesDeleted       *int `json:"notices_deleted,omitempty"`

	// Captured at creation so display stays stable even when the actual
	// deletion crosses a month boundary.
	ScheduledDate     time.Time `json:"scheduled_date"`
	ReminderStartDate time.Time `json:"reminder_start_date"`

	EmailSentAt *time.Time `json:"email_sent_at,omitempty"`
	EmailSentTo *string    `json:"email_sent_to,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AllDownloaded reports whether every category's export has been taken.
func (l *CleanupLog) AllDownloaded() bool {
	return l.BookingsDownloaded &&
		l.VisitorsDownloaded &&
		l.ComplaintsDownloaded &&
		l.NotificationsDownloaded &&
		l.NoticesDownloaded
}

// IsTerminal reports whether the log can no longer change state.
func (l *CleanupLog) IsTerminal() bool {
	return l.Status == CleanupStatusCompleted || l.Status == CleanupStatusSkipped
}

// DownloadFlags returns the per-category flags keyed by category.
func (l *CleanupLog) DownloadFlags() map[RetentionCategory]bool {
	return map[RetentionCategory]bool{
		CategoryBookings:      l.BookingsDownloaded,
		CategoryVisitors:      l.VisitorsDownloaded,
		CategoryComplaints:    l.ComplaintsDownloaded,
		CategoryNotifications: l.NotificationsDownloaded,
		CategoryNotices:       l.NoticesDownloaded,
	}
}

// CleanupCounts holds the per-category deleted counts of one run.
type CleanupCounts struct {
	Bookings      int
	Visitors      int
	Complaints    int
	Notifications int
	Notices       int
}
