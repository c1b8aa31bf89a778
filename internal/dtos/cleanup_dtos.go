package dtos

import (
	"time"

	"github.com/towerline/society-service/internal/models"
)

type CleanupPeriodDTO struct {
	Month int `json:"month"`
	Year  int `json:"year"`
	Day   int `json:"day"`

	ReminderStartDate time.Time `json:"reminder_start_date"`
	ScheduledDate     time.Time `json:"scheduled_date"`
	CutoffDate        time.Time `json:"cutoff_date"`

	IsReminderPeriod bool `json:"is_reminder_period"`
	IsCleanupDay     bool `json:"is_cleanup_day"`
	IsPastCleanupDay bool `json:"is_past_cleanup_day"`
}

type CleanupStatusResponse struct {
	Period             CleanupPeriodDTO   `json:"period"`
	PendingCounts      map[string]int     `json:"pending_counts"`
	Log                *models.CleanupLog `json:"log"`
	AllDownloaded      bool               `json:"all_downloaded"`
	ShouldShowReminder bool               `json:"should_show_reminder"`
}

type ExportFile struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

type ExportAllResponse struct {
	Message string                `json:"message"`
	Files   map[string]ExportFile `json:"files"`
}

type PerformCleanupRequest struct {
	Force bool `json:"force"`
}

type CleanupResultsDTO struct {
	BookingsDeleted      int `json:"bookings_deleted"`
	VisitorsDeleted      int `json:"visitors_deleted"`
	ComplaintsDeleted    int `json:"complaints_deleted"`
	NotificationsDeleted int `json:"notifications_deleted"`
	NoticesDeleted       int `json:"notices_deleted"`
}

type CleanupResultsResponse struct {
	Message string            `json:"message"`
	Results CleanupResultsDTO `json:"results"`
}

// IncompleteDownloadsDetails is attached to the incomplete_downloads
// refusal so the caller can see exactly which exports are missing.
type IncompleteDownloadsDetails struct {
	Bookings      bool `json:"bookings"`
	Visitors      bool `json:"visitors"`
	Complaints    bool `json:"complaints"`
	Notifications bool `json:"notifications"`
	Notices       bool `json:"notices"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type CheckReminderResponse struct {
	Reminder         bool `json:"reminder"`
	DaysUntilCleanup *int `json:"days_until_cleanup,omitempty"`
}
