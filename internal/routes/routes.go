package routes

const (
	// Health
	Health = "/health"

	// Admin retention endpoints
	CleanupStatus         = "/api/v1/cleanup/status"
	CleanupExportCategory = "/api/v1/cleanup/export/{category}"
	CleanupExportAll      = "/api/v1/cleanup/export-all"
	CleanupSendEmail      = "/api/v1/cleanup/send-email"
	CleanupRun            = "/api/v1/cleanup"
	CleanupSkip           = "/api/v1/cleanup/skip"
	CleanupHistory        = "/api/v1/cleanup/history"
	CleanupCheckReminder  = "/api/v1/cleanup/check-reminder"
)
