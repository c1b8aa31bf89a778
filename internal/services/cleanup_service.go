// society-service/internal/services/cleanup_service.go

package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/towerline/society-service/internal/config"
	"github.com/towerline/society-service/internal/constants"
	"github.com/towerline/society-service/internal/dtos"
	"github.com/towerline/society-service/internal/models"
	"github.com/towerline/society-service/internal/repositories"
	"github.com/towerline/society-service/internal/utils"
)

/*
CleanupService is the workflow engine of the monthly retention cycle.
Every operation computes the current period fresh, loads or lazily
creates the period's cleanup log, and moves it through

	PENDING -> REMINDED -> DOWNLOADED -> COMPLETED
	                 \__________________-> SKIPPED

with COMPLETED and SKIPPED terminal. Business-rule refusals come back as
*utils.AppError so controllers can map them to structured 4xx responses;
only persistence and transport failures surface as 5xx.
*/
type CleanupService struct {
	cfg        *config.Config
	logs       repositories.CleanupLogRepository
	retention  repositories.RetentionRepository
	users      repositories.UserRepository
	exports    *ExportService
	notifier   AdminNotifier
	mailClient MailClient

	now func() time.Time
}

func NewCleanupService(
	cfg *config.Config,
	logs repositories.CleanupLogRepository,
	retention repositories.RetentionRepository,
	users repositories.UserRepository,
	exports *ExportService,
	notifier AdminNotifier,
	mailClient MailClient,
) *CleanupService {
	return &CleanupService{
		cfg:        cfg,
		logs:       logs,
		retention:  retention,
		users:      users,
		exports:    exports,
		notifier:   notifier,
		mailClient: mailClient,
		now:        time.Now,
	}
}

func (s *CleanupService) currentLog(ctx context.Context) (RetentionPeriod, *models.CleanupLog, error) {
	p := CurrentRetentionPeriod(s.now())
	log, err := s.logs.GetOrCreate(ctx, p.Month, p.Year, p.ScheduledDate, p.ReminderStartDate)
	if err != nil {
		return p, nil, err
	}
	return p, log, nil
}

func (s *CleanupService) previewCounts(ctx context.Context, cutoff time.Time) (map[string]int, error) {
	counts := make(map[string]int, len(models.AllRetentionCategories))
	for _, cat := range models.AllRetentionCategories {
		n, err := s.retention.CountEligible(ctx, cat, cutoff)
		if err != nil {
			return nil, err
		}
		counts[string(cat)] = n
	}
	return counts, nil
}

func periodDTO(p RetentionPeriod) dtos.CleanupPeriodDTO {
	return dtos.CleanupPeriodDTO{
		Month:             p.Month,
		Year:              p.Year,
		Day:               p.Day,
		ReminderStartDate: p.ReminderStartDate,
		ScheduledDate:     p.ScheduledDate,
		CutoffDate:        p.CutoffDate,
		IsReminderPeriod:  p.IsReminderPeriod,
		IsCleanupDay:      p.IsCleanupDay,
		IsPastCleanupDay:  p.IsPastCleanupDay,
	}
}

func downloadDetails(log *models.CleanupLog) dtos.IncompleteDownloadsDetails {
	return dtos.IncompleteDownloadsDetails{
		Bookings:      log.BookingsDownloaded,
		Visitors:      log.VisitorsDownloaded,
		Complaints:    log.ComplaintsDownloaded,
		Notifications: log.NotificationsDownloaded,
		Notices:       log.NoticesDownloaded,
	}
}

// GetStatus reports the current period, per-category preview counts, and
// the log with its derived flags.
func (s *CleanupService) GetStatus(ctx context.Context) (*dtos.CleanupStatusResponse, error) {
	p, log, err := s.currentLog(ctx)
	if err != nil {
		return nil, err
	}

	counts, err := s.previewCounts(ctx, p.CutoffDate)
	if err != nil {
		return nil, err
	}

	allDownloaded := log.AllDownloaded()
	return &dtos.CleanupStatusResponse{
		Period:             periodDTO(p),
		PendingCounts:      counts,
		Log:                log,
		AllDownloaded:      allDownloaded,
		ShouldShowReminder: p.IsReminderPeriod && !allDownloaded && !log.IsTerminal(),
	}, nil
}

// ExportCategory builds one category's CSV and marks its download flag.
// When that flip makes every flag true, the log is promoted to
// DOWNLOADED regardless of which path set the earlier flags.
func (s *CleanupService) ExportCategory(ctx context.Context, category string) (*dtos.ExportFile, error) {
	cat, err := models.ParseRetentionCategory(category)
	if err != nil {
		return nil, &utils.AppError{
			StatusCode: http.StatusBadRequest,
			Code:       utils.ErrCodeInvalidCategory,
			Message:    fmt.Sprintf("Unknown export category %q", category),
			Err:        utils.ErrInvalidCategory,
		}
	}

	p, log, err := s.currentLog(ctx)
	if err != nil {
		return nil, err
	}

	content, err := s.exports.BuildExport(ctx, cat, p.CutoffDate)
	if err != nil {
		return nil, err
	}

	updated, err := s.logs.MarkCategoryDownloaded(ctx, log.ID, cat)
	if err != nil {
		return nil, err
	}
	if updated.AllDownloaded() && !updated.IsTerminal() {
		if err := s.logs.PromoteToDownloaded(ctx, updated.ID); err != nil {
			return nil, err
		}
	}

	return &dtos.ExportFile{
		Filename: ExportFilename(cat, p.Year, p.Month),
		Content:  content,
	}, nil
}

// ExportAll builds all five CSVs and sets the five flags together,
// transitioning the log to DOWNLOADED unless it is already past that.
func (s *CleanupService) ExportAll(ctx context.Context) (*dtos.ExportAllResponse, error) {
	p, log, err := s.currentLog(ctx)
	if err != nil {
		return nil, err
	}

	files := make(map[string]dtos.ExportFile, len(models.AllRetentionCategories))
	for _, cat := range models.AllRetentionCategories {
		content, err := s.exports.BuildExport(ctx, cat, p.CutoffDate)
		if err != nil {
			return nil, err
		}
		files[string(cat)] = dtos.ExportFile{
			Filename: ExportFilename(cat, p.Year, p.Month),
			Content:  content,
		}
	}

	if _, err := s.logs.MarkAllDownloaded(ctx, log.ID); err != nil {
		return nil, err
	}

	return &dtos.ExportAllResponse{
		Message: "All category exports generated",
		Files:   files,
	}, nil
}

// SendEmail mails all five exports to the calling administrator. Email
// is a convenience channel: it records the send but does not touch the
// download flags or the log status.
func (s *CleanupService) SendEmail(ctx context.Context, adminID uuid.UUID) (*dtos.MessageResponse, error) {
	p, log, err := s.currentLog(ctx)
	if err != nil {
		return nil, err
	}

	admin, err := s.users.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &utils.AppError{
				StatusCode: http.StatusNotFound,
				Code:       utils.ErrCodeNotFound,
				Message:    "Calling administrator not found",
				Err:        err,
			}
		}
		return nil, err
	}
	if admin.Email == "" {
		return nil, &utils.AppError{
			StatusCode: http.StatusBadRequest,
			Code:       utils.ErrCodeNoEmailOnFile,
			Message:    "No email address on file for the calling administrator",
			Err:        utils.ErrNoEmailOnFile,
		}
	}

	msg := mail.NewV3Mail()
	msg.SetFrom(mail.NewEmail(s.cfg.OrganizationName, s.cfg.SendGridFromEmail))
	msg.Subject = fmt.Sprintf("Monthly data cleanup exports for %d-%02d", p.Year, p.Month)

	personalization := mail.NewPersonalization()
	personalization.AddTos(mail.NewEmail(admin.Name, admin.Email))
	msg.AddPersonalizations(personalization)

	body := fmt.Sprintf(
		"Attached are the %d-%02d retention exports for all five categories. "+
			"Records older than %s remain scheduled for deletion on %s.",
		p.Year, p.Month,
		p.CutoffDate.Format("2006-01-02"),
		p.ScheduledDate.Format("2006-01-02"),
	)
	msg.AddContent(mail.NewContent("text/plain", body))
	msg.AddContent(mail.NewContent("text/html", "<p>"+body+"</p>"))

	for _, cat := range models.AllRetentionCategories {
		content, err := s.exports.BuildExport(ctx, cat, p.CutoffDate)
		if err != nil {
			return nil, err
		}
		attachment := mail.NewAttachment()
		attachment.SetContent(base64.StdEncoding.EncodeToString([]byte(content)))
		attachment.SetType("text/csv")
		attachment.SetFilename(ExportFilename(cat, p.Year, p.Month))
		attachment.SetDisposition("attachment")
		msg.AddAttachment(attachment)
	}

	if s.cfg.SendGridSandboxMode {
		ms := mail.NewMailSettings()
		ms.SetSandboxMode(mail.NewSetting(true))
		msg.MailSettings = ms
	}

	resp, err := s.mailClient.Send(msg)
	if err != nil || (resp != nil && resp.StatusCode >= 400) {
		return nil, &utils.AppError{
			StatusCode: http.StatusInternalServerError,
			Code:       utils.ErrCodeExternalServiceFailure,
			Message:    "Failed to send export email",
			Err:        err,
		}
	}

	if err := s.logs.RecordEmailSent(ctx, log.ID, admin.Email); err != nil {
		return nil, err
	}

	return &dtos.MessageResponse{
		Message: fmt.Sprintf("Exports emailed to %s", admin.Email),
	}, nil
}

// PerformCleanup deletes the eligible rows of all five categories in a
// fixed order, re-applying each eligibility predicate at delete time.
// The read-check-act sequence is serialized on the period's log row, so
// two concurrent runs cannot both pass the terminal-state check.
func (s *CleanupService) PerformCleanup(ctx context.Context, force bool) (*dtos.CleanupResultsResponse, error) {
	p := CurrentRetentionPeriod(s.now())

	updated, err := s.logs.CompleteAtomic(ctx, p.Month, p.Year, func(tx pgx.Tx, log *models.CleanupLog) (*models.CleanupCounts, error) {
		switch log.Status {
		case models.CleanupStatusCompleted:
			return nil, &utils.AppError{
				StatusCode: http.StatusBadRequest,
				Code:       utils.ErrCodeAlreadyCompleted,
				Message:    fmt.Sprintf("Cleanup for %d-%02d has already been completed", log.Year, log.Month),
				Err:        utils.ErrAlreadyCompleted,
			}
		case models.CleanupStatusSkipped:
			return nil, &utils.AppError{
				StatusCode: http.StatusBadRequest,
				Code:       utils.ErrCodeCleanupSkipped,
				Message:    fmt.Sprintf("Cleanup for %d-%02d was skipped", log.Year, log.Month),
				Err:        utils.ErrCleanupSkipped,
			}
		}

		if !log.AllDownloaded() && !force {
			return nil, &utils.AppError{
				StatusCode: http.StatusBadRequest,
				Code:       utils.ErrCodeIncompleteDownloads,
				Message:    "Not all category exports have been downloaded; pass force to delete anyway",
				Details:    downloadDetails(log),
			}
		}

		var counts models.CleanupCounts

		n, err := s.retention.DeleteEligible(ctx, tx, models.CategoryBookings, p.CutoffDate)
		if err != nil {
			return nil, err
		}
		counts.Bookings = int(n)

		n, err = s.retention.DeleteEligible(ctx, tx, models.CategoryVisitors, p.CutoffDate)
		if err != nil {
			return nil, err
		}
		counts.Visitors = int(n)

		// Comments reference complaints, so they go first.
		comments, err := s.retention.DeleteCommentsOfEligibleComplaints(ctx, tx, p.CutoffDate)
		if err != nil {
			return nil, err
		}
		n, err = s.retention.DeleteEligible(ctx, tx, models.CategoryComplaints, p.CutoffDate)
		if err != nil {
			return nil, err
		}
		counts.Complaints = int(n)
		utils.Logger.Infof("Cleanup %d-%02d: removed %d complaint comments ahead of %d complaints", p.Year, p.Month, comments, n)

		n, err = s.retention.DeleteEligible(ctx, tx, models.CategoryNotifications, p.CutoffDate)
		if err != nil {
			return nil, err
		}
		counts.Notifications = int(n)

		n, err = s.retention.DeleteEligible(ctx, tx, models.CategoryNotices, p.CutoffDate)
		if err != nil {
			return nil, err
		}
		counts.Notices = int(n)

		return &counts, nil
	})
	if err != nil {
		if errors.Is(err, utils.ErrLogNotFound) {
			return nil, &utils.AppError{
				StatusCode: http.StatusNotFound,
				Code:       utils.ErrCodeNotFound,
				Message:    fmt.Sprintf("No cleanup log exists for %d-%02d", p.Year, p.Month),
				Err:        err,
			}
		}
		return nil, err
	}

	results := dtos.CleanupResultsDTO{
		BookingsDeleted:      derefCount(updated.BookingsDeleted),
		VisitorsDeleted:      derefCount(updated.VisitorsDeleted),
		ComplaintsDeleted:    derefCount(updated.ComplaintsDeleted),
		NotificationsDeleted: derefCount(updated.NotificationsDeleted),
		NoticesDeleted:       derefCount(updated.NoticesDeleted),
	}

	// Best effort: a failed notification must not fail the cleanup.
	s.notifier.NotifyAdmins(ctx,
		fmt.Sprintf("Monthly data cleanup completed for %d-%02d", p.Year, p.Month),
		fmt.Sprintf(
			"Deleted records older than %s: %d bookings, %d visitors, %d complaints, %d notifications, %d notices.",
			p.CutoffDate.Format("2006-01-02"),
			results.BookingsDeleted,
			results.VisitorsDeleted,
			results.ComplaintsDeleted,
			results.NotificationsDeleted,
			results.NoticesDeleted,
		),
	)

	return &dtos.CleanupResultsResponse{
		Message: "Cleanup completed",
		Results: results,
	}, nil
}

// SkipCleanup marks the current period SKIPPED. The untouched rows stay
// eligible and simply fall into the next period's cutoff window.
func (s *CleanupService) SkipCleanup(ctx context.Context) (*dtos.MessageResponse, error) {
	p, log, err := s.currentLog(ctx)
	if err != nil {
		return nil, err
	}

	ok, err := s.logs.Skip(ctx, log.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		code := utils.ErrCodeCleanupSkipped
		msg := fmt.Sprintf("Cleanup for %d-%02d was already skipped", p.Year, p.Month)
		if current, ferr := s.logs.GetByMonthYear(ctx, p.Month, p.Year); ferr == nil && current.Status == models.CleanupStatusCompleted {
			code = utils.ErrCodeAlreadyCompleted
			msg = fmt.Sprintf("Cleanup for %d-%02d has already been completed", p.Year, p.Month)
		}
		return nil, &utils.AppError{
			StatusCode: http.StatusBadRequest,
			Code:       code,
			Message:    msg,
		}
	}

	return &dtos.MessageResponse{
		Message: fmt.Sprintf("Cleanup for %d-%02d skipped; data is preserved for the next cycle", p.Year, p.Month),
	}, nil
}

// GetHistory returns the most recent cleanup logs, newest first.
func (s *CleanupService) GetHistory(ctx context.Context) ([]*models.CleanupLog, error) {
	return s.logs.ListRecent(ctx, constants.HistoryLimit)
}

// CheckReminder performs the once-per-period PENDING -> REMINDED
// transition inside the reminder window and fans the summary out to all
// administrators. Idempotent: any repeat call is a no-op.
func (s *CleanupService) CheckReminder(ctx context.Context) (*dtos.CheckReminderResponse, error) {
	p, log, err := s.currentLog(ctx)
	if err != nil {
		return nil, err
	}

	if !p.IsReminderPeriod || log.Status != models.CleanupStatusPending || log.AllDownloaded() {
		return &dtos.CheckReminderResponse{Reminder: false}, nil
	}

	// Claim the transition first so concurrent calls can't double-send.
	sent, err := s.logs.MarkReminded(ctx, log.ID)
	if err != nil {
		return nil, err
	}
	if !sent {
		return &dtos.CheckReminderResponse{Reminder: false}, nil
	}

	counts, err := s.previewCounts(ctx, p.CutoffDate)
	if err != nil {
		return nil, err
	}
	days := p.DaysUntilCleanup()

	s.notifier.NotifyAdmins(ctx,
		fmt.Sprintf("Data cleanup scheduled for %s", p.ScheduledDate.Format("2006-01-02")),
		fmt.Sprintf(
			"%d days remain to export data before the monthly cleanup. Eligible records: %d bookings, %d visitors, %d complaints, %d notifications, %d notices.",
			days,
			counts[string(models.CategoryBookings)],
			counts[string(models.CategoryVisitors)],
			counts[string(models.CategoryComplaints)],
			counts[string(models.CategoryNotifications)],
			counts[string(models.CategoryNotices)],
		),
	)

	return &dtos.CheckReminderResponse{Reminder: true, DaysUntilCleanup: &days}, nil
}

// RunScheduledCleanup is the cron entry point: on or after the cleanup
// anchor date it attempts an unforced cleanup. An incomplete-downloads
// refusal is expected and only logged; admins keep the data until they
// export it or force the run.
func (s *CleanupService) RunScheduledCleanup(ctx context.Context) error {
	p, log, err := s.currentLog(ctx)
	if err != nil {
		return err
	}
	if !p.IsCleanupDay && !p.IsPastCleanupDay {
		return nil
	}
	if log.IsTerminal() {
		return nil
	}

	if _, err := s.PerformCleanup(ctx, false); err != nil {
		var appErr *utils.AppError
		if errors.As(err, &appErr) && appErr.Code == utils.ErrCodeIncompleteDownloads {
			utils.Logger.Warnf("Scheduled cleanup for %d-%02d deferred: exports incomplete", p.Year, p.Month)
			return nil
		}
		return err
	}
	return nil
}

func derefCount(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}
