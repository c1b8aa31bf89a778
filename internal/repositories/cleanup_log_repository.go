package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/towerline/society-service/internal/models"
	"github.com/towerline/society-service/internal/utils"
)

type CleanupLogRepository interface {
	// GetOrCreate lazily creates the period's log with status PENDING and
	// the captured anchor dates, then returns the (possibly pre-existing) row.
	GetOrCreate(ctx context.Context, month, year int, scheduledDate, reminderStartDate time.Time) (*models.CleanupLog, error)

	GetByMonthYear(ctx context.Context, month, year int) (*models.CleanupLog, error)
	ListRecent(ctx context.Context, limit int) ([]*models.CleanupLog, error)

	MarkCategoryDownloaded(ctx context.Context, id uuid.UUID, category models.RetentionCategory) (*models.CleanupLog, error)
	MarkAllDownloaded(ctx context.Context, id uuid.UUID) (*models.CleanupLog, error)

	// PromoteToDownloaded flips status to DOWNLOADED, but only from
	// PENDING or REMINDED.
	PromoteToDownloaded(ctx context.Context, id uuid.UUID) error

	// MarkReminded performs the PENDING -> REMINDED transition. Returns
	// false when the log was already past PENDING.
	MarkReminded(ctx context.Context, id uuid.UUID) (bool, error)

	// Skip marks the log SKIPPED unless it is already terminal. Returns
	// false when the terminal guard refused the transition.
	Skip(ctx context.Context, id uuid.UUID) (bool, error)

	RecordEmailSent(ctx context.Context, id uuid.UUID, recipient string) error

	// CompleteAtomic serializes the read-check-act sequence of a cleanup
	// run: it locks the period's row, hands the current log to `run`
	// together with the transaction, and on success writes the returned
	// counts plus completed_at and status COMPLETED before committing.
	CompleteAtomic(
		ctx context.Context,
		month, year int,
		run func(tx pgx.Tx, log *models.CleanupLog) (*models.CleanupCounts, error),
	) (*models.CleanupLog, error)
}

type cleanupLogRepo struct {
	db DB
}

func NewCleanupLogRepository(db DB) CleanupLogRepository {
	return &cleanupLogRepo{db: db}
}

const cleanupLogColumns = `
        id, month, year, status,
        bookings_downloaded, visitors_downloaded, complaints_downloaded,
        notifications_downloaded, notices_downloaded,
        bookings_deleted, visitors_deleted, complaints_deleted,
        notifications_deleted, notices_deleted,
        scheduled_date, reminder_start_date,
        email_sent_at, email_sent_to, completed_at,
        created_at, updated_at
`

func baseSelectCleanupLog() string {
	return "SELECT " + cleanupLogColumns + " FROM cleanup_logs"
}

func scanCleanupLog(row pgx.Row) (*models.CleanupLog, error) {
	var l models.CleanupLog
	err := row.Scan(
		&l.ID,
		&l.Month,
		&l.Year,
		&l.Status,
		&l.BookingsDownloaded,
		&l.VisitorsDownloaded,
		&l.ComplaintsDownloaded,
		&l.NotificationsDownloaded,
		&l.NoticesDownloaded,
		&l.BookingsDeleted,
		&l.VisitorsDeleted,
		&l.ComplaintsDeleted,
		&l.NotificationsDeleted,
		&l.NoticesDeleted,
		&l.ScheduledDate,
		&l.ReminderStartDate,
		&l.EmailSentAt,
		&l.EmailSentTo,
		&l.CompletedAt,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// downloadFlagColumn maps a category to its flag column. Explicit switch
// rather than string interpolation from request input.
func downloadFlagColumn(category models.RetentionCategory) (string, error) {
	switch category {
	case models.CategoryBookings:
		return "bookings_downloaded", nil
	case models.CategoryVisitors:
		return "visitors_downloaded", nil
	case models.CategoryComplaints:
		return "complaints_downloaded", nil
	case models.CategoryNotifications:
		return "notifications_downloaded", nil
	case models.CategoryNotices:
		return "notices_downloaded", nil
	}
	return "", fmt.Errorf("no download flag column for category %q", category)
}

func (r *cleanupLogRepo) GetOrCreate(ctx context.Context, month, year int, scheduledDate, reminderStartDate time.Time) (*models.CleanupLog, error) {
	_, err := r.db.Exec(ctx, `
        INSERT INTO cleanup_logs (
            id, month, year, status,
            bookings_downloaded, visitors_downloaded, complaints_downloaded,
            notifications_downloaded, notices_downloaded,
            scheduled_date, reminder_start_date,
            created_at, updated_at
        ) VALUES (
            $1,$2,$3,'PENDING',FALSE,FALSE,FALSE,FALSE,FALSE,$4,$5,NOW(),NOW()
        )
        ON CONFLICT (month, year) DO NOTHING
    `, uuid.New(), month, year, scheduledDate, reminderStartDate)
	if err != nil {
		return nil, err
	}
	return r.GetByMonthYear(ctx, month, year)
}

func (r *cleanupLogRepo) GetByMonthYear(ctx context.Context, month, year int) (*models.CleanupLog, error) {
	row := r.db.QueryRow(ctx, baseSelectCleanupLog()+" WHERE month=$1 AND year=$2", month, year)
	return scanCleanupLog(row)
}

func (r *cleanupLogRepo) ListRecent(ctx context.Context, limit int) ([]*models.CleanupLog, error) {
	rows, err := r.db.Query(ctx, baseSelectCleanupLog()+" ORDER BY year DESC, month DESC LIMIT $1", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.CleanupLog
	for rows.Next() {
		l, err := scanCleanupLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (r *cleanupLogRepo) MarkCategoryDownloaded(ctx context.Context, id uuid.UUID, category models.RetentionCategory) (*models.CleanupLog, error) {
	col, err := downloadFlagColumn(category)
	if err != nil {
		return nil, err
	}
	row := r.db.QueryRow(ctx, `
        UPDATE cleanup_logs SET `+col+` = TRUE, updated_at = NOW()
        WHERE id=$1
        RETURNING `+cleanupLogColumns, id)
	return scanCleanupLog(row)
}

func (r *cleanupLogRepo) MarkAllDownloaded(ctx context.Context, id uuid.UUID) (*models.CleanupLog, error) {
	row := r.db.QueryRow(ctx, `
        UPDATE cleanup_logs SET
            bookings_downloaded = TRUE,
            visitors_downloaded = TRUE,
            complaints_downloaded = TRUE,
            notifications_downloaded = TRUE,
            notices_downloaded = TRUE,
            status = CASE WHEN status IN ('PENDING','REMINDED') THEN 'DOWNLOADED' ELSE status END,
            updated_at = NOW()
        WHERE id=$1
        RETURNING `+cleanupLogColumns, id)
	return scanCleanupLog(row)
}

func (r *cleanupLogRepo) PromoteToDownloaded(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `
        UPDATE cleanup_logs SET status='DOWNLOADED', updated_at=NOW()
        WHERE id=$1 AND status IN ('PENDING','REMINDED')
    `, id)
	return err
}

func (r *cleanupLogRepo) MarkReminded(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `
        UPDATE cleanup_logs SET status='REMINDED', updated_at=NOW()
        WHERE id=$1 AND status='PENDING'
    `, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *cleanupLogRepo) Skip(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `
        UPDATE cleanup_logs SET status='SKIPPED', updated_at=NOW()
        WHERE id=$1 AND status NOT IN ('COMPLETED','SKIPPED')
    `, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *cleanupLogRepo) RecordEmailSent(ctx context.Context, id uuid.UUID, recipient string) error {
	_, err := r.db.Exec(ctx, `
        UPDATE cleanup_logs SET email_sent_at=NOW(), email_sent_to=$2, updated_at=NOW()
        WHERE id=$1
    `, id, recipient)
	return err
}

func (r *cleanupLogRepo) CompleteAtomic(
	ctx context.Context,
	month, year int,
	run func(tx pgx.Tx, log *models.CleanupLog) (*models.CleanupCounts, error),
) (*models.CleanupLog, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, baseSelectCleanupLog()+" WHERE month=$1 AND year=$2 FOR UPDATE", month, year)
	log, err := scanCleanupLog(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, utils.ErrLogNotFound
		}
		return nil, err
	}

	counts, err := run(tx, log)
	if err != nil {
		return nil, err
	}

	row = tx.QueryRow(ctx, `
        UPDATE cleanup_logs SET
            bookings_deleted=$2, visitors_deleted=$3, complaints_deleted=$4,
            notifications_deleted=$5, notices_deleted=$6,
            status='COMPLETED', completed_at=NOW(), updated_at=NOW()
        WHERE id=$1
        RETURNING `+cleanupLogColumns,
		log.ID,
		counts.Bookings,
		counts.Visitors,
		counts.Complaints,
		counts.Notifications,
		counts.Notices,
	)
	updated, err := scanCleanupLog(row)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}
