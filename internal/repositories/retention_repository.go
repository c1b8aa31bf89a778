package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/towerline/society-service/internal/models"
)

/*
RetentionRepository is the retention selector: per category it exposes
the same eligibility predicate for preview counts, export listing, and
deletion. Categories holding unresolved work (pending bookings, visitors
still inside, open complaints) are never eligible regardless of age.

Deletes take a Querier so the orchestrator can run them inside the
transaction that holds the cleanup log row lock. Each delete is a single
statement, so its reported count is exact.
*/
type RetentionRepository interface {
	CountEligible(ctx context.Context, category models.RetentionCategory, cutoff time.Time) (int, error)

	ListEligibleBookings(ctx context.Context, cutoff time.Time) ([]*models.Booking, error)
	ListEligibleVisitors(ctx context.Context, cutoff time.Time) ([]*models.Visitor, error)
	ListEligibleComplaints(ctx context.Context, cutoff time.Time) ([]*models.Complaint, error)
	ListEligibleNotifications(ctx context.Context, cutoff time.Time) ([]*models.Notification, error)
	ListEligibleNotices(ctx context.Context, cutoff time.Time) ([]*models.Notice, error)

	DeleteEligible(ctx context.Context, q Querier, category models.RetentionCategory, cutoff time.Time) (int64, error)

	// DeleteCommentsOfEligibleComplaints removes comments owned by
	// eligible complaints. Must run before DeleteEligible(complaints).
	DeleteCommentsOfEligibleComplaints(ctx context.Context, q Querier, cutoff time.Time) (int64, error)
}

type retentionRepo struct {
	db DB
}

func NewRetentionRepository(db DB) RetentionRepository {
	return &retentionRepo{db: db}
}

// Eligibility predicates, each parameterized by the cutoff date ($1).
const (
	bookingEligible      = "start_time < $1 AND status IN ('APPROVED','REJECTED')"
	visitorEligible      = "entry_time < $1 AND status = 'CHECKED_OUT'"
	complaintEligible    = "created_at < $1 AND status IN ('RESOLVED','CLOSED')"
	notificationEligible = "created_at < $1"
	noticeEligible       = "created_at < $1 AND (is_archived = TRUE OR expires_at IS NOT NULL)"
)

func categoryTableAndPredicate(category models.RetentionCategory) (table, predicate string, err error) {
	switch category {
	case models.CategoryBookings:
		return "bookings", bookingEligible, nil
	case models.CategoryVisitors:
		return "visitors", visitorEligible, nil
	case models.CategoryComplaints:
		return "complaints", complaintEligible, nil
	case models.CategoryNotifications:
		return "notifications", notificationEligible, nil
	case models.CategoryNotices:
		return "notices", noticeEligible, nil
	}
	return "", "", fmt.Errorf("unknown retention category %q", category)
}

func (r *retentionRepo) CountEligible(ctx context.Context, category models.RetentionCategory, cutoff time.Time) (int, error) {
	table, predicate, err := categoryTableAndPredicate(category)
	if err != nil {
		return 0, err
	}
	var n int
	row := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM "+table+" WHERE "+predicate, cutoff)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *retentionRepo) ListEligibleBookings(ctx context.Context, cutoff time.Time) ([]*models.Booking, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, amenity_id, apartment_id, user_id, start_time, end_time, status, notes, created_at
        FROM bookings WHERE `+bookingEligible+`
        ORDER BY start_time
    `, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Booking
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(&b.ID, &b.AmenityID, &b.ApartmentID, &b.UserID, &b.StartTime, &b.EndTime, &b.Status, &b.Notes, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &b)
	}
	return out, rows.Err()
}

func (r *retentionRepo) ListEligibleVisitors(ctx context.Context, cutoff time.Time) ([]*models.Visitor, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, name, phone_number, apartment_id, host_user_id, entry_time, exit_time, status, created_at
        FROM visitors WHERE `+visitorEligible+`
        ORDER BY entry_time
    `, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Visitor
	for rows.Next() {
		var v models.Visitor
		if err := rows.Scan(&v.ID, &v.Name, &v.PhoneNumber, &v.ApartmentID, &v.HostUserID, &v.EntryTime, &v.ExitTime, &v.Status, &v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, rows.Err()
}

func (r *retentionRepo) ListEligibleComplaints(ctx context.Context, cutoff time.Time) ([]*models.Complaint, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, title, description, apartment_id, user_id, status, created_at, resolved_at
        FROM complaints WHERE `+complaintEligible+`
        ORDER BY created_at
    `, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Complaint
	for rows.Next() {
		var c models.Complaint
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.ApartmentID, &c.UserID, &c.Status, &c.CreatedAt, &c.ResolvedAt); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (r *retentionRepo) ListEligibleNotifications(ctx context.Context, cutoff time.Time) ([]*models.Notification, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, user_id, title, message, is_read, created_at
        FROM notifications WHERE `+notificationEligible+`
        ORDER BY created_at
    `, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &n)
	}
	return out, rows.Err()
}

func (r *retentionRepo) ListEligibleNotices(ctx context.Context, cutoff time.Time) ([]*models.Notice, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, title, content, posted_by_id, is_archived, expires_at, created_at
        FROM notices WHERE `+noticeEligible+`
        ORDER BY created_at
    `, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Notice
	for rows.Next() {
		var n models.Notice
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.PostedByID, &n.IsArchived, &n.ExpiresAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &n)
	}
	return out, rows.Err()
}

func (r *retentionRepo) DeleteEligible(ctx context.Context, q Querier, category models.RetentionCategory, cutoff time.Time) (int64, error) {
	if q == nil {
		q = r.db
	}
	table, predicate, err := categoryTableAndPredicate(category)
	if err != nil {
		return 0, err
	}
	tag, err := q.Exec(ctx, "DELETE FROM "+table+" WHERE "+predicate, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *retentionRepo) DeleteCommentsOfEligibleComplaints(ctx context.Context, q Querier, cutoff time.Time) (int64, error) {
	if q == nil {
		q = r.db
	}
	tag, err := q.Exec(ctx, `
        DELETE FROM complaint_comments
        WHERE complaint_id IN (SELECT id FROM complaints WHERE `+complaintEligible+`)
    `, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
