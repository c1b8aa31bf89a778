package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/towerline/society-service/internal/models"
	"github.com/towerline/society-service/internal/repositories"
	"github.com/towerline/society-service/internal/utils"
)

/*─────────────────── cleanup log repo fake ──────────────────*/

type fakeCleanupLogRepo struct {
	log     *models.CleanupLog
	history []*models.CleanupLog

	listLimit int
}

func newFakeCleanupLogRepo() *fakeCleanupLogRepo {
	return &fakeCleanupLogRepo{}
}

func (f *fakeCleanupLogRepo) GetOrCreate(ctx context.Context, month, year int, scheduledDate, reminderStartDate time.Time) (*models.CleanupLog, error) {
	if f.log == nil || f.log.Month != month || f.log.Year != year {
		f.log = &models.CleanupLog{
			ID:                uuid.New(),
			Month:             month,
			Year:              year,
			Status:            models.CleanupStatusPending,
			ScheduledDate:     scheduledDate,
			ReminderStartDate: reminderStartDate,
			CreatedAt:         time.Now(),
			UpdatedAt:         time.Now(),
		}
	}
	cp := *f.log
	return &cp, nil
}

func (f *fakeCleanupLogRepo) GetByMonthYear(ctx context.Context, month, year int) (*models.CleanupLog, error) {
	if f.log == nil || f.log.Month != month || f.log.Year != year {
		return nil, pgx.ErrNoRows
	}
	cp := *f.log
	return &cp, nil
}

func (f *fakeCleanupLogRepo) ListRecent(ctx context.Context, limit int) ([]*models.CleanupLog, error) {
	f.listLimit = limit
	if len(f.history) > limit {
		return f.history[:limit], nil
	}
	return f.history, nil
}

func (f *fakeCleanupLogRepo) MarkCategoryDownloaded(ctx context.Context, id uuid.UUID, category models.RetentionCategory) (*models.CleanupLog, error) {
	switch category {
	case models.CategoryBookings:
		f.log.BookingsDownloaded = true
	case models.CategoryVisitors:
		f.log.VisitorsDownloaded = true
	case models.CategoryComplaints:
		f.log.ComplaintsDownloaded = true
	case models.CategoryNotifications:
		f.log.NotificationsDownloaded = true
	case models.CategoryNotices:
		f.log.NoticesDownloaded = true
	}
	cp := *f.log
	return &cp, nil
}

func (f *fakeCleanupLogRepo) MarkAllDownloaded(ctx context.Context, id uuid.UUID) (*models.CleanupLog, error) {
	f.log.BookingsDownloaded = true
	f.log.VisitorsDownloaded = true
	f.log.ComplaintsDownloaded = true
	f.log.NotificationsDownloaded = true
	f.log.NoticesDownloaded = true
	if f.log.Status == models.CleanupStatusPending || f.log.Status == models.CleanupStatusReminded {
		f.log.Status = models.CleanupStatusDownloaded
	}
	cp := *f.log
	return &cp, nil
}

func (f *fakeCleanupLogRepo) PromoteToDownloaded(ctx context.Context, id uuid.UUID) error {
	if f.log.Status == models.CleanupStatusPending || f.log.Status == models.CleanupStatusReminded {
		f.log.Status = models.CleanupStatusDownloaded
	}
	return nil
}

func (f *fakeCleanupLogRepo) MarkReminded(ctx context.Context, id uuid.UUID) (bool, error) {
	if f.log.Status != models.CleanupStatusPending {
		return false, nil
	}
	f.log.Status = models.CleanupStatusReminded
	return true, nil
}

func (f *fakeCleanupLogRepo) Skip(ctx context.Context, id uuid.UUID) (bool, error) {
	if f.log.IsTerminal() {
		return false, nil
	}
	f.log.Status = models.CleanupStatusSkipped
	return true, nil
}

func (f *fakeCleanupLogRepo) RecordEmailSent(ctx context.Context, id uuid.UUID, recipient string) error {
	now := time.Now()
	f.log.EmailSentAt = &now
	f.log.EmailSentTo = &recipient
	return nil
}

func (f *fakeCleanupLogRepo) CompleteAtomic(
	ctx context.Context,
	month, year int,
	run func(tx pgx.Tx, log *models.CleanupLog) (*models.CleanupCounts, error),
) (*models.CleanupLog, error) {
	if f.log == nil || f.log.Month != month || f.log.Year != year {
		return nil, utils.ErrLogNotFound
	}
	cp := *f.log
	counts, err := run(nil, &cp)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	f.log.BookingsDeleted = &counts.Bookings
	f.log.VisitorsDeleted = &counts.Visitors
	f.log.ComplaintsDeleted = &counts.Complaints
	f.log.NotificationsDeleted = &counts.Notifications
	f.log.NoticesDeleted = &counts.Notices
	f.log.Status = models.CleanupStatusCompleted
	f.log.CompletedAt = &now
	out := *f.log
	return &out, nil
}

var _ repositories.CleanupLogRepository = (*fakeCleanupLogRepo)(nil)

/*─────────────────── retention repo fake ──────────────────*/

type fakeRetentionRepo struct {
	counts map[models.RetentionCategory]int

	bookings      []*models.Booking
	visitors      []*models.Visitor
	complaints    []*models.Complaint
	notifications []*models.Notification
	notices       []*models.Notice

	deleteOrder []string
}

func newFakeRetentionRepo() *fakeRetentionRepo {
	return &fakeRetentionRepo{counts: map[models.RetentionCategory]int{}}
}

func (f *fakeRetentionRepo) CountEligible(ctx context.Context, category models.RetentionCategory, cutoff time.Time) (int, error) {
	return f.counts[category], nil
}

func (f *fakeRetentionRepo) ListEligibleBookings(ctx context.Context, cutoff time.Time) ([]*models.Booking, error) {
	return f.bookings, nil
}

func (f *fakeRetentionRepo) ListEligibleVisitors(ctx context.Context, cutoff time.Time) ([]*models.Visitor, error) {
	return f.visitors, nil
}

func (f *fakeRetentionRepo) ListEligibleComplaints(ctx context.Context, cutoff time.Time) ([]*models.Complaint, error) {
	return f.complaints, nil
}

func (f *fakeRetentionRepo) ListEligibleNotifications(ctx context.Context, cutoff time.Time) ([]*models.Notification, error) {
	return f.notifications, nil
}

func (f *fakeRetentionRepo) ListEligibleNotices(ctx context.Context, cutoff time.Time) ([]*models.Notice, error) {
	return f.notices, nil
}

func (f *fakeRetentionRepo) DeleteEligible(ctx context.Context, q repositories.Querier, category models.RetentionCategory, cutoff time.Time) (int64, error) {
	f.deleteOrder = append(f.deleteOrder, string(category))
	return int64(f.counts[category]), nil
}

func (f *fakeRetentionRepo) DeleteCommentsOfEligibleComplaints(ctx context.Context, q repositories.Querier, cutoff time.Time) (int64, error) {
	f.deleteOrder = append(f.deleteOrder, "complaint_comments")
	return 0, nil
}

var _ repositories.RetentionRepository = (*fakeRetentionRepo)(nil)

/*─────────────────── reference repo fakes ──────────────────*/

type fakeUserRepo struct {
	users []*models.User
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) ListAdmins(ctx context.Context) ([]*models.User, error) {
	var out []*models.User
	for _, u := range f.users {
		if u.Role == models.UserRoleAdmin {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) ListAll(ctx context.Context) ([]*models.User, error) {
	return f.users, nil
}

var _ repositories.UserRepository = (*fakeUserRepo)(nil)

type fakeApartmentRepo struct {
	apartments []*models.Apartment
}

func (f *fakeApartmentRepo) ListAll(ctx context.Context) ([]*models.Apartment, error) {
	return f.apartments, nil
}

type fakeAmenityRepo struct {
	amenities []*models.Amenity
}

func (f *fakeAmenityRepo) ListAll(ctx context.Context) ([]*models.Amenity, error) {
	return f.amenities, nil
}

/*─────────────────── notifier and mail fakes ──────────────────*/

type fakeNotifier struct {
	titles []string
	bodies []string
}

func (f *fakeNotifier) NotifyAdmins(ctx context.Context, title, body string) {
	f.titles = append(f.titles, title)
	f.bodies = append(f.bodies, body)
}

type fakeMailClient struct {
	sent   []*mail.SGMailV3
	err    error
	status int
}

func (f *fakeMailClient) Send(email *mail.SGMailV3) (*rest.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, email)
	status := f.status
	if status == 0 {
		status = 202
	}
	return &rest.Response{StatusCode: status}, nil
}
