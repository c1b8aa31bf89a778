// society-service/internal/services/export_service.go

package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/towerline/society-service/internal/models"
	"github.com/towerline/society-service/internal/repositories"
)

const exportTimeLayout = "2006-01-02 15:04:05"

/*
ExportService renders one category's eligible rows into a denormalized
CSV: header row, then one row per record, with foreign keys resolved to
display names through lookup maps built once per export. Pure with
respect to its inputs; marking download flags is the orchestrator's job.

Every field is double-quote wrapped with embedded quotes doubled, so
free-text descriptions with commas, quotes, or newlines stay intact.
*/
type ExportService struct {
	retention  repositories.RetentionRepository
	users      repositories.UserRepository
	apartments repositories.ApartmentRepository
	amenities  repositories.AmenityRepository
}

func NewExportService(
	retention repositories.RetentionRepository,
	users repositories.UserRepository,
	apartments repositories.ApartmentRepository,
	amenities repositories.AmenityRepository,
) *ExportService {
	return &ExportService{
		retention:  retention,
		users:      users,
		apartments: apartments,
		amenities:  amenities,
	}
}

// ExportFilename follows {category}-cleanup-{year}-{month:02d}.csv.
func ExportFilename(category models.RetentionCategory, year, month int) string {
	return fmt.Sprintf("%s-cleanup-%d-%02d.csv", category, year, month)
}

// BuildExport produces the CSV text for one category at the given cutoff.
func (s *ExportService) BuildExport(ctx context.Context, category models.RetentionCategory, cutoff time.Time) (string, error) {
	switch category {
	case models.CategoryBookings:
		return s.buildBookingsExport(ctx, cutoff)
	case models.CategoryVisitors:
		return s.buildVisitorsExport(ctx, cutoff)
	case models.CategoryComplaints:
		return s.buildComplaintsExport(ctx, cutoff)
	case models.CategoryNotifications:
		return s.buildNotificationsExport(ctx, cutoff)
	case models.CategoryNotices:
		return s.buildNoticesExport(ctx, cutoff)
	}
	return "", fmt.Errorf("unknown retention category %q", category)
}

/*─────────────────── lookup maps ──────────────────*/

type exportLookups struct {
	userNames      map[uuid.UUID]string
	apartmentNames map[uuid.UUID]string
	amenityNames   map[uuid.UUID]string
}

// userName degrades to "" for unknown IDs, never errors.
func (l *exportLookups) userName(id uuid.UUID) string {
	return l.userNames[id]
}

func (l *exportLookups) apartmentName(id uuid.UUID) string {
	return l.apartmentNames[id]
}

func (l *exportLookups) amenityName(id uuid.UUID) string {
	return l.amenityNames[id]
}

func (s *ExportService) loadLookups(ctx context.Context, needAmenities bool) (*exportLookups, error) {
	l := &exportLookups{
		userNames:      map[uuid.UUID]string{},
		apartmentNames: map[uuid.UUID]string{},
		amenityNames:   map[uuid.UUID]string{},
	}

	users, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		l.userNames[u.ID] = u.Name
	}

	apartments, err := s.apartments.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range apartments {
		l.apartmentNames[a.ID] = fmt.Sprintf("%s, %s", a.Number, a.TowerName)
	}

	if needAmenities {
		amenities, err := s.amenities.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		for _, a := range amenities {
			l.amenityNames[a.ID] = a.Name
		}
	}
	return l, nil
}

/*─────────────────── CSV building ──────────────────*/

// csvField wraps a value in double quotes with embedded quotes doubled.
// Embedded newlines stay inside the quotes.
func csvField(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

func writeCSVRow(b *strings.Builder, fields ...string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(csvField(f))
	}
	b.WriteByte('\n')
}

func formatTime(t time.Time) string {
	return t.Format(exportTimeLayout)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(exportTimeLayout)
}

/*─────────────────── per-category exports ──────────────────*/

func (s *ExportService) buildBookingsExport(ctx context.Context, cutoff time.Time) (string, error) {
	rows, err := s.retention.ListEligibleBookings(ctx, cutoff)
	if err != nil {
		return "", err
	}
	lookups, err := s.loadLookups(ctx, true)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	writeCSVRow(&b, "ID", "Amenity", "Apartment", "Booked By", "Start Time", "End Time", "Status", "Notes")
	for _, r := range rows {
		writeCSVRow(&b,
			r.ID.String(),
			lookups.amenityName(r.AmenityID),
			lookups.apartmentName(r.ApartmentID),
			lookups.userName(r.UserID),
			formatTime(r.StartTime),
			formatTime(r.EndTime),
			string(r.Status),
			r.Notes,
		)
	}
	return b.String(), nil
}

func (s *ExportService) buildVisitorsExport(ctx context.Context, cutoff time.Time) (string, error) {
	rows, err := s.retention.ListEligibleVisitors(ctx, cutoff)
	if err != nil {
		return "", err
	}
	lookups, err := s.loadLookups(ctx, false)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	writeCSVRow(&b, "ID", "Name", "Phone", "Apartment", "Host", "Entry Time", "Exit Time", "Status")
	for _, r := range rows {
		writeCSVRow(&b,
			r.ID.String(),
			r.Name,
			r.PhoneNumber,
			lookups.apartmentName(r.ApartmentID),
			lookups.userName(r.HostUserID),
			formatTime(r.EntryTime),
			formatTimePtr(r.ExitTime),
			string(r.Status),
		)
	}
	return b.String(), nil
}

func (s *ExportService) buildComplaintsExport(ctx context.Context, cutoff time.Time) (string, error) {
	rows, err := s.retention.ListEligibleComplaints(ctx, cutoff)
	if err != nil {
		return "", err
	}
	lookups, err := s.loadLookups(ctx, false)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	writeCSVRow(&b, "ID", "Title", "Description", "Apartment", "Raised By", "Status", "Created At", "Resolved At")
	for _, r := range rows {
		writeCSVRow(&b,
			r.ID.String(),
			r.Title,
			r.Description,
			lookups.apartmentName(r.ApartmentID),
			lookups.userName(r.UserID),
			string(r.Status),
			formatTime(r.CreatedAt),
			formatTimePtr(r.ResolvedAt),
		)
	}
	return b.String(), nil
}

func (s *ExportService) buildNotificationsExport(ctx context.Context, cutoff time.Time) (string, error) {
	rows, err := s.retention.ListEligibleNotifications(ctx, cutoff)
	if err != nil {
		return "", err
	}
	lookups, err := s.loadLookups(ctx, false)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	writeCSVRow(&b, "ID", "Recipient", "Title", "Message", "Read", "Created At")
	for _, r := range rows {
		writeCSVRow(&b,
			r.ID.String(),
			lookups.userName(r.UserID),
			r.Title,
			r.Message,
			strconv.FormatBool(r.IsRead),
			formatTime(r.CreatedAt),
		)
	}
	return b.String(), nil
}

func (s *ExportService) buildNoticesExport(ctx context.Context, cutoff time.Time) (string, error) {
	rows, err := s.retention.ListEligibleNotices(ctx, cutoff)
	if err != nil {
		return "", err
	}
	lookups, err := s.loadLookups(ctx, false)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	writeCSVRow(&b, "ID", "Title", "Content", "Posted By", "Archived", "Expires At", "Created At")
	for _, r := range rows {
		writeCSVRow(&b,
			r.ID.String(),
			r.Title,
			r.Content,
			lookups.userName(r.PostedByID),
			strconv.FormatBool(r.IsArchived),
			formatTimePtr(r.ExpiresAt),
			formatTime(r.CreatedAt),
		)
	}
	return b.String(), nil
}
