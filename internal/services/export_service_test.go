package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/towerline/society-service/internal/models"
)

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "bookings-cleanup-2025-06.csv", ExportFilename(models.CategoryBookings, 2025, 6))
	assert.Equal(t, "notices-cleanup-2024-12.csv", ExportFilename(models.CategoryNotices, 2024, 12))
}

func TestCsvField(t *testing.T) {
	assert.Equal(t, `"plain"`, csvField("plain"))
	assert.Equal(t, `""""`, csvField(`"`))
	assert.Equal(t, `"say ""hi"", then leave"`, csvField(`say "hi", then leave`))
	assert.Equal(t, "\"line one\nline two\"", csvField("line one\nline two"))
	assert.Equal(t, `""`, csvField(""))
}

func newTestExportService(retention *fakeRetentionRepo, users *fakeUserRepo, apartments *fakeApartmentRepo, amenities *fakeAmenityRepo) *ExportService {
	return NewExportService(retention, users, apartments, amenities)
}

func TestBuildExport_Bookings(t *testing.T) {
	userID := uuid.New()
	aptID := uuid.New()
	amenityID := uuid.New()

	retention := newFakeRetentionRepo()
	retention.bookings = []*models.Booking{
		{
			ID:          uuid.MustParse("11111111-1111-1111-1111-111111111111"),
			AmenityID:   amenityID,
			ApartmentID: aptID,
			UserID:      userID,
			StartTime:   time.Date(2025, time.March, 1, 18, 0, 0, 0, time.UTC),
			EndTime:     time.Date(2025, time.March, 1, 20, 0, 0, 0, time.UTC),
			Status:      models.BookingStatusApproved,
			Notes:       `birthday, bring "cake"`,
		},
	}
	users := &fakeUserRepo{users: []*models.User{{ID: userID, Name: "Asha Rao", Role: models.UserRoleResident}}}
	apartments := &fakeApartmentRepo{apartments: []*models.Apartment{{ID: aptID, Number: "A-101", TowerName: "Maple"}}}
	amenities := &fakeAmenityRepo{amenities: []*models.Amenity{{ID: amenityID, Name: "Clubhouse"}}}

	svc := newTestExportService(retention, users, apartments, amenities)
	out, err := svc.BuildExport(context.Background(), models.CategoryBookings, time.Now())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `"ID","Amenity","Apartment","Booked By","Start Time","End Time","Status","Notes"`, lines[0])
	assert.Equal(t,
		`"11111111-1111-1111-1111-111111111111","Clubhouse","A-101, Maple","Asha Rao","2025-03-01 18:00:00","2025-03-01 20:00:00","APPROVED","birthday, bring ""cake"""`,
		lines[1])
}

// Unknown foreign keys resolve to an empty field, never an error.
func TestBuildExport_UnknownForeignKeys(t *testing.T) {
	retention := newFakeRetentionRepo()
	retention.bookings = []*models.Booking{
		{
			ID:          uuid.New(),
			AmenityID:   uuid.New(),
			ApartmentID: uuid.New(),
			UserID:      uuid.New(),
			StartTime:   time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC),
			EndTime:     time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC),
			Status:      models.BookingStatusRejected,
		},
	}

	svc := newTestExportService(retention, &fakeUserRepo{}, &fakeApartmentRepo{}, &fakeAmenityRepo{})
	out, err := svc.BuildExport(context.Background(), models.CategoryBookings, time.Now())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	fields := strings.Split(lines[1], ",")
	require.Len(t, fields, 8)
	assert.Equal(t, `""`, fields[1]) // amenity
	assert.Equal(t, `""`, fields[2]) // apartment
	assert.Equal(t, `""`, fields[3]) // booked by
}

func TestBuildExport_EmptyCategoryStillHasHeader(t *testing.T) {
	svc := newTestExportService(newFakeRetentionRepo(), &fakeUserRepo{}, &fakeApartmentRepo{}, &fakeAmenityRepo{})

	out, err := svc.BuildExport(context.Background(), models.CategoryNotifications, time.Now())
	require.NoError(t, err)
	assert.Equal(t, `"ID","Recipient","Title","Message","Read","Created At"`+"\n", out)
}

func TestBuildExport_Visitors_NilExitTime(t *testing.T) {
	retention := newFakeRetentionRepo()
	exit := time.Date(2025, time.February, 2, 17, 30, 0, 0, time.UTC)
	retention.visitors = []*models.Visitor{
		{
			ID:        uuid.New(),
			Name:      "Courier",
			EntryTime: time.Date(2025, time.February, 2, 17, 0, 0, 0, time.UTC),
			ExitTime:  &exit,
			Status:    models.VisitorStatusCheckedOut,
		},
		{
			ID:        uuid.New(),
			Name:      "Guest",
			EntryTime: time.Date(2025, time.February, 3, 11, 0, 0, 0, time.UTC),
			Status:    models.VisitorStatusCheckedOut,
		},
	}

	svc := newTestExportService(retention, &fakeUserRepo{}, &fakeApartmentRepo{}, &fakeAmenityRepo{})
	out, err := svc.BuildExport(context.Background(), models.CategoryVisitors, time.Now())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], `"2025-02-02 17:30:00"`)
	assert.Contains(t, lines[2], `"","CHECKED_OUT"`)
}

func TestBuildExport_Notices(t *testing.T) {
	retention := newFakeRetentionRepo()
	posterID := uuid.New()
	expires := time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)
	retention.notices = []*models.Notice{
		{
			ID:         uuid.New(),
			Title:      "Water shutdown",
			Content:    "Maintenance window\n9am to 11am",
			PostedByID: posterID,
			IsArchived: true,
			ExpiresAt:  &expires,
			CreatedAt:  time.Date(2025, time.January, 10, 8, 0, 0, 0, time.UTC),
		},
	}
	users := &fakeUserRepo{users: []*models.User{{ID: posterID, Name: "Facilities", Role: models.UserRoleAdmin}}}

	svc := newTestExportService(retention, users, &fakeApartmentRepo{}, &fakeAmenityRepo{})
	out, err := svc.BuildExport(context.Background(), models.CategoryNotices, time.Now())
	require.NoError(t, err)

	// The newline inside Content stays inside its quoted field.
	assert.Contains(t, out, "\"Maintenance window\n9am to 11am\"")
	assert.Contains(t, out, `"Facilities"`)
	assert.Contains(t, out, `"true"`)
	assert.Contains(t, out, `"2025-01-31 00:00:00"`)
}

func TestBuildExport_UnknownCategory(t *testing.T) {
	svc := newTestExportService(newFakeRetentionRepo(), &fakeUserRepo{}, &fakeApartmentRepo{}, &fakeAmenityRepo{})
	_, err := svc.BuildExport(context.Background(), models.RetentionCategory("payments"), time.Now())
	assert.Error(t, err)
}
