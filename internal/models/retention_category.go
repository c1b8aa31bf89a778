package models

import "fmt"

// RetentionCategory names one of the five entity categories tracked by
// the monthly retention cycle. The string values are fixed API surface.
type RetentionCategory string

const (
	CategoryBookings      RetentionCategory = "bookings"
	CategoryVisitors      RetentionCategory = "visitors"
	CategoryComplaints    RetentionCategory = "complaints"
	CategoryNotifications RetentionCategory = "notifications"
	CategoryNotices       RetentionCategory = "notices"
)

// AllRetentionCategories is the fixed deletion order. Complaint comments
// are handled inside the complaints step, before their complaints.
var AllRetentionCategories = []RetentionCategory{
	CategoryBookings,
	CategoryVisitors,
	CategoryComplaints,
	CategoryNotifications,
	CategoryNotices,
}

func ParseRetentionCategory(s string) (RetentionCategory, error) {
	switch RetentionCategory(s) {
	case CategoryBookings, CategoryVisitors, CategoryComplaints, CategoryNotifications, CategoryNotices:
		return RetentionCategory(s), nil
	}
	return "", fmt.Errorf("unknown retention category %q", s)
}
