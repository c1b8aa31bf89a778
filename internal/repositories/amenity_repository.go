package repositories

import (
	"context"

	"github.com/towerline/society-service/internal/models"
)

type AmenityRepository interface {
	ListAll(ctx context.Context) ([]*models.Amenity, error)
}

type amenityRepo struct {
	db DB
}

func NewAmenityRepository(db DB) AmenityRepository {
	return &amenityRepo{db: db}
}

func (r *amenityRepo) ListAll(ctx context.Context) ([]*models.Amenity, error) {
	rows, err := r.db.Query(ctx, "SELECT id, name FROM amenities ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Amenity
	for rows.Next() {
		var a models.Amenity
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}
