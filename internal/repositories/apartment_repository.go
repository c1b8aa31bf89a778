package repositories

import (
	"context"

	"github.com/towerline/society-service/internal/models"
)

type ApartmentRepository interface {
	ListAll(ctx context.Context) ([]*models.Apartment, error)
}

type apartmentRepo struct {
	db DB
}

func NewApartmentRepository(db DB) ApartmentRepository {
	return &apartmentRepo{db: db}
}

func (r *apartmentRepo) ListAll(ctx context.Context) ([]*models.Apartment, error) {
	rows, err := r.db.Query(ctx, `
        SELECT a.id, a.apartment_number, t.tower_name
        FROM apartments a
        JOIN towers t ON t.id = a.tower_id
        ORDER BY t.tower_name, a.apartment_number
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Apartment
	for rows.Next() {
		var a models.Apartment
		if err := rows.Scan(&a.ID, &a.Number, &a.TowerName); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}
