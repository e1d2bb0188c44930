package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/wareflow/backend-go/internal/domain"
	"github.com/wareflow/backend-go/internal/repository"
)

type fleetRepository struct {
	db *DB
}

func NewFleetRepository(db *DB) *fleetRepository {
	return &fleetRepository{db: db}
}

const truckColumns = `
	truck_id, employee_id, capacity, fuel_capacity,
	refrigerated, operational_status, last_maintenance
`

func (r *fleetRepository) GetTruck(ctx context.Context, id int64) (*domain.Truck, error) {
	var t domain.Truck
	query := `SELECT ` + truckColumns + ` FROM trucks WHERE truck_id = $1`
	if err := r.db.GetContext(ctx, &t, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get truck %d: %w", id, err)
	}
	return &t, nil
}

func (r *fleetRepository) ListTrucks(ctx context.Context) ([]*domain.Truck, error) {
	var trucks []*domain.Truck
	query := `SELECT ` + truckColumns + ` FROM trucks ORDER BY truck_id`
	if err := r.db.SelectContext(ctx, &trucks, query); err != nil {
		return nil, fmt.Errorf("failed to list trucks: %w", err)
	}
	return trucks, nil
}

func (r *fleetRepository) AvailableTrucks(ctx context.Context, needsRefrigeration bool) ([]*domain.Truck, error) {
	var trucks []*domain.Truck
	query := `
		SELECT ` + truckColumns + `
		FROM trucks
		WHERE operational_status = 'available'
		  AND (refrigerated OR NOT $1)
		ORDER BY truck_id
	`
	if err := r.db.SelectContext(ctx, &trucks, query, needsRefrigeration); err != nil {
		return nil, fmt.Errorf("failed to list available trucks: %w", err)
	}
	return trucks, nil
}

func (r *fleetRepository) SetTruckStatus(ctx context.Context, id int64, status domain.TruckStatus) error {
	query := `UPDATE trucks SET operational_status = $2 WHERE truck_id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status); err != nil {
		return fmt.Errorf("failed to set truck %d status: %w", id, err)
	}
	return nil
}

func (r *fleetRepository) SetLastMaintenance(ctx context.Context, id int64, asOf time.Time) error {
	query := `UPDATE trucks SET last_maintenance = $2 WHERE truck_id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, asOf); err != nil {
		return fmt.Errorf("failed to set truck %d maintenance date: %w", id, err)
	}
	return nil
}

func (r *fleetRepository) ReleaseMaintenance(ctx context.Context, lastMaintenance time.Time) (int, error) {
	query := `
		UPDATE trucks
		SET operational_status = 'available'
		WHERE operational_status = 'maintenance'
		  AND date_trunc('day', last_maintenance) = date_trunc('day', $1::timestamptz)
	`
	res, err := r.db.ExecContext(ctx, query, lastMaintenance)
	if err != nil {
		return 0, fmt.Errorf("failed to release trucks from maintenance: %w", err)
	}
	released, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count released trucks: %w", err)
	}
	return int(released), nil
}
