package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/wareflow/backend-go/internal/domain"
)

type deliveryRepository struct {
	db *DB
}

func NewDeliveryRepository(db *DB) *deliveryRepository {
	return &deliveryRepository{db: db}
}

type deliveryRow struct {
	ID           int64                 `db:"delivery_id"`
	StoreID      int64                 `db:"store_id"`
	Items        []byte                `db:"items"`
	TotalCost    float64               `db:"cost"`
	TruckID      int64                 `db:"truck_id"`
	DriverID     int64                 `db:"driver_id"`
	TimeSent     time.Time             `db:"time_sent"`
	TimeReturned time.Time             `db:"time_returned"`
	Status       domain.DeliveryStatus `db:"status"`
	Date         time.Time             `db:"date_time"`
}

func (row deliveryRow) toDomain() (*domain.Delivery, error) {
	var items []domain.DeliveredItem
	if err := json.Unmarshal(row.Items, &items); err != nil {
		return nil, fmt.Errorf("failed to decode items for delivery %d: %w", row.ID, err)
	}
	return &domain.Delivery{
		ID:           row.ID,
		StoreID:      row.StoreID,
		Items:        items,
		TotalCost:    row.TotalCost,
		TruckID:      row.TruckID,
		DriverID:     row.DriverID,
		TimeSent:     row.TimeSent,
		TimeReturned: row.TimeReturned,
		Status:       row.Status,
		Date:         row.Date,
	}, nil
}

func (r *deliveryRepository) InsertDelivery(ctx context.Context, d *domain.Delivery) (int64, error) {
	items, err := json.Marshal(d.Items)
	if err != nil {
		return 0, fmt.Errorf("failed to encode delivery items: %w", err)
	}

	var id int64
	query := `
		INSERT INTO deliveries (
			store_id, items, cost, truck_id, driver_id,
			time_sent, time_returned, status, date_time
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING delivery_id
	`
	if err := r.db.QueryRowContext(ctx, query,
		d.StoreID, items, d.TotalCost, d.TruckID, d.DriverID,
		d.TimeSent, d.TimeReturned, d.Status, d.Date,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert delivery: %w", err)
	}
	return id, nil
}

func (r *deliveryRepository) CompleteDelivery(ctx context.Context, id int64, returnedAt time.Time) error {
	query := `
		UPDATE deliveries
		SET status = 'completed', time_returned = $2
		WHERE delivery_id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id, returnedAt); err != nil {
		return fmt.Errorf("failed to complete delivery %d: %w", id, err)
	}
	return nil
}

func (r *deliveryRepository) ListDeliveries(ctx context.Context, limit int) ([]*domain.Delivery, error) {
	var rows []deliveryRow
	query := `
		SELECT delivery_id, store_id, items, cost, truck_id, driver_id,
		       time_sent, time_returned, status, date_time
		FROM deliveries
		ORDER BY date_time DESC, delivery_id DESC
		LIMIT $1
	`
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list deliveries: %w", err)
	}

	deliveries := make([]*domain.Delivery, 0, len(rows))
	for _, row := range rows {
		d, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		deliveries = append(deliveries, d)
	}
	return deliveries, nil
}

func (r *deliveryRepository) ReturnedTruckIDs(ctx context.Context, by time.Time) ([]int64, error) {
	var ids []int64
	query := `
		SELECT DISTINCT truck_id
		FROM deliveries
		WHERE status = 'completed' AND time_returned <= $1
	`
	if err := r.db.SelectContext(ctx, &ids, query, by); err != nil {
		return nil, fmt.Errorf("failed to list returned trucks: %w", err)
	}
	return ids, nil
}

func (r *deliveryRepository) InsertTruckLog(ctx context.Context, l *domain.TruckLog) (int64, error) {
	var id int64
	query := `
		INSERT INTO truck_logs (
			delivery_id, driver_id, time_sent, time_returned,
			expected_time, distance_km, km_driven, extra_km,
			delivery_delay, date_time
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING log_id
	`
	if err := r.db.QueryRowContext(ctx, query,
		l.DeliveryID, l.DriverID, l.TimeSent, l.TimeReturned,
		l.ExpectedTravel, l.DistanceKm, l.KmDriven, l.ExtraKm,
		l.Delay, l.Date,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert truck log: %w", err)
	}
	return id, nil
}

func (r *deliveryRepository) CountDeliveries(ctx context.Context) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM deliveries`
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("failed to count deliveries: %w", err)
	}
	return count, nil
}
