package postgres

import (
	"context"
	"fmt"

	"github.com/wareflow/backend-go/internal/domain"
)

type anomalyRepository struct {
	db *DB
}

func NewAnomalyRepository(db *DB) *anomalyRepository {
	return &anomalyRepository{db: db}
}

func (r *anomalyRepository) InsertOverspend(ctx context.Context, o *domain.Overspend) (int64, error) {
	var id int64
	query := `
		INSERT INTO overspend (
			transaction_id, type, expected_cost, actual_cost,
			deviation, reason, flagged_by, employee_id, date_time
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING overspend_id
	`
	if err := r.db.QueryRowContext(ctx, query,
		o.TransactionID, o.Kind, o.ExpectedCost, o.ActualCost,
		o.Deviation, o.Reason, o.FlaggedBy, o.EmployeeID, o.Date,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert overspend record: %w", err)
	}
	return id, nil
}

func (r *anomalyRepository) InsertUnderperformance(ctx context.Context, u *domain.Underperformance) (int64, error) {
	var id int64
	query := `
		INSERT INTO underperformance (
			delivery_id, entity_type, entity_id, event_type,
			expected_duration, actual_duration, deviation,
			reason, flagged_by, date_time
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING underperformance_id
	`
	if err := r.db.QueryRowContext(ctx, query,
		u.DeliveryID, u.EntityType, u.EntityID, u.EventType,
		u.ExpectedDuration, u.ActualDuration, u.Deviation,
		u.Reason, u.FlaggedBy, u.Date,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert underperformance record: %w", err)
	}
	return id, nil
}

func (r *anomalyRepository) ListOverspend(ctx context.Context, limit int) ([]*domain.Overspend, error) {
	var records []*domain.Overspend
	query := `
		SELECT overspend_id, transaction_id, type, expected_cost, actual_cost,
		       deviation, reason, flagged_by, employee_id, date_time
		FROM overspend
		ORDER BY date_time DESC, overspend_id DESC
		LIMIT $1
	`
	if err := r.db.SelectContext(ctx, &records, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list overspend records: %w", err)
	}
	return records, nil
}

func (r *anomalyRepository) ListUnderperformance(ctx context.Context, limit int) ([]*domain.Underperformance, error) {
	var records []*domain.Underperformance
	query := `
		SELECT underperformance_id, delivery_id, entity_type, entity_id,
		       event_type, expected_duration, actual_duration, deviation,
		       reason, flagged_by, date_time
		FROM underperformance
		ORDER BY date_time DESC, underperformance_id DESC
		LIMIT $1
	`
	if err := r.db.SelectContext(ctx, &records, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list underperformance records: %w", err)
	}
	return records, nil
}

func (r *anomalyRepository) CountAnomalies(ctx context.Context) (int, int, error) {
	var overspendCount, underCount int
	if err := r.db.GetContext(ctx, &overspendCount, `SELECT COUNT(*) FROM overspend`); err != nil {
		return 0, 0, fmt.Errorf("failed to count overspend records: %w", err)
	}
	if err := r.db.GetContext(ctx, &underCount, `SELECT COUNT(*) FROM underperformance`); err != nil {
		return 0, 0, fmt.Errorf("failed to count underperformance records: %w", err)
	}
	return overspendCount, underCount, nil
}
