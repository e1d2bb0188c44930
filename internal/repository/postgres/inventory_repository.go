package postgres

import (
	"context"
	"fmt"

	"github.com/wareflow/backend-go/internal/domain"
)

// inventoryRepository keeps the single warehouse stock row. Clamps are
// expressed as GREATEST so concurrent updates can never go negative.
type inventoryRepository struct {
	db *DB
}

func NewInventoryRepository(db *DB) *inventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) Snapshot(ctx context.Context) (domain.InventorySnapshot, error) {
	var snap domain.InventorySnapshot
	query := `
		SELECT capacity_pellets, current_pellets, to_be_sent, to_be_received
		FROM warehouse_inventory
		WHERE id = 1
	`
	if err := r.db.GetContext(ctx, &snap, query); err != nil {
		return domain.InventorySnapshot{}, fmt.Errorf("failed to load inventory snapshot: %w", err)
	}
	return snap, nil
}

func (r *inventoryRepository) ApplyOutbound(ctx context.Context, qty int) error {
	query := `
		UPDATE warehouse_inventory
		SET current_pellets = GREATEST(current_pellets - $1, 0),
		    to_be_sent = to_be_sent + $1
		WHERE id = 1
	`
	if _, err := r.db.ExecContext(ctx, query, qty); err != nil {
		return fmt.Errorf("failed to apply outbound: %w", err)
	}
	return nil
}

func (r *inventoryRepository) CompleteOutbound(ctx context.Context, qty int) error {
	query := `
		UPDATE warehouse_inventory
		SET to_be_sent = GREATEST(to_be_sent - $1, 0)
		WHERE id = 1
	`
	if _, err := r.db.ExecContext(ctx, query, qty); err != nil {
		return fmt.Errorf("failed to complete outbound: %w", err)
	}
	return nil
}

func (r *inventoryRepository) AddInbound(ctx context.Context, qty int) error {
	query := `
		UPDATE warehouse_inventory
		SET to_be_received = to_be_received + $1
		WHERE id = 1
	`
	if _, err := r.db.ExecContext(ctx, query, qty); err != nil {
		return fmt.Errorf("failed to add inbound: %w", err)
	}
	return nil
}

func (r *inventoryRepository) CommitInbound(ctx context.Context, qty int) error {
	query := `
		UPDATE warehouse_inventory
		SET current_pellets = current_pellets + $1,
		    to_be_received = GREATEST(to_be_received - $1, 0)
		WHERE id = 1
	`
	if _, err := r.db.ExecContext(ctx, query, qty); err != nil {
		return fmt.Errorf("failed to commit inbound: %w", err)
	}
	return nil
}
