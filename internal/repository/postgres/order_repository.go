package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/wareflow/backend-go/internal/domain"
)

type orderRepository struct {
	db *DB
}

func NewOrderRepository(db *DB) *orderRepository {
	return &orderRepository{db: db}
}

// orderRow carries the raw JSONB items column alongside the order head.
type orderRow struct {
	ID        int64     `db:"order_id"`
	StoreID   int64     `db:"store_id"`
	Items     []byte    `db:"items"`
	CreatedAt time.Time `db:"date_time"`
}

func (r *orderRepository) PendingOrders(ctx context.Context) ([]*domain.PendingOrder, error) {
	var rows []orderRow
	query := `
		SELECT order_id, store_id, items, date_time
		FROM pending_orders
		ORDER BY date_time ASC, order_id ASC
	`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list pending orders: %w", err)
	}

	orders := make([]*domain.PendingOrder, 0, len(rows))
	for _, row := range rows {
		var items []domain.OrderItem
		if err := json.Unmarshal(row.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to decode items for order %d: %w", row.ID, err)
		}
		orders = append(orders, &domain.PendingOrder{
			ID:        row.ID,
			StoreID:   row.StoreID,
			Items:     items,
			CreatedAt: row.CreatedAt,
		})
	}
	return orders, nil
}

func (r *orderRepository) InsertOrder(ctx context.Context, order *domain.PendingOrder) (int64, error) {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return 0, fmt.Errorf("failed to encode order items: %w", err)
	}

	var id int64
	query := `
		INSERT INTO pending_orders (store_id, items, date_time)
		VALUES ($1, $2, $3)
		RETURNING order_id
	`
	if err := r.db.QueryRowContext(ctx, query, order.StoreID, items, order.CreatedAt).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert order: %w", err)
	}
	return id, nil
}

func (r *orderRepository) DeleteOrder(ctx context.Context, id int64) error {
	query := `DELETE FROM pending_orders WHERE order_id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete order %d: %w", id, err)
	}
	return nil
}

type supplierBatchRepository struct {
	db *DB
}

func NewSupplierBatchRepository(db *DB) *supplierBatchRepository {
	return &supplierBatchRepository{db: db}
}

func (r *supplierBatchRepository) PendingBatches(ctx context.Context) ([]*domain.SupplierBatch, error) {
	var batches []*domain.SupplierBatch
	query := `
		SELECT batch_id, supplier_id, product_id, quantity, status,
		       expected_delivery_time, date_time, order_received
		FROM supplier_batches
		WHERE status = 'pending'
		ORDER BY date_time ASC, batch_id ASC
	`
	if err := r.db.SelectContext(ctx, &batches, query); err != nil {
		return nil, fmt.Errorf("failed to list pending batches: %w", err)
	}
	return batches, nil
}

func (r *supplierBatchRepository) InsertBatch(ctx context.Context, batch *domain.SupplierBatch) (int64, error) {
	var id int64
	query := `
		INSERT INTO supplier_batches (
			supplier_id, product_id, quantity, status,
			expected_delivery_time, date_time
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING batch_id
	`
	if err := r.db.QueryRowContext(ctx, query,
		batch.SupplierID, batch.ProductID, batch.Quantity, batch.Status,
		batch.LeadTime, batch.CreatedAt,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert supplier batch: %w", err)
	}
	return id, nil
}

func (r *supplierBatchRepository) MarkBatchReceived(ctx context.Context, id int64, receivedAt time.Time) error {
	query := `
		UPDATE supplier_batches
		SET status = 'received', order_received = $2
		WHERE batch_id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id, receivedAt); err != nil {
		return fmt.Errorf("failed to mark batch %d received: %w", id, err)
	}
	return nil
}
