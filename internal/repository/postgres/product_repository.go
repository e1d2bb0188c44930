package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/wareflow/backend-go/internal/domain"
	"github.com/wareflow/backend-go/internal/repository"
)

type productRepository struct {
	db *DB
}

func NewProductRepository(db *DB) *productRepository {
	return &productRepository{db: db}
}

func (r *productRepository) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	query := `
		SELECT product_id, name, category, pallet_cost, weight, refrigerated, supplier_id
		FROM products
		WHERE product_id = $1
	`
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	return &p, nil
}

func (r *productRepository) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	var products []*domain.Product
	query := `
		SELECT product_id, name, category, pallet_cost, weight, refrigerated, supplier_id
		FROM products
		ORDER BY product_id
	`
	if err := r.db.SelectContext(ctx, &products, query); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

type pelletRepository struct {
	db *DB
}

func NewPelletRepository(db *DB) *pelletRepository {
	return &pelletRepository{db: db}
}

func (r *pelletRepository) UnsentFEFO(ctx context.Context, productID int64, limit int) ([]*domain.Pellet, error) {
	var pellets []*domain.Pellet
	query := `
		SELECT pellet_id, product_id, name, category, cost, weight,
		       received, sell_by, refrigerated, sent
		FROM product_pellets
		WHERE product_id = $1 AND NOT sent
		ORDER BY sell_by ASC, pellet_id ASC
		LIMIT $2
	`
	if err := r.db.SelectContext(ctx, &pellets, query, productID, limit); err != nil {
		return nil, fmt.Errorf("failed to list unsent pellets for product %d: %w", productID, err)
	}
	return pellets, nil
}

func (r *pelletRepository) MarkPelletsSent(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE product_pellets SET sent = TRUE WHERE pellet_id = ANY($1)`
	if _, err := r.db.ExecContext(ctx, query, pq.Array(ids)); err != nil {
		return fmt.Errorf("failed to mark pellets sent: %w", err)
	}
	return nil
}

func (r *pelletRepository) InsertPellets(ctx context.Context, pellets []*domain.Pellet) ([]int64, error) {
	if len(pellets) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(pellets))
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO product_pellets (
				product_id, name, category, cost, weight,
				received, sell_by, refrigerated, sent
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE)
			RETURNING pellet_id
		`
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare pellet insert: %w", err)
		}
		defer stmt.Close()

		for _, p := range pellets {
			var id int64
			if err := stmt.QueryRowContext(ctx,
				p.ProductID, p.Name, p.Category, p.UnitCost, p.UnitWeight,
				p.Received, p.SellBy, p.Refrigerated,
			).Scan(&id); err != nil {
				return fmt.Errorf("failed to insert pellet: %w", err)
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *pelletRepository) DeleteExpiredUnsent(ctx context.Context, asOf time.Time) (int, error) {
	query := `DELETE FROM product_pellets WHERE NOT sent AND sell_by < $1`
	res, err := r.db.ExecContext(ctx, query, asOf)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired pellets: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted pellets: %w", err)
	}
	return int(removed), nil
}

func (r *pelletRepository) CountUnsent(ctx context.Context, productID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM product_pellets WHERE product_id = $1 AND NOT sent`
	if err := r.db.GetContext(ctx, &count, query, productID); err != nil {
		return 0, fmt.Errorf("failed to count unsent pellets for product %d: %w", productID, err)
	}
	return count, nil
}
