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

type employeeRepository struct {
	db *DB
}

func NewEmployeeRepository(db *DB) *employeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) GetEmployee(ctx context.Context, id int64) (*domain.Employee, error) {
	var e domain.Employee
	query := `
		SELECT employee_id, name, role, salary, account_num, next_payment
		FROM employees
		WHERE employee_id = $1
	`
	if err := r.db.GetContext(ctx, &e, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get employee %d: %w", id, err)
	}
	return &e, nil
}

func (r *employeeRepository) DuePayroll(ctx context.Context, asOf time.Time) ([]*domain.Employee, error) {
	var employees []*domain.Employee
	query := `
		SELECT employee_id, name, role, salary, account_num, next_payment
		FROM employees
		WHERE next_payment <= $1
		ORDER BY employee_id
	`
	if err := r.db.SelectContext(ctx, &employees, query, asOf); err != nil {
		return nil, fmt.Errorf("failed to list due payroll: %w", err)
	}
	return employees, nil
}

func (r *employeeRepository) SetNextPayment(ctx context.Context, id int64, next time.Time) error {
	query := `UPDATE employees SET next_payment = $2 WHERE employee_id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, next); err != nil {
		return fmt.Errorf("failed to set next payment for employee %d: %w", id, err)
	}
	return nil
}

type storeRepository struct {
	db *DB
}

func NewStoreRepository(db *DB) *storeRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) GetStore(ctx context.Context, id int64) (*domain.StoreLocation, error) {
	var s domain.StoreLocation
	query := `
		SELECT store_id, name, distance_km, expected_time, closing
		FROM stores
		WHERE store_id = $1
	`
	if err := r.db.GetContext(ctx, &s, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get store %d: %w", id, err)
	}
	return &s, nil
}

func (r *storeRepository) ListStores(ctx context.Context) ([]*domain.StoreLocation, error) {
	var stores []*domain.StoreLocation
	query := `
		SELECT store_id, name, distance_km, expected_time, closing
		FROM stores
		ORDER BY store_id
	`
	if err := r.db.SelectContext(ctx, &stores, query); err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	return stores, nil
}
