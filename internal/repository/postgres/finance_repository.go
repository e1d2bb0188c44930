package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/wareflow/backend-go/internal/domain"
)

type financeRepository struct {
	db *DB
}

func NewFinanceRepository(db *DB) *financeRepository {
	return &financeRepository{db: db}
}

func (r *financeRepository) InsertTransaction(ctx context.Context, kind domain.TransactionKind, cost float64, date time.Time) (int64, error) {
	var id int64
	query := `
		INSERT INTO transactions (type, cost, date_time)
		VALUES ($1, $2, $3)
		RETURNING transaction_id
	`
	if err := r.db.QueryRowContext(ctx, query, kind, cost, date).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert transaction: %w", err)
	}
	return id, nil
}

func (r *financeRepository) InsertFuelLog(ctx context.Context, l *domain.FuelLog) (int64, error) {
	var id int64
	query := `
		INSERT INTO fuel_logs (
			transaction_id, truck_id, employee_id, cost,
			liters, cost_per_liter, expected_cost, date_time
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING fuel_log_id
	`
	if err := r.db.QueryRowContext(ctx, query,
		l.TransactionID, l.TruckID, l.DriverID, l.Cost,
		l.Liters, l.CostPerLiter, l.ExpectedCost, l.Date,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert fuel log: %w", err)
	}
	return id, nil
}

func (r *financeRepository) SumFuelLiters(ctx context.Context, truckID int64) (float64, error) {
	var total float64
	query := `SELECT COALESCE(SUM(liters), 0) FROM fuel_logs WHERE truck_id = $1`
	if err := r.db.GetContext(ctx, &total, query, truckID); err != nil {
		return 0, fmt.Errorf("failed to sum fuel liters for truck %d: %w", truckID, err)
	}
	return total, nil
}

func (r *financeRepository) InsertPayrollLog(ctx context.Context, l *domain.PayrollLog) (int64, error) {
	var id int64
	query := `
		INSERT INTO payroll_logs (
			transaction_id, employee_id, payment, account_num,
			last_payment, next_payment, date_time
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING payroll_log_id
	`
	if err := r.db.QueryRowContext(ctx, query,
		l.TransactionID, l.EmployeeID, l.Payment, l.AccountNum,
		l.LastPayment, l.NextPayment, l.Date,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert payroll log: %w", err)
	}
	return id, nil
}

func (r *financeRepository) PayrollLoggedInMonth(ctx context.Context, employeeID int64, asOf time.Time) (bool, error) {
	var count int
	query := `
		SELECT COUNT(*)
		FROM payroll_logs
		WHERE employee_id = $1
		  AND date_trunc('month', date_time) = date_trunc('month', $2::timestamptz)
	`
	if err := r.db.GetContext(ctx, &count, query, employeeID, asOf); err != nil {
		return false, fmt.Errorf("failed to check payroll for employee %d: %w", employeeID, err)
	}
	return count > 0, nil
}

func (r *financeRepository) GasPrice(ctx context.Context) (float64, error) {
	var price float64
	query := `SELECT price FROM gas_price WHERE id = 1`
	if err := r.db.GetContext(ctx, &price, query); err != nil {
		return 0, fmt.Errorf("failed to load gas price: %w", err)
	}
	return price, nil
}

func (r *financeRepository) SetGasPrice(ctx context.Context, price float64) error {
	query := `UPDATE gas_price SET price = $1 WHERE id = 1`
	if _, err := r.db.ExecContext(ctx, query, price); err != nil {
		return fmt.Errorf("failed to set gas price: %w", err)
	}
	return nil
}

func (r *financeRepository) TotalCost(ctx context.Context, kind domain.TransactionKind) (float64, error) {
	var total float64
	query := `SELECT COALESCE(SUM(cost), 0) FROM transactions WHERE type = $1`
	if err := r.db.GetContext(ctx, &total, query, kind); err != nil {
		return 0, fmt.Errorf("failed to total %s cost: %w", kind, err)
	}
	return total, nil
}
