package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/wareflow/backend-go/internal/domain"
	"github.com/wareflow/backend-go/internal/repository"
)

func (s *Store) InsertTransaction(ctx context.Context, kind domain.TransactionKind, cost float64, date time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextTransactionID++
	s.transactions = append(s.transactions, &domain.Transaction{
		ID:   s.nextTransactionID,
		Kind: kind,
		Cost: cost,
		Date: date,
	})
	return s.nextTransactionID, nil
}

func (s *Store) InsertFuelLog(ctx context.Context, l *domain.FuelLog) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextFuelLogID++
	cp := *l
	cp.ID = s.nextFuelLogID
	s.fuelLogs = append(s.fuelLogs, &cp)
	return cp.ID, nil
}

func (s *Store) SumFuelLiters(ctx context.Context, truckID int64) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, l := range s.fuelLogs {
		if l.TruckID == truckID {
			total += l.Liters
		}
	}
	return total, nil
}

func (s *Store) InsertPayrollLog(ctx context.Context, l *domain.PayrollLog) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextPayrollLogID++
	cp := *l
	cp.ID = s.nextPayrollLogID
	s.payrollLogs = append(s.payrollLogs, &cp)
	return cp.ID, nil
}

func (s *Store) PayrollLoggedInMonth(ctx context.Context, employeeID int64, asOf time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.payrollLogs {
		if l.EmployeeID != employeeID {
			continue
		}
		if l.Date.Year() == asOf.Year() && l.Date.Month() == asOf.Month() {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) GasPrice(ctx context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gasPrice, nil
}

func (s *Store) SetGasPrice(ctx context.Context, price float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gasPrice = price
	return nil
}

func (s *Store) TotalCost(ctx context.Context, kind domain.TransactionKind) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, t := range s.transactions {
		if t.Kind == kind {
			total += t.Cost
		}
	}
	return total, nil
}

func (s *Store) GetEmployee(ctx context.Context, id int64) (*domain.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.employees {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("employee %d: %w", id, repository.ErrNotFound)
}

func (s *Store) DuePayroll(ctx context.Context, asOf time.Time) ([]*domain.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Employee, 0)
	for _, e := range s.employees {
		if !e.NextPayment.IsZero() && !e.NextPayment.After(asOf) {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *Store) SetNextPayment(ctx context.Context, id int64, next time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.employees {
		if e.ID == id {
			e.NextPayment = next
			return nil
		}
	}
	return fmt.Errorf("employee %d: %w", id, repository.ErrNotFound)
}

func (s *Store) InsertOverspend(ctx context.Context, o *domain.Overspend) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextOverspendID++
	cp := *o
	cp.ID = s.nextOverspendID
	s.overspends = append(s.overspends, &cp)
	return cp.ID, nil
}

func (s *Store) InsertUnderperformance(ctx context.Context, u *domain.Underperformance) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextUnderperfID++
	cp := *u
	cp.ID = s.nextUnderperfID
	s.underperformance = append(s.underperformance, &cp)
	return cp.ID, nil
}

func (s *Store) ListOverspend(ctx context.Context, limit int) ([]*domain.Overspend, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Overspend, 0, len(s.overspends))
	for i := len(s.overspends) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		cp := *s.overspends[i]
		out = append(out, &cp)
	}
	return out, nil
}

func (s *Store) ListUnderperformance(ctx context.Context, limit int) ([]*domain.Underperformance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Underperformance, 0, len(s.underperformance))
	for i := len(s.underperformance) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		cp := *s.underperformance[i]
		out = append(out, &cp)
	}
	return out, nil
}

func (s *Store) CountAnomalies(ctx context.Context) (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.overspends), len(s.underperformance), nil
}
