package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/wareflow/backend-go/internal/domain"
)

// Salaries are paid every 30 days.
const payrollInterval = 30 * 24 * time.Hour

// runPayroll pays every employee whose next payment date has arrived,
// advances the date by one interval and runs the payment through the
// overspend classifier. At most one payment per employee per month.
func (o *Orchestrator) runPayroll(ctx context.Context, day time.Time) error {
	due, err := o.repos.Employees.DuePayroll(ctx, day)
	if err != nil {
		return fmt.Errorf("due payroll scan: %w", err)
	}

	for _, emp := range due {
		logged, err := o.repos.Finance.PayrollLoggedInMonth(ctx, emp.ID, day)
		if err != nil {
			o.log.Error().Err(err).Int64("employee_id", emp.ID).Msg("payroll dedup check failed")
			continue
		}
		if logged {
			o.log.Debug().Int64("employee_id", emp.ID).Msg("payroll already registered this month")
			continue
		}

		txID, err := o.repos.Finance.InsertTransaction(ctx, domain.TransactionPayroll, emp.Salary, day)
		if err != nil {
			o.log.Error().Err(err).Int64("employee_id", emp.ID).Msg("payroll transaction failed")
			continue
		}

		next := day.Add(payrollInterval)
		if _, err := o.repos.Finance.InsertPayrollLog(ctx, &domain.PayrollLog{
			TransactionID: txID,
			EmployeeID:    emp.ID,
			Payment:       emp.Salary,
			AccountNum:    emp.AccountNum,
			LastPayment:   day.Add(-payrollInterval),
			NextPayment:   next,
			Date:          day,
		}); err != nil {
			o.log.Error().Err(err).Int64("employee_id", emp.ID).Msg("payroll log failed")
			continue
		}

		// Expected cost equals the paid salary here; the check cannot
		// flag until payroll gets a separate baseline.
		if overspend, flagged := ClassifyCost(domain.TransactionPayroll, emp.Salary, emp.Salary); flagged {
			overspend.TransactionID = txID
			overspend.EmployeeID = emp.ID
			overspend.Date = day
			if _, err := o.repos.Anomalies.InsertOverspend(ctx, &overspend); err != nil {
				o.log.Warn().Err(err).Msg("payroll overspend record failed")
			}
		}

		if err := o.repos.Employees.SetNextPayment(ctx, emp.ID, next); err != nil {
			o.log.Error().Err(err).Int64("employee_id", emp.ID).Msg("advance next payment failed")
		}
	}
	return nil
}
