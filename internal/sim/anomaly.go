package sim

import (
	"time"

	"github.com/wareflow/backend-go/internal/domain"
)

const (
	// Costs may run over their baseline by this fraction before they
	// are flagged; the rule is strictly greater.
	overspendTolerance = 0.10
	// Operations may run over their expected duration by this much
	// before they are flagged; strictly greater as well.
	durationTolerance = 30 * time.Minute
)

var overspendReasons = map[domain.TransactionKind]string{
	domain.TransactionFuel:     "Fuel cost exceeded expected threshold",
	domain.TransactionDelivery: "Delivery cost exceeded expected threshold",
	domain.TransactionPayroll:  "Payroll cost exceeded expected threshold",
	domain.TransactionSupplier: "Supplier delivery cost exceeded expected threshold",
}

// ClassifyCost flags a cost running more than ten percent over its
// expected baseline. Pure; persisting the record is the caller's job.
func ClassifyCost(kind domain.TransactionKind, expected, actual float64) (domain.Overspend, bool) {
	deviation := actual - expected
	if deviation <= expected*overspendTolerance {
		return domain.Overspend{}, false
	}
	reason, ok := overspendReasons[kind]
	if !ok {
		reason = "Cost exceeded expected threshold"
	}
	return domain.Overspend{
		Kind:         kind,
		ExpectedCost: expected,
		ActualCost:   actual,
		Deviation:    deviation,
		Reason:       reason,
		FlaggedBy:    "system",
	}, true
}

// ClassifyDuration flags an operation overrunning its expected
// duration by more than thirty minutes. Pure; the caller fills in the
// entity and event fields before persisting.
func ClassifyDuration(expected, actual time.Duration) (domain.Underperformance, bool) {
	deviation := actual - expected
	if deviation <= durationTolerance {
		return domain.Underperformance{}, false
	}
	return domain.Underperformance{
		ExpectedDuration: expected,
		ActualDuration:   actual,
		Deviation:        deviation,
		FlaggedBy:        "system",
	}, true
}
