package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/wareflow/backend-go/internal/domain"
)

func TestClassifyCost(t *testing.T) {
	tests := []struct {
		name     string
		kind     domain.TransactionKind
		expected float64
		actual   float64
		flagged  bool
	}{
		{"under baseline", domain.TransactionFuel, 100, 90, false},
		{"at baseline", domain.TransactionFuel, 100, 100, false},
		{"exactly ten percent over", domain.TransactionFuel, 100, 110, false},
		{"just past tolerance", domain.TransactionFuel, 100, 111, true},
		{"well past tolerance", domain.TransactionDelivery, 100, 115, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, flagged := ClassifyCost(tt.kind, tt.expected, tt.actual)
			assert.Equal(t, tt.flagged, flagged)
			if flagged {
				assert.Equal(t, tt.kind, record.Kind)
				assert.Equal(t, tt.expected, record.ExpectedCost)
				assert.Equal(t, tt.actual, record.ActualCost)
				assert.InDelta(t, tt.actual-tt.expected, record.Deviation, 1e-9)
				assert.Equal(t, "system", record.FlaggedBy)
				assert.NotEmpty(t, record.Reason)
			}
		})
	}
}

func TestClassifyCostReasonPerKind(t *testing.T) {
	fuel, flagged := ClassifyCost(domain.TransactionFuel, 100, 200)
	assert.True(t, flagged)

	payroll, flagged := ClassifyCost(domain.TransactionPayroll, 100, 200)
	assert.True(t, flagged)

	assert.NotEqual(t, fuel.Reason, payroll.Reason)
}

func TestClassifyDuration(t *testing.T) {
	expected := 3 * time.Hour

	tests := []struct {
		name    string
		actual  time.Duration
		flagged bool
	}{
		{"on time", 3 * time.Hour, false},
		{"within tolerance", 3*time.Hour + 30*time.Minute, false},
		{"just past tolerance", 3*time.Hour + 31*time.Minute, true},
		{"far past tolerance", 5 * time.Hour, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, flagged := ClassifyDuration(expected, tt.actual)
			assert.Equal(t, tt.flagged, flagged)
			if flagged {
				assert.Equal(t, expected, record.ExpectedDuration)
				assert.Equal(t, tt.actual, record.ActualDuration)
				assert.Equal(t, tt.actual-expected, record.Deviation)
				assert.Equal(t, "system", record.FlaggedBy)
			}
		})
	}
}
