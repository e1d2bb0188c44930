package sim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wareflow/backend-go/internal/domain"
	"github.com/wareflow/backend-go/internal/repository/memory"
)

func newTestPlanner(t *testing.T, capacity, onHand, inTransitIn int) (*Planner, *memory.Store, *Ledger) {
	t.Helper()
	st := memory.NewStore(capacity, 3.0)
	st.SetOnHand(onHand)
	st.AddProduct(domain.Product{ID: 1, Name: "Pasta", Category: "Pantry", UnitCost: 50, SupplierID: 9})

	bundle := st.Bundle()
	ledger := NewLedger(bundle.Inventory)
	if inTransitIn > 0 {
		require.NoError(t, ledger.ReserveInbound(context.Background(), inTransitIn))
	}
	return NewPlanner(ledger, bundle.Batches, bundle.Products), st, ledger
}

func TestPlanBoundedBySpace(t *testing.T) {
	planner, st, ledger := newTestPlanner(t, 1000, 300, 200)
	ctx := context.Background()
	asOf := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	// Headroom is 1000 - (300 + 200) = 500; a 1200-unit shortfall must
	// not order more than that.
	sizes, err := planner.Plan(ctx, 1, 1200, asOf)
	require.NoError(t, err)

	total := 0
	for _, size := range sizes {
		total += size
	}
	assert.Equal(t, 500, total, "ordered quantity equals the space ceiling")

	batches, err := st.PendingBatches(ctx)
	require.NoError(t, err)
	require.Len(t, batches, len(sizes))
	for _, b := range batches {
		assert.Equal(t, int64(9), b.SupplierID)
		assert.Equal(t, domain.BatchPending, b.Status)
		assert.Equal(t, 48*time.Hour, b.LeadTime)
		assert.Equal(t, asOf, b.CreatedAt)
	}

	snap, err := ledger.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 700, snap.InTransitIn)
	assert.Equal(t, 0, snap.AvailableSpace())
}

func TestPlanShortfallFits(t *testing.T) {
	planner, _, ledger := newTestPlanner(t, 1000, 300, 0)
	ctx := context.Background()

	sizes, err := planner.Plan(ctx, 1, 250, time.Now())
	require.NoError(t, err)
	assert.Equal(t, []int{250}, sizes)

	snap, err := ledger.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 250, snap.InTransitIn)
}

func TestPlanNoShortfall(t *testing.T) {
	planner, st, _ := newTestPlanner(t, 1000, 300, 0)

	sizes, err := planner.Plan(context.Background(), 1, 0, time.Now())
	require.NoError(t, err)
	assert.Empty(t, sizes)

	batches, err := st.PendingBatches(context.Background())
	require.NoError(t, err)
	assert.Empty(t, batches)
}

func TestPlanNoSpace(t *testing.T) {
	planner, st, _ := newTestPlanner(t, 500, 500, 0)

	sizes, err := planner.Plan(context.Background(), 1, 100, time.Now())
	require.NoError(t, err)
	assert.Empty(t, sizes, "a full warehouse orders nothing")

	batches, err := st.PendingBatches(context.Background())
	require.NoError(t, err)
	assert.Empty(t, batches)
}
