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

func day(offset int) time.Time {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, offset)
}

func insertPellet(t *testing.T, st *memory.Store, productID int64, sellBy time.Time) int64 {
	t.Helper()
	ids, err := st.InsertPellets(context.Background(), []*domain.Pellet{{
		ProductID: productID,
		Name:      "Whole Milk",
		Category:  "Dairy",
		SellBy:    sellBy,
	}})
	require.NoError(t, err)
	require.Len(t, ids, 1)
	return ids[0]
}

func TestAllocateFEFOOrder(t *testing.T) {
	st := memory.NewStore(1000, 3.0)
	stock := NewPelletStock(st.Bundle().Pellets)
	ctx := context.Background()

	late := insertPellet(t, st, 1, day(30))
	early := insertPellet(t, st, 1, day(10))
	mid := insertPellet(t, st, 1, day(20))

	ids, err := stock.Allocate(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{early, mid}, ids, "soonest sell-by ships first")

	ids, err = stock.Allocate(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{late}, ids)
}

func TestAllocateSellByTieBreaksOnID(t *testing.T) {
	st := memory.NewStore(1000, 3.0)
	stock := NewPelletStock(st.Bundle().Pellets)

	first := insertPellet(t, st, 1, day(10))
	second := insertPellet(t, st, 1, day(10))

	ids, err := stock.Allocate(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{first, second}, ids)
}

func TestAllocateShortage(t *testing.T) {
	st := memory.NewStore(1000, 3.0)
	stock := NewPelletStock(st.Bundle().Pellets)

	insertPellet(t, st, 1, day(10))
	insertPellet(t, st, 1, day(11))

	ids, err := stock.Allocate(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.Len(t, ids, 2, "returns what exists, caller sees the shortfall")
}

func TestAllocateIgnoresOtherProducts(t *testing.T) {
	st := memory.NewStore(1000, 3.0)
	stock := NewPelletStock(st.Bundle().Pellets)

	insertPellet(t, st, 2, day(1))
	want := insertPellet(t, st, 1, day(10))

	ids, err := stock.Allocate(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{want}, ids)
}

func TestSweepExpired(t *testing.T) {
	st := memory.NewStore(1000, 3.0)
	stock := NewPelletStock(st.Bundle().Pellets)
	ctx := context.Background()

	insertPellet(t, st, 1, day(-1))
	insertPellet(t, st, 1, day(-5))
	fresh := insertPellet(t, st, 1, day(10))

	// An expired but already sent pellet is not the sweep's business.
	sentExpired := insertPellet(t, st, 1, day(-2))
	require.NoError(t, st.MarkPelletsSent(ctx, []int64{sentExpired}))

	removed, err := stock.SweepExpired(ctx, day(0))
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	count, err := stock.OnHand(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	ids, err := stock.Allocate(ctx, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{fresh}, ids)
}

func TestReceiveStampsShelfLife(t *testing.T) {
	st := memory.NewStore(1000, 3.0)
	stock := NewPelletStock(st.Bundle().Pellets)
	ctx := context.Background()

	product := &domain.Product{
		ID:           7,
		Name:         "Greek Yogurt",
		Category:     "Dairy",
		UnitCost:     80,
		UnitWeight:   25,
		Refrigerated: true,
	}

	ids, err := stock.Receive(ctx, product, 3, day(0))
	require.NoError(t, err)
	assert.Len(t, ids, 3)

	pellets, err := st.UnsentFEFO(ctx, 7, 10)
	require.NoError(t, err)
	require.Len(t, pellets, 3)
	for _, p := range pellets {
		assert.Equal(t, day(0), p.Received)
		assert.Equal(t, day(50), p.SellBy)
		assert.True(t, p.Refrigerated)
		assert.Equal(t, 80.0, p.UnitCost)
	}
}

func TestReceiveZeroQuantity(t *testing.T) {
	st := memory.NewStore(1000, 3.0)
	stock := NewPelletStock(st.Bundle().Pellets)

	ids, err := stock.Receive(context.Background(), &domain.Product{ID: 1}, 0, day(0))
	require.NoError(t, err)
	assert.Empty(t, ids)
}
