package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wareflow/backend-go/internal/repository/memory"
)

func newTestLedger(t *testing.T, capacity, onHand int) *Ledger {
	t.Helper()
	st := memory.NewStore(capacity, 3.0)
	st.SetOnHand(onHand)
	return NewLedger(st.Bundle().Inventory)
}

func TestReserveOutboundFullStock(t *testing.T) {
	ledger := newTestLedger(t, 1000, 500)
	ctx := context.Background()

	reserved, shortfall, err := ledger.ReserveOutbound(ctx, 200)
	require.NoError(t, err)
	assert.Equal(t, 200, reserved)
	assert.Equal(t, 0, shortfall)

	snap, err := ledger.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 300, snap.OnHand)
	assert.Equal(t, 200, snap.InTransitOut)
}

func TestReserveOutboundShortfall(t *testing.T) {
	ledger := newTestLedger(t, 1000, 300)
	ctx := context.Background()

	reserved, shortfall, err := ledger.ReserveOutbound(ctx, 400)
	require.NoError(t, err)
	assert.Equal(t, 300, reserved)
	assert.Equal(t, 100, shortfall)

	snap, err := ledger.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.OnHand, "on-hand never goes negative")
	assert.Equal(t, 300, snap.InTransitOut)
}

func TestReserveOutboundEmptyPool(t *testing.T) {
	ledger := newTestLedger(t, 1000, 0)

	reserved, shortfall, err := ledger.ReserveOutbound(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, 0, reserved)
	assert.Equal(t, 50, shortfall)
}

func TestReleaseOutbound(t *testing.T) {
	ledger := newTestLedger(t, 1000, 500)
	ctx := context.Background()

	_, _, err := ledger.ReserveOutbound(ctx, 200)
	require.NoError(t, err)
	require.NoError(t, ledger.ReleaseOutbound(ctx, 200))

	snap, err := ledger.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 300, snap.OnHand)
	assert.Equal(t, 0, snap.InTransitOut)
}

func TestInboundCycle(t *testing.T) {
	ledger := newTestLedger(t, 1000, 100)
	ctx := context.Background()

	require.NoError(t, ledger.ReserveInbound(ctx, 400))
	snap, err := ledger.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 400, snap.InTransitIn)
	assert.Equal(t, 500, snap.AvailableSpace())

	require.NoError(t, ledger.CommitInbound(ctx, 400))
	snap, err = ledger.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 500, snap.OnHand)
	assert.Equal(t, 0, snap.InTransitIn)
	assert.Equal(t, 500, snap.AvailableSpace())
}
