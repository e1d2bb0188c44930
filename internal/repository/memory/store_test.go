package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wareflow/backend-go/internal/domain"
	"github.com/wareflow/backend-go/internal/repository"
)

func TestOutboundClampsAtZero(t *testing.T) {
	st := NewStore(1000, 3.0)
	st.SetOnHand(100)
	ctx := context.Background()

	require.NoError(t, st.ApplyOutbound(ctx, 250))

	snap, err := st.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.OnHand)
	assert.Equal(t, 250, snap.InTransitOut)

	require.NoError(t, st.CompleteOutbound(ctx, 400))
	snap, err = st.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.InTransitOut)
}

func TestInboundCommitClampsAtZero(t *testing.T) {
	st := NewStore(1000, 3.0)
	ctx := context.Background()

	require.NoError(t, st.AddInbound(ctx, 50))
	require.NoError(t, st.CommitInbound(ctx, 80))

	snap, err := st.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 80, snap.OnHand)
	assert.Equal(t, 0, snap.InTransitIn)
}

func TestUnsentFEFOOrdering(t *testing.T) {
	st := NewStore(1000, 3.0)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	ids, err := st.InsertPellets(ctx, []*domain.Pellet{
		{ProductID: 1, SellBy: base.AddDate(0, 0, 20)},
		{ProductID: 1, SellBy: base.AddDate(0, 0, 5)},
		{ProductID: 1, SellBy: base.AddDate(0, 0, 5)},
		{ProductID: 2, SellBy: base.AddDate(0, 0, 1)},
	})
	require.NoError(t, err)
	require.Len(t, ids, 4)

	pellets, err := st.UnsentFEFO(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, pellets, 3)
	assert.Equal(t, ids[1], pellets[0].ID, "earliest sell-by first")
	assert.Equal(t, ids[2], pellets[1].ID, "sell-by tie broken by id")
	assert.Equal(t, ids[0], pellets[2].ID)

	pellets, err = st.UnsentFEFO(ctx, 1, 2)
	require.NoError(t, err)
	assert.Len(t, pellets, 2, "limit is honored")
}

func TestDeleteExpiredUnsentLeavesSent(t *testing.T) {
	st := NewStore(1000, 3.0)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	ids, err := st.InsertPellets(ctx, []*domain.Pellet{
		{ProductID: 1, SellBy: base.AddDate(0, 0, -1)},
		{ProductID: 1, SellBy: base.AddDate(0, 0, -2)},
		{ProductID: 1, SellBy: base.AddDate(0, 0, 3)},
	})
	require.NoError(t, err)
	require.NoError(t, st.MarkPelletsSent(ctx, []int64{ids[1]}))

	removed, err := st.DeleteExpiredUnsent(ctx, base)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	count, err := st.CountUnsent(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPayrollLoggedInMonth(t *testing.T) {
	st := NewStore(1000, 3.0)
	ctx := context.Background()

	_, err := st.InsertPayrollLog(ctx, &domain.PayrollLog{
		EmployeeID: 7,
		Payment:    6000,
		Date:       time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	logged, err := st.PayrollLoggedInMonth(ctx, 7, time.Date(2026, 3, 28, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, logged)

	logged, err = st.PayrollLoggedInMonth(ctx, 7, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, logged, "a new month starts a new payroll window")

	logged, err = st.PayrollLoggedInMonth(ctx, 8, time.Date(2026, 3, 28, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, logged)
}

func TestReleaseMaintenanceMatchesCalendarDay(t *testing.T) {
	st := NewStore(1000, 3.0)
	ctx := context.Background()
	serviced := time.Date(2026, 3, 1, 14, 30, 0, 0, time.UTC)

	st.AddTruck(domain.Truck{ID: 1, DriverID: 11, Status: domain.TruckMaintenance, LastMaintenance: serviced})
	st.AddTruck(domain.Truck{ID: 2, DriverID: 12, Status: domain.TruckMaintenance, LastMaintenance: serviced.AddDate(0, 0, -3)})
	st.AddTruck(domain.Truck{ID: 3, DriverID: 13, Status: domain.TruckAvailable, LastMaintenance: serviced})

	released, err := st.ReleaseMaintenance(ctx, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, released, "only trucks serviced on the given day are released")

	truck, err := st.GetTruck(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.TruckAvailable, truck.Status)
}

func TestGetProductNotFound(t *testing.T) {
	st := NewStore(1000, 3.0)

	_, err := st.GetProduct(context.Background(), 99)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestListDeliveriesNewestFirst(t *testing.T) {
	st := NewStore(1000, 3.0)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, err := st.InsertDelivery(ctx, &domain.Delivery{
			StoreID: int64(i + 1), TruckID: 1, DriverID: 11,
			TimeSent: base.AddDate(0, 0, i), Date: base.AddDate(0, 0, i),
		})
		require.NoError(t, err)
	}

	deliveries, err := st.ListDeliveries(ctx, 2)
	require.NoError(t, err)
	require.Len(t, deliveries, 2)
	assert.Equal(t, int64(3), deliveries[0].StoreID)
	assert.Equal(t, int64(2), deliveries[1].StoreID)
}
