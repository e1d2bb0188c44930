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

func newTestFleet(t *testing.T, trucks ...domain.Truck) (*Fleet, *memory.Store) {
	t.Helper()
	st := memory.NewStore(1000, 3.0)
	for _, tr := range trucks {
		st.AddTruck(tr)
	}
	bundle := st.Bundle()
	return NewFleet(bundle.Fleet, bundle.Delivery), st
}

func TestFindTruckFirstFit(t *testing.T) {
	fleet, _ := newTestFleet(t,
		domain.Truck{ID: 1, DriverID: 11, Capacity: 4000, Status: domain.TruckAvailable},
		domain.Truck{ID: 2, DriverID: 12, Capacity: 9000, Status: domain.TruckAvailable},
	)

	truck, err := fleet.FindTruck(context.Background(), 5000, false)
	require.NoError(t, err)
	require.NotNil(t, truck)
	assert.Equal(t, int64(2), truck.ID, "first truck that fits, not best fit")
}

func TestFindTruckPrefersRegistryOrder(t *testing.T) {
	fleet, _ := newTestFleet(t,
		domain.Truck{ID: 1, DriverID: 11, Capacity: 9000, Status: domain.TruckAvailable},
		domain.Truck{ID: 2, DriverID: 12, Capacity: 5000, Status: domain.TruckAvailable},
	)

	truck, err := fleet.FindTruck(context.Background(), 1000, false)
	require.NoError(t, err)
	require.NotNil(t, truck)
	assert.Equal(t, int64(1), truck.ID, "an oversized early truck still wins")
}

func TestFindTruckRefrigeration(t *testing.T) {
	fleet, _ := newTestFleet(t,
		domain.Truck{ID: 1, DriverID: 11, Capacity: 9000, Status: domain.TruckAvailable},
		domain.Truck{ID: 2, DriverID: 12, Capacity: 9000, Refrigerated: true, Status: domain.TruckAvailable},
	)

	truck, err := fleet.FindTruck(context.Background(), 1000, true)
	require.NoError(t, err)
	require.NotNil(t, truck)
	assert.Equal(t, int64(2), truck.ID)

	// A refrigerated truck may still carry dry loads.
	truck, err = fleet.FindTruck(context.Background(), 1000, false)
	require.NoError(t, err)
	require.NotNil(t, truck)
	assert.Equal(t, int64(1), truck.ID)
}

func TestFindTruckNoneQualify(t *testing.T) {
	fleet, _ := newTestFleet(t,
		domain.Truck{ID: 1, DriverID: 11, Capacity: 3000, Status: domain.TruckAvailable},
		domain.Truck{ID: 2, DriverID: 12, Capacity: 9000, Status: domain.TruckOnRoute},
	)

	truck, err := fleet.FindTruck(context.Background(), 5000, false)
	require.NoError(t, err)
	assert.Nil(t, truck)
}

func TestCheckMaintenanceDue(t *testing.T) {
	today := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	fleet, st := newTestFleet(t,
		domain.Truck{ID: 1, DriverID: 11, Capacity: 5000, Status: domain.TruckAvailable,
			LastMaintenance: today.AddDate(0, 0, -199)},
		domain.Truck{ID: 2, DriverID: 12, Capacity: 5000, Status: domain.TruckAvailable,
			LastMaintenance: today.AddDate(0, 0, -200)},
	)
	ctx := context.Background()

	due, err := fleet.CheckMaintenanceDue(ctx, 1, today)
	require.NoError(t, err)
	assert.False(t, due, "199 days is not due yet")

	due, err = fleet.CheckMaintenanceDue(ctx, 2, today)
	require.NoError(t, err)
	assert.True(t, due)

	truck, err := st.GetTruck(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, domain.TruckMaintenance, truck.Status)
	assert.Equal(t, today, truck.LastMaintenance, "service date is stamped")
}

func TestMaintenanceReleasesNextDay(t *testing.T) {
	today := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	fleet, st := newTestFleet(t,
		domain.Truck{ID: 1, DriverID: 11, Capacity: 5000, Status: domain.TruckAvailable,
			LastMaintenance: today.AddDate(0, 0, -250)},
	)
	ctx := context.Background()

	flagged, err := fleet.EnforceMaintenance(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, 1, flagged)

	// Same day: the truck stays in the shop.
	released, err := fleet.ResetFinishedMaintenance(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, 0, released)

	// Next day: back in the pool with the new service date.
	released, err = fleet.ResetFinishedMaintenance(ctx, today.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, released)

	truck, err := st.GetTruck(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.TruckAvailable, truck.Status)
	assert.Equal(t, today, truck.LastMaintenance)
}

func TestReleaseReturnedSkipsMaintenance(t *testing.T) {
	today := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	fleet, st := newTestFleet(t,
		domain.Truck{ID: 1, DriverID: 11, Capacity: 5000, Status: domain.TruckOnRoute,
			LastMaintenance: today},
		domain.Truck{ID: 2, DriverID: 12, Capacity: 5000, Status: domain.TruckMaintenance,
			LastMaintenance: today},
	)
	ctx := context.Background()

	for _, truckID := range []int64{1, 2} {
		id, err := st.InsertDelivery(ctx, &domain.Delivery{
			StoreID: 1, TruckID: truckID, DriverID: 10 + truckID,
			TimeSent: today, Status: domain.DeliveryScheduled, Date: today,
		})
		require.NoError(t, err)
		require.NoError(t, st.CompleteDelivery(ctx, id, today.Add(4*time.Hour)))
	}

	released, err := fleet.ReleaseReturned(ctx, today.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, released)

	truck, err := st.GetTruck(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.TruckAvailable, truck.Status)

	truck, err = st.GetTruck(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, domain.TruckMaintenance, truck.Status, "a returned truck in the shop stays there")
}

func TestDriverFor(t *testing.T) {
	fleet, _ := newTestFleet(t,
		domain.Truck{ID: 1, DriverID: 42, Capacity: 5000, Status: domain.TruckAvailable},
		domain.Truck{ID: 2, Capacity: 5000, Status: domain.TruckAvailable},
	)
	ctx := context.Background()

	driverID, err := fleet.DriverFor(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(42), driverID)

	_, err = fleet.DriverFor(ctx, 2)
	assert.Error(t, err, "a truck without a driver cannot ship")
}
