package sim

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wareflow/backend-go/internal/domain"
	"github.com/wareflow/backend-go/internal/repository"
	"github.com/wareflow/backend-go/internal/repository/memory"
)

type schedulerFixture struct {
	st        *memory.Store
	bundle    *repository.Store
	scheduler *Scheduler
	ledger    *Ledger
}

func newSchedulerFixture(t *testing.T, onHandPellets int) *schedulerFixture {
	t.Helper()
	st := memory.NewStore(1000, 3.0)
	st.AddProduct(domain.Product{ID: 1, Name: "Pasta", Category: "Pantry", UnitCost: 50, UnitWeight: 25, SupplierID: 9})
	st.AddTruck(domain.Truck{
		ID: 1, DriverID: 11, Capacity: 8000, TankCapacity: 300,
		Status: domain.TruckAvailable, LastMaintenance: day(-30),
	})
	st.AddStoreLocation(domain.StoreLocation{
		ID: 1, Name: "FreshMart, Downtown", DistanceKm: 30,
		ExpectedTravel: 30 * time.Minute, Closing: 20 * time.Hour,
	})

	ctx := context.Background()
	pellets := make([]*domain.Pellet, 0, onHandPellets)
	for i := 0; i < onHandPellets; i++ {
		pellets = append(pellets, &domain.Pellet{
			ProductID: 1, Name: "Pasta", Category: "Pantry",
			UnitCost: 50, UnitWeight: 25, Received: day(-5), SellBy: day(45),
		})
	}
	if len(pellets) > 0 {
		_, err := st.InsertPellets(ctx, pellets)
		require.NoError(t, err)
	}
	st.SetOnHand(onHandPellets)

	bundle := st.Bundle()
	ledger := NewLedger(bundle.Inventory)
	stock := NewPelletStock(bundle.Pellets)
	fleet := NewFleet(bundle.Fleet, bundle.Delivery)
	planner := NewPlanner(ledger, bundle.Batches, bundle.Products)
	rng := rand.New(rand.NewSource(1))
	scheduler := NewScheduler(bundle, ledger, stock, fleet, planner, rng, zerolog.Nop())

	return &schedulerFixture{st: st, bundle: bundle, scheduler: scheduler, ledger: ledger}
}

func (f *schedulerFixture) placeOrder(t *testing.T, qty int) *domain.PendingOrder {
	t.Helper()
	order := &domain.PendingOrder{
		StoreID: 1,
		Items: []domain.OrderItem{
			{ProductID: 1, Quantity: qty, UnitWeight: 25},
		},
		CreatedAt: day(0),
	}
	id, err := f.st.InsertOrder(context.Background(), order)
	require.NoError(t, err)
	order.ID = id
	return order
}

func TestProcessOrderFullAllocation(t *testing.T) {
	f := newSchedulerFixture(t, 100)
	ctx := context.Background()
	order := f.placeOrder(t, 60)

	result, err := f.scheduler.ProcessOrder(ctx, order, day(0))
	require.NoError(t, err)
	assert.Equal(t, OutcomeAllocated, result.Outcome)
	assert.NotZero(t, result.DeliveryID)

	snap, err := f.ledger.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 40, snap.OnHand)
	assert.Equal(t, 0, snap.InTransitOut, "reservation retired at completion")

	deliveries, err := f.st.ListDeliveries(ctx, 10)
	require.NoError(t, err)
	require.Len(t, deliveries, 1)
	assert.Equal(t, domain.DeliveryCompleted, deliveries[0].Status)
	assert.Equal(t, 60*50.0, deliveries[0].TotalCost)
	require.Len(t, deliveries[0].Items, 1)
	assert.Len(t, deliveries[0].Items[0].PelletIDs, 60)

	orders, err := f.st.PendingOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders, "fulfilled order leaves the queue")

	truck, err := f.st.GetTruck(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.TruckAvailable, truck.Status)

	deliverySpend, err := f.st.TotalCost(ctx, domain.TransactionDelivery)
	require.NoError(t, err)
	assert.Equal(t, 3000.0, deliverySpend)

	fuelSpend, err := f.st.TotalCost(ctx, domain.TransactionFuel)
	require.NoError(t, err)
	assert.Greater(t, fuelSpend, 0.0, "the return trip is refueled")
}

func TestProcessOrderPartialAllocationRequestsResupply(t *testing.T) {
	f := newSchedulerFixture(t, 50)
	ctx := context.Background()
	order := f.placeOrder(t, 60)

	result, err := f.scheduler.ProcessOrder(ctx, order, day(0))
	require.NoError(t, err)
	assert.Equal(t, OutcomeAllocated, result.Outcome)

	deliveries, err := f.st.ListDeliveries(ctx, 10)
	require.NoError(t, err)
	require.Len(t, deliveries, 1)
	assert.Equal(t, 50, deliveries[0].Items[0].Quantity, "ships what is on hand")

	batches, err := f.st.PendingBatches(ctx)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, 10, batches[0].Quantity, "the deficit is reordered")

	snap, err := f.ledger.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.OnHand)
	assert.Equal(t, 10, snap.InTransitIn)
}

func TestProcessOrderDeferredDepartureReturnsAfterSending(t *testing.T) {
	f := newSchedulerFixture(t, 100)
	ctx := context.Background()
	// A six hour leg cannot make it back an hour before closing when
	// leaving at 09:00, so the departure moves to 04:00 the next day.
	f.st.AddStoreLocation(domain.StoreLocation{
		ID: 2, Name: "SuperSaver, Highland", DistanceKm: 360,
		ExpectedTravel: 6 * time.Hour, Closing: 20 * time.Hour,
	})
	order := &domain.PendingOrder{
		StoreID:   2,
		Items:     []domain.OrderItem{{ProductID: 1, Quantity: 40, UnitWeight: 25}},
		CreatedAt: day(0),
	}
	id, err := f.st.InsertOrder(ctx, order)
	require.NoError(t, err)
	order.ID = id

	result, err := f.scheduler.ProcessOrder(ctx, order, day(0))
	require.NoError(t, err)
	assert.Equal(t, OutcomeAllocated, result.Outcome)

	deliveries, err := f.st.ListDeliveries(ctx, 10)
	require.NoError(t, err)
	require.Len(t, deliveries, 1)
	d := deliveries[0]

	wantSent := time.Date(2026, 3, 2, 4, 0, 0, 0, time.UTC)
	assert.Equal(t, wantSent, d.TimeSent)
	assert.True(t, d.TimeReturned.After(d.TimeSent), "return follows departure")

	roundTrip := d.TimeReturned.Sub(d.TimeSent)
	assert.GreaterOrEqual(t, roundTrip, 12*time.Hour, "twice the travel time")
	assert.LessOrEqual(t, roundTrip, 13*time.Hour, "plus at most an hour of delay")
}

func TestProcessOrderClampsToAllocatedPellets(t *testing.T) {
	// The pool holds 500 pellets, but only 200 belong to the ordered
	// product; the delivery must ship 200, not the snapshot-capped 300.
	f := newSchedulerFixture(t, 200)
	ctx := context.Background()
	f.st.AddProduct(domain.Product{ID: 2, Name: "Rice", Category: "Pantry", UnitCost: 60, UnitWeight: 25, SupplierID: 9})
	pellets := make([]*domain.Pellet, 0, 300)
	for i := 0; i < 300; i++ {
		pellets = append(pellets, &domain.Pellet{
			ProductID: 2, Name: "Rice", Category: "Pantry",
			UnitCost: 60, UnitWeight: 25, Received: day(-5), SellBy: day(45),
		})
	}
	_, err := f.st.InsertPellets(ctx, pellets)
	require.NoError(t, err)
	f.st.SetOnHand(500)

	order := f.placeOrder(t, 300)

	result, err := f.scheduler.ProcessOrder(ctx, order, day(0))
	require.NoError(t, err)
	assert.Equal(t, OutcomeAllocated, result.Outcome)

	deliveries, err := f.st.ListDeliveries(ctx, 10)
	require.NoError(t, err)
	require.Len(t, deliveries, 1)
	require.Len(t, deliveries[0].Items, 1)
	assert.Equal(t, 200, deliveries[0].Items[0].Quantity, "quantity matches the allocated pellets")
	assert.Len(t, deliveries[0].Items[0].PelletIDs, 200)
	assert.Equal(t, 200*50.0, deliveries[0].TotalCost, "cost charges shipped units only")

	snap, err := f.ledger.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 300, snap.OnHand, "ledger moves the shipped quantity")
	assert.Equal(t, 0, snap.InTransitOut)
	assert.Equal(t, 100, snap.InTransitIn, "the pellet-level gap is reordered")

	batches, err := f.st.PendingBatches(ctx)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, int64(1), batches[0].ProductID)
	assert.Equal(t, 100, batches[0].Quantity)
}

func TestProcessOrderNoStock(t *testing.T) {
	f := newSchedulerFixture(t, 0)
	ctx := context.Background()
	order := f.placeOrder(t, 60)

	result, err := f.scheduler.ProcessOrder(ctx, order, day(0))
	require.NoError(t, err)
	assert.Equal(t, OutcomeSkipped, result.Outcome)
	assert.Equal(t, "no stock on hand", result.Reason)

	orders, err := f.st.PendingOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 1, "skipped order stays pending")
}

func TestProcessOrderNoTruck(t *testing.T) {
	f := newSchedulerFixture(t, 400)
	ctx := context.Background()
	// 400 units at 25kg is 10000kg, over the single truck's 8000 capacity.
	order := f.placeOrder(t, 400)

	result, err := f.scheduler.ProcessOrder(ctx, order, day(0))
	require.NoError(t, err)
	assert.Equal(t, OutcomeSkipped, result.Outcome)
	assert.Equal(t, "no available truck", result.Reason)

	snap, err := f.ledger.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 400, snap.OnHand, "no stock moves for a skipped order")
}

func TestProcessOrderTruckPulledForMaintenance(t *testing.T) {
	f := newSchedulerFixture(t, 100)
	ctx := context.Background()
	require.NoError(t, f.st.SetLastMaintenance(ctx, 1, day(-201)))
	order := f.placeOrder(t, 10)

	result, err := f.scheduler.ProcessOrder(ctx, order, day(0))
	require.NoError(t, err)
	assert.Equal(t, OutcomeSkipped, result.Outcome)
	assert.Equal(t, "truck pulled for maintenance", result.Reason)

	truck, err := f.st.GetTruck(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.TruckMaintenance, truck.Status)
}

func TestFulfillPendingProcessesOldestFirst(t *testing.T) {
	f := newSchedulerFixture(t, 100)
	ctx := context.Background()

	older := &domain.PendingOrder{
		StoreID:   1,
		Items:     []domain.OrderItem{{ProductID: 1, Quantity: 80, UnitWeight: 25}},
		CreatedAt: day(-1),
	}
	_, err := f.st.InsertOrder(ctx, older)
	require.NoError(t, err)
	f.placeOrder(t, 80)

	require.NoError(t, f.scheduler.FulfillPending(ctx, day(0)))

	deliveries, err := f.st.ListDeliveries(ctx, 10)
	require.NoError(t, err)
	require.Len(t, deliveries, 2)

	// Newest first in the listing: the older order shipped its full 80,
	// the younger got the leftover 20.
	assert.Equal(t, 20, deliveries[0].Items[0].Quantity)
	assert.Equal(t, 80, deliveries[1].Items[0].Quantity)
}
