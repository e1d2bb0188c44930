package seed

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wareflow/backend-go/internal/repository/memory"
)

func TestGenerateDatasetShape(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	ds := Generate(rng, now, 25000)

	assert.Len(t, ds.Products, 50)
	assert.Len(t, ds.Stores, 30)
	assert.Len(t, ds.Employees, 45)
	assert.Len(t, ds.Trucks, 10, "one truck per driver")

	total := 0
	for _, qty := range ds.InitialStock {
		assert.GreaterOrEqual(t, qty, 1)
		assert.LessOrEqual(t, qty, 1000)
		total += qty
	}
	assert.LessOrEqual(t, total, 25000)
}

func TestProductsRanges(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	products := Products(rng)

	refrigerated := 0
	for _, p := range products {
		assert.GreaterOrEqual(t, p.UnitCost, 40.0)
		assert.LessOrEqual(t, p.UnitCost, 200.0)
		assert.GreaterOrEqual(t, p.UnitWeight, 20.0)
		assert.LessOrEqual(t, p.UnitWeight, 50.0)
		assert.NotZero(t, p.SupplierID)
		if p.Refrigerated {
			refrigerated++
		}
	}
	assert.Greater(t, refrigerated, 0, "cold categories map to refrigerated products")
}

func TestStoresTravelDerivedFromDistance(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	stores := Stores(rng, 30)

	for _, s := range stores {
		assert.GreaterOrEqual(t, s.DistanceKm, 5.0)
		assert.LessOrEqual(t, s.DistanceKm, 100.0)
		minutes := s.ExpectedTravel.Minutes()
		assert.GreaterOrEqual(t, minutes, s.DistanceKm, "travel assumes 60 km/h, rounded up")
		assert.Less(t, minutes, s.DistanceKm+1)
		assert.Equal(t, 20*time.Hour, s.Closing)
	}
}

func TestTrucksPairDrivers(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	employees := Employees(rng, now)
	trucks := Trucks(rng, employees, now)

	drivers := make(map[int64]bool)
	for _, e := range employees {
		if e.Role == "driver" {
			drivers[e.ID] = true
		}
	}
	require.Len(t, trucks, len(drivers))

	refrigerated := 0
	seen := make(map[int64]bool)
	for _, tr := range trucks {
		assert.True(t, drivers[tr.DriverID])
		assert.False(t, seen[tr.DriverID], "each driver gets exactly one truck")
		seen[tr.DriverID] = true
		assert.GreaterOrEqual(t, tr.Capacity, 3000.0)
		assert.LessOrEqual(t, tr.Capacity, 10000.0)
		assert.GreaterOrEqual(t, tr.TankCapacity, 150.0)
		assert.LessOrEqual(t, tr.TankCapacity, 400.0)
		assert.False(t, tr.LastMaintenance.After(now))
		if tr.Refrigerated {
			refrigerated++
		}
	}
	assert.Equal(t, 2, refrigerated, "every fifth truck carries refrigeration")
}

func TestPopulateStocksWarehouse(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	ds := Generate(rng, now, 25000)

	st := memory.NewStore(25000, 3.0)
	require.NoError(t, Populate(context.Background(), st, ds, rng, now))

	expected := 0
	for _, qty := range ds.InitialStock {
		expected += qty
	}

	snap, err := st.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, expected, snap.OnHand)

	for id, qty := range ds.InitialStock {
		count, err := st.CountUnsent(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, qty, count)
	}
}
