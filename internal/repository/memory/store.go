// Package memory implements the persistence collaborator in process.
// It backs demo runs and the engine tests; the postgres package is its
// durable twin.
package memory

import (
	"sync"

	"github.com/wareflow/backend-go/internal/domain"
	"github.com/wareflow/backend-go/internal/repository"
)

// Store keeps every entity in ordered slices so scans are
// deterministic: registry order for trucks, insertion order for
// pellets, creation order for orders and batches.
type Store struct {
	mu sync.Mutex

	inventory domain.InventorySnapshot
	gasPrice  float64

	products  []*domain.Product
	pellets   []*domain.Pellet
	trucks    []*domain.Truck
	orders    []*domain.PendingOrder
	batches   []*domain.SupplierBatch
	stores    []*domain.StoreLocation
	employees []*domain.Employee

	deliveries       []*domain.Delivery
	truckLogs        []*domain.TruckLog
	transactions     []*domain.Transaction
	fuelLogs         []*domain.FuelLog
	payrollLogs      []*domain.PayrollLog
	overspends       []*domain.Overspend
	underperformance []*domain.Underperformance

	nextPelletID      int64
	nextOrderID       int64
	nextBatchID       int64
	nextDeliveryID    int64
	nextTruckLogID    int64
	nextTransactionID int64
	nextFuelLogID     int64
	nextPayrollLogID  int64
	nextOverspendID   int64
	nextUnderperfID   int64
}

// NewStore creates an empty store with the given warehouse capacity and
// starting gas price.
func NewStore(capacity int, gasPrice float64) *Store {
	return &Store{
		inventory: domain.InventorySnapshot{Capacity: capacity},
		gasPrice:  gasPrice,
	}
}

// Bundle exposes the store through the repository interfaces.
func (s *Store) Bundle() *repository.Store {
	return &repository.Store{
		Inventory: s,
		Products:  s,
		Pellets:   s,
		Fleet:     s,
		Orders:    s,
		Batches:   s,
		Delivery:  s,
		Finance:   s,
		Employees: s,
		Stores:    s,
		Anomalies: s,
	}
}

// AddProduct registers a catalog entry. Seeding only.
func (s *Store) AddProduct(p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := p
	s.products = append(s.products, &cp)
}

// AddTruck registers a truck. Seeding only.
func (s *Store) AddTruck(t domain.Truck) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := t
	s.trucks = append(s.trucks, &cp)
}

// AddStoreLocation registers a delivery destination. Seeding only.
func (s *Store) AddStoreLocation(l domain.StoreLocation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := l
	s.stores = append(s.stores, &cp)
}

// AddEmployee registers an employee. Seeding only.
func (s *Store) AddEmployee(e domain.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := e
	s.employees = append(s.employees, &cp)
}

// SetOnHand primes the stock pool. Seeding only.
func (s *Store) SetOnHand(qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inventory.OnHand = qty
}
