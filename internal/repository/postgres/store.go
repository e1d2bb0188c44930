package postgres

import (
	"github.com/wareflow/backend-go/internal/repository"
)

// NewStore bundles the SQL-backed repositories behind one handle.
func NewStore(db *DB) *repository.Store {
	return &repository.Store{
		Inventory: NewInventoryRepository(db),
		Products:  NewProductRepository(db),
		Pellets:   NewPelletRepository(db),
		Fleet:     NewFleetRepository(db),
		Orders:    NewOrderRepository(db),
		Batches:   NewSupplierBatchRepository(db),
		Delivery:  NewDeliveryRepository(db),
		Finance:   NewFinanceRepository(db),
		Employees: NewEmployeeRepository(db),
		Stores:    NewStoreRepository(db),
		Anomalies: NewAnomalyRepository(db),
	}
}
