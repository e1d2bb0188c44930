// backend-go/internal/repository/repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/wareflow/backend-go/internal/domain"
)

// ErrNotFound is the sentinel for missing lookups. Callers skip the
// affected order or step instead of aborting the day.
var ErrNotFound = errors.New("not found")

// InventoryRepository holds the single warehouse stock pool. The clamp
// semantics live here so SQL implementations can express them as
// GREATEST(...) updates.
type InventoryRepository interface {
	Snapshot(ctx context.Context) (domain.InventorySnapshot, error)
	// ApplyOutbound moves qty from on-hand (clamped at 0) to in-transit-out.
	ApplyOutbound(ctx context.Context, qty int) error
	// CompleteOutbound drops qty from in-transit-out, clamped at 0.
	CompleteOutbound(ctx context.Context, qty int) error
	// AddInbound registers qty as expected from suppliers.
	AddInbound(ctx context.Context, qty int) error
	// CommitInbound credits on-hand and drops in-transit-in, clamped at 0.
	CommitInbound(ctx context.Context, qty int) error
}

type ProductRepository interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]*domain.Product, error)
}

type PelletRepository interface {
	// UnsentFEFO returns up to limit unsent pellets of the product,
	// ordered by ascending sell-by date, ties broken by ascending id.
	UnsentFEFO(ctx context.Context, productID int64, limit int) ([]*domain.Pellet, error)
	MarkPelletsSent(ctx context.Context, ids []int64) error
	InsertPellets(ctx context.Context, pellets []*domain.Pellet) ([]int64, error)
	// DeleteExpiredUnsent removes unsent pellets with sell-by before asOf
	// and returns the count removed.
	DeleteExpiredUnsent(ctx context.Context, asOf time.Time) (int, error)
	// CountUnsent reports remaining unsent pellets for a product.
	CountUnsent(ctx context.Context, productID int64) (int, error)
}

type FleetRepository interface {
	GetTruck(ctx context.Context, id int64) (*domain.Truck, error)
	ListTrucks(ctx context.Context) ([]*domain.Truck, error)
	// AvailableTrucks returns available trucks in registry order,
	// filtered to refrigerated units when needed.
	AvailableTrucks(ctx context.Context, needsRefrigeration bool) ([]*domain.Truck, error)
	SetTruckStatus(ctx context.Context, id int64, status domain.TruckStatus) error
	SetLastMaintenance(ctx context.Context, id int64, asOf time.Time) error
	// ReleaseMaintenance flips trucks in maintenance whose last
	// maintenance stamp equals the given day back to available, and
	// returns how many were released.
	ReleaseMaintenance(ctx context.Context, lastMaintenance time.Time) (int, error)
}

type OrderRepository interface {
	// PendingOrders returns all pending orders, oldest first.
	PendingOrders(ctx context.Context) ([]*domain.PendingOrder, error)
	InsertOrder(ctx context.Context, order *domain.PendingOrder) (int64, error)
	DeleteOrder(ctx context.Context, id int64) error
}

type SupplierBatchRepository interface {
	// PendingBatches returns pending supplier batches, oldest first.
	PendingBatches(ctx context.Context) ([]*domain.SupplierBatch, error)
	InsertBatch(ctx context.Context, batch *domain.SupplierBatch) (int64, error)
	MarkBatchReceived(ctx context.Context, id int64, receivedAt time.Time) error
}

type DeliveryRepository interface {
	InsertDelivery(ctx context.Context, d *domain.Delivery) (int64, error)
	CompleteDelivery(ctx context.Context, id int64, returnedAt time.Time) error
	ListDeliveries(ctx context.Context, limit int) ([]*domain.Delivery, error)
	// ReturnedTruckIDs lists trucks whose deliveries returned by the
	// given instant.
	ReturnedTruckIDs(ctx context.Context, by time.Time) ([]int64, error)
	InsertTruckLog(ctx context.Context, l *domain.TruckLog) (int64, error)
	CountDeliveries(ctx context.Context) (int, error)
}

// FinanceRepository covers the books: transactions, fuel and payroll
// logs, and the floating gas price.
type FinanceRepository interface {
	InsertTransaction(ctx context.Context, kind domain.TransactionKind, cost float64, date time.Time) (int64, error)
	InsertFuelLog(ctx context.Context, l *domain.FuelLog) (int64, error)
	// SumFuelLiters totals the liters ever dispensed into a truck.
	SumFuelLiters(ctx context.Context, truckID int64) (float64, error)
	InsertPayrollLog(ctx context.Context, l *domain.PayrollLog) (int64, error)
	// PayrollLoggedInMonth reports whether the employee was already
	// paid in the month containing asOf.
	PayrollLoggedInMonth(ctx context.Context, employeeID int64, asOf time.Time) (bool, error)
	GasPrice(ctx context.Context) (float64, error)
	SetGasPrice(ctx context.Context, price float64) error
	TotalCost(ctx context.Context, kind domain.TransactionKind) (float64, error)
}

type EmployeeRepository interface {
	GetEmployee(ctx context.Context, id int64) (*domain.Employee, error)
	// DuePayroll returns employees whose next payment date is on or
	// before asOf.
	DuePayroll(ctx context.Context, asOf time.Time) ([]*domain.Employee, error)
	SetNextPayment(ctx context.Context, id int64, next time.Time) error
}

type StoreRepository interface {
	GetStore(ctx context.Context, id int64) (*domain.StoreLocation, error)
	ListStores(ctx context.Context) ([]*domain.StoreLocation, error)
}

type AnomalyRepository interface {
	InsertOverspend(ctx context.Context, o *domain.Overspend) (int64, error)
	InsertUnderperformance(ctx context.Context, u *domain.Underperformance) (int64, error)
	ListOverspend(ctx context.Context, limit int) ([]*domain.Overspend, error)
	ListUnderperformance(ctx context.Context, limit int) ([]*domain.Underperformance, error)
	CountAnomalies(ctx context.Context) (overspend int, underperformance int, err error)
}

// Store bundles every repository behind one handle; the engine and the
// services receive it instead of ambient connections.
type Store struct {
	Inventory InventoryRepository
	Products  ProductRepository
	Pellets   PelletRepository
	Fleet     FleetRepository
	Orders    OrderRepository
	Batches   SupplierBatchRepository
	Delivery  DeliveryRepository
	Finance   FinanceRepository
	Employees EmployeeRepository
	Stores    StoreRepository
	Anomalies AnomalyRepository
}
