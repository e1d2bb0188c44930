// backend-go/internal/domain/models.go
package domain

import "time"

// InventorySnapshot is the single warehouse stock pool.
type InventorySnapshot struct {
	Capacity     int `json:"capacity" db:"capacity_pellets"`
	OnHand       int `json:"on_hand" db:"current_pellets"`
	InTransitOut int `json:"in_transit_out" db:"to_be_sent"`
	InTransitIn  int `json:"in_transit_in" db:"to_be_received"`
}

// AvailableSpace is the headroom left for accepting resupply.
func (s InventorySnapshot) AvailableSpace() int {
	return s.Capacity - (s.OnHand + s.InTransitIn)
}

// Product is a catalog entry. Pellets reference their product by id.
type Product struct {
	ID           int64   `json:"id" db:"product_id"`
	Name         string  `json:"name" db:"name"`
	Category     string  `json:"category" db:"category"`
	UnitCost     float64 `json:"unit_cost" db:"pallet_cost"`
	UnitWeight   float64 `json:"unit_weight" db:"weight"`
	Refrigerated bool    `json:"refrigerated" db:"refrigerated"`
	SupplierID   int64   `json:"supplier_id" db:"supplier_id"`
}

// Pellet is one palletized stock unit with its own expiry date.
// Lifecycle: created by restock unloading, then either sent (terminal)
// or removed by the expiry sweep.
type Pellet struct {
	ID           int64     `json:"id" db:"pellet_id"`
	ProductID    int64     `json:"product_id" db:"product_id"`
	Name         string    `json:"name" db:"name"`
	Category     string    `json:"category" db:"category"`
	UnitCost     float64   `json:"unit_cost" db:"cost"`
	UnitWeight   float64   `json:"unit_weight" db:"weight"`
	Received     time.Time `json:"received" db:"received"`
	SellBy       time.Time `json:"sell_by" db:"sell_by"`
	Refrigerated bool      `json:"refrigerated" db:"refrigerated"`
	Sent         bool      `json:"sent" db:"sent"`
}

// Truck carries one driver, never reassigned mid-simulation.
type Truck struct {
	ID              int64       `json:"id" db:"truck_id"`
	DriverID        int64       `json:"driver_id" db:"employee_id"`
	Capacity        float64     `json:"capacity" db:"capacity"`
	TankCapacity    float64     `json:"tank_capacity" db:"fuel_capacity"`
	Refrigerated    bool        `json:"refrigerated" db:"refrigerated"`
	Status          TruckStatus `json:"status" db:"operational_status"`
	LastMaintenance time.Time   `json:"last_maintenance" db:"last_maintenance"`
}

// OrderItem is one validated line item of a store order.
type OrderItem struct {
	ProductID    int64   `json:"product_id"`
	Quantity     int     `json:"quantity"`
	UnitWeight   float64 `json:"weight"`
	Refrigerated bool    `json:"refrigerated"`
}

// PendingOrder is a store order awaiting fulfillment.
type PendingOrder struct {
	ID        int64       `json:"id" db:"order_id"`
	StoreID   int64       `json:"store_id" db:"store_id"`
	Items     []OrderItem `json:"items" db:"-"`
	CreatedAt time.Time   `json:"created_at" db:"date_time"`
}

// SupplierBatch is one bounded purchase-order batch headed for the warehouse.
type SupplierBatch struct {
	ID         int64       `json:"id" db:"batch_id"`
	SupplierID int64       `json:"supplier_id" db:"supplier_id"`
	ProductID  int64       `json:"product_id" db:"product_id"`
	Quantity   int         `json:"quantity" db:"quantity"`
	Status     BatchStatus `json:"status" db:"status"`
	// LeadTime is the expected delay before the supplier delivers.
	LeadTime   time.Duration `json:"lead_time" db:"expected_delivery_time"`
	CreatedAt  time.Time     `json:"created_at" db:"date_time"`
	ReceivedAt *time.Time    `json:"received_at,omitempty" db:"order_received"`
}

// DeliveredItem records which pellets shipped for one order line.
type DeliveredItem struct {
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	PelletIDs []int64 `json:"pellet_ids"`
}

// Delivery is immutable once completed except for the return time
// stamped at completion.
type Delivery struct {
	ID           int64           `json:"id" db:"delivery_id"`
	StoreID      int64           `json:"store_id" db:"store_id"`
	Items        []DeliveredItem `json:"items" db:"-"`
	TotalCost    float64         `json:"total_cost" db:"cost"`
	TruckID      int64           `json:"truck_id" db:"truck_id"`
	DriverID     int64           `json:"driver_id" db:"driver_id"`
	TimeSent     time.Time       `json:"time_sent" db:"time_sent"`
	TimeReturned time.Time       `json:"time_returned" db:"time_returned"`
	Status       DeliveryStatus  `json:"status" db:"status"`
	Date         time.Time       `json:"date" db:"date_time"`
}

// TruckLog records the routing outcome of one delivery.
type TruckLog struct {
	ID             int64         `json:"id" db:"log_id"`
	DeliveryID     int64         `json:"delivery_id" db:"delivery_id"`
	DriverID       int64         `json:"driver_id" db:"driver_id"`
	TimeSent       time.Time     `json:"time_sent" db:"time_sent"`
	TimeReturned   time.Time     `json:"time_returned" db:"time_returned"`
	ExpectedTravel time.Duration `json:"expected_travel" db:"expected_time"`
	DistanceKm     float64       `json:"distance_km" db:"distance_km"`
	KmDriven       float64       `json:"km_driven" db:"km_driven"`
	ExtraKm        float64       `json:"extra_km" db:"extra_km"`
	Delay          time.Duration `json:"delay" db:"delivery_delay"`
	Date           time.Time     `json:"date" db:"date_time"`
}

// Transaction is one cost entry in the books.
type Transaction struct {
	ID   int64           `json:"id" db:"transaction_id"`
	Kind TransactionKind `json:"kind" db:"type"`
	Cost float64         `json:"cost" db:"cost"`
	Date time.Time       `json:"date" db:"date_time"`
}

// FuelLog records one refuel, tied to its transaction.
type FuelLog struct {
	ID            int64     `json:"id" db:"fuel_log_id"`
	TransactionID int64     `json:"transaction_id" db:"transaction_id"`
	TruckID       int64     `json:"truck_id" db:"truck_id"`
	DriverID      int64     `json:"driver_id" db:"employee_id"`
	Cost          float64   `json:"cost" db:"cost"`
	Liters        float64   `json:"liters" db:"liters"`
	CostPerLiter  float64   `json:"cost_per_liter" db:"cost_per_liter"`
	ExpectedCost  float64   `json:"expected_cost" db:"expected_cost"`
	Date          time.Time `json:"date" db:"date_time"`
}

// Employee is a payroll subject; drivers are employees too.
type Employee struct {
	ID          int64     `json:"id" db:"employee_id"`
	Name        string    `json:"name" db:"name"`
	Role        string    `json:"role" db:"role"`
	Salary      float64   `json:"salary" db:"salary"`
	AccountNum  string    `json:"account_num" db:"account_num"`
	NextPayment time.Time `json:"next_payment" db:"next_payment"`
}

// PayrollLog records one salary payment.
type PayrollLog struct {
	ID            int64     `json:"id" db:"payroll_log_id"`
	TransactionID int64     `json:"transaction_id" db:"transaction_id"`
	EmployeeID    int64     `json:"employee_id" db:"employee_id"`
	Payment       float64   `json:"payment" db:"payment"`
	AccountNum    string    `json:"account_num" db:"account_num"`
	LastPayment   time.Time `json:"last_payment" db:"last_payment"`
	NextPayment   time.Time `json:"next_payment" db:"next_payment"`
	Date          time.Time `json:"date" db:"date_time"`
}

// StoreLocation is a delivery destination with its travel profile.
type StoreLocation struct {
	ID             int64         `json:"id" db:"store_id"`
	Name           string        `json:"name" db:"name"`
	DistanceKm     float64       `json:"distance_km" db:"distance_km"`
	ExpectedTravel time.Duration `json:"expected_travel" db:"expected_time"`
	// Closing is the store closing hour as an offset from midnight.
	Closing time.Duration `json:"closing" db:"closing"`
}

// Overspend is an append-only anomaly record for a cost exceeding its
// expected baseline.
type Overspend struct {
	ID            int64           `json:"id" db:"overspend_id"`
	TransactionID int64           `json:"transaction_id" db:"transaction_id"`
	Kind          TransactionKind `json:"kind" db:"type"`
	ExpectedCost  float64         `json:"expected_cost" db:"expected_cost"`
	ActualCost    float64         `json:"actual_cost" db:"actual_cost"`
	Deviation     float64         `json:"deviation" db:"deviation"`
	Reason        string          `json:"reason" db:"reason"`
	FlaggedBy     string          `json:"flagged_by" db:"flagged_by"`
	EmployeeID    int64           `json:"employee_id" db:"employee_id"`
	Date          time.Time       `json:"date" db:"date_time"`
}

// Underperformance is an append-only anomaly record for an operation
// overrunning its expected duration.
type Underperformance struct {
	ID               int64         `json:"id" db:"underperformance_id"`
	DeliveryID       int64         `json:"delivery_id" db:"delivery_id"`
	EntityType       string        `json:"entity_type" db:"entity_type"`
	EntityID         int64         `json:"entity_id" db:"entity_id"`
	EventType        string        `json:"event_type" db:"event_type"`
	ExpectedDuration time.Duration `json:"expected_duration" db:"expected_duration"`
	ActualDuration   time.Duration `json:"actual_duration" db:"actual_duration"`
	Deviation        time.Duration `json:"deviation" db:"deviation"`
	Reason           string        `json:"reason" db:"reason"`
	FlaggedBy        string        `json:"flagged_by" db:"flagged_by"`
	Date             time.Time     `json:"date" db:"date_time"`
}
