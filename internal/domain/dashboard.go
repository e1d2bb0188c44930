package domain

// SimulationSummary is the operational dashboard rolled up from the
// current warehouse state.
type SimulationSummary struct {
	Inventory             InventorySnapshot `json:"inventory"`
	FleetStatus           map[string]int    `json:"fleet_status"`
	PendingOrders         int               `json:"pending_orders"`
	DeliveriesCompleted   int               `json:"deliveries_completed"`
	OverspendCount        int               `json:"overspend_count"`
	UnderperformanceCount int               `json:"underperformance_count"`
	GasPrice              float64           `json:"gas_price"`
	FuelSpend             float64           `json:"fuel_spend"`
	DeliverySpend         float64           `json:"delivery_spend"`
	PayrollSpend          float64           `json:"payroll_spend"`
	SupplierSpend         float64           `json:"supplier_spend"`
}

// DayReport summarizes one simulated day for export.
type DayReport struct {
	Date                  string  `json:"date"`
	OrdersFulfilled       int     `json:"orders_fulfilled"`
	OrdersPending         int     `json:"orders_pending"`
	OverspendCount        int     `json:"overspend_count"`
	UnderperformanceCount int     `json:"underperformance_count"`
	FuelSpend             float64 `json:"fuel_spend"`
	GasPrice              float64 `json:"gas_price"`
}
