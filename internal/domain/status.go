package domain

import "strings"

// TruckStatus is the operational state of a truck.
type TruckStatus string

const (
	TruckAvailable   TruckStatus = "available"
	TruckLoading     TruckStatus = "loading"
	TruckOnRoute     TruckStatus = "on_route"
	TruckMaintenance TruckStatus = "maintenance"
)

// BatchStatus is the lifecycle state of a supplier delivery batch.
type BatchStatus string

const (
	BatchPending  BatchStatus = "pending"
	BatchReceived BatchStatus = "received"
)

// DeliveryStatus is the lifecycle state of a store delivery.
type DeliveryStatus string

const (
	DeliveryScheduled DeliveryStatus = "scheduled"
	DeliveryCompleted DeliveryStatus = "completed"
)

// TransactionKind labels a cost entry.
type TransactionKind string

const (
	TransactionFuel     TransactionKind = "fuel"
	TransactionDelivery TransactionKind = "delivery"
	TransactionPayroll  TransactionKind = "payroll"
	TransactionSupplier TransactionKind = "supplier_delivery"
)

var truckStatusLabels = map[TruckStatus]string{
	TruckAvailable:   "Available",
	TruckLoading:     "Loading",
	TruckOnRoute:     "On Route",
	TruckMaintenance: "Maintenance",
}

var truckStatusCodes = map[string]TruckStatus{
	"available":   TruckAvailable,
	"loading":     TruckLoading,
	"on_route":    TruckOnRoute,
	"maintenance": TruckMaintenance,
}

// TruckStatusLabel returns a human-readable label for a truck status.
func TruckStatusLabel(status TruckStatus) string {
	if label, ok := truckStatusLabels[status]; ok {
		return label
	}

	return "Unknown"
}

// ParseTruckStatus returns the status for a given label (case-insensitive).
func ParseTruckStatus(label string) (TruckStatus, bool) {
	status, ok := truckStatusCodes[strings.ToLower(label)]

	return status, ok
}
