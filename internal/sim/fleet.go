package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/wareflow/backend-go/internal/domain"
	"github.com/wareflow/backend-go/internal/repository"
)

// Trucks go in for maintenance once this much time has passed since
// the last service; the service lasts exactly one simulated day.
const maintenanceInterval = 200 * 24 * time.Hour

// Fleet is the registry of trucks and their drivers.
type Fleet struct {
	trucks     repository.FleetRepository
	deliveries repository.DeliveryRepository
}

func NewFleet(trucks repository.FleetRepository, deliveries repository.DeliveryRepository) *Fleet {
	return &Fleet{trucks: trucks, deliveries: deliveries}
}

// FindTruck returns the first available truck in registry order that
// can carry requiredWeight, restricted to refrigerated units when the
// load needs cooling. First fit, not best fit. Returns nil when no
// truck qualifies.
func (f *Fleet) FindTruck(ctx context.Context, requiredWeight float64, needsRefrigeration bool) (*domain.Truck, error) {
	trucks, err := f.trucks.AvailableTrucks(ctx, needsRefrigeration)
	if err != nil {
		return nil, fmt.Errorf("available trucks: %w", err)
	}
	for _, t := range trucks {
		if t.Capacity >= requiredWeight {
			return t, nil
		}
	}
	return nil, nil
}

// SetStatus is an unconditional status write.
func (f *Fleet) SetStatus(ctx context.Context, truckID int64, status domain.TruckStatus) error {
	return f.trucks.SetTruckStatus(ctx, truckID, status)
}

// CheckMaintenanceDue forces a truck into maintenance when its last
// service is at least the maintenance interval ago, stamping the
// service date. Reports whether maintenance was triggered.
func (f *Fleet) CheckMaintenanceDue(ctx context.Context, truckID int64, asOf time.Time) (bool, error) {
	truck, err := f.trucks.GetTruck(ctx, truckID)
	if err != nil {
		return false, fmt.Errorf("get truck: %w", err)
	}
	if truck.LastMaintenance.IsZero() || asOf.Sub(truck.LastMaintenance) < maintenanceInterval {
		return false, nil
	}
	if err := f.trucks.SetTruckStatus(ctx, truckID, domain.TruckMaintenance); err != nil {
		return false, err
	}
	if err := f.trucks.SetLastMaintenance(ctx, truckID, asOf); err != nil {
		return false, err
	}
	return true, nil
}

// EnforceMaintenance applies the maintenance rule to every truck and
// returns how many were pulled from service.
func (f *Fleet) EnforceMaintenance(ctx context.Context, asOf time.Time) (int, error) {
	trucks, err := f.trucks.ListTrucks(ctx)
	if err != nil {
		return 0, fmt.Errorf("list trucks: %w", err)
	}
	flagged := 0
	for _, t := range trucks {
		if t.LastMaintenance.IsZero() || asOf.Sub(t.LastMaintenance) < maintenanceInterval {
			continue
		}
		if err := f.trucks.SetTruckStatus(ctx, t.ID, domain.TruckMaintenance); err != nil {
			return flagged, err
		}
		if err := f.trucks.SetLastMaintenance(ctx, t.ID, asOf); err != nil {
			return flagged, err
		}
		flagged++
	}
	return flagged, nil
}

// ResetFinishedMaintenance returns trucks serviced yesterday to the
// available pool.
func (f *Fleet) ResetFinishedMaintenance(ctx context.Context, today time.Time) (int, error) {
	yesterday := today.AddDate(0, 0, -1)
	return f.trucks.ReleaseMaintenance(ctx, yesterday)
}

// ReleaseReturned frees every truck whose deliveries have all returned
// by the given instant. Trucks under maintenance stay put.
func (f *Fleet) ReleaseReturned(ctx context.Context, by time.Time) (int, error) {
	ids, err := f.deliveries.ReturnedTruckIDs(ctx, by)
	if err != nil {
		return 0, fmt.Errorf("returned trucks: %w", err)
	}
	released := 0
	for _, id := range ids {
		truck, err := f.trucks.GetTruck(ctx, id)
		if err != nil {
			continue
		}
		if truck.Status == domain.TruckMaintenance || truck.Status == domain.TruckAvailable {
			continue
		}
		if err := f.trucks.SetTruckStatus(ctx, id, domain.TruckAvailable); err != nil {
			return released, err
		}
		released++
	}
	return released, nil
}

// DriverFor resolves the driver assigned to a truck; trucks and
// drivers are paired 1:1 for the whole simulation.
func (f *Fleet) DriverFor(ctx context.Context, truckID int64) (int64, error) {
	truck, err := f.trucks.GetTruck(ctx, truckID)
	if err != nil {
		return 0, err
	}
	if truck.DriverID == 0 {
		return 0, fmt.Errorf("truck %d driver: %w", truckID, repository.ErrNotFound)
	}
	return truck.DriverID, nil
}
