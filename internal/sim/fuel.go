package sim

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/wareflow/backend-go/internal/domain"
)

// Refuel once the tank drops under a quarter.
const refuelThreshold = 0.25

// updateGasPrice perturbs the gas price by a bounded random
// multiplier, plus or minus one percent.
func (o *Orchestrator) updateGasPrice(ctx context.Context) error {
	price, err := o.repos.Finance.GasPrice(ctx)
	if err != nil {
		return fmt.Errorf("gas price: %w", err)
	}
	multiplier := 0.99 + o.rng.Float64()*0.02
	return o.repos.Finance.SetGasPrice(ctx, round3(price*multiplier))
}

// refillIdleTrucks tops up any available truck running low. The fuel
// level is approximated as cumulative liters dispensed modulo tank
// capacity; it is not a true gauge, just enough to drive the check.
func (o *Orchestrator) refillIdleTrucks(ctx context.Context, day time.Time) error {
	gasPrice, err := o.repos.Finance.GasPrice(ctx)
	if err != nil {
		return fmt.Errorf("gas price: %w", err)
	}
	trucks, err := o.repos.Fleet.AvailableTrucks(ctx, false)
	if err != nil {
		return fmt.Errorf("available trucks: %w", err)
	}

	for _, truck := range trucks {
		if truck.TankCapacity <= 0 {
			continue
		}
		filled, err := o.repos.Finance.SumFuelLiters(ctx, truck.ID)
		if err != nil {
			o.log.Error().Err(err).Int64("truck_id", truck.ID).Msg("fuel total lookup failed")
			continue
		}
		level := math.Mod(filled, truck.TankCapacity)
		if level/truck.TankCapacity >= refuelThreshold {
			continue
		}

		lo := truck.TankCapacity * 0.5
		hi := truck.TankCapacity - level
		refill := lo + o.rng.Float64()*(hi-lo)
		cost := round2(refill * gasPrice)

		txID, err := o.repos.Finance.InsertTransaction(ctx, domain.TransactionFuel, cost, day)
		if err != nil {
			o.log.Error().Err(err).Int64("truck_id", truck.ID).Msg("refill transaction failed")
			continue
		}
		if _, err := o.repos.Finance.InsertFuelLog(ctx, &domain.FuelLog{
			TransactionID: txID,
			TruckID:       truck.ID,
			DriverID:      truck.DriverID,
			Cost:          cost,
			Liters:        refill,
			CostPerLiter:  gasPrice,
			ExpectedCost:  cost,
			Date:          day,
		}); err != nil {
			o.log.Error().Err(err).Int64("truck_id", truck.ID).Msg("refill log failed")
			continue
		}

		// Expected cost equals the billed cost here; the check cannot
		// flag until refills get a separate baseline.
		if overspend, flagged := ClassifyCost(domain.TransactionFuel, cost, cost); flagged {
			overspend.TransactionID = txID
			overspend.EmployeeID = truck.DriverID
			overspend.Date = day
			if _, err := o.repos.Anomalies.InsertOverspend(ctx, &overspend); err != nil {
				o.log.Warn().Err(err).Msg("refill overspend record failed")
			}
		}
	}
	return nil
}
