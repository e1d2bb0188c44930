package sim

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"github.com/wareflow/backend-go/internal/repository"
)

// Config holds the orchestrator tunables.
type Config struct {
	// LowStockThreshold triggers resupply when a product's unsent
	// pellet count drops below it.
	LowStockThreshold int
	// RestockTarget is the level resupply aims back up to.
	RestockTarget int
}

// Orchestrator sequences one simulated day. It owns the warehouse
// state handle and the component wiring; sub-steps commit
// independently with no rollback across steps.
type Orchestrator struct {
	repos     *repository.Store
	ledger    *Ledger
	stock     *PelletStock
	fleet     *Fleet
	planner   *Planner
	scheduler *Scheduler
	cfg       Config
	rng       *rand.Rand
	log       zerolog.Logger
}

func NewOrchestrator(repos *repository.Store, cfg Config, rng *rand.Rand, log zerolog.Logger) *Orchestrator {
	ledger := NewLedger(repos.Inventory)
	stock := NewPelletStock(repos.Pellets)
	fleet := NewFleet(repos.Fleet, repos.Delivery)
	planner := NewPlanner(ledger, repos.Batches, repos.Products)
	return &Orchestrator{
		repos:     repos,
		ledger:    ledger,
		stock:     stock,
		fleet:     fleet,
		planner:   planner,
		scheduler: NewScheduler(repos, ledger, stock, fleet, planner, rng, log),
		cfg:       cfg,
		rng:       rng,
		log:       log,
	}
}

// Scheduler exposes the delivery scheduler, mainly for tests and the
// service layer.
func (o *Orchestrator) Scheduler() *Scheduler { return o.scheduler }

// Ledger exposes the inventory ledger.
func (o *Orchestrator) Ledger() *Ledger { return o.ledger }

// RunDay processes one simulated calendar day. The sub-step order is
// fixed; a failed step is logged and the day continues.
func (o *Orchestrator) RunDay(ctx context.Context, day time.Time) error {
	log := o.log.With().Str("day", day.Format("2006-01-02")).Logger()

	// 1. Trucks serviced yesterday come back.
	if released, err := o.fleet.ResetFinishedMaintenance(ctx, day); err != nil {
		log.Error().Err(err).Msg("maintenance reset failed")
	} else if released > 0 {
		log.Info().Int("trucks", released).Msg("trucks back from maintenance")
	}

	// 2. Expired pellets leave the warehouse.
	if removed, err := o.stock.SweepExpired(ctx, day); err != nil {
		log.Error().Err(err).Msg("expiry sweep failed")
	} else if removed > 0 {
		log.Info().Int("pellets", removed).Msg("expired pellets removed from inventory")
	}

	// 3. Low-stock products request resupply up to the target level.
	if err := o.restockLowInventory(ctx, day); err != nil {
		log.Error().Err(err).Msg("low-stock restock failed")
	}

	// 4. Gas price drifts.
	if err := o.updateGasPrice(ctx); err != nil {
		log.Error().Err(err).Msg("gas price update failed")
	}

	// 5. Payroll.
	if err := o.runPayroll(ctx, day); err != nil {
		log.Error().Err(err).Msg("payroll run failed")
	}

	// 6. Trucks whose deliveries have returned go back in the pool.
	if _, err := o.fleet.ReleaseReturned(ctx, endOfDay(day)); err != nil {
		log.Error().Err(err).Msg("truck release failed")
	}

	// 7. Refuel idle trucks running low.
	if err := o.refillIdleTrucks(ctx, day); err != nil {
		log.Error().Err(err).Msg("truck refill failed")
	}

	// 8. Maintenance rule over the whole fleet.
	if flagged, err := o.fleet.EnforceMaintenance(ctx, day); err != nil {
		log.Error().Err(err).Msg("maintenance enforcement failed")
	} else if flagged > 0 {
		log.Info().Int("trucks", flagged).Msg("trucks pulled for maintenance")
	}

	// 9. New store orders arrive.
	if err := o.placeOrders(ctx, day); err != nil {
		log.Error().Err(err).Msg("order intake failed")
	}

	// 10. Pending supplier batches become stock.
	if err := o.unloadBatches(ctx, day); err != nil {
		log.Error().Err(err).Msg("restock unloading failed")
	}

	// 11. Fulfillment.
	if err := o.scheduler.FulfillPending(ctx, day); err != nil {
		log.Error().Err(err).Msg("fulfillment failed")
	}

	return nil
}

// restockLowInventory scans every product and requests resupply for
// the ones whose unsent pellet count dropped under the threshold.
func (o *Orchestrator) restockLowInventory(ctx context.Context, day time.Time) error {
	products, err := o.repos.Products.ListProducts(ctx)
	if err != nil {
		return err
	}
	for _, product := range products {
		onHand, err := o.stock.OnHand(ctx, product.ID)
		if err != nil {
			o.log.Error().Err(err).Int64("product_id", product.ID).Msg("stock count failed")
			continue
		}
		if onHand >= o.cfg.LowStockThreshold {
			continue
		}
		needed := o.cfg.RestockTarget - onHand
		if _, err := o.planner.Plan(ctx, product.ID, needed, day); err != nil {
			o.log.Error().Err(err).Int64("product_id", product.ID).Msg("resupply plan failed")
		}
	}
	return nil
}

func endOfDay(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, day.Location())
}
