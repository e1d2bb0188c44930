package sim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"github.com/wareflow/backend-go/internal/domain"
	"github.com/wareflow/backend-go/internal/repository"
)

const (
	// The simulated working day starts at 08:00 local time.
	dayStartHour = 8
	// Loading a truck takes a flat hour.
	loadingDuration = time.Hour
	// Trucks must be back an hour before the store closes, or the
	// departure slips to 04:00 the next morning.
	closingCutoff      = time.Hour
	earlyDepartureHour = 4
	// Real-world variance: up to an hour of delay on the return leg.
	maxDelayMinutes = 60
	// A delivery is expected to take three hours door to door.
	expectedDeliveryDuration = 3 * time.Hour
	// Trucks burn one liter every three kilometers.
	kmPerLiter = 3.0

	defaultTravelTime  = 2 * time.Hour
	defaultClosingHour = 20
)

// ScheduleOutcome says what happened to one pending order this cycle.
type ScheduleOutcome string

const (
	OutcomeAllocated ScheduleOutcome = "allocated"
	OutcomeSkipped   ScheduleOutcome = "skipped"
)

// ScheduleResult is returned instead of raising: callers branch on the
// outcome value.
type ScheduleResult struct {
	Outcome    ScheduleOutcome
	Reason     string
	DeliveryID int64
}

func skipped(reason string) ScheduleResult {
	return ScheduleResult{Outcome: OutcomeSkipped, Reason: reason}
}

// Scheduler matches pending orders to stock and trucks and emits
// delivery, fuel and anomaly records. It is the sole writer of truck
// status transitions during routing.
type Scheduler struct {
	ledger  *Ledger
	stock   *PelletStock
	fleet   *Fleet
	planner *Planner
	repos   *repository.Store
	rng     *rand.Rand
	log     zerolog.Logger
}

func NewScheduler(repos *repository.Store, ledger *Ledger, stock *PelletStock, fleet *Fleet, planner *Planner, rng *rand.Rand, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		ledger:  ledger,
		stock:   stock,
		fleet:   fleet,
		planner: planner,
		repos:   repos,
		rng:     rng,
		log:     log,
	}
}

type preparedItem struct {
	productID int64
	quantity  int
	weight    float64
}

// FulfillPending processes every pending order oldest first. A failure
// in one order is logged and the loop continues; partial-day
// completion is expected.
func (s *Scheduler) FulfillPending(ctx context.Context, day time.Time) error {
	orders, err := s.repos.Orders.PendingOrders(ctx)
	if err != nil {
		return fmt.Errorf("pending orders: %w", err)
	}

	for _, order := range orders {
		result, err := s.ProcessOrder(ctx, order, day)
		if err != nil {
			s.log.Error().Err(err).
				Int64("order_id", order.ID).
				Int64("store_id", order.StoreID).
				Msg("order processing failed, continuing")
			continue
		}
		if result.Outcome == OutcomeSkipped {
			s.log.Info().
				Int64("order_id", order.ID).
				Int64("store_id", order.StoreID).
				Str("reason", result.Reason).
				Msg("order skipped, stays pending")
		}
	}
	return nil
}

// ProcessOrder runs the per-order state machine: allocate stock,
// request resupply for deficits, match a truck, schedule the delivery
// and commit the inventory movement. Orders that cannot ship at all
// stay pending for the next cycle.
func (s *Scheduler) ProcessOrder(ctx context.Context, order *domain.PendingOrder, day time.Time) (ScheduleResult, error) {
	snap, err := s.ledger.Snapshot(ctx)
	if err != nil {
		return ScheduleResult{}, fmt.Errorf("snapshot: %w", err)
	}

	remaining := snap.OnHand
	var prepared []preparedItem
	var totalWeight float64
	refrigerationRequired := false

	for _, item := range order.Items {
		deliverNow := item.Quantity
		if deliverNow > remaining {
			deliverNow = remaining
		}
		if deliverNow < 0 {
			deliverNow = 0
		}
		if deliverNow > 0 {
			prepared = append(prepared, preparedItem{
				productID: item.ProductID,
				quantity:  deliverNow,
				weight:    item.UnitWeight * float64(deliverNow),
			})
			totalWeight += item.UnitWeight * float64(deliverNow)
			remaining -= deliverNow
		}
		if deficit := item.Quantity - deliverNow; deficit > 0 {
			if _, err := s.planner.Plan(ctx, item.ProductID, deficit, day); err != nil {
				s.log.Warn().Err(err).
					Int64("product_id", item.ProductID).
					Int("deficit", deficit).
					Msg("resupply request failed")
			}
		}
		if item.Refrigerated {
			refrigerationRequired = true
		}
	}

	if len(prepared) == 0 {
		return skipped("no stock on hand"), nil
	}

	truck, err := s.fleet.FindTruck(ctx, totalWeight, refrigerationRequired)
	if err != nil {
		return ScheduleResult{}, fmt.Errorf("find truck: %w", err)
	}
	if truck == nil {
		return skipped("no available truck"), nil
	}

	driverID, err := s.fleet.DriverFor(ctx, truck.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return skipped("truck has no driver"), nil
		}
		return ScheduleResult{}, fmt.Errorf("resolve driver: %w", err)
	}

	due, err := s.fleet.CheckMaintenanceDue(ctx, truck.ID, day)
	if err != nil {
		return ScheduleResult{}, fmt.Errorf("maintenance check: %w", err)
	}
	if due {
		return skipped("truck pulled for maintenance"), nil
	}

	deliveryID, shipped, err := s.scheduleDelivery(ctx, order.StoreID, prepared, truck, driverID, day)
	if err != nil {
		return ScheduleResult{}, err
	}
	if shipped == 0 {
		return skipped("no pellets available"), nil
	}

	// Commit the inventory movement by the shipped quantities and
	// retire the reservation at completion; deliveries complete within
	// the scheduling call in this model.
	reserved, _, err := s.ledger.ReserveOutbound(ctx, shipped)
	if err != nil {
		return ScheduleResult{}, fmt.Errorf("reserve outbound: %w", err)
	}
	if err := s.ledger.ReleaseOutbound(ctx, reserved); err != nil {
		return ScheduleResult{}, fmt.Errorf("release outbound: %w", err)
	}

	if err := s.repos.Orders.DeleteOrder(ctx, order.ID); err != nil {
		return ScheduleResult{}, fmt.Errorf("delete order: %w", err)
	}

	return ScheduleResult{Outcome: OutcomeAllocated, DeliveryID: deliveryID}, nil
}

func (s *Scheduler) scheduleDelivery(ctx context.Context, storeID int64, prepared []preparedItem, truck *domain.Truck, driverID int64, day time.Time) (int64, int, error) {
	travel := defaultTravelTime
	distance := 0.0
	closing := time.Duration(defaultClosingHour) * time.Hour
	if store, err := s.repos.Stores.GetStore(ctx, storeID); err == nil {
		travel = store.ExpectedTravel
		distance = store.DistanceKm
		if store.Closing > 0 {
			closing = store.Closing
		}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return 0, 0, fmt.Errorf("get store: %w", err)
	}

	dayStart := atHour(day, dayStartHour)
	loadingEnd := dayStart.Add(loadingDuration)
	closingTime := atHour(day, 0).Add(closing)

	// Departure slips to 04:00 the next morning when a same-day round
	// trip cannot be back an hour before the store closes.
	timeSent := loadingEnd
	if loadingEnd.Add(2 * travel).After(closingTime.Add(-closingCutoff)) {
		timeSent = atHour(day.AddDate(0, 0, 1), earlyDepartureHour)
	}
	// The expected return counts from the actual departure, so a
	// deferred run never returns before it left.
	estimatedReturn := timeSent.Add(2 * travel)

	var totalCost float64
	shipped := 0
	items := make([]domain.DeliveredItem, 0, len(prepared))
	for _, item := range prepared {
		pelletIDs, err := s.stock.Allocate(ctx, item.productID, item.quantity)
		if err != nil {
			return 0, 0, fmt.Errorf("allocate pellets: %w", err)
		}
		// The pool snapshot can promise more than this product has on
		// the racks; the per-product gap is reordered here.
		if deficit := item.quantity - len(pelletIDs); deficit > 0 {
			if _, err := s.planner.Plan(ctx, item.productID, deficit, day); err != nil {
				s.log.Warn().Err(err).
					Int64("product_id", item.productID).
					Int("deficit", deficit).
					Msg("resupply request failed")
			}
		}
		if len(pelletIDs) == 0 {
			continue
		}
		product, err := s.repos.Products.GetProduct(ctx, item.productID)
		if err != nil {
			return 0, 0, fmt.Errorf("product lookup: %w", err)
		}
		totalCost += product.UnitCost * float64(len(pelletIDs))
		shipped += len(pelletIDs)
		items = append(items, domain.DeliveredItem{
			ProductID: item.productID,
			Quantity:  len(pelletIDs),
			PelletIDs: pelletIDs,
		})
	}
	if shipped == 0 {
		return 0, 0, nil
	}

	if err := s.fleet.SetStatus(ctx, truck.ID, domain.TruckLoading); err != nil {
		return 0, 0, fmt.Errorf("set loading: %w", err)
	}
	if err := s.fleet.SetStatus(ctx, truck.ID, domain.TruckOnRoute); err != nil {
		return 0, 0, fmt.Errorf("set on_route: %w", err)
	}

	delay := time.Duration(s.rng.Intn(maxDelayMinutes+1)) * time.Minute
	actualReturn := estimatedReturn.Add(delay)

	deliveryID, err := s.repos.Delivery.InsertDelivery(ctx, &domain.Delivery{
		StoreID:   storeID,
		Items:     items,
		TotalCost: totalCost,
		TruckID:   truck.ID,
		DriverID:  driverID,
		TimeSent:  timeSent,
		Status:    domain.DeliveryScheduled,
		Date:      day,
	})
	if err != nil {
		return 0, 0, fmt.Errorf("insert delivery: %w", err)
	}
	if err := s.repos.Delivery.CompleteDelivery(ctx, deliveryID, actualReturn); err != nil {
		return 0, 0, fmt.Errorf("complete delivery: %w", err)
	}

	txID, err := s.repos.Finance.InsertTransaction(ctx, domain.TransactionDelivery, totalCost, day)
	if err != nil {
		return 0, 0, fmt.Errorf("delivery transaction: %w", err)
	}

	if delay > durationTolerance {
		// The measured window opens when loading starts for the actual
		// departure, deferred or not.
		s.recordDeliveryAnomalies(ctx, txID, deliveryID, driverID, totalCost, timeSent.Add(-loadingDuration), actualReturn, day)
	}

	kmDriven := distance * 2
	extraKm := 0.0
	if delay > 0 {
		extraKm = round2(s.rng.Float64() * 5)
	}
	if _, err := s.repos.Delivery.InsertTruckLog(ctx, &domain.TruckLog{
		DeliveryID:     deliveryID,
		DriverID:       driverID,
		TimeSent:       timeSent,
		TimeReturned:   actualReturn,
		ExpectedTravel: travel,
		DistanceKm:     distance,
		KmDriven:       kmDriven,
		ExtraKm:        extraKm,
		Delay:          delay,
		Date:           day,
	}); err != nil {
		return 0, 0, fmt.Errorf("truck log: %w", err)
	}

	if err := s.refuelAfterDelivery(ctx, truck, driverID, kmDriven, day); err != nil {
		s.log.Warn().Err(err).Int64("truck_id", truck.ID).Msg("post-delivery refuel failed")
	}

	if err := s.fleet.SetStatus(ctx, truck.ID, domain.TruckAvailable); err != nil {
		return 0, 0, fmt.Errorf("set available: %w", err)
	}
	return deliveryID, shipped, nil
}

// recordDeliveryAnomalies is best effort: a logging failure here must
// not abort the delivery that produced it.
func (s *Scheduler) recordDeliveryAnomalies(ctx context.Context, txID, deliveryID, driverID int64, totalCost float64, start, end time.Time, day time.Time) {
	// The billed cost is currently its own baseline, so this check
	// cannot flag; it is the seam where a separate expected cost
	// plugs in.
	if overspend, flagged := ClassifyCost(domain.TransactionDelivery, totalCost, totalCost); flagged {
		overspend.TransactionID = txID
		overspend.EmployeeID = driverID
		overspend.Date = day
		if _, err := s.repos.Anomalies.InsertOverspend(ctx, &overspend); err != nil {
			s.log.Warn().Err(err).Msg("overspend record failed")
		}
	}

	if underperf, flagged := ClassifyDuration(expectedDeliveryDuration, end.Sub(start)); flagged {
		underperf.DeliveryID = deliveryID
		underperf.EntityType = "truck"
		underperf.EntityID = driverID
		underperf.EventType = "delivery_delay"
		underperf.Reason = "Delivery took longer than expected"
		underperf.Date = day
		if _, err := s.repos.Anomalies.InsertUnderperformance(ctx, &underperf); err != nil {
			s.log.Warn().Err(err).Msg("underperformance record failed")
		}
	}
}

func (s *Scheduler) refuelAfterDelivery(ctx context.Context, truck *domain.Truck, driverID int64, kmDriven float64, day time.Time) error {
	gasPrice, err := s.repos.Finance.GasPrice(ctx)
	if err != nil {
		return fmt.Errorf("gas price: %w", err)
	}
	liters := kmDriven / kmPerLiter
	cost := round2(liters * gasPrice)

	txID, err := s.repos.Finance.InsertTransaction(ctx, domain.TransactionFuel, cost, day)
	if err != nil {
		return fmt.Errorf("fuel transaction: %w", err)
	}
	if _, err := s.repos.Finance.InsertFuelLog(ctx, &domain.FuelLog{
		TransactionID: txID,
		TruckID:       truck.ID,
		DriverID:      driverID,
		Cost:          cost,
		Liters:        liters,
		CostPerLiter:  gasPrice,
		ExpectedCost:  cost,
		Date:          day,
	}); err != nil {
		return fmt.Errorf("fuel log: %w", err)
	}

	// Expected cost equals the billed cost here; the check cannot
	// flag until refuels get a separate baseline.
	if overspend, flagged := ClassifyCost(domain.TransactionFuel, cost, cost); flagged {
		overspend.TransactionID = txID
		overspend.EmployeeID = driverID
		overspend.Date = day
		if _, err := s.repos.Anomalies.InsertOverspend(ctx, &overspend); err != nil {
			s.log.Warn().Err(err).Msg("fuel overspend record failed")
		}
	}
	return nil
}

func atHour(day time.Time, hour int) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, hour, 0, 0, 0, day.Location())
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
