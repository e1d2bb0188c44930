package service

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wareflow/backend-go/internal/cache"
	"github.com/wareflow/backend-go/internal/config"
	"github.com/wareflow/backend-go/internal/domain"
	"github.com/wareflow/backend-go/internal/repository"
	"github.com/wareflow/backend-go/internal/sim"
)

// SimulationService owns the orchestrator and exposes the run and
// read surfaces over it.
type SimulationService struct {
	repos *repository.Store
	orch  *sim.Orchestrator
	cache cache.SummaryCache
}

func NewSimulationService(repos *repository.Store, cfg config.SimConfig, cacheImpl cache.SummaryCache) *SimulationService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopSummaryCache()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	orch := sim.NewOrchestrator(repos, sim.Config{
		LowStockThreshold: cfg.LowStockThreshold,
		RestockTarget:     cfg.RestockTarget,
	}, rng, log.Logger)

	return &SimulationService{repos: repos, orch: orch, cache: cacheImpl}
}

// RunDays advances the simulation one day at a time. A failing day is
// logged and the next day starts regardless.
func (s *SimulationService) RunDays(ctx context.Context, start time.Time, numDays int) error {
	day := start
	for i := 0; i < numDays; i++ {
		log.Info().Str("day", day.Format("2006-01-02")).Msg("simulating")
		if err := s.orch.RunDay(ctx, day); err != nil {
			log.Error().Err(err).Str("day", day.Format("2006-01-02")).Msg("day failed, continuing")
		}
		day = day.AddDate(0, 0, 1)
	}

	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("summary cache invalidation failed")
	}
	return nil
}

// GetSummary rolls up the dashboard, cache-aside.
func (s *SimulationService) GetSummary(ctx context.Context) (*domain.SimulationSummary, error) {
	if summary, ok, err := s.cache.GetSummary(ctx); err == nil && ok {
		return summary, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("summary cache get failed")
	}

	summary, err := s.buildSummary(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetSummary(ctx, summary); err != nil {
		log.Warn().Err(err).Msg("summary cache set failed")
	}
	return summary, nil
}

func (s *SimulationService) buildSummary(ctx context.Context) (*domain.SimulationSummary, error) {
	inventory, err := s.repos.Inventory.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	trucks, err := s.repos.Fleet.ListTrucks(ctx)
	if err != nil {
		return nil, err
	}
	fleetStatus := make(map[string]int)
	for _, t := range trucks {
		fleetStatus[string(t.Status)]++
	}

	orders, err := s.repos.Orders.PendingOrders(ctx)
	if err != nil {
		return nil, err
	}
	deliveries, err := s.repos.Delivery.CountDeliveries(ctx)
	if err != nil {
		return nil, err
	}
	overspend, underperf, err := s.repos.Anomalies.CountAnomalies(ctx)
	if err != nil {
		return nil, err
	}
	gasPrice, err := s.repos.Finance.GasPrice(ctx)
	if err != nil {
		return nil, err
	}

	summary := &domain.SimulationSummary{
		Inventory:             inventory,
		FleetStatus:           fleetStatus,
		PendingOrders:         len(orders),
		DeliveriesCompleted:   deliveries,
		OverspendCount:        overspend,
		UnderperformanceCount: underperf,
		GasPrice:              gasPrice,
	}

	for kind, dst := range map[domain.TransactionKind]*float64{
		domain.TransactionFuel:     &summary.FuelSpend,
		domain.TransactionDelivery: &summary.DeliverySpend,
		domain.TransactionPayroll:  &summary.PayrollSpend,
		domain.TransactionSupplier: &summary.SupplierSpend,
	} {
		total, err := s.repos.Finance.TotalCost(ctx, kind)
		if err != nil {
			return nil, err
		}
		*dst = total
	}

	return summary, nil
}

// ListDeliveries returns the most recent deliveries.
func (s *SimulationService) ListDeliveries(ctx context.Context, limit int) ([]*domain.Delivery, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repos.Delivery.ListDeliveries(ctx, limit)
}

// ListOverspend returns the most recent overspend anomalies.
func (s *SimulationService) ListOverspend(ctx context.Context, limit int) ([]*domain.Overspend, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repos.Anomalies.ListOverspend(ctx, limit)
}

// ListUnderperformance returns the most recent duration anomalies.
func (s *SimulationService) ListUnderperformance(ctx context.Context, limit int) ([]*domain.Underperformance, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repos.Anomalies.ListUnderperformance(ctx, limit)
}
