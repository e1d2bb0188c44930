package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"github.com/wareflow/backend-go/internal/cache"
	"github.com/wareflow/backend-go/internal/config"
	"github.com/wareflow/backend-go/internal/repository/memory"
	"github.com/wareflow/backend-go/internal/seed"
	"github.com/wareflow/backend-go/internal/service"
	"github.com/wareflow/backend-go/internal/storage"
	"github.com/wareflow/backend-go/pkg/logger"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		logger.Log.Debug().Err(err).Msg("no .env file loaded")
	}

	app := &cli.App{
		Name:  "simd",
		Usage: "Warehouse daily activity simulator",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run the simulation for a number of days on an in-memory warehouse",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "start-date",
						Usage: "First simulated day (YYYY-MM-DD), defaults to today",
					},
					&cli.IntFlag{
						Name:  "days",
						Usage: "Number of days to simulate",
						Value: 30,
					},
					&cli.Int64Flag{
						Name:    "seed",
						Usage:   "RNG seed, 0 derives one from the clock",
						EnvVars: []string{"SIM_SEED"},
					},
					&cli.BoolFlag{
						Name:  "export",
						Usage: "Upload a CSV day report after the run",
					},
				},
				Action: runSimulation,
			},
			{
				Name:   "seed",
				Usage:  "Seed a Postgres database with a synthetic warehouse",
				Flags:  []cli.Flag{newDBURLFlag()},
				Action: seedDatabase,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("simd failed")
	}
}

func runSimulation(c *cli.Context) error {
	cfg := config.Load()

	seedVal := c.Int64("seed")
	if seedVal == 0 {
		seedVal = cfg.Sim.Seed
	}
	if seedVal == 0 {
		seedVal = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seedVal))

	start := time.Now()
	if raw := c.String("start-date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return fmt.Errorf("invalid start-date %q: %w", raw, err)
		}
		start = parsed
	}
	days := c.Int("days")
	if days <= 0 {
		return fmt.Errorf("days must be positive, got %d", days)
	}

	st := memory.NewStore(cfg.Sim.WarehouseCapacity, cfg.Sim.InitialGasPrice)
	ds := seed.Generate(rng, start, cfg.Sim.WarehouseCapacity)
	if err := seed.Populate(c.Context, st, ds, rng, start); err != nil {
		return fmt.Errorf("failed to seed warehouse: %w", err)
	}

	simCfg := cfg.Sim
	simCfg.Seed = seedVal
	svc := service.NewSimulationService(st.Bundle(), simCfg, cache.NewNoopSummaryCache())

	logger.Log.Info().
		Int64("seed", seedVal).
		Int("days", days).
		Time("start", start).
		Msg("starting simulation run")

	if err := svc.RunDays(c.Context, start, days); err != nil {
		return fmt.Errorf("simulation run failed: %w", err)
	}

	summary, err := svc.GetSummary(c.Context)
	if err != nil {
		return fmt.Errorf("failed to build summary: %w", err)
	}
	logger.Log.Info().
		Int("deliveries", summary.DeliveriesCompleted).
		Int("pending_orders", summary.PendingOrders).
		Int("overspend", summary.OverspendCount).
		Int("underperformance", summary.UnderperformanceCount).
		Float64("gas_price", summary.GasPrice).
		Float64("fuel_spend", summary.FuelSpend).
		Float64("payroll_spend", summary.PayrollSpend).
		Msg("simulation finished")

	if c.Bool("export") {
		if err := exportReport(c, svc, cfg, start.AddDate(0, 0, days-1)); err != nil {
			return err
		}
	}
	return nil
}

func exportReport(c *cli.Context, svc *service.SimulationService, cfg *config.Config, lastDay time.Time) error {
	if !cfg.Report.Enabled {
		return fmt.Errorf("report export requested but REPORT_ENABLED is false")
	}

	objStore, err := storage.NewMinioClient(cfg.Report)
	if err != nil {
		return fmt.Errorf("failed to init object storage: %w", err)
	}

	report, err := svc.BuildDayReport(c.Context, lastDay)
	if err != nil {
		return fmt.Errorf("failed to build day report: %w", err)
	}
	return service.NewReportService(objStore).Export(c.Context, report)
}
