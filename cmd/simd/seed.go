package main

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/urfave/cli/v2"
	"github.com/wareflow/backend-go/internal/config"
	"github.com/wareflow/backend-go/internal/domain"
	"github.com/wareflow/backend-go/internal/repository/postgres"
	"github.com/wareflow/backend-go/internal/seed"
	"github.com/wareflow/backend-go/pkg/logger"
)

func seedDatabase(c *cli.Context) error {
	cfg := config.Load()

	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if err := postgres.EnsureSchema(c.Context, db); err != nil {
		return err
	}

	seedVal := cfg.Sim.Seed
	if seedVal == 0 {
		seedVal = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seedVal))
	now := time.Now()
	ds := seed.Generate(rng, now, cfg.Sim.WarehouseCapacity)

	ctx := c.Context
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	logger.Log.Info().Int64("seed", seedVal).Msg("Seeding database...")

	if err := seedEmployees(ctx, tx, ds.Employees); err != nil {
		return err
	}
	if err := seedTrucks(ctx, tx, ds.Trucks); err != nil {
		return err
	}
	if err := seedStores(ctx, tx, ds.Stores); err != nil {
		return err
	}
	if err := seedProducts(ctx, tx, ds.Products); err != nil {
		return err
	}
	total, err := seedPellets(ctx, tx, rng, ds, now)
	if err != nil {
		return err
	}
	if err := seedWarehouseState(ctx, tx, cfg, total); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Log.Info().
		Int("employees", len(ds.Employees)).
		Int("trucks", len(ds.Trucks)).
		Int("stores", len(ds.Stores)).
		Int("products", len(ds.Products)).
		Int("pellets", total).
		Msg("Database seeding completed")
	return nil
}

func seedEmployees(ctx context.Context, tx *sql.Tx, employees []domain.Employee) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO employees (employee_id, name, role, salary, account_num, next_payment)
		VALUES ($1, $2, $3, $4, $5, $6)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare employee insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range employees {
		if _, err := stmt.ExecContext(ctx, e.ID, e.Name, e.Role, e.Salary, e.AccountNum, e.NextPayment); err != nil {
			return fmt.Errorf("failed to insert employee %d: %w", e.ID, err)
		}
	}
	return nil
}

func seedTrucks(ctx context.Context, tx *sql.Tx, trucks []domain.Truck) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trucks (
			truck_id, employee_id, capacity, fuel_capacity,
			refrigerated, operational_status, last_maintenance
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare truck insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range trucks {
		if _, err := stmt.ExecContext(ctx,
			t.ID, t.DriverID, t.Capacity, t.TankCapacity,
			t.Refrigerated, t.Status, t.LastMaintenance,
		); err != nil {
			return fmt.Errorf("failed to insert truck %d: %w", t.ID, err)
		}
	}
	return nil
}

func seedStores(ctx context.Context, tx *sql.Tx, stores []domain.StoreLocation) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO stores (store_id, name, distance_km, expected_time, closing)
		VALUES ($1, $2, $3, $4, $5)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare store insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range stores {
		if _, err := stmt.ExecContext(ctx, s.ID, s.Name, s.DistanceKm, s.ExpectedTravel, s.Closing); err != nil {
			return fmt.Errorf("failed to insert store %d: %w", s.ID, err)
		}
	}
	return nil
}

func seedProducts(ctx context.Context, tx *sql.Tx, products []domain.Product) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO products (
			product_id, name, category, pallet_cost, weight, refrigerated, supplier_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare product insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range products {
		if _, err := stmt.ExecContext(ctx,
			p.ID, p.Name, p.Category, p.UnitCost, p.UnitWeight, p.Refrigerated, p.SupplierID,
		); err != nil {
			return fmt.Errorf("failed to insert product %d: %w", p.ID, err)
		}
	}
	return nil
}

func seedPellets(ctx context.Context, tx *sql.Tx, rng *rand.Rand, ds *seed.Dataset, now time.Time) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO product_pellets (
			product_id, name, category, cost, weight,
			received, sell_by, refrigerated, sent
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare pellet insert: %w", err)
	}
	defer stmt.Close()

	total := 0
	for _, p := range ds.Products {
		qty := ds.InitialStock[p.ID]
		for i := 0; i < qty; i++ {
			received := now.AddDate(0, 0, -(1 + rng.Intn(40)))
			if _, err := stmt.ExecContext(ctx,
				p.ID, p.Name, p.Category, p.UnitCost, p.UnitWeight,
				received, received.AddDate(0, 0, 50), p.Refrigerated,
			); err != nil {
				return 0, fmt.Errorf("failed to insert pellet for product %d: %w", p.ID, err)
			}
		}
		total += qty
	}
	return total, nil
}

func seedWarehouseState(ctx context.Context, tx *sql.Tx, cfg *config.Config, onHand int) error {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO warehouse_inventory (id, capacity_pellets, current_pellets, to_be_sent, to_be_received)
		VALUES (1, $1, $2, 0, 0)
		ON CONFLICT (id) DO UPDATE SET
			capacity_pellets = EXCLUDED.capacity_pellets,
			current_pellets = EXCLUDED.current_pellets,
			to_be_sent = 0,
			to_be_received = 0
	`, cfg.Sim.WarehouseCapacity, onHand); err != nil {
		return fmt.Errorf("failed to seed inventory: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO gas_price (id, price)
		VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET price = EXCLUDED.price
	`, cfg.Sim.InitialGasPrice); err != nil {
		return fmt.Errorf("failed to seed gas price: %w", err)
	}
	return nil
}
