package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// Durations (expected_time, delivery_delay, lead times) are stored as
// BIGINT nanoseconds so they scan straight into time.Duration.
const schema = `
CREATE TABLE IF NOT EXISTS warehouse_inventory (
	id               SMALLINT PRIMARY KEY DEFAULT 1,
	capacity_pellets INTEGER NOT NULL,
	current_pellets  INTEGER NOT NULL DEFAULT 0,
	to_be_sent       INTEGER NOT NULL DEFAULT 0,
	to_be_received   INTEGER NOT NULL DEFAULT 0,
	CHECK (id = 1)
);

CREATE TABLE IF NOT EXISTS gas_price (
	id    SMALLINT PRIMARY KEY DEFAULT 1,
	price DOUBLE PRECISION NOT NULL,
	CHECK (id = 1)
);

CREATE TABLE IF NOT EXISTS products (
	product_id   BIGSERIAL PRIMARY KEY,
	name         TEXT NOT NULL,
	category     TEXT NOT NULL,
	pallet_cost  DOUBLE PRECISION NOT NULL,
	weight       DOUBLE PRECISION NOT NULL,
	refrigerated BOOLEAN NOT NULL DEFAULT FALSE,
	supplier_id  BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS product_pellets (
	pellet_id    BIGSERIAL PRIMARY KEY,
	product_id   BIGINT NOT NULL REFERENCES products (product_id),
	name         TEXT NOT NULL,
	category     TEXT NOT NULL,
	cost         DOUBLE PRECISION NOT NULL,
	weight       DOUBLE PRECISION NOT NULL,
	received     TIMESTAMPTZ NOT NULL,
	sell_by      TIMESTAMPTZ NOT NULL,
	refrigerated BOOLEAN NOT NULL DEFAULT FALSE,
	sent         BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS idx_pellets_fefo
	ON product_pellets (product_id, sell_by, pellet_id)
	WHERE NOT sent;

CREATE TABLE IF NOT EXISTS employees (
	employee_id  BIGSERIAL PRIMARY KEY,
	name         TEXT NOT NULL,
	role         TEXT NOT NULL,
	salary       DOUBLE PRECISION NOT NULL,
	account_num  TEXT NOT NULL,
	next_payment TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS trucks (
	truck_id           BIGSERIAL PRIMARY KEY,
	employee_id        BIGINT NOT NULL REFERENCES employees (employee_id),
	capacity           DOUBLE PRECISION NOT NULL,
	fuel_capacity      DOUBLE PRECISION NOT NULL,
	refrigerated       BOOLEAN NOT NULL DEFAULT FALSE,
	operational_status TEXT NOT NULL DEFAULT 'available',
	last_maintenance   TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS stores (
	store_id      BIGSERIAL PRIMARY KEY,
	name          TEXT NOT NULL,
	distance_km   DOUBLE PRECISION NOT NULL,
	expected_time BIGINT NOT NULL,
	closing       BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS pending_orders (
	order_id  BIGSERIAL PRIMARY KEY,
	store_id  BIGINT NOT NULL,
	items     JSONB NOT NULL,
	date_time TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS supplier_batches (
	batch_id               BIGSERIAL PRIMARY KEY,
	supplier_id            BIGINT NOT NULL,
	product_id             BIGINT NOT NULL REFERENCES products (product_id),
	quantity               INTEGER NOT NULL,
	status                 TEXT NOT NULL DEFAULT 'pending',
	expected_delivery_time BIGINT NOT NULL,
	date_time              TIMESTAMPTZ NOT NULL,
	order_received         TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS deliveries (
	delivery_id   BIGSERIAL PRIMARY KEY,
	store_id      BIGINT NOT NULL,
	items         JSONB NOT NULL,
	cost          DOUBLE PRECISION NOT NULL,
	truck_id      BIGINT NOT NULL,
	driver_id     BIGINT NOT NULL,
	time_sent     TIMESTAMPTZ NOT NULL,
	time_returned TIMESTAMPTZ NOT NULL,
	status        TEXT NOT NULL DEFAULT 'scheduled',
	date_time     TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS truck_logs (
	log_id         BIGSERIAL PRIMARY KEY,
	delivery_id    BIGINT NOT NULL REFERENCES deliveries (delivery_id),
	driver_id      BIGINT NOT NULL,
	time_sent      TIMESTAMPTZ NOT NULL,
	time_returned  TIMESTAMPTZ NOT NULL,
	expected_time  BIGINT NOT NULL,
	distance_km    DOUBLE PRECISION NOT NULL,
	km_driven      DOUBLE PRECISION NOT NULL,
	extra_km       DOUBLE PRECISION NOT NULL,
	delivery_delay BIGINT NOT NULL,
	date_time      TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
	transaction_id BIGSERIAL PRIMARY KEY,
	type           TEXT NOT NULL,
	cost           DOUBLE PRECISION NOT NULL,
	date_time      TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS fuel_logs (
	fuel_log_id    BIGSERIAL PRIMARY KEY,
	transaction_id BIGINT NOT NULL REFERENCES transactions (transaction_id),
	truck_id       BIGINT NOT NULL,
	employee_id    BIGINT NOT NULL,
	cost           DOUBLE PRECISION NOT NULL,
	liters         DOUBLE PRECISION NOT NULL,
	cost_per_liter DOUBLE PRECISION NOT NULL,
	expected_cost  DOUBLE PRECISION NOT NULL,
	date_time      TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS payroll_logs (
	payroll_log_id BIGSERIAL PRIMARY KEY,
	transaction_id BIGINT NOT NULL REFERENCES transactions (transaction_id),
	employee_id    BIGINT NOT NULL,
	payment        DOUBLE PRECISION NOT NULL,
	account_num    TEXT NOT NULL,
	last_payment   TIMESTAMPTZ NOT NULL,
	next_payment   TIMESTAMPTZ NOT NULL,
	date_time      TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS overspend (
	overspend_id   BIGSERIAL PRIMARY KEY,
	transaction_id BIGINT NOT NULL,
	type           TEXT NOT NULL,
	expected_cost  DOUBLE PRECISION NOT NULL,
	actual_cost    DOUBLE PRECISION NOT NULL,
	deviation      DOUBLE PRECISION NOT NULL,
	reason         TEXT NOT NULL,
	flagged_by     TEXT NOT NULL,
	employee_id    BIGINT NOT NULL DEFAULT 0,
	date_time      TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS underperformance (
	underperformance_id BIGSERIAL PRIMARY KEY,
	delivery_id         BIGINT NOT NULL,
	entity_type         TEXT NOT NULL,
	entity_id           BIGINT NOT NULL,
	event_type          TEXT NOT NULL,
	expected_duration   BIGINT NOT NULL,
	actual_duration     BIGINT NOT NULL,
	deviation           BIGINT NOT NULL,
	reason              TEXT NOT NULL,
	flagged_by          TEXT NOT NULL,
	date_time           TIMESTAMPTZ NOT NULL
);
`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// EnsureSchema creates every table the engine persists into. Safe to
// run repeatedly. Works over the pool wrapper or a plain *sql.DB so
// the seed CLI can apply it through a different driver.
func EnsureSchema(ctx context.Context, db execer) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	if _, err := db.ExecContext(ctx, `
		INSERT INTO warehouse_inventory (id, capacity_pellets)
		VALUES (1, 25000)
		ON CONFLICT (id) DO NOTHING
	`); err != nil {
		return fmt.Errorf("failed to init inventory row: %w", err)
	}

	if _, err := db.ExecContext(ctx, `
		INSERT INTO gas_price (id, price)
		VALUES (1, 3.0)
		ON CONFLICT (id) DO NOTHING
	`); err != nil {
		return fmt.Errorf("failed to init gas price row: %w", err)
	}

	return nil
}
