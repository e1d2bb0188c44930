// Package sim is the daily fulfillment and resource-allocation engine:
// stock ledger, FEFO pellet allocation, fleet matching, resupply
// planning, delivery scheduling and anomaly detection, sequenced one
// simulated calendar day at a time.
package sim

import (
	"context"
	"fmt"
	"sync"

	"github.com/wareflow/backend-go/internal/domain"
	"github.com/wareflow/backend-go/internal/repository"
)

// Ledger owns the single warehouse stock pool. Its mutex serializes
// the read-then-adjust sequences so no two callers observe a
// half-updated pool.
type Ledger struct {
	mu  sync.Mutex
	inv repository.InventoryRepository
}

func NewLedger(inv repository.InventoryRepository) *Ledger {
	return &Ledger{inv: inv}
}

// ReserveOutbound moves up to qty units from on-hand into
// in-transit-out. On-hand never goes below zero; the unreservable
// remainder is returned as a shortfall for the caller to resupply.
func (l *Ledger) ReserveOutbound(ctx context.Context, qty int) (reserved, shortfall int, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap, err := l.inv.Snapshot(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("inventory snapshot: %w", err)
	}

	reserved = qty
	if snap.OnHand < reserved {
		reserved = snap.OnHand
	}
	if reserved < 0 {
		reserved = 0
	}
	shortfall = qty - reserved

	if reserved > 0 {
		if err := l.inv.ApplyOutbound(ctx, reserved); err != nil {
			return 0, 0, fmt.Errorf("apply outbound: %w", err)
		}
	}
	return reserved, shortfall, nil
}

// ReleaseOutbound completes an outbound reservation once the delivery
// has returned, clamped at zero.
func (l *Ledger) ReleaseOutbound(ctx context.Context, qty int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inv.CompleteOutbound(ctx, qty)
}

// ReserveInbound registers qty units as expected from suppliers. The
// caller bounds qty by available space before reserving.
func (l *Ledger) ReserveInbound(ctx context.Context, qty int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inv.AddInbound(ctx, qty)
}

// CommitInbound credits delivered stock to on-hand and retires the
// matching in-transit-in reservation, clamped at zero.
func (l *Ledger) CommitInbound(ctx context.Context, qty int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inv.CommitInbound(ctx, qty)
}

func (l *Ledger) Snapshot(ctx context.Context) (domain.InventorySnapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inv.Snapshot(ctx)
}
