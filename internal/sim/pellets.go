package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/wareflow/backend-go/internal/domain"
	"github.com/wareflow/backend-go/internal/repository"
)

// Pellets received today stay sellable for this long.
const pelletShelfLife = 50 * 24 * time.Hour

// PelletStock tracks individual perishable stock units and hands them
// out first-expiring-first.
type PelletStock struct {
	pellets repository.PelletRepository
}

func NewPelletStock(pellets repository.PelletRepository) *PelletStock {
	return &PelletStock{pellets: pellets}
}

// Allocate marks up to qty unsent pellets of the product as sent,
// soonest sell-by first, ties broken by ascending pellet id. When
// fewer pellets exist it returns fewer ids; the caller detects the
// shortfall from the length.
func (p *PelletStock) Allocate(ctx context.Context, productID int64, qty int) ([]int64, error) {
	if qty <= 0 {
		return nil, nil
	}

	pellets, err := p.pellets.UnsentFEFO(ctx, productID, qty)
	if err != nil {
		return nil, fmt.Errorf("fefo query for product %d: %w", productID, err)
	}
	if len(pellets) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(pellets))
	for _, pellet := range pellets {
		ids = append(ids, pellet.ID)
	}
	if err := p.pellets.MarkPelletsSent(ctx, ids); err != nil {
		return nil, fmt.Errorf("mark pellets sent: %w", err)
	}
	return ids, nil
}

// SweepExpired removes every unsent pellet past its sell-by date and
// returns the count removed. Expiry is reported, not an error.
func (p *PelletStock) SweepExpired(ctx context.Context, asOf time.Time) (int, error) {
	removed, err := p.pellets.DeleteExpiredUnsent(ctx, asOf)
	if err != nil {
		return 0, fmt.Errorf("expiry sweep: %w", err)
	}
	return removed, nil
}

// Receive creates one pellet per delivered unit, stamped with today's
// received date and a sell-by date one shelf life out.
func (p *PelletStock) Receive(ctx context.Context, product *domain.Product, qty int, asOf time.Time) ([]int64, error) {
	if qty <= 0 {
		return nil, nil
	}

	pellets := make([]*domain.Pellet, 0, qty)
	for i := 0; i < qty; i++ {
		pellets = append(pellets, &domain.Pellet{
			ProductID:    product.ID,
			Name:         product.Name,
			Category:     product.Category,
			UnitCost:     product.UnitCost,
			UnitWeight:   product.UnitWeight,
			Received:     asOf,
			SellBy:       asOf.Add(pelletShelfLife),
			Refrigerated: product.Refrigerated,
		})
	}
	ids, err := p.pellets.InsertPellets(ctx, pellets)
	if err != nil {
		return nil, fmt.Errorf("insert pellets for product %d: %w", product.ID, err)
	}
	return ids, nil
}

// OnHand reports the unsent pellet count for one product.
func (p *PelletStock) OnHand(ctx context.Context, productID int64) (int, error) {
	return p.pellets.CountUnsent(ctx, productID)
}
