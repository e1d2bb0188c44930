package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/wareflow/backend-go/internal/domain"
	"github.com/wareflow/backend-go/internal/repository"
)

// Suppliers deliver two days after the purchase order goes out.
const resupplyLeadTime = 48 * time.Hour

// Planner converts stock shortfalls into bounded supplier batches.
type Planner struct {
	ledger   *Ledger
	batches  repository.SupplierBatchRepository
	products repository.ProductRepository
}

func NewPlanner(ledger *Ledger, batches repository.SupplierBatchRepository, products repository.ProductRepository) *Planner {
	return &Planner{ledger: ledger, batches: batches, products: products}
}

// Plan carves the shortfall into batches bounded by the warehouse
// space available at entry. The space ceiling is computed once for the
// whole call and consumed batch by batch; whatever does not fit is
// dropped and re-detected by the next low-stock scan. Returns the
// carved batch sizes.
func (p *Planner) Plan(ctx context.Context, productID int64, shortfall int, asOf time.Time) ([]int, error) {
	if shortfall <= 0 {
		return nil, nil
	}

	snap, err := p.ledger.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("resupply snapshot: %w", err)
	}
	space := snap.AvailableSpace()

	var sizes []int
	remaining := shortfall
	for remaining > 0 {
		batch := remaining
		if batch > space {
			batch = space
		}
		if batch <= 0 {
			break
		}
		sizes = append(sizes, batch)
		remaining -= batch
		space -= batch
	}
	if len(sizes) == 0 {
		return nil, nil
	}

	product, err := p.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("resupply product %d: %w", productID, err)
	}

	total := 0
	for _, size := range sizes {
		if _, err := p.batches.InsertBatch(ctx, &domain.SupplierBatch{
			SupplierID: product.SupplierID,
			ProductID:  productID,
			Quantity:   size,
			Status:     domain.BatchPending,
			LeadTime:   resupplyLeadTime,
			CreatedAt:  asOf,
		}); err != nil {
			return nil, fmt.Errorf("insert supplier batch: %w", err)
		}
		total += size
	}
	if err := p.ledger.ReserveInbound(ctx, total); err != nil {
		return nil, fmt.Errorf("reserve inbound: %w", err)
	}
	return sizes, nil
}
