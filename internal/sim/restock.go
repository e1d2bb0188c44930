package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/wareflow/backend-go/internal/domain"
)

// unloadBatches converts every pending supplier batch into pellets and
// an inventory credit, oldest batch first. A failure in one batch is
// logged and the loop continues.
func (o *Orchestrator) unloadBatches(ctx context.Context, day time.Time) error {
	batches, err := o.repos.Batches.PendingBatches(ctx)
	if err != nil {
		return fmt.Errorf("pending batches: %w", err)
	}

	for _, batch := range batches {
		// Batches stay in transit until their supplier lead time elapses.
		if day.Before(batch.CreatedAt.Add(batch.LeadTime)) {
			continue
		}
		if err := o.unloadBatch(ctx, batch, day); err != nil {
			o.log.Error().Err(err).
				Int64("batch_id", batch.ID).
				Int64("product_id", batch.ProductID).
				Msg("supplier batch unload failed, continuing")
		}
	}
	return nil
}

func (o *Orchestrator) unloadBatch(ctx context.Context, batch *domain.SupplierBatch, day time.Time) error {
	if err := o.repos.Batches.MarkBatchReceived(ctx, batch.ID, day); err != nil {
		return fmt.Errorf("mark received: %w", err)
	}

	product, err := o.repos.Products.GetProduct(ctx, batch.ProductID)
	if err != nil {
		return fmt.Errorf("product lookup: %w", err)
	}

	if _, err := o.stock.Receive(ctx, product, batch.Quantity, day); err != nil {
		return fmt.Errorf("receive pellets: %w", err)
	}
	if err := o.ledger.CommitInbound(ctx, batch.Quantity); err != nil {
		return fmt.Errorf("commit inbound: %w", err)
	}

	cost := product.UnitCost * float64(batch.Quantity)
	txID, err := o.repos.Finance.InsertTransaction(ctx, domain.TransactionSupplier, cost, day)
	if err != nil {
		return fmt.Errorf("supplier transaction: %w", err)
	}

	// Expected cost equals the billed cost here; the check cannot
	// flag until supplier batches get a separate baseline.
	if overspend, flagged := ClassifyCost(domain.TransactionSupplier, cost, cost); flagged {
		overspend.TransactionID = txID
		overspend.Date = day
		if _, err := o.repos.Anomalies.InsertOverspend(ctx, &overspend); err != nil {
			o.log.Warn().Err(err).Msg("supplier overspend record failed")
		}
	}
	return nil
}
