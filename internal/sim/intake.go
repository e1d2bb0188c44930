package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/wareflow/backend-go/internal/domain"
)

const (
	minDailyOrders = 10
	maxDailyOrders = 20
	// No single order asks for more than 150 units in total.
	maxOrderUnits = 150
)

// placeOrders synthesizes the day's incoming store orders: a random
// store, one to three distinct products, quantities capped per order.
func (o *Orchestrator) placeOrders(ctx context.Context, day time.Time) error {
	stores, err := o.repos.Stores.ListStores(ctx)
	if err != nil {
		return fmt.Errorf("list stores: %w", err)
	}
	products, err := o.repos.Products.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}
	if len(stores) == 0 || len(products) == 0 {
		return nil
	}

	orderCount := minDailyOrders + o.rng.Intn(maxDailyOrders-minDailyOrders+1)
	for i := 0; i < orderCount; i++ {
		store := stores[o.rng.Intn(len(stores))]

		numProducts := 1 + o.rng.Intn(3)
		if numProducts > len(products) {
			numProducts = len(products)
		}
		perm := o.rng.Perm(len(products))

		totalQty := 0
		var items []domain.OrderItem
		for _, idx := range perm[:numProducts] {
			product := products[idx]
			maxQty := 10 + o.rng.Intn(71)
			if room := maxOrderUnits - totalQty; maxQty > room {
				maxQty = room
			}
			if maxQty <= 0 {
				break
			}
			qty := 1 + o.rng.Intn(maxQty)
			totalQty += qty
			items = append(items, domain.OrderItem{
				ProductID:    product.ID,
				Quantity:     qty,
				UnitWeight:   20.0 + o.rng.Float64()*30.0,
				Refrigerated: product.Refrigerated,
			})
		}
		if len(items) == 0 {
			continue
		}

		if _, err := o.repos.Orders.InsertOrder(ctx, &domain.PendingOrder{
			StoreID:   store.ID,
			Items:     items,
			CreatedAt: day,
		}); err != nil {
			o.log.Error().Err(err).Int64("store_id", store.ID).Msg("order intake failed")
		}
	}
	return nil
}
