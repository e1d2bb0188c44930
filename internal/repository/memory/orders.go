package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/wareflow/backend-go/internal/domain"
	"github.com/wareflow/backend-go/internal/repository"
)

func (s *Store) PendingOrders(ctx context.Context) ([]*domain.PendingOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.PendingOrder, 0, len(s.orders))
	for _, o := range s.orders {
		cp := *o
		cp.Items = append([]domain.OrderItem(nil), o.Items...)
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) InsertOrder(ctx context.Context, order *domain.PendingOrder) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextOrderID++
	cp := *order
	cp.ID = s.nextOrderID
	cp.Items = append([]domain.OrderItem(nil), order.Items...)
	s.orders = append(s.orders, &cp)
	return cp.ID, nil
}

func (s *Store) DeleteOrder(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, o := range s.orders {
		if o.ID == id {
			s.orders = append(s.orders[:i], s.orders[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("order %d: %w", id, repository.ErrNotFound)
}

func (s *Store) PendingBatches(ctx context.Context) ([]*domain.SupplierBatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.SupplierBatch, 0, len(s.batches))
	for _, b := range s.batches {
		if b.Status != domain.BatchPending {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) InsertBatch(ctx context.Context, batch *domain.SupplierBatch) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextBatchID++
	cp := *batch
	cp.ID = s.nextBatchID
	s.batches = append(s.batches, &cp)
	return cp.ID, nil
}

func (s *Store) MarkBatchReceived(ctx context.Context, id int64, receivedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.batches {
		if b.ID == id {
			b.Status = domain.BatchReceived
			at := receivedAt
			b.ReceivedAt = &at
			return nil
		}
	}
	return fmt.Errorf("batch %d: %w", id, repository.ErrNotFound)
}

func (s *Store) InsertDelivery(ctx context.Context, d *domain.Delivery) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextDeliveryID++
	cp := *d
	cp.ID = s.nextDeliveryID
	cp.Items = append([]domain.DeliveredItem(nil), d.Items...)
	s.deliveries = append(s.deliveries, &cp)
	return cp.ID, nil
}

func (s *Store) CompleteDelivery(ctx context.Context, id int64, returnedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.deliveries {
		if d.ID == id {
			d.Status = domain.DeliveryCompleted
			d.TimeReturned = returnedAt
			return nil
		}
	}
	return fmt.Errorf("delivery %d: %w", id, repository.ErrNotFound)
}

func (s *Store) ListDeliveries(ctx context.Context, limit int) ([]*domain.Delivery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Delivery, 0, len(s.deliveries))
	for i := len(s.deliveries) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		cp := *s.deliveries[i]
		cp.Items = append([]domain.DeliveredItem(nil), s.deliveries[i].Items...)
		out = append(out, &cp)
	}
	return out, nil
}

func (s *Store) ReturnedTruckIDs(ctx context.Context, by time.Time) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[int64]bool)
	var ids []int64
	for _, d := range s.deliveries {
		if d.Status == domain.DeliveryCompleted && !d.TimeReturned.After(by) && !seen[d.TruckID] {
			seen[d.TruckID] = true
			ids = append(ids, d.TruckID)
		}
	}
	return ids, nil
}

func (s *Store) InsertTruckLog(ctx context.Context, l *domain.TruckLog) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextTruckLogID++
	cp := *l
	cp.ID = s.nextTruckLogID
	s.truckLogs = append(s.truckLogs, &cp)
	return cp.ID, nil
}

func (s *Store) CountDeliveries(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.deliveries), nil
}
