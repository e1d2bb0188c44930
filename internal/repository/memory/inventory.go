package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/wareflow/backend-go/internal/domain"
	"github.com/wareflow/backend-go/internal/repository"
)

func (s *Store) Snapshot(ctx context.Context) (domain.InventorySnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inventory, nil
}

func (s *Store) ApplyOutbound(ctx context.Context, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inventory.OnHand -= qty
	if s.inventory.OnHand < 0 {
		s.inventory.OnHand = 0
	}
	s.inventory.InTransitOut += qty
	return nil
}

func (s *Store) CompleteOutbound(ctx context.Context, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inventory.InTransitOut -= qty
	if s.inventory.InTransitOut < 0 {
		s.inventory.InTransitOut = 0
	}
	return nil
}

func (s *Store) AddInbound(ctx context.Context, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inventory.InTransitIn += qty
	return nil
}

func (s *Store) CommitInbound(ctx context.Context, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inventory.OnHand += qty
	s.inventory.InTransitIn -= qty
	if s.inventory.InTransitIn < 0 {
		s.inventory.InTransitIn = 0
	}
	return nil
}

func (s *Store) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("product %d: %w", id, repository.ErrNotFound)
}

func (s *Store) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Product, 0, len(s.products))
	for _, p := range s.products {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (s *Store) UnsentFEFO(ctx context.Context, productID int64, limit int) ([]*domain.Pellet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidates := make([]*domain.Pellet, 0, limit)
	for _, p := range s.pellets {
		if p.ProductID == productID && !p.Sent {
			candidates = append(candidates, p)
		}
	}
	// FEFO order, ties broken by insertion order (ascending id).
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].SellBy.Equal(candidates[j].SellBy) {
			return candidates[i].ID < candidates[j].ID
		}
		return candidates[i].SellBy.Before(candidates[j].SellBy)
	})

	if limit >= 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]*domain.Pellet, 0, len(candidates))
	for _, p := range candidates {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (s *Store) MarkPelletsSent(ctx context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	wanted := make(map[int64]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	for _, p := range s.pellets {
		if wanted[p.ID] {
			p.Sent = true
		}
	}
	return nil
}

func (s *Store) InsertPellets(ctx context.Context, pellets []*domain.Pellet) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int64, 0, len(pellets))
	for _, p := range pellets {
		s.nextPelletID++
		cp := *p
		cp.ID = s.nextPelletID
		s.pellets = append(s.pellets, &cp)
		ids = append(ids, cp.ID)
	}
	return ids, nil
}

func (s *Store) DeleteExpiredUnsent(ctx context.Context, asOf time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.pellets[:0]
	removed := 0
	for _, p := range s.pellets {
		if !p.Sent && p.SellBy.Before(asOf) {
			removed++
			continue
		}
		kept = append(kept, p)
	}
	s.pellets = kept
	return removed, nil
}

func (s *Store) CountUnsent(ctx context.Context, productID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, p := range s.pellets {
		if p.ProductID == productID && !p.Sent {
			n++
		}
	}
	return n, nil
}
