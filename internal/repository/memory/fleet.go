package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/wareflow/backend-go/internal/domain"
	"github.com/wareflow/backend-go/internal/repository"
)

func (s *Store) GetTruck(ctx context.Context, id int64) (*domain.Truck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.trucks {
		if t.ID == id {
			cp := *t
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("truck %d: %w", id, repository.ErrNotFound)
}

func (s *Store) ListTrucks(ctx context.Context) ([]*domain.Truck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Truck, 0, len(s.trucks))
	for _, t := range s.trucks {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (s *Store) AvailableTrucks(ctx context.Context, needsRefrigeration bool) ([]*domain.Truck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Truck, 0, len(s.trucks))
	for _, t := range s.trucks {
		if t.Status != domain.TruckAvailable {
			continue
		}
		if needsRefrigeration && !t.Refrigerated {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (s *Store) SetTruckStatus(ctx context.Context, id int64, status domain.TruckStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.trucks {
		if t.ID == id {
			t.Status = status
			return nil
		}
	}
	return fmt.Errorf("truck %d: %w", id, repository.ErrNotFound)
}

func (s *Store) SetLastMaintenance(ctx context.Context, id int64, asOf time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.trucks {
		if t.ID == id {
			t.LastMaintenance = asOf
			return nil
		}
	}
	return fmt.Errorf("truck %d: %w", id, repository.ErrNotFound)
}

func (s *Store) ReleaseMaintenance(ctx context.Context, lastMaintenance time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	released := 0
	for _, t := range s.trucks {
		if t.Status == domain.TruckMaintenance && sameDay(t.LastMaintenance, lastMaintenance) {
			t.Status = domain.TruckAvailable
			released++
		}
	}
	return released, nil
}

func (s *Store) GetStore(ctx context.Context, id int64) (*domain.StoreLocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.stores {
		if l.ID == id {
			cp := *l
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("store %d: %w", id, repository.ErrNotFound)
}

func (s *Store) ListStores(ctx context.Context) ([]*domain.StoreLocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.StoreLocation, 0, len(s.stores))
	for _, l := range s.stores {
		cp := *l
		out = append(out, &cp)
	}
	return out, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
