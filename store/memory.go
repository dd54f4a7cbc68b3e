package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"restaurant-console/models"
)

// MemoryStore keeps orders in process memory. Values are copied on the way in
// and out so callers never alias stored items.
type MemoryStore struct {
	mu      sync.RWMutex
	orders  map[string]*models.Order
	ids     []string
	history map[string][]models.OrderStatusHistory
	nextID  uint
	nowFunc func() time.Time
}

func NewMemoryStore(seed ...models.Order) *MemoryStore {
	s := &MemoryStore{
		orders:  map[string]*models.Order{},
		history: map[string][]models.OrderStatusHistory{},
		nowFunc: time.Now,
	}
	for i := range seed {
		o := seed[i].Clone()
		if o.Version == 0 {
			o.Version = 1
		}
		s.orders[o.ID] = o
		s.ids = append(s.ids, o.ID)
	}
	return s
}

func (s *MemoryStore) List(ctx context.Context) ([]models.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Order, 0, len(s.ids))
	for _, id := range s.ids {
		out = append(out, *s.orders[id].Clone())
	}
	return out, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*models.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return o.Clone(), nil
}

func (s *MemoryStore) Create(ctx context.Context, o *models.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := o.CheckTotals(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.orders[o.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicate, o.ID)
	}
	now := s.nowFunc()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = now
	o.Version = 1
	s.orders[o.ID] = o.Clone()
	s.ids = append(s.ids, o.ID)
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, o *models.Order, history ...models.OrderStatusHistory) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.orders[o.ID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, o.ID)
	}
	if stored.Version != o.Version {
		return fmt.Errorf("%w: %s has version %d, update based on %d", ErrVersionConflict, o.ID, stored.Version, o.Version)
	}

	now := s.nowFunc()
	next := stored.Clone()
	next.Status = o.Status
	for _, it := range o.Items {
		if dst, ok := next.Item(it.ID); ok {
			dst.Status = it.Status
		}
	}
	next.Version++
	next.UpdatedAt = now
	s.orders[o.ID] = next

	for _, h := range history {
		s.nextID++
		h.ID = s.nextID
		if h.CreatedAt.IsZero() {
			h.CreatedAt = now
		}
		s.history[h.OrderID] = append(s.history[h.OrderID], h)
	}

	o.Version = next.Version
	o.UpdatedAt = now
	return nil
}

func (s *MemoryStore) History(ctx context.Context, orderID string) ([]models.OrderStatusHistory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.orders[orderID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, orderID)
	}
	return append([]models.OrderStatusHistory(nil), s.history[orderID]...), nil
}
