package storage

import (
	"context"
	"sort"
	"sync"

	v1 "github.com/zmarties-lab/storefront-api/internal/api/v1"
)

// MemoryProductStore implements ProductStore in memory.
type MemoryProductStore struct {
	mu       sync.RWMutex
	products map[string]v1.Product
	order    []string
	failErr  error
}

// NewMemoryProductStore creates an empty in-memory catalog.
func NewMemoryProductStore() *MemoryProductStore {
	return &MemoryProductStore{products: make(map[string]v1.Product)}
}

// FailWith makes every subsequent call return err. Passing nil restores
// normal operation.
func (s *MemoryProductStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failErr = err
}

func (s *MemoryProductStore) CreateProduct(ctx context.Context, product *v1.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failErr != nil {
		return s.failErr
	}

	s.products[product.ID] = *product
	s.order = append(s.order, product.ID)
	return nil
}

func (s *MemoryProductStore) GetProduct(ctx context.Context, id string) (*v1.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.failErr != nil {
		return nil, s.failErr
	}

	product, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &product, nil
}

func (s *MemoryProductStore) ListProducts(ctx context.Context, category string) ([]v1.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.failErr != nil {
		return nil, s.failErr
	}

	out := make([]v1.Product, 0, len(s.products))
	for _, id := range s.order {
		product, ok := s.products[id]
		if !ok {
			continue
		}
		if category != "" && product.Category != category {
			continue
		}
		out = append(out, product)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryProductStore) UpdateProduct(ctx context.Context, product *v1.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failErr != nil {
		return s.failErr
	}

	if _, ok := s.products[product.ID]; !ok {
		return ErrNotFound
	}
	s.products[product.ID] = *product
	return nil
}

func (s *MemoryProductStore) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failErr != nil {
		return s.failErr
	}

	if _, ok := s.products[id]; !ok {
		return ErrNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *MemoryProductStore) CountProductsByCategory(ctx context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.failErr != nil {
		return nil, s.failErr
	}

	counts := make(map[string]int)
	for _, product := range s.products {
		counts[product.Category]++
	}
	return counts, nil
}
