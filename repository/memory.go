package repository

import (
	"context"
	"strings"
	"sync"

	"catalog-service/models"
)

// MemoryCatalog is the default catalog store: the catalog lives for the
// session only, so an in-process store with deterministic order is the
// reference adapter. Safe for concurrent use.
type MemoryCatalog struct {
	mu       sync.RWMutex
	products []models.Product
	byID     map[string]int
	files    []string
	fileSeen map[string]bool
}

func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{
		byID:     make(map[string]int),
		fileSeen: make(map[string]bool),
	}
}

func (m *MemoryCatalog) List(ctx context.Context, params ListParams) ([]models.Product, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	filtered := make([]models.Product, 0, len(m.products))
	for _, p := range m.products {
		if !matches(p, params) {
			continue
		}
		filtered = append(filtered, p)
	}

	total := int64(len(filtered))
	page, perPage := params.Page, params.PerPage
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	start := (page - 1) * perPage
	if start >= len(filtered) {
		return []models.Product{}, total, nil
	}
	end := start + perPage
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end], total, nil
}

func (m *MemoryCatalog) FindByID(ctx context.Context, id string) (*models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	idx, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	p := m.products[idx]
	return &p, nil
}

func (m *MemoryCatalog) KnownIDs(ctx context.Context) (map[string]struct{}, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make(map[string]struct{}, len(m.byID))
	for id := range m.byID {
		ids[id] = struct{}{}
	}
	return ids, nil
}

func (m *MemoryCatalog) AppendBatch(ctx context.Context, payload models.AppendPayload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range payload.Products {
		if _, exists := m.byID[p.ProductID]; !exists {
			m.byID[p.ProductID] = len(m.products)
		}
		m.products = append(m.products, p)
	}
	if payload.FileName != "" && !m.fileSeen[payload.FileName] {
		m.fileSeen[payload.FileName] = true
		m.files = append(m.files, payload.FileName)
	}
	return nil
}

func (m *MemoryCatalog) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	m.products = append(m.products[:idx], m.products[idx+1:]...)
	delete(m.byID, id)
	for i := idx; i < len(m.products); i++ {
		m.byID[m.products[i].ProductID] = i
	}
	return nil
}

func (m *MemoryCatalog) Count(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.products)), nil
}

func (m *MemoryCatalog) SourceFiles(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	files := make([]string, len(m.files))
	copy(files, m.files)
	return files, nil
}

func matches(p models.Product, params ListParams) bool {
	if params.Category != "" && !strings.EqualFold(p.Category, params.Category) {
		return false
	}
	if params.SourceFile != "" && p.SourceFile != params.SourceFile {
		return false
	}
	if params.MinPrice != nil && p.Price < *params.MinPrice {
		return false
	}
	if params.MaxPrice != nil && p.Price > *params.MaxPrice {
		return false
	}
	if params.Query != "" {
		q := strings.ToLower(params.Query)
		if !strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.ProductID), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) {
			return false
		}
	}
	return true
}
