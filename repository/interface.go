package repository

import (
	"context"
	"errors"

	"catalog-service/models"
)

// ErrNotFound is returned when a product id is not in the catalog.
var ErrNotFound = errors.New("product not found")

// ListParams contains parameters for listing catalog products with filters.
type ListParams struct {
	Page       int
	PerPage    int
	Category   string
	SourceFile string
	Query      string // case-insensitive match against name/id/description
	MinPrice   *float64
	MaxPrice   *float64
}

// CatalogRepo is the catalog state container. The ingestion pipeline never
// touches it directly; the service layer reads the known-id set before a
// batch and commits one append per file.
// This interface uses plain Go types to make swapping adapters easy.
type CatalogRepo interface {
	List(ctx context.Context, params ListParams) ([]models.Product, int64, error)
	FindByID(ctx context.Context, id string) (*models.Product, error)
	// KnownIDs returns the set of product ids currently in the catalog.
	KnownIDs(ctx context.Context) (map[string]struct{}, error)
	// AppendBatch appends the payload's products and records its file name
	// in the set of known uploads. Appending is a single state transition.
	AppendBatch(ctx context.Context, payload models.AppendPayload) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	// SourceFiles returns the names of uploads that produced catalog
	// entries, in first-seen order.
	SourceFiles(ctx context.Context) ([]string, error)
}
