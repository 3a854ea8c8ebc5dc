package controllers

import (
	"context"
	"time"

	"catalog-service/ingest"
	"catalog-service/models"
	"catalog-service/repository"
)

// Default configuration values
const (
	DefaultCacheTTL       = 10 * time.Minute
	DefaultContextTimeout = 30 * time.Second
)

// CatalogServiceAPI defines the interface for catalog service operations
type CatalogServiceAPI interface {
	ImportFiles(ctx context.Context, files []ingest.UploadFile) (*models.ImportSummary, error)
	ValidateFiles(ctx context.Context, files []ingest.UploadFile) (*models.ImportValidation, error)
	ListProducts(ctx context.Context, params repository.ListParams) ([]models.Product, int64, error)
	AddProduct(ctx context.Context, product models.Product) error
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	SourceFiles(ctx context.Context) ([]string, error)
}
