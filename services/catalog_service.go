package services

import (
	"context"
	"fmt"

	"catalog-service/ingest"
	"catalog-service/models"
	"catalog-service/repository"

	"go.uber.org/zap"
)

// CatalogService orchestrates the ingestion pipeline against the catalog
// store: it reads the duplicate-id set once per batch, runs the pipeline,
// and commits one append per file.
type CatalogService struct {
	repo     repository.CatalogRepo
	pipeline *ingest.Pipeline
}

func NewCatalogService(repo repository.CatalogRepo, pipeline *ingest.Pipeline) *CatalogService {
	return &CatalogService{repo: repo, pipeline: pipeline}
}

// ImportFiles processes an upload batch sequentially in selection order and
// commits the surviving records. The returned summary aggregates every
// file's outcome; per-file failures never abort the batch.
func (s *CatalogService) ImportFiles(ctx context.Context, files []ingest.UploadFile) (*models.ImportSummary, error) {
	known, err := s.repo.KnownIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("read catalog ids: %w", err)
	}

	batch := s.pipeline.Run(known, files)

	for _, payload := range batch.Appends {
		if err := s.repo.AppendBatch(ctx, payload); err != nil {
			return nil, fmt.Errorf("commit %s: %w", payload.FileName, err)
		}
	}

	zap.L().Info("import batch finished",
		zap.Int("files", len(files)),
		zap.Int("success", batch.Summary.Success),
		zap.Int("skipped", batch.Summary.Skipped),
		zap.Int("errors", len(batch.Summary.Errors)),
	)
	return &batch.Summary, nil
}

// ValidateFiles is the dry-run counterpart of ImportFiles: the batch is
// parsed, validated, and checked against the catalog's ids, but nothing is
// committed.
func (s *CatalogService) ValidateFiles(ctx context.Context, files []ingest.UploadFile) (*models.ImportValidation, error) {
	known, err := s.repo.KnownIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("read catalog ids: %w", err)
	}

	batch := s.pipeline.Run(known, files)

	v := &models.ImportValidation{
		ValidRecords: batch.Summary.Success,
		DuplicateIDs: []string{},
		Errors:       batch.Summary.Errors,
		Warnings:     batch.Summary.Warnings,
	}
	v.InvalidRecords = len(batch.Summary.Errors)
	v.TotalRecords = batch.Summary.Success + batch.Summary.Skipped + v.InvalidRecords
	v.DuplicateIDs = append(v.DuplicateIDs, batch.SkippedIDs...)
	return v, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, params repository.ListParams) ([]models.Product, int64, error) {
	return s.repo.List(ctx, params)
}

// AddProduct commits a single manually entered product.
func (s *CatalogService) AddProduct(ctx context.Context, product models.Product) error {
	known, err := s.repo.KnownIDs(ctx)
	if err != nil {
		return fmt.Errorf("read catalog ids: %w", err)
	}
	if _, dup := known[product.ProductID]; dup {
		return fmt.Errorf("product %q already exists", product.ProductID)
	}
	return s.repo.AppendBatch(ctx, models.AppendPayload{
		Products: []models.Product{product},
		FileName: product.SourceFile,
	})
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *CatalogService) SourceFiles(ctx context.Context) ([]string, error) {
	return s.repo.SourceFiles(ctx)
}
