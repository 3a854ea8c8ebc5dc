package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"catalog-service/ingest"
	"catalog-service/models"
	"catalog-service/repository"
)

const sampleCSV = "ProductID,Name,Qty,Company,Shop,Price\nP1,Widget,5,Acme,MainShop,9.99\n"

func newTestService() (*CatalogService, *repository.MemoryCatalog) {
	repo := repository.NewMemoryCatalog()
	pipeline := ingest.NewPipeline(ingest.NewRegistry(), ingest.DefaultValidationConfig())
	return NewCatalogService(repo, pipeline), repo
}

func TestImportFilesCommitsBatch(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	summary, err := svc.ImportFiles(ctx, []ingest.UploadFile{
		{Name: "upload.csv", Data: []byte(sampleCSV)},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if summary.Success != 1 || summary.Skipped != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	p, err := repo.FindByID(ctx, "P1")
	if err != nil {
		t.Fatalf("expected product committed, got %v", err)
	}
	if p.SourceFile != "upload.csv" {
		t.Fatalf("source file = %q", p.SourceFile)
	}

	files, _ := repo.SourceFiles(ctx)
	if len(files) != 1 || files[0] != "upload.csv" {
		t.Fatalf("unexpected source files: %v", files)
	}
}

func TestImportFilesReuploadSkipsDuplicates(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	batch := []ingest.UploadFile{{Name: "upload.csv", Data: []byte(sampleCSV)}}
	if _, err := svc.ImportFiles(ctx, batch); err != nil {
		t.Fatalf("first import: %v", err)
	}
	summary, err := svc.ImportFiles(ctx, batch)
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if summary.Success != 0 || summary.Skipped != 1 {
		t.Fatalf("expected re-upload to be skipped, got %+v", summary)
	}
}

func TestValidateFilesCommitsNothing(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	v, err := svc.ValidateFiles(ctx, []ingest.UploadFile{
		{Name: "upload.csv", Data: []byte(sampleCSV)},
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if v.TotalRecords != 1 || v.ValidRecords != 1 || v.InvalidRecords != 0 {
		t.Fatalf("unexpected validation: %+v", v)
	}

	if n, _ := repo.Count(ctx); n != 0 {
		t.Fatalf("expected dry run to commit nothing, count=%d", n)
	}
}

func TestValidateFilesReportsDuplicates(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	batch := []ingest.UploadFile{{Name: "upload.csv", Data: []byte(sampleCSV)}}
	if _, err := svc.ImportFiles(ctx, batch); err != nil {
		t.Fatalf("import: %v", err)
	}

	v, err := svc.ValidateFiles(ctx, batch)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(v.DuplicateIDs) != 1 || v.DuplicateIDs[0] != "P1" {
		t.Fatalf("expected duplicate id reported, got %v", v.DuplicateIDs)
	}
	if v.ValidRecords != 0 {
		t.Fatalf("expected no new valid records, got %d", v.ValidRecords)
	}
}

func TestAddProductRejectsDuplicate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	p := models.Product{ProductID: "P1", Name: "Widget", SourceFile: "manual"}
	if err := svc.AddProduct(ctx, p); err != nil {
		t.Fatalf("add: %v", err)
	}
	err := svc.AddProduct(ctx, p)
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestDeleteProduct(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if err := svc.AddProduct(ctx, models.Product{ProductID: "P1", Name: "Widget"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.DeleteProduct(ctx, "P1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.DeleteProduct(ctx, "P1"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
