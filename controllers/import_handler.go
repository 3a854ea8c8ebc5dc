package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"catalog-service/ingest"
	"catalog-service/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ImportHandler handles catalog upload batches: synchronous and queued
// imports plus dry-run validation.
type ImportHandler struct {
	service    CatalogServiceAPI
	redis      *redis.Client
	cache      *CacheManager
	validator  *RequestValidator
	storageDir string
	timeout    time.Duration
}

func NewImportHandler(svc CatalogServiceAPI, rdb *redis.Client, cache *CacheManager, validator *RequestValidator, storageDir string) *ImportHandler {
	if storageDir == "" {
		storageDir = "./data/imports"
	}
	return &ImportHandler{
		service:    svc,
		redis:      rdb,
		cache:      cache,
		validator:  validator,
		storageDir: storageDir,
		timeout:    DefaultContextTimeout,
	}
}

// CreateImport ingests one or more uploaded files into the catalog.
// With ?async=true the batch is staged and queued for the background worker.
func (h *ImportHandler) CreateImport(c *gin.Context) {
	files, err := h.readBatch(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if strings.ToLower(strings.TrimSpace(c.Query("async"))) == "true" {
		h.handleAsyncImport(c, files)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	summary, err := h.service.ImportFiles(ctx, files)
	if err != nil {
		zap.L().Error("import processing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if summary.Success > 0 {
		if err := h.cache.Invalidate(ctx); err != nil {
			zap.L().Error("CRITICAL: failed to invalidate cache after import", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, summary)
}

// ValidateImport dry-runs a batch without committing anything.
func (h *ImportHandler) ValidateImport(c *gin.Context) {
	files, err := h.readBatch(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	validation, err := h.service.ValidateFiles(ctx, files)
	if err != nil {
		zap.L().Error("import validation failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, validation)
}

// GetImportJobStatus returns a queued job's status/result stored in redis.
func (h *ImportHandler) GetImportJobStatus(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Job ID required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	val, err := h.redis.Get(ctx, services.ImportJobKeyPrefix+id).Result()
	if err == redis.Nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}
	if err != nil {
		zap.L().Error("failed to get job status", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve job status"})
		return
	}

	var job services.ImportJob
	if err := json.Unmarshal([]byte(val), &job); err != nil {
		zap.L().Error("failed to parse job status", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse job result"})
		return
	}

	c.JSON(http.StatusOK, job)
}

// readBatch reads and validates every file of the multipart batch, in
// selection order.
func (h *ImportHandler) readBatch(c *gin.Context) ([]ingest.UploadFile, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("expected multipart form data")
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		// Single-file clients use the "file" field.
		headers = form.File["file"]
	}
	if len(headers) == 0 {
		return nil, fmt.Errorf("at least one file is required")
	}
	if len(headers) > MaxBatchFiles {
		return nil, fmt.Errorf("too many files in one batch (max %d)", MaxBatchFiles)
	}

	files := make([]ingest.UploadFile, 0, len(headers))
	for _, fh := range headers {
		if !h.validator.IsValidUploadFile(fh) {
			return nil, fmt.Errorf("unsupported file type: %s", fh.Filename)
		}
		if err := h.validator.ValidateFileSize(fh); err != nil {
			return nil, err
		}
		data, err := readFileHeader(fh)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", fh.Filename, err)
		}
		files = append(files, ingest.UploadFile{Name: fh.Filename, Data: data})
	}
	return files, nil
}

func readFileHeader(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (h *ImportHandler) handleAsyncImport(c *gin.Context, files []ingest.UploadFile) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	jobID, err := h.enqueueJob(ctx, files)
	if err != nil {
		zap.L().Error("failed to enqueue import", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue import job"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"job_id":  jobID,
		"message": "Import queued for processing",
	})
}

// enqueueJob stages the batch on disk and pushes a job id onto the worker
// queue. Staged files are cleaned up on any enqueue failure.
func (h *ImportHandler) enqueueJob(ctx context.Context, files []ingest.UploadFile) (string, error) {
	if err := os.MkdirAll(h.storageDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create storage directory: %w", err)
	}

	jobID := uuid.New().String()
	job := services.ImportJob{
		Status:    "pending",
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	for i, file := range files {
		path := filepath.Join(h.storageDir, fmt.Sprintf("%s-%d%s", jobID, i, filepath.Ext(file.Name)))
		if err := os.WriteFile(path, file.Data, 0o644); err != nil {
			removeFiles(job.FilePaths)
			return "", fmt.Errorf("failed to stage file: %w", err)
		}
		job.FilePaths = append(job.FilePaths, path)
		job.FileNames = append(job.FileNames, file.Name)
	}

	data, err := json.Marshal(job)
	if err != nil {
		removeFiles(job.FilePaths)
		return "", fmt.Errorf("failed to marshal job info: %w", err)
	}
	jobKey := services.ImportJobKeyPrefix + jobID
	if err := h.redis.Set(ctx, jobKey, data, services.ImportJobTTL).Err(); err != nil {
		removeFiles(job.FilePaths)
		return "", fmt.Errorf("failed to store job metadata: %w", err)
	}
	if err := h.redis.RPush(ctx, services.ImportQueueKey, jobID).Err(); err != nil {
		removeFiles(job.FilePaths)
		h.redis.Del(ctx, jobKey)
		return "", fmt.Errorf("failed to enqueue job: %w", err)
	}

	zap.L().Info("import job queued", zap.String("job_id", jobID), zap.Int("files", len(files)))
	return jobID, nil
}

func removeFiles(paths []string) {
	for _, p := range paths {
		_ = os.Remove(p)
	}
}
