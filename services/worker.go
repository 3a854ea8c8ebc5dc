package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"catalog-service/ingest"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	// ImportQueueKey is the redis list that queued import job ids land on.
	ImportQueueKey = "catalog_import:queue"
	// ImportJobKeyPrefix prefixes the per-job metadata/result key.
	ImportJobKeyPrefix = "catalog_import:job:"
	// ImportJobTTL bounds how long job metadata and results are kept.
	ImportJobTTL = 24 * time.Hour
)

// ImportJob is the metadata persisted for a queued import batch. The files
// themselves are staged on disk under the worker's storage dir.
type ImportJob struct {
	Status    string   `json:"status"` // pending, processing, done, failed
	CreatedAt string   `json:"created_at"`
	FileNames []string `json:"file_names"`
	FilePaths []string `json:"file_paths"`
	Error     string   `json:"error,omitempty"`
	Result    any      `json:"result,omitempty"`
}

// StartImportWorker starts a background worker that consumes job ids from
// the redis queue and runs the staged upload batches through the catalog
// service.
func StartImportWorker(ctx context.Context, rdb *redis.Client, svc *CatalogService, storageDir string) {
	if rdb == nil || svc == nil {
		zap.L().Warn("import worker not started: missing dependencies")
		return
	}

	if storageDir == "" {
		storageDir = "./data/imports"
	}
	if err := os.MkdirAll(storageDir, 0o755); err != nil {
		zap.L().Error("failed to create import storage dir", zap.Error(err))
		return
	}

	go func() {
		zap.L().Info("import worker started",
			zap.String("queue", ImportQueueKey), zap.String("dir", storageDir))
		for {
			select {
			case <-ctx.Done():
				zap.L().Info("import worker stopping")
				return
			default:
			}

			res, err := rdb.BLPop(ctx, 0*time.Second, ImportQueueKey).Result()
			if err != nil {
				if err == context.Canceled || err == context.DeadlineExceeded {
					return
				}
				zap.L().Error("redis BLPop failed", zap.Error(err))
				time.Sleep(500 * time.Millisecond)
				continue
			}
			if len(res) < 2 {
				continue
			}
			processImportJob(ctx, rdb, svc, res[1])
		}
	}()
}

func processImportJob(ctx context.Context, rdb *redis.Client, svc *CatalogService, jobID string) {
	jobKey := ImportJobKeyPrefix + jobID

	val, err := rdb.Get(ctx, jobKey).Result()
	if err != nil {
		zap.L().Error("failed to read import job", zap.String("job", jobID), zap.Error(err))
		return
	}
	var job ImportJob
	if err := json.Unmarshal([]byte(val), &job); err != nil {
		zap.L().Error("failed to parse import job", zap.String("job", jobID), zap.Error(err))
		return
	}

	job.Status = "processing"
	storeImportJob(ctx, rdb, jobKey, &job)

	files := make([]ingest.UploadFile, 0, len(job.FilePaths))
	for i, path := range job.FilePaths {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			job.Status = "failed"
			job.Error = fmt.Sprintf("read staged file: %v", err)
			storeImportJob(ctx, rdb, jobKey, &job)
			removeStagedFiles(job.FilePaths)
			return
		}
		name := path
		if i < len(job.FileNames) {
			name = job.FileNames[i]
		}
		files = append(files, ingest.UploadFile{Name: name, Data: data})
	}

	summary, err := svc.ImportFiles(ctx, files)
	removeStagedFiles(job.FilePaths)
	if err != nil {
		zap.L().Error("import job failed", zap.String("job", jobID), zap.Error(err))
		job.Status = "failed"
		job.Error = err.Error()
		storeImportJob(ctx, rdb, jobKey, &job)
		return
	}

	job.Status = "done"
	job.Result = summary
	storeImportJob(ctx, rdb, jobKey, &job)
	zap.L().Info("import job done", zap.String("job", jobID),
		zap.Int("success", summary.Success), zap.Int("skipped", summary.Skipped))
}

func storeImportJob(ctx context.Context, rdb *redis.Client, jobKey string, job *ImportJob) {
	data, err := json.Marshal(job)
	if err != nil {
		zap.L().Error("failed to marshal import job", zap.Error(err))
		return
	}
	if err := rdb.Set(ctx, jobKey, data, ImportJobTTL).Err(); err != nil {
		zap.L().Error("failed to store import job", zap.Error(err))
	}
}

func removeStagedFiles(paths []string) {
	for _, p := range paths {
		_ = os.Remove(p)
	}
}
