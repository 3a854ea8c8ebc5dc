package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"catalog-service/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	redisIDsKey     = "catalog:ids"
	redisFilesKey   = "catalog:files"
	redisFileSetKey = "catalog:fileset"
	redisProductKey = "catalog:product:"

	// DefaultSessionTTL bounds how long a session's catalog survives.
	DefaultSessionTTL = 12 * time.Hour
)

// RedisCatalog is a session-scoped catalog store: every key carries the
// session TTL, so the catalog evaporates with the session instead of
// becoming a persistence layer.
type RedisCatalog struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCatalog(rdb *redis.Client, ttl time.Duration) *RedisCatalog {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &RedisCatalog{rdb: rdb, ttl: ttl}
}

func (r *RedisCatalog) List(ctx context.Context, params ListParams) ([]models.Product, int64, error) {
	all, err := r.loadAll(ctx)
	if err != nil {
		return nil, 0, err
	}

	filtered := make([]models.Product, 0, len(all))
	for _, p := range all {
		if matches(p, params) {
			filtered = append(filtered, p)
		}
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

func (r *RedisCatalog) FindByID(ctx context.Context, id string) (*models.Product, error) {
	val, err := r.rdb.Get(ctx, redisProductKey+id).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var p models.Product
	if err := json.Unmarshal([]byte(val), &p); err != nil {
		return nil, fmt.Errorf("decode product %s: %w", id, err)
	}
	return &p, nil
}

func (r *RedisCatalog) KnownIDs(ctx context.Context) (map[string]struct{}, error) {
	ids, err := r.rdb.LRange(ctx, redisIDsKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange: %w", err)
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

func (r *RedisCatalog) AppendBatch(ctx context.Context, payload models.AppendPayload) error {
	pipe := r.rdb.TxPipeline()
	for _, p := range payload.Products {
		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode product %s: %w", p.ProductID, err)
		}
		pipe.RPush(ctx, redisIDsKey, p.ProductID)
		pipe.Set(ctx, redisProductKey+p.ProductID, data, r.ttl)
	}
	if payload.FileName != "" {
		added, err := r.rdb.SAdd(ctx, redisFileSetKey, payload.FileName).Result()
		if err != nil {
			return fmt.Errorf("redis sadd: %w", err)
		}
		if added > 0 {
			pipe.RPush(ctx, redisFilesKey, payload.FileName)
		}
	}
	pipe.Expire(ctx, redisIDsKey, r.ttl)
	pipe.Expire(ctx, redisFilesKey, r.ttl)
	pipe.Expire(ctx, redisFileSetKey, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis append: %w", err)
	}
	return nil
}

func (r *RedisCatalog) Delete(ctx context.Context, id string) error {
	removed, err := r.rdb.LRem(ctx, redisIDsKey, 0, id).Result()
	if err != nil {
		return fmt.Errorf("redis lrem: %w", err)
	}
	if removed == 0 {
		return ErrNotFound
	}
	if err := r.rdb.Del(ctx, redisProductKey+id).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (r *RedisCatalog) Count(ctx context.Context) (int64, error) {
	n, err := r.rdb.LLen(ctx, redisIDsKey).Result()
	if err != nil {
		return 0, fmt.Errorf("redis llen: %w", err)
	}
	return n, nil
}

func (r *RedisCatalog) SourceFiles(ctx context.Context) ([]string, error) {
	files, err := r.rdb.LRange(ctx, redisFilesKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange: %w", err)
	}
	return files, nil
}

func (r *RedisCatalog) loadAll(ctx context.Context) ([]models.Product, error) {
	ids, err := r.rdb.LRange(ctx, redisIDsKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = redisProductKey + id
	}
	vals, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis mget: %w", err)
	}
	out := make([]models.Product, 0, len(vals))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			// Product key expired ahead of the id list.
			continue
		}
		var p models.Product
		if err := json.Unmarshal([]byte(s), &p); err != nil {
			zap.L().Warn("skipping undecodable catalog entry",
				zap.String("id", ids[i]), zap.Error(err))
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
