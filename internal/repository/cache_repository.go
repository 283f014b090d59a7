package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"buku-saku-server/config"
	"buku-saku-server/internal/model"
	"buku-saku-server/internal/util"

	"github.com/redis/go-redis/v9"
)

const approvedListKey = "documents:approved"

type CacheRepository struct {
	client *config.RedisClient
	ttl    time.Duration
}

func NewCacheRepository(rdb *config.RedisClient, ttl time.Duration) *CacheRepository {
	return &CacheRepository{rdb, ttl}
}

// GetApprovedList : (nil, nil) saat cache miss
func (r *CacheRepository) GetApprovedList(ctx context.Context) ([]model.SearchResult, error) {
	val, err := r.client.Client.Get(ctx, approvedListKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	} else if err != nil {
		return nil, util.LogError("[CacheRepo] gagal membaca daftar approved dari Redis", err)
	}

	var results []model.SearchResult
	if err := json.Unmarshal([]byte(val), &results); err != nil {
		return nil, util.LogError("[CacheRepo] gagal deserialisasi daftar approved", err)
	}
	return results, nil
}

func (r *CacheRepository) SetApprovedList(ctx context.Context, results []model.SearchResult) error {
	data, err := json.Marshal(results)
	if err != nil {
		return util.LogError("[CacheRepo] gagal serialisasi daftar approved", err)
	}

	cmd := r.client.Client.Set(ctx, approvedListKey, data, r.ttl)
	if err = cmd.Err(); err != nil {
		return util.LogError("[CacheRepo] gagal menyimpan ke Redis", err)
	}
	if cmd.Val() != "OK" {
		return fmt.Errorf("respons Redis tak terduga: %s", cmd.Val())
	}
	return nil
}

func (r *CacheRepository) InvalidateApprovedList(ctx context.Context) error {
	if err := r.client.Client.Del(ctx, approvedListKey).Err(); err != nil {
		return util.LogError("[CacheRepo] gagal menghapus daftar approved dari Redis", err)
	}
	return nil
}
