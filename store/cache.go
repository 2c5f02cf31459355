package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"gofalre.io/kitchen/models"
	"gofalre.io/kitchen/models/enum"
)

// 列表快取的 key 帶著世代編號，每次寫入都遞增世代。
// 寫入前開始的讀取只會把舊資料存到舊世代的 key，不會再被讀到。
const (
	listCacheKey      = "kitchen:orders:list"
	listGenerationKey = "kitchen:orders:generation"
)

var _ Repository = (*cachedRepository)(nil)

type cachedRepository struct {
	next   Repository
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedRepository 在 next 前面加上 Redis 讀取快取，任何寫入都會讓快取失效。
// 快取出錯只記錄警告，不影響讀寫結果。
func NewCachedRepository(next Repository, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) Repository {
	return &cachedRepository{
		next:   next,
		rdb:    rdb,
		ttl:    ttl,
		logger: logger,
	}
}

func (r *cachedRepository) List(ctx context.Context) ([]*models.Order, error) {
	gen, err := r.generation(ctx)
	if err != nil {
		r.logger.Warn("Failed to get orders cache generation", zap.Error(err))
		return r.next.List(ctx)
	}
	key := listKey(gen)

	// 嘗試從快取中獲取
	data, err := r.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var orders []*models.Order
		if err = json.Unmarshal(data, &orders); err == nil {
			return orders, nil
		}
		r.logger.Warn("Failed to decode cached orders", zap.Error(err))
	case !errors.Is(err, redis.Nil):
		r.logger.Warn("Failed to get orders from cache", zap.Error(err))
	}

	orders, err := r.next.List(ctx)
	if err != nil {
		return nil, err
	}

	// 更新快取
	if data, err = json.Marshal(orders); err != nil {
		r.logger.Warn("Failed to encode orders for cache", zap.Error(err))
		return orders, nil
	}
	if err = r.rdb.Set(ctx, key, data, r.ttl).Err(); err != nil {
		r.logger.Warn("Failed to cache orders", zap.Error(err))
	}
	return orders, nil
}

func (r *cachedRepository) Append(ctx context.Context, order *models.Order) (*models.Order, error) {
	created, err := r.next.Append(ctx, order)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx)
	return created, nil
}

func (r *cachedRepository) UpdateStatus(ctx context.Context, rowIndex int, action enum.Action) (*models.Order, error) {
	updated, err := r.next.UpdateStatus(ctx, rowIndex, action)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx)
	return updated, nil
}

// 遞增世代讓目前的列表快取失效
func (r *cachedRepository) invalidate(ctx context.Context) {
	if err := r.rdb.Incr(ctx, listGenerationKey).Err(); err != nil {
		r.logger.Warn("Failed to invalidate orders cache", zap.Error(err))
	}
}

func (r *cachedRepository) generation(ctx context.Context) (int64, error) {
	gen, err := r.rdb.Get(ctx, listGenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func listKey(gen int64) string {
	return listCacheKey + ":" + strconv.FormatInt(gen, 10)
}
