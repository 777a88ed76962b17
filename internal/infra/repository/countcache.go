package repository

import (
	"context"
	"encoding/json"

	"github.com/bradfitz/gomemcache/memcache"

	"github.com/creamtown0420/ow-guides/internal/usecase"
)

const (
	likeCountsKey = "ow:like-counts"
	likeCountsTTL = 30 // seconds
)

// CachedLikeRepository decorates a LikeRepository with a memcached layer
// for the aggregate counts query, which runs on every catalog view.
// Mutations drop the cached aggregate so counts never lag more than one
// TTL behind. Cache failures fall through to the database.
type CachedLikeRepository struct {
	inner usecase.LikeRepository
	mc    *memcache.Client
}

func NewCachedLikeRepository(inner usecase.LikeRepository, mc *memcache.Client) *CachedLikeRepository {
	return &CachedLikeRepository{inner: inner, mc: mc}
}

func (r *CachedLikeRepository) Create(ctx context.Context, userID, codeID string) error {
	if err := r.inner.Create(ctx, userID, codeID); err != nil {
		return err
	}
	r.mc.Delete(likeCountsKey)
	return nil
}

func (r *CachedLikeRepository) Delete(ctx context.Context, userID, codeID string) error {
	if err := r.inner.Delete(ctx, userID, codeID); err != nil {
		return err
	}
	r.mc.Delete(likeCountsKey)
	return nil
}

func (r *CachedLikeRepository) Counts(ctx context.Context) (map[string]int, error) {
	if item, err := r.mc.Get(likeCountsKey); err == nil {
		var counts map[string]int
		if err := json.Unmarshal(item.Value, &counts); err == nil {
			return counts, nil
		}
	}

	counts, err := r.inner.Counts(ctx)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(counts); err == nil {
		r.mc.Set(&memcache.Item{
			Key:        likeCountsKey,
			Value:      encoded,
			Expiration: likeCountsTTL,
		})
	}
	return counts, nil
}

func (r *CachedLikeRepository) ListByUser(ctx context.Context, userID string) ([]string, error) {
	return r.inner.ListByUser(ctx, userID)
}

var _ usecase.LikeRepository = (*CachedLikeRepository)(nil)
