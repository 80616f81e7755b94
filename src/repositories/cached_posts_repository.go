package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"webservicepoc/src/domain/entities"
)

// Cache is the slice of the redis client the decorator needs.
type Cache interface {
	GetKey(ctx context.Context, key string) (string, bool, error)
	SetKey(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// CachedPostsRepository decorates a PostsStore with a read-through cache on
// FindByID. Writes go to the store first and then drop the cached entry.
// A nil cache turns it into a plain pass-through.
type CachedPostsRepository struct {
	logger *slog.Logger
	store  PostsStore
	cache  Cache

	// fill runs the cache write; asynchronous outside tests
	fill func(func())

	// versions counts invalidations per key. A fill started before an
	// invalidation must not leave its value behind.
	mu       sync.Mutex
	versions map[string]uint64
}

func NewCachedPostsRepository(logger *slog.Logger, store PostsStore, cache Cache) *CachedPostsRepository {
	return &CachedPostsRepository{
		logger:   logger,
		store:    store,
		cache:    cache,
		fill:     func(f func()) { go f() },
		versions: make(map[string]uint64),
	}
}

// WithSyncFill makes cache fills happen before FindByID returns.
func (r *CachedPostsRepository) WithSyncFill() *CachedPostsRepository {
	r.fill = func(f func()) { f() }
	return r
}

func PostsCacheKey(id int64) string {
	return fmt.Sprintf("posts:%d", id)
}

func (r *CachedPostsRepository) FindByID(ctx context.Context, id int64) (entities.Posts, error) {
	if r.cache == nil {
		return r.store.FindByID(ctx, id)
	}

	cacheKey := PostsCacheKey(id)

	cached, found, err := r.cache.GetKey(ctx, cacheKey)
	if err != nil {
		// cache trouble never fails the read
		r.logger.Warn("Cache error", "key", cacheKey, "error", err)
	}
	if found && err == nil {
		var posts entities.Posts
		if err := json.Unmarshal([]byte(cached), &posts); err == nil {
			r.logger.Debug("Cache HIT", "key", cacheKey)
			return posts, nil
		}
		r.logger.Warn("Discarding unreadable cache entry", "key", cacheKey)
	}

	r.logger.Debug("Cache MISS", "key", cacheKey)

	// taken before the store read so a write racing the read is detected
	version := r.version(cacheKey)

	posts, err := r.store.FindByID(ctx, id)
	if err != nil {
		return entities.Posts{}, err
	}

	r.fill(func() {
		fillCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		r.setInCache(fillCtx, cacheKey, version, posts)
	})

	return posts, nil
}

func (r *CachedPostsRepository) version(cacheKey string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.versions[cacheKey]
}

func (r *CachedPostsRepository) setInCache(ctx context.Context, cacheKey string, version uint64, posts entities.Posts) {
	if r.version(cacheKey) != version {
		r.logger.Debug("Cache fill skipped, entry invalidated", "key", cacheKey)
		return
	}

	data, err := json.Marshal(posts)
	if err != nil {
		r.logger.Error("Failed to marshal cache data", "key", cacheKey, "error", err)
		return
	}

	if err := r.cache.SetKey(ctx, cacheKey, string(data)); err != nil {
		r.logger.Error("Failed to set cache", "key", cacheKey, "error", err)
		return
	}

	// an invalidation may have landed while the write was in flight
	if r.version(cacheKey) != version {
		if err := r.cache.Delete(ctx, cacheKey); err != nil {
			r.logger.Error("Failed to drop stale cache entry", "key", cacheKey, "error", err)
		}
		r.logger.Debug("Cache fill reverted, entry invalidated", "key", cacheKey)
		return
	}

	r.logger.Debug("Cache SET", "key", cacheKey)
}

func (r *CachedPostsRepository) Save(ctx context.Context, posts entities.Posts) (entities.Posts, error) {
	saved, err := r.store.Save(ctx, posts)
	if err != nil {
		return entities.Posts{}, err
	}

	if posts.ID != 0 {
		r.invalidate(ctx, saved.ID)
	}

	return saved, nil
}

func (r *CachedPostsRepository) Delete(ctx context.Context, id int64) error {
	if err := r.store.Delete(ctx, id); err != nil {
		return err
	}

	r.invalidate(ctx, id)
	return nil
}

func (r *CachedPostsRepository) DeleteAll(ctx context.Context) error {
	postsList, err := r.store.FindAll(ctx)
	if err != nil {
		return err
	}

	if err := r.store.DeleteAll(ctx); err != nil {
		return err
	}

	ids := make([]int64, len(postsList))
	for i, posts := range postsList {
		ids[i] = posts.ID
	}
	r.invalidate(ctx, ids...)

	return nil
}

func (r *CachedPostsRepository) FindAll(ctx context.Context) ([]entities.Posts, error) {
	return r.store.FindAll(ctx)
}

func (r *CachedPostsRepository) FindAllDesc(ctx context.Context) ([]entities.Posts, error) {
	return r.store.FindAllDesc(ctx)
}

// Invalidate drops cached entries for the given ids. Used by the posts
// event consumer so other instances converge.
func (r *CachedPostsRepository) Invalidate(ctx context.Context, ids ...int64) error {
	if r.cache == nil || len(ids) == 0 {
		return nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = PostsCacheKey(id)
	}

	r.mu.Lock()
	for _, key := range keys {
		r.versions[key]++
	}
	r.mu.Unlock()

	return r.cache.Delete(ctx, keys...)
}

func (r *CachedPostsRepository) invalidate(ctx context.Context, ids ...int64) {
	if err := r.Invalidate(ctx, ids...); err != nil {
		r.logger.Error("Failed to invalidate cache", "ids", ids, "error", err)
	}
}

var _ PostsStore = (*CachedPostsRepository)(nil)
