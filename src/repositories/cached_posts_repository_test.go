package repositories_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"webservicepoc/src/domain"
	"webservicepoc/src/repositories"
	"webservicepoc/src/test_artefacts/stubs"
)

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]string
	gets    int
	failGet bool

	// setDelay holds SetKey back like a slow round trip
	setDelay time.Duration
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]string)}
}

func (c *fakeCache) GetKey(ctx context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.failGet {
		return "", false, errors.New("connection refused")
	}
	v, ok := c.entries[key]
	return v, ok, nil
}

func (c *fakeCache) SetKey(ctx context.Context, key string, value string) error {
	time.Sleep(c.setDelay)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
	}
	return nil
}

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

var _ = Describe("CachedPostsRepository", func() {
	var (
		ctx    context.Context
		logger *slog.Logger
		store  *repositories.MemoryPostsRepository
		cache  *fakeCache
		cached *repositories.CachedPostsRepository
	)

	BeforeEach(func() {
		ctx = context.Background()
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		store = repositories.NewMemoryPostsRepository()
		cache = newFakeCache()
		cached = repositories.NewCachedPostsRepository(logger, store, cache).WithSyncFill()
	})

	Context("as a decorator", func() {
		itBehavesLikeAPostsStore(func() repositories.PostsStore {
			return repositories.NewCachedPostsRepository(
				slog.New(slog.NewTextHandler(io.Discard, nil)),
				repositories.NewMemoryPostsRepository(),
				newFakeCache(),
			).WithSyncFill()
		})
	})

	Context("without a cache", func() {
		itBehavesLikeAPostsStore(func() repositories.PostsStore {
			return repositories.NewCachedPostsRepository(
				slog.New(slog.NewTextHandler(io.Discard, nil)),
				repositories.NewMemoryPostsRepository(),
				nil,
			)
		})
	})

	When("reading the same post twice", func() {
		It("fills the cache on the first read and serves the second from it", func() {
			saved, err := cached.Save(ctx, stubs.NewPostsStub().Get())
			Expect(err).NotTo(HaveOccurred())

			first, err := cached.FindByID(ctx, saved.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(cache.has(repositories.PostsCacheKey(saved.ID))).To(BeTrue())

			// remove from the underlying store: only the cache can answer now
			Expect(store.Delete(ctx, saved.ID)).To(Succeed())

			second, err := cached.FindByID(ctx, saved.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(second.Title).To(Equal(first.Title))
		})
	})

	When("a cached post is updated", func() {
		It("drops the entry so the next read sees the new values", func() {
			saved, err := cached.Save(ctx, stubs.NewPostsStub().Get())
			Expect(err).NotTo(HaveOccurred())
			_, err = cached.FindByID(ctx, saved.ID)
			Expect(err).NotTo(HaveOccurred())

			saved.Update("fresh title", "fresh content")
			_, err = cached.Save(ctx, saved)
			Expect(err).NotTo(HaveOccurred())

			Expect(cache.has(repositories.PostsCacheKey(saved.ID))).To(BeFalse())
			loaded, err := cached.FindByID(ctx, saved.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Title).To(Equal("fresh title"))
		})
	})

	When("a write races a background fill", func() {
		var async *repositories.CachedPostsRepository

		BeforeEach(func() {
			cache.setDelay = 20 * time.Millisecond
			async = repositories.NewCachedPostsRepository(logger, store, cache)
		})

		It("does not leave the pre-update post in the cache", func() {
			saved, err := async.Save(ctx, stubs.NewPostsStub().WithTitle("title").Get())
			Expect(err).NotTo(HaveOccurred())

			read, err := async.FindByID(ctx, saved.ID)
			Expect(err).NotTo(HaveOccurred())
			read.Update("title2", "content2")
			_, err = async.Save(ctx, read)
			Expect(err).NotTo(HaveOccurred())

			time.Sleep(100 * time.Millisecond)

			Expect(cache.has(repositories.PostsCacheKey(saved.ID))).To(BeFalse())
			loaded, err := async.FindByID(ctx, saved.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Title).To(Equal("title2"))
		})

		It("does not keep serving a deleted post", func() {
			saved, err := async.Save(ctx, stubs.NewPostsStub().Get())
			Expect(err).NotTo(HaveOccurred())

			_, err = async.FindByID(ctx, saved.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(async.Delete(ctx, saved.ID)).To(Succeed())

			time.Sleep(100 * time.Millisecond)

			Expect(cache.has(repositories.PostsCacheKey(saved.ID))).To(BeFalse())
			_, err = async.FindByID(ctx, saved.ID)
			Expect(err).To(MatchError(domain.ErrPostNotFound))
		})

		It("still fills the cache when nothing changed", func() {
			saved, err := async.Save(ctx, stubs.NewPostsStub().Get())
			Expect(err).NotTo(HaveOccurred())

			_, err = async.FindByID(ctx, saved.ID)
			Expect(err).NotTo(HaveOccurred())

			Eventually(func() bool {
				return cache.has(repositories.PostsCacheKey(saved.ID))
			}).WithTimeout(time.Second).Should(BeTrue())
		})
	})

	When("the cache is failing", func() {
		It("falls back to the store", func() {
			cache.failGet = true
			saved, err := cached.Save(ctx, stubs.NewPostsStub().Get())
			Expect(err).NotTo(HaveOccurred())

			loaded, err := cached.FindByID(ctx, saved.ID)

			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.ID).To(Equal(saved.ID))
		})
	})

	When("the post does not exist", func() {
		It("returns ErrPostNotFound and caches nothing", func() {
			_, err := cached.FindByID(ctx, 42)

			Expect(err).To(MatchError(domain.ErrPostNotFound))
			Expect(cache.has(repositories.PostsCacheKey(42))).To(BeFalse())
		})
	})

	It("invalidates explicit ids", func() {
		Expect(cache.SetKey(ctx, repositories.PostsCacheKey(5), "{}")).To(Succeed())

		Expect(cached.Invalidate(ctx, 5)).To(Succeed())

		Expect(cache.has(repositories.PostsCacheKey(5))).To(BeFalse())
	})
})
