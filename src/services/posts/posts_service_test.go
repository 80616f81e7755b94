package posts_test

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
	"webservicepoc/src/services/posts"
	"webservicepoc/src/test_artefacts/stubs"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.PostEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event domain.PostEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []domain.PostEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]domain.PostEventType, len(p.events))
	for i, event := range p.events {
		types[i] = event.Type
	}
	return types
}

// slowCache stores values after a delay.
type slowCache struct {
	mu      sync.Mutex
	entries map[string]string
}

func (c *slowCache) GetKey(ctx context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok, nil
}

func (c *slowCache) SetKey(ctx context.Context, key string, value string) error {
	time.Sleep(20 * time.Millisecond)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *slowCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
	}
	return nil
}

var _ = Describe("PostsService", func() {
	var (
		ctx          context.Context
		store        *repositories.MemoryPostsRepository
		publisher    *recordingPublisher
		postsService *posts.PostsService
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = repositories.NewMemoryPostsRepository()
		publisher = &recordingPublisher{}
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		postsService = posts.NewPostsService(logger, store, publisher)
	})

	Describe("Save", func() {
		It("should store the post and return its id", func() {
			id, err := postsService.Save(ctx, domain.PostsSaveRequest{
				Title:   "테스트 게시글",
				Content: "테스트 본문",
				Author:  "hd15807@gmail.com",
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(id).To(BeNumerically(">", 0))

			saved, err := store.FindByID(ctx, id)
			Expect(err).ToNot(HaveOccurred())
			Expect(saved.Title).To(Equal("테스트 게시글"))
			Expect(saved.Content).To(Equal("테스트 본문"))
			Expect(saved.Author).To(Equal("hd15807@gmail.com"))
		})

		It("should publish a created event", func() {
			id, err := postsService.Save(ctx, domain.PostsSaveRequest{Title: "t", Content: "c", Author: "a"})
			Expect(err).ToNot(HaveOccurred())

			Expect(publisher.events).To(HaveLen(1))
			Expect(publisher.events[0].Type).To(Equal(domain.PostCreated))
			Expect(publisher.events[0].PostID).To(Equal(id))
			Expect(publisher.events[0].EventID).ToNot(BeEmpty())
		})

		It("should reject an empty title without publishing", func() {
			_, err := postsService.Save(ctx, domain.PostsSaveRequest{Title: "", Content: "c"})
			Expect(errors.Is(err, domain.ErrValidation)).To(BeTrue())
			Expect(publisher.events).To(BeEmpty())
		})

		It("should succeed even when publishing fails", func() {
			publisher.err = errors.New("broker down")

			id, err := postsService.Save(ctx, domain.PostsSaveRequest{Title: "t", Content: "c"})
			Expect(err).ToNot(HaveOccurred())
			Expect(id).To(BeNumerically(">", 0))
		})

		It("should work without a publisher", func() {
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			service := posts.NewPostsService(logger, store, nil)

			_, err := service.Save(ctx, domain.PostsSaveRequest{Title: "t", Content: "c"})
			Expect(err).ToNot(HaveOccurred())
		})
	})

	Describe("Update", func() {
		It("should change title and content and keep the author", func() {
			existing, err := store.Save(ctx, stubs.NewPostsStub().WithAuthor("author@example.com").Get())
			Expect(err).ToNot(HaveOccurred())

			id, err := postsService.Update(ctx, existing.ID, domain.PostsUpdateRequest{Title: "title2", Content: "content2"})
			Expect(err).ToNot(HaveOccurred())
			Expect(id).To(Equal(existing.ID))

			updated, err := postsService.FindByID(ctx, id)
			Expect(err).ToNot(HaveOccurred())
			Expect(updated.Title).To(Equal("title2"))
			Expect(updated.Content).To(Equal("content2"))
			Expect(updated.Author).To(Equal("author@example.com"))
			Expect(publisher.types()).To(Equal([]domain.PostEventType{domain.PostUpdated}))
		})

		It("should stay visible behind a read-through cache", func() {
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			cached := repositories.NewCachedPostsRepository(logger, store, &slowCache{entries: map[string]string{}})
			service := posts.NewPostsService(logger, cached, publisher)

			id, err := service.Save(ctx, domain.PostsSaveRequest{Title: "title", Content: "content", Author: "a"})
			Expect(err).ToNot(HaveOccurred())
			_, err = service.Update(ctx, id, domain.PostsUpdateRequest{Title: "title2", Content: "content2"})
			Expect(err).ToNot(HaveOccurred())

			time.Sleep(100 * time.Millisecond)

			updated, err := service.FindByID(ctx, id)
			Expect(err).ToNot(HaveOccurred())
			Expect(updated.Title).To(Equal("title2"))
		})

		It("should fail with not found for an unknown id", func() {
			_, err := postsService.Update(ctx, 999, domain.PostsUpdateRequest{Title: "t", Content: "c"})
			Expect(errors.Is(err, domain.ErrPostNotFound)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("해당 게시글이 없습니다. id=999"))
			Expect(publisher.events).To(BeEmpty())
		})

		It("should reject an update that breaks validation", func() {
			existing, err := store.Save(ctx, stubs.NewPostsStub().Get())
			Expect(err).ToNot(HaveOccurred())

			_, err = postsService.Update(ctx, existing.ID, domain.PostsUpdateRequest{Title: "", Content: "c"})
			Expect(errors.Is(err, domain.ErrValidation)).To(BeTrue())

			unchanged, _ := store.FindByID(ctx, existing.ID)
			Expect(unchanged.Title).To(Equal(existing.Title))
		})
	})

	Describe("FindByID", func() {
		It("should fail with not found for an unknown id", func() {
			_, err := postsService.FindByID(ctx, 42)
			Expect(errors.Is(err, domain.ErrPostNotFound)).To(BeTrue())
		})
	})

	Describe("FindAllDesc", func() {
		It("should list posts newest first", func() {
			for _, title := range []string{"first", "second", "third"} {
				_, err := postsService.Save(ctx, domain.PostsSaveRequest{Title: title, Content: "c", Author: "a"})
				Expect(err).ToNot(HaveOccurred())
			}

			items, err := postsService.FindAllDesc(ctx)
			Expect(err).ToNot(HaveOccurred())
			Expect(items).To(HaveLen(3))
			Expect(items[0].Title).To(Equal("third"))
			Expect(items[2].Title).To(Equal("first"))
			Expect(items[0].ID).To(BeNumerically(">", items[1].ID))
			Expect(items[0].ModifiedDate).ToNot(BeZero())
		})

		It("should return an empty list when there are no posts", func() {
			items, err := postsService.FindAllDesc(ctx)
			Expect(err).ToNot(HaveOccurred())
			Expect(items).To(BeEmpty())
		})
	})

	Describe("Delete", func() {
		It("should remove the post and publish a deleted event", func() {
			id, err := postsService.Save(ctx, domain.PostsSaveRequest{Title: "t", Content: "c"})
			Expect(err).ToNot(HaveOccurred())

			Expect(postsService.Delete(ctx, id)).To(Succeed())

			_, err = postsService.FindByID(ctx, id)
			Expect(errors.Is(err, domain.ErrPostNotFound)).To(BeTrue())
			Expect(publisher.types()).To(Equal([]domain.PostEventType{domain.PostCreated, domain.PostDeleted}))
		})

		It("should fail with not found for an unknown id", func() {
			err := postsService.Delete(ctx, 7)
			Expect(errors.Is(err, domain.ErrPostNotFound)).To(BeTrue())
		})
	})
})
