package repositories

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"webservicepoc/src/domain"
	"webservicepoc/src/domain/entities"
)

// MemoryPostsRepository keeps posts in process memory. It backs STORAGE=memory
// and the service specs.
type MemoryPostsRepository struct {
	mu     sync.RWMutex
	store  map[int64]entities.Posts
	nextID int64
	now    func() time.Time
}

func NewMemoryPostsRepository() *MemoryPostsRepository {
	return &MemoryPostsRepository{
		store: make(map[int64]entities.Posts),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryPostsRepository) Save(ctx context.Context, posts entities.Posts) (entities.Posts, error) {
	if err := posts.Validate(); err != nil {
		return entities.Posts{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if posts.ID == 0 {
		r.nextID++
		posts.ID = r.nextID
		posts.BaseTime = entities.BaseTime{}
		posts.Touch(r.now())
		r.store[posts.ID] = posts
		return posts, nil
	}

	stored, ok := r.store[posts.ID]
	if !ok {
		return entities.Posts{}, fmt.Errorf("MemoryPostsRepository.Save - id=%d: %w", posts.ID, domain.ErrPostNotFound)
	}

	stored.Update(posts.Title, posts.Content)
	stored.Touch(r.now())
	r.store[stored.ID] = stored

	return stored, nil
}

func (r *MemoryPostsRepository) FindByID(ctx context.Context, id int64) (entities.Posts, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	posts, ok := r.store[id]
	if !ok {
		return entities.Posts{}, fmt.Errorf("MemoryPostsRepository.FindByID - id=%d: %w", id, domain.ErrPostNotFound)
	}

	return posts, nil
}

func (r *MemoryPostsRepository) FindAll(ctx context.Context) ([]entities.Posts, error) {
	return r.sorted(false), nil
}

func (r *MemoryPostsRepository) FindAllDesc(ctx context.Context) ([]entities.Posts, error) {
	return r.sorted(true), nil
}

func (r *MemoryPostsRepository) sorted(desc bool) []entities.Posts {
	r.mu.RLock()
	postsList := make([]entities.Posts, 0, len(r.store))
	for _, posts := range r.store {
		postsList = append(postsList, posts)
	}
	r.mu.RUnlock()

	slices.SortFunc(postsList, func(a, b entities.Posts) int {
		if desc {
			return cmp.Compare(b.ID, a.ID)
		}
		return cmp.Compare(a.ID, b.ID)
	})

	return postsList
}

func (r *MemoryPostsRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return fmt.Errorf("MemoryPostsRepository.Delete - id=%d: %w", id, domain.ErrPostNotFound)
	}

	delete(r.store, id)
	return nil
}

// DeleteAll empties the store; ids keep growing like an identity column.
func (r *MemoryPostsRepository) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	r.store = make(map[int64]entities.Posts)
	r.mu.Unlock()
	return nil
}

var _ PostsStore = (*MemoryPostsRepository)(nil)
