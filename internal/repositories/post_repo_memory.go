package repositories

import (
	"fmt"
	"sync"

	"blogpost/internal/models"

	"github.com/google/uuid"
)

// MemoryPostRepository is an in-memory implementation of PostRepository.
// Posts are kept in insertion order to match the store-default listing.
type MemoryPostRepository struct {
	posts map[string]models.Post
	order []string
	mu    sync.RWMutex
}

// NewMemoryPostRepository creates a new instance of MemoryPostRepository.
func NewMemoryPostRepository() *MemoryPostRepository {
	return &MemoryPostRepository{
		posts: make(map[string]models.Post),
	}
}

// GetAll returns all posts in insertion order.
func (r *MemoryPostRepository) GetAll() ([]models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	postList := make([]models.Post, 0, len(r.posts))
	for _, id := range r.order {
		postList = append(postList, r.posts[id])
	}
	return postList, nil
}

// GetByID returns a post by its ID.
func (r *MemoryPostRepository) GetByID(id string) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, ok := r.posts[id]
	if !ok {
		return nil, fmt.Errorf("post with ID %s: %w", id, ErrNotFound)
	}
	return &post, nil
}

// Create adds a new post, assigning an ID when none is set.
func (r *MemoryPostRepository) Create(post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	r.posts[post.ID] = *post
	r.order = append(r.order, post.ID)
	return nil
}

// Update overwrites an existing post.
func (r *MemoryPostRepository) Update(post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[post.ID]; !ok {
		return fmt.Errorf("post with ID %s: %w", post.ID, ErrNotFound)
	}
	r.posts[post.ID] = *post
	return nil
}

// Delete removes a post by its ID.
func (r *MemoryPostRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[id]; !ok {
		return fmt.Errorf("post with ID %s: %w", id, ErrNotFound)
	}
	delete(r.posts, id)
	for i, pid := range r.order {
		if pid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
