package services

import (
	"errors"
	"log"
	"mime/multipart"

	"blogpost/internal/apperror"
	"blogpost/internal/models"
	"blogpost/internal/repositories"
	"blogpost/pkg/rabbitmq"
	"blogpost/pkg/uploads"
)

// PostService handles business logic for blog posts, including the lifecycle
// of uploaded image files.
type PostService struct {
	postRepo repositories.PostRepository
	store    uploads.Store
	mqClient *rabbitmq.Client
}

// NewPostService creates a new PostService. mqClient may be nil, in which
// case event publishing is skipped.
func NewPostService(postRepo repositories.PostRepository, store uploads.Store, mqClient *rabbitmq.Client) *PostService {
	return &PostService{
		postRepo: postRepo,
		store:    store,
		mqClient: mqClient,
	}
}

// Create stores a new post. When an image file is supplied it is written to
// the upload area first and the stored post references its path; the record
// write and the file write are not atomic.
func (s *PostService) Create(title, description string, image *multipart.FileHeader) (*models.Post, error) {
	if title == "" || description == "" {
		return nil, apperror.NewValidationError("Title and Description are required")
	}

	post := &models.Post{
		Title:       title,
		Description: description,
	}
	if image != nil {
		path, err := s.store.Save(image)
		if err != nil {
			return nil, apperror.NewInternalError("failed to save image", err)
		}
		post.Image = &path
	}

	if err := s.postRepo.Create(post); err != nil {
		return nil, apperror.NewInternalError("failed to save blog post", err)
	}

	s.publish(rabbitmq.PostEvent{Kind: "post.created", PostID: post.ID, Title: post.Title})
	return post, nil
}

// GetAll returns all posts in store order.
func (s *PostService) GetAll() ([]models.Post, error) {
	posts, err := s.postRepo.GetAll()
	if err != nil {
		return nil, apperror.NewInternalError("failed to fetch blog posts", err)
	}
	return posts, nil
}

// GetByID returns a single post.
func (s *PostService) GetByID(id string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.NewNotFoundError("Blog not found")
		}
		return nil, apperror.NewInternalError("failed to fetch blog post", err)
	}
	return post, nil
}

// Update overwrites title and description unconditionally. A newly supplied
// image replaces the reference; otherwise the previous reference is kept
// verbatim, with no check that its file still exists. The replaced file is
// not removed.
func (s *PostService) Update(id, title, description string, image *multipart.FileHeader) (*models.Post, error) {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.NewNotFoundError("Blog not found")
		}
		return nil, apperror.NewInternalError("failed to fetch blog post", err)
	}

	post.Title = title
	post.Description = description
	if image != nil {
		path, err := s.store.Save(image)
		if err != nil {
			return nil, apperror.NewInternalError("failed to save image", err)
		}
		post.Image = &path
	}

	if err := s.postRepo.Update(post); err != nil {
		return nil, apperror.NewInternalError("failed to update blog post", err)
	}
	return post, nil
}

// Delete removes the post's backing image file, if any, and then the record.
// A file that is already gone is tolerated; the two steps are not atomic.
func (s *PostService) Delete(id string) error {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperror.NewNotFoundError("Blog not found")
		}
		return apperror.NewInternalError("failed to fetch blog post", err)
	}

	if post.Image != nil {
		if err := s.store.Remove(*post.Image); err != nil {
			return apperror.NewInternalError("failed to remove image", err)
		}
	}

	if err := s.postRepo.Delete(id); err != nil {
		return apperror.NewInternalError("failed to delete blog post", err)
	}

	s.publish(rabbitmq.PostEvent{Kind: "post.deleted", PostID: id})
	return nil
}

// publish sends a post event when a broker is configured. Failures are
// logged and never surface to the caller.
func (s *PostService) publish(event rabbitmq.PostEvent) {
	if s.mqClient == nil {
		return
	}
	if err := s.mqClient.PublishPostEvent(event); err != nil {
		log.Printf("Warning: failed to publish %s event for post %s: %v", event.Kind, event.PostID, err)
	}
}
