package services_test

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"testing"

	"blogpost/internal/apperror"
	"blogpost/internal/models"
	"blogpost/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockPostRepository is a mock implementation of repositories.PostRepository
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) GetAll() ([]models.Post, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostRepository) GetByID(id string) (*models.Post, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) Create(post *models.Post) error {
	args := m.Called(post)
	return args.Error(0)
}

func (m *MockPostRepository) Update(post *models.Post) error {
	args := m.Called(post)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockUploadStore is a mock implementation of uploads.Store
type MockUploadStore struct {
	mock.Mock
}

func (m *MockUploadStore) Save(file *multipart.FileHeader) (string, error) {
	args := m.Called(file)
	return args.String(0), args.Error(1)
}

func (m *MockUploadStore) Remove(webPath string) error {
	args := m.Called(webPath)
	return args.Error(0)
}

// makeFileHeader builds a real multipart.FileHeader by writing and re-reading
// a form body.
func makeFileHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", filename)
	assert.NoError(t, err)
	_, err = part.Write([]byte(content))
	assert.NoError(t, err)
	assert.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	assert.NoError(t, err)
	return form.File["image"][0]
}

func TestPostService_Create_Validation(t *testing.T) {
	mockRepo := new(MockPostRepository)
	mockStore := new(MockUploadStore)
	service := services.NewPostService(mockRepo, mockStore, nil)

	for _, tc := range []struct{ title, description string }{
		{"", "D"},
		{"T", ""},
		{"", ""},
	} {
		post, err := service.Create(tc.title, tc.description, nil)
		assert.Nil(t, post)
		ae, ok := apperror.FromError(err)
		assert.True(t, ok)
		assert.Equal(t, apperror.ValidationError, ae.Type)
	}
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
	mockStore.AssertNotCalled(t, "Save", mock.Anything)
}

func TestPostService_Create_WithoutImage(t *testing.T) {
	mockRepo := new(MockPostRepository)
	mockStore := new(MockUploadStore)
	service := services.NewPostService(mockRepo, mockStore, nil)

	mockRepo.On("Create", mock.AnythingOfType("*models.Post")).Run(func(args mock.Arguments) {
		args.Get(0).(*models.Post).ID = "post-1"
	}).Return(nil).Once()

	post, err := service.Create("T", "D", nil)
	assert.NoError(t, err)
	assert.Equal(t, "post-1", post.ID)
	assert.Equal(t, "T", post.Title)
	assert.Equal(t, "D", post.Description)
	assert.Nil(t, post.Image)
	mockRepo.AssertExpectations(t)
	mockStore.AssertNotCalled(t, "Save", mock.Anything)
}

func TestPostService_Create_WithImage(t *testing.T) {
	mockRepo := new(MockPostRepository)
	mockStore := new(MockUploadStore)
	service := services.NewPostService(mockRepo, mockStore, nil)

	file := makeFileHeader(t, "cat.png", "pngbytes")
	mockStore.On("Save", file).Return("/uploads/1700000000000-cat.png", nil).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.Post")).Return(nil).Once()

	post, err := service.Create("T", "D", file)
	assert.NoError(t, err)
	assert.NotNil(t, post.Image)
	assert.Equal(t, "/uploads/1700000000000-cat.png", *post.Image)
	mockRepo.AssertExpectations(t)
	mockStore.AssertExpectations(t)
}

func TestPostService_GetByID_NotFound(t *testing.T) {
	mockRepo := new(MockPostRepository)
	service := services.NewPostService(mockRepo, new(MockUploadStore), nil)

	mockRepo.On("GetByID", "missing").Return(nil, notFoundErr("post with ID missing")).Once()

	post, err := service.GetByID("missing")
	assert.Nil(t, post)
	ae, ok := apperror.FromError(err)
	assert.True(t, ok)
	assert.Equal(t, apperror.NotFoundError, ae.Type)
	mockRepo.AssertExpectations(t)
}

func TestPostService_Update_RetainsImageWhenNoneSupplied(t *testing.T) {
	mockRepo := new(MockPostRepository)
	mockStore := new(MockUploadStore)
	service := services.NewPostService(mockRepo, mockStore, nil)

	oldImage := "/uploads/1-old.png"
	existing := &models.Post{ID: "post-1", Title: "T", Description: "D", Image: &oldImage}

	mockRepo.On("GetByID", "post-1").Return(existing, nil).Once()
	mockRepo.On("Update", mock.AnythingOfType("*models.Post")).Return(nil).Once()

	post, err := service.Update("post-1", "T2", "D2", nil)
	assert.NoError(t, err)
	assert.Equal(t, "T2", post.Title)
	assert.Equal(t, "D2", post.Description)
	assert.NotNil(t, post.Image)
	assert.Equal(t, oldImage, *post.Image)
	mockRepo.AssertExpectations(t)
	mockStore.AssertNotCalled(t, "Save", mock.Anything)
}

func TestPostService_Update_ReplacesImageWhenSupplied(t *testing.T) {
	mockRepo := new(MockPostRepository)
	mockStore := new(MockUploadStore)
	service := services.NewPostService(mockRepo, mockStore, nil)

	oldImage := "/uploads/1-old.png"
	existing := &models.Post{ID: "post-1", Title: "T", Description: "D", Image: &oldImage}
	file := makeFileHeader(t, "new.png", "pngbytes")

	mockRepo.On("GetByID", "post-1").Return(existing, nil).Once()
	mockStore.On("Save", file).Return("/uploads/2-new.png", nil).Once()
	mockRepo.On("Update", mock.AnythingOfType("*models.Post")).Return(nil).Once()

	post, err := service.Update("post-1", "T2", "D2", file)
	assert.NoError(t, err)
	assert.Equal(t, "/uploads/2-new.png", *post.Image)
	// The replaced file is not cleaned up.
	mockStore.AssertNotCalled(t, "Remove", mock.Anything)
	mockRepo.AssertExpectations(t)
	mockStore.AssertExpectations(t)
}

func TestPostService_Update_NotFound(t *testing.T) {
	mockRepo := new(MockPostRepository)
	service := services.NewPostService(mockRepo, new(MockUploadStore), nil)

	mockRepo.On("GetByID", "missing").Return(nil, notFoundErr("post with ID missing")).Once()

	post, err := service.Update("missing", "T", "D", nil)
	assert.Nil(t, post)
	ae, ok := apperror.FromError(err)
	assert.True(t, ok)
	assert.Equal(t, apperror.NotFoundError, ae.Type)
	mockRepo.AssertExpectations(t)
}

func TestPostService_Delete(t *testing.T) {
	mockRepo := new(MockPostRepository)
	mockStore := new(MockUploadStore)
	service := services.NewPostService(mockRepo, mockStore, nil)

	image := "/uploads/1-cat.png"
	existing := &models.Post{ID: "post-1", Title: "T", Description: "D", Image: &image}

	// Image-bearing post: the backing file is removed before the record.
	mockRepo.On("GetByID", "post-1").Return(existing, nil).Once()
	mockStore.On("Remove", image).Return(nil).Once()
	mockRepo.On("Delete", "post-1").Return(nil).Once()

	assert.NoError(t, service.Delete("post-1"))
	mockRepo.AssertExpectations(t)
	mockStore.AssertExpectations(t)

	// Image-less post: no filesystem call at all.
	mockRepo.On("GetByID", "post-2").Return(&models.Post{ID: "post-2", Title: "T", Description: "D"}, nil).Once()
	mockRepo.On("Delete", "post-2").Return(nil).Once()

	assert.NoError(t, service.Delete("post-2"))
	mockRepo.AssertExpectations(t)

	// Unknown post: not found, nothing removed.
	mockRepo.On("GetByID", "missing").Return(nil, notFoundErr("post with ID missing")).Once()
	err := service.Delete("missing")
	ae, ok := apperror.FromError(err)
	assert.True(t, ok)
	assert.Equal(t, apperror.NotFoundError, ae.Type)
	mockRepo.AssertExpectations(t)
}

func TestPostService_GetAll(t *testing.T) {
	mockRepo := new(MockPostRepository)
	service := services.NewPostService(mockRepo, new(MockUploadStore), nil)

	expected := []models.Post{
		{ID: "1", Title: "First", Description: "D1"},
		{ID: "2", Title: "Second", Description: "D2"},
	}
	mockRepo.On("GetAll").Return(expected, nil).Once()

	posts, err := service.GetAll()
	assert.NoError(t, err)
	assert.Equal(t, expected, posts)
	mockRepo.AssertExpectations(t)

	mockRepo.On("GetAll").Return(nil, fmt.Errorf("database error")).Once()
	_, err = service.GetAll()
	assert.Error(t, err)
	ae, ok := apperror.FromError(err)
	assert.True(t, ok)
	assert.Equal(t, apperror.InternalError, ae.Type)
	mockRepo.AssertExpectations(t)
}
