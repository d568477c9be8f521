// Package client is the API client for the blog backend, used by the blogctl
// command. It mirrors the REST surface one call per method; nothing is
// retried.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"blogpost/internal/models"
)

// Client calls the blog API. When token is set it is attached as a bearer
// credential to every request.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a Client for the API at baseURL. token may be empty.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{},
	}
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// errorBody covers both wire formats: auth endpoints key errors as
// "message", blog endpoints as "error".
type errorBody struct {
	Message string `json:"message"`
	ErrMsg  string `json:"error"`
}

func (c *Client) do(method, path string, contentType string, body io.Reader, out interface{}) error {
	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.Unmarshal(data, &eb)
		msg := eb.Message
		if msg == "" {
			msg = eb.ErrMsg
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) doJSON(method, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	return c.do(method, path, "application/json", bytes.NewReader(body), out)
}

// postForm builds the multipart body shared by create and update. imagePath
// may be empty, in which case no image part is sent.
func (c *Client) postForm(method, path, title, description, imagePath string, out interface{}) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("title", title); err != nil {
		return fmt.Errorf("failed to write form field: %w", err)
	}
	if err := w.WriteField("description", description); err != nil {
		return fmt.Errorf("failed to write form field: %w", err)
	}
	if imagePath != "" {
		f, err := os.Open(imagePath)
		if err != nil {
			return fmt.Errorf("failed to open image: %w", err)
		}
		defer f.Close()

		part, err := w.CreateFormFile("image", filepath.Base(imagePath))
		if err != nil {
			return fmt.Errorf("failed to create image part: %w", err)
		}
		if _, err := io.Copy(part, f); err != nil {
			return fmt.Errorf("failed to copy image: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize form: %w", err)
	}

	return c.do(method, path, w.FormDataContentType(), &buf, out)
}

// Signup registers a new account. No token is issued; call Login next.
func (c *Client) Signup(name, email, password string) error {
	payload := map[string]string{"name": name, "email": email, "password": password}
	return c.doJSON(http.MethodPost, "/api/auth/signup", payload, nil)
}

// Login exchanges credentials for a session.
func (c *Client) Login(email, password string) (*Session, error) {
	payload := map[string]string{"email": email, "password": password}
	var s Session
	if err := c.doJSON(http.MethodPost, "/api/auth/login", payload, &s); err != nil {
		return nil, err
	}
	c.token = s.Token
	return &s, nil
}

// Me returns the profile behind the client's token, verified server-side.
func (c *Client) Me() (*UserProfile, error) {
	var resp struct {
		User UserProfile `json:"user"`
	}
	if err := c.do(http.MethodGet, "/api/auth/me", "", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// ListPosts returns all posts.
func (c *Client) ListPosts() ([]models.Post, error) {
	var posts []models.Post
	if err := c.do(http.MethodGet, "/api/blogs", "", nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPost returns a single post.
func (c *Client) GetPost(id string) (*models.Post, error) {
	var post models.Post
	if err := c.do(http.MethodGet, "/api/blogs/"+id, "", nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// CreatePost creates a post, optionally uploading the image at imagePath.
func (c *Client) CreatePost(title, description, imagePath string) (*models.Post, error) {
	var post models.Post
	if err := c.postForm(http.MethodPost, "/api/blogs", title, description, imagePath, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePost overwrites a post's title and description; the existing image
// is kept unless imagePath supplies a replacement.
func (c *Client) UpdatePost(id, title, description, imagePath string) (*models.Post, error) {
	var post models.Post
	if err := c.postForm(http.MethodPut, "/api/blogs/"+id, title, description, imagePath, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost removes a post.
func (c *Client) DeletePost(id string) error {
	return c.do(http.MethodDelete, "/api/blogs/"+id, "", nil, nil)
}
