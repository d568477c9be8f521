package handlers

import (
	"log"
	"mime/multipart"

	"blogpost/internal/apperror"
	"blogpost/internal/services"

	"github.com/gofiber/fiber/v2"
)

// PostHandler handles HTTP requests for blog posts. Create and update accept
// multipart form bodies with an optional "image" file part.
type PostHandler struct {
	postService *services.PostService
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(postService *services.PostService) *PostHandler {
	return &PostHandler{
		postService: postService,
	}
}

// RegisterRoutes registers the blog routes. These routes are intentionally
// not behind token verification: access control for post management lives
// entirely in the client.
func (h *PostHandler) RegisterRoutes(router fiber.Router) {
	blogRoutes := router.Group("/blogs")
	blogRoutes.Post("/", h.HandleCreate)
	blogRoutes.Get("/", h.HandleList)
	blogRoutes.Get("/:id", h.HandleGet)
	blogRoutes.Put("/:id", h.HandleUpdate)
	blogRoutes.Delete("/:id", h.HandleDelete)
}

// imageFile returns the uploaded image part, or nil when the form carries
// none.
func imageFile(c *fiber.Ctx) *multipart.FileHeader {
	file, err := c.FormFile("image")
	if err != nil {
		return nil
	}
	return file
}

// HandleCreate creates a new post from a multipart form.
func (h *PostHandler) HandleCreate(c *fiber.Ctx) error {
	post, err := h.postService.Create(c.FormValue("title"), c.FormValue("description"), imageFile(c))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// HandleList returns all posts.
func (h *PostHandler) HandleList(c *fiber.Ctx) error {
	posts, err := h.postService.GetAll()
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(posts)
}

// HandleGet returns a single post by ID.
func (h *PostHandler) HandleGet(c *fiber.Ctx) error {
	post, err := h.postService.GetByID(c.Params("id"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(post)
}

// HandleUpdate overwrites a post's title and description, replacing its
// image only when a new file is supplied.
func (h *PostHandler) HandleUpdate(c *fiber.Ctx) error {
	post, err := h.postService.Update(c.Params("id"), c.FormValue("title"), c.FormValue("description"), imageFile(c))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(post)
}

// HandleDelete removes a post and its backing image file.
func (h *PostHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.postService.Delete(c.Params("id")); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Blog post deleted",
	})
}

// respondError maps service errors onto the blog wire format, which keys
// messages as "error".
func (h *PostHandler) respondError(c *fiber.Ctx, err error) error {
	if ae, ok := apperror.FromError(err); ok {
		if ae.Type == apperror.InternalError {
			log.Printf("Blog error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": ae.Message,
			})
		}
		return c.Status(ae.StatusCode()).JSON(fiber.Map{
			"error": ae.Message,
		})
	}
	log.Printf("Unexpected blog error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
	})
}
