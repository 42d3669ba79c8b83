package handlers

import (
	"blog/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// PostHandler handles HTTP requests for posts.
type PostHandler struct {
	postService *services.PostService
	validate    *validator.Validate
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(postService *services.PostService) *PostHandler {
	return &PostHandler{
		postService: postService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the post routes with the Fiber app.
func (h *PostHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	router.Get("/me/posts", authRequired, h.ListMyPosts)

	posts := router.Group("/posts")
	posts.Get("/", h.ListPosts)
	posts.Post("/", authRequired, h.CreatePost)
	posts.Get("/:slug", h.GetPost)
	posts.Put("/:slug", authRequired, h.UpdatePost)
	posts.Delete("/:slug", authRequired, h.DeletePost)
}

// ListPosts lists published posts, optionally by author and tag.
func (h *PostHandler) ListPosts(c *fiber.Ctx) error {
	page, err := pageFromQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	posts, err := h.postService.List(c.UserContext(), services.PostQuery{
		AuthorID: c.Query("author"),
		Tag:      c.Query("tag"),
	}, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(postResponses(posts))
}

// ListMyPosts lists the caller's posts, drafts included.
func (h *PostHandler) ListMyPosts(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return writeError(c, err)
	}
	page, err := pageFromQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	posts, err := h.postService.ListMine(c.UserContext(), p, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(postResponses(posts))
}

// GetPost returns one published post by slug.
func (h *PostHandler) GetPost(c *fiber.Ctx) error {
	post, err := h.postService.GetBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(postResponse(*post))
}

// CreatePost creates a post owned by the caller. Posts are published unless
// is_published is false.
func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return writeError(c, err)
	}
	var req CreatePostRequest
	if err := bind(c, h.validate, &req); err != nil {
		return writeError(c, err)
	}
	published := true
	if req.IsPublished != nil {
		published = *req.IsPublished
	}

	post, err := h.postService.Create(c.UserContext(), p, services.CreatePostInput{
		Title:       req.Title,
		Content:     req.Content,
		Tags:        req.Tags,
		IsPublished: published,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(postResponse(*post))
}

// UpdatePost applies a partial update to the caller's post.
func (h *PostHandler) UpdatePost(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return writeError(c, err)
	}
	var req UpdatePostRequest
	if err := bind(c, h.validate, &req); err != nil {
		return writeError(c, err)
	}

	post, err := h.postService.Update(c.UserContext(), p, c.Params("slug"), services.UpdatePostInput{
		Title:       req.Title,
		Content:     req.Content,
		Tags:        req.Tags,
		IsPublished: req.IsPublished,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(postResponse(*post))
}

// DeletePost deletes the caller's post.
func (h *PostHandler) DeletePost(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.postService.Delete(c.UserContext(), p, c.Params("slug")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted successfully"})
}
