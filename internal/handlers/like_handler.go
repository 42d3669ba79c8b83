package handlers

import (
	"blog/internal/services"

	"github.com/gofiber/fiber/v2"
)

// LikeHandler handles HTTP requests for likes.
type LikeHandler struct {
	likeService *services.LikeService
}

// NewLikeHandler creates a new LikeHandler.
func NewLikeHandler(likeService *services.LikeService) *LikeHandler {
	return &LikeHandler{likeService: likeService}
}

// RegisterRoutes registers the like routes with the Fiber app.
func (h *LikeHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	router.Post("/posts/:post_id/like", authRequired, h.Like)
	router.Delete("/posts/:post_id/unlike", authRequired, h.Unlike)
	router.Get("/posts/:post_id/likes", h.Count)
}

// Like records the caller's like on a post.
func (h *LikeHandler) Like(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.likeService.Like(c.UserContext(), p, c.Params("post_id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post liked successfully"})
}

// Unlike removes the caller's like from a post.
func (h *LikeHandler) Unlike(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.likeService.Unlike(c.UserContext(), p, c.Params("post_id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post unliked successfully"})
}

// Count returns the number of likes on a post.
func (h *LikeHandler) Count(c *fiber.Ctx) error {
	postID := c.Params("post_id")
	n, err := h.likeService.Count(c.UserContext(), postID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"post_id": postID, "like_count": n})
}
