package handlers

import (
	"blog/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CommentHandler handles HTTP requests for comments.
type CommentHandler struct {
	commentService *services.CommentService
	validate       *validator.Validate
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the comment routes with the Fiber app.
func (h *CommentHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	router.Get("/posts/:post_id/comments", h.ListComments)
	router.Post("/posts/:post_id/comments", authRequired, h.AddComment)
	router.Put("/comments/:id", authRequired, h.EditComment)
	router.Delete("/comments/:id", authRequired, h.DeleteComment)
}

// ListComments lists a post's comments, oldest first.
func (h *CommentHandler) ListComments(c *fiber.Ctx) error {
	page, err := pageFromQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	comments, err := h.commentService.List(c.UserContext(), c.Params("post_id"), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(commentResponses(comments))
}

// AddComment adds the caller's comment to a post.
func (h *CommentHandler) AddComment(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return writeError(c, err)
	}
	var req CommentRequest
	if err := bind(c, h.validate, &req); err != nil {
		return writeError(c, err)
	}

	comment, err := h.commentService.Add(c.UserContext(), p, c.Params("post_id"), req.Content)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Comment added successfully",
		"comment": commentResponse(*comment),
	})
}

// EditComment replaces the content of the caller's comment.
func (h *CommentHandler) EditComment(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return writeError(c, err)
	}
	var req CommentRequest
	if err := bind(c, h.validate, &req); err != nil {
		return writeError(c, err)
	}

	comment, err := h.commentService.Edit(c.UserContext(), p, c.Params("id"), req.Content)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(commentResponse(*comment))
}

// DeleteComment deletes the caller's comment.
func (h *CommentHandler) DeleteComment(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.commentService.Delete(c.UserContext(), p, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Comment deleted successfully"})
}
