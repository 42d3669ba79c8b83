package handlers

import (
	"time"

	"blog/internal/models"
)

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Username string `json:"username" form:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=6,max=72"`
	Bio      string `json:"bio" form:"bio" validate:"max=500"`
}

// LoginRequest represents the request body for login. Username carries the
// email for OAuth2-style password forms; Email is accepted as well.
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// CreatePostRequest represents the request body for a new post.
type CreatePostRequest struct {
	Title       string   `json:"title" validate:"required,max=100"`
	Content     string   `json:"content" validate:"required"`
	Tags        []string `json:"tags" validate:"omitempty,dive,required,max=50"`
	IsPublished *bool    `json:"is_published"`
}

// UpdatePostRequest represents a partial post update.
type UpdatePostRequest struct {
	Title       *string   `json:"title" validate:"omitempty,min=1,max=100"`
	Content     *string   `json:"content" validate:"omitempty,min=1"`
	Tags        *[]string `json:"tags" validate:"omitempty,dive,required,max=50"`
	IsPublished *bool     `json:"is_published"`
}

// CommentRequest represents the request body for adding or editing a comment.
type CommentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

// UserResponse is the public profile of an account.
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"created_at"`
}

func userResponse(p models.Principal) UserResponse {
	return UserResponse{
		ID:        p.ID,
		Username:  p.Username,
		Email:     p.Email,
		Bio:       p.Bio,
		CreatedAt: p.CreatedAt,
	}
}

// PostResponse is the wire form of a post.
type PostResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Tags        []string   `json:"tags"`
	Slug        string     `json:"slug"`
	AuthorID    string     `json:"author_id"`
	IsPublished bool       `json:"is_published"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

func postResponse(p models.Post) PostResponse {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return PostResponse{
		ID:          p.ID,
		Title:       p.Title,
		Content:     p.Content,
		Tags:        tags,
		Slug:        p.Slug,
		AuthorID:    p.AuthorID,
		IsPublished: p.IsPublished,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func postResponses(posts []models.Post) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, postResponse(p))
	}
	return out
}

// CommentResponse is the wire form of a comment.
type CommentResponse struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func commentResponse(c models.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		PostID:    c.PostID,
		AuthorID:  c.AuthorID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}

func commentResponses(comments []models.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, commentResponse(c))
	}
	return out
}
