package models

import "time"

// Post represents a blog post. Slug is always derived from Title.
type Post struct {
	ID          string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title       string     `json:"title" gorm:"type:varchar(100);not null"`
	Content     string     `json:"content" gorm:"type:text;not null"`
	Tags        []string   `json:"tags" gorm:"serializer:json;type:text"`
	Slug        string     `json:"slug" gorm:"index;type:varchar(255)"`
	AuthorID    string     `json:"author_id" gorm:"index;type:varchar(36);not null"`
	IsPublished bool       `json:"is_published"`
	CreatedAt   time.Time  `json:"created_at" gorm:"index"`
	UpdatedAt   *time.Time `json:"updated_at" gorm:"autoUpdateTime:false"`
}

// PostPatch is a partial update. Nil fields are left untouched.
type PostPatch struct {
	Title       *string
	Slug        *string
	Content     *string
	Tags        *[]string
	IsPublished *bool
	UpdatedAt   *time.Time
}

// Apply copies the set fields of p onto post.
func (p PostPatch) Apply(post *Post) {
	if p.Title != nil {
		post.Title = *p.Title
	}
	if p.Slug != nil {
		post.Slug = *p.Slug
	}
	if p.Content != nil {
		post.Content = *p.Content
	}
	if p.Tags != nil {
		post.Tags = *p.Tags
	}
	if p.IsPublished != nil {
		post.IsPublished = *p.IsPublished
	}
	if p.UpdatedAt != nil {
		post.UpdatedAt = p.UpdatedAt
	}
}

// PostFilter narrows post listings.
type PostFilter struct {
	AuthorID      string
	Tag           string
	PublishedOnly bool
}

// Page is a skip/limit window.
type Page struct {
	Skip  int
	Limit int
}
