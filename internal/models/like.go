package models

// Like records that a user liked a post. At most one per (post, user).
type Like struct {
	ID     string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	PostID string `json:"post_id" gorm:"not null;type:varchar(36);uniqueIndex:idx_like_post_user"`
	UserID string `json:"user_id" gorm:"not null;type:varchar(36);uniqueIndex:idx_like_post_user"`
}
