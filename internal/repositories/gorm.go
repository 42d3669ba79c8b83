package repositories

import (
	"errors"
	"fmt"

	"blog/internal/models"

	"gorm.io/gorm"
)

// NewGORMStore returns a Store backed by GORM repositories.
func NewGORMStore(db *gorm.DB) Store {
	return Store{
		Users:    NewGORMUserRepository(db),
		Posts:    NewGORMPostRepository(db),
		Comments: NewGORMCommentRepository(db),
		Likes:    NewGORMLikeRepository(db),
	}
}

// AutoMigrate creates or updates the tables behind a GORM store.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Post{}, &models.Comment{}, &models.Like{}); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return nil
}

// gormError maps GORM errors onto the repository sentinels.
// The connection must be opened with gorm.Config{TranslateError: true}.
func gormError(err error, format string, args ...any) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf(format+": %w", append(args, ErrDuplicate)...)
	default:
		return fmt.Errorf("failed to "+format+": %w", append(args, err)...)
	}
}
