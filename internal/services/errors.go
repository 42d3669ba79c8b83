package services

import (
	"errors"
	"fmt"
	"math"

	"blog/internal/apperrors"
	"blog/internal/models"
	"blog/internal/repositories"
)

// Pagination bounds for list operations.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// NewPage converts a 1-based page number and page size into a skip/limit window.
func NewPage(page, limit int) (models.Page, error) {
	if page < 1 {
		return models.Page{}, apperrors.Validation("page must be at least 1")
	}
	if limit < 1 || limit > MaxLimit {
		return models.Page{}, apperrors.Validation(fmt.Sprintf("limit must be between 1 and %d", MaxLimit))
	}
	if page-1 > math.MaxInt/limit {
		return models.Page{}, apperrors.Validation("page is out of range")
	}
	return models.Page{Skip: (page - 1) * limit, Limit: limit}, nil
}

// storeError maps repository errors onto application errors.
// ErrNotFound becomes a NotFound carrying notFoundMsg; anything else stays internal.
func storeError(err error, notFoundMsg, action string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.Wrap(apperrors.KindNotFound, notFoundMsg, err)
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}
