package auth

import (
	"blog/internal/apperrors"
	"blog/internal/models"
)

// AuthorizeMutation allows a change only when the acting principal is the
// resource's recorded author. Callers must check that the resource exists first.
func AuthorizeMutation(principal models.Principal, resourceAuthorID string) error {
	if principal.ID == "" || principal.ID != resourceAuthorID {
		return apperrors.Forbidden("Not allowed to modify this resource")
	}
	return nil
}
