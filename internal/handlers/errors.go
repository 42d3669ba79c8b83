package handlers

import (
	"errors"
	"fmt"
	"log"

	"blog/internal/apperrors"
	"blog/internal/middleware"
	"blog/internal/models"
	"blog/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// fieldErrors reports request fields that failed their validation tags.
type fieldErrors map[string]string

func (fieldErrors) Error() string { return "validation failed" }

// writeError translates err into the JSON error body and status.
func writeError(c *fiber.Ctx, err error) error {
	var fields fieldErrors
	if errors.As(err, &fields) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"code":    apperrors.KindValidation,
			"errors":  fields,
		})
	}

	kind := apperrors.KindOf(err)
	switch kind {
	case apperrors.KindInternal, apperrors.KindConfiguration:
		log.Printf("Error handling %s %s: %v", c.Method(), c.Path(), err)
	case apperrors.KindUnauthenticated:
		c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	}
	return c.Status(apperrors.HTTPStatus(kind)).JSON(fiber.Map{
		"message": apperrors.MessageOf(err),
		"code":    kind,
	})
}

// bind decodes the body into req and runs its validation tags.
func bind(c *fiber.Ctx, validate *validator.Validate, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return apperrors.Wrap(apperrors.KindValidation, "Invalid request body", err)
	}
	if err := validate.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return apperrors.Wrap(apperrors.KindValidation, "Invalid request body", err)
		}
		fields := make(fieldErrors, len(validationErrors))
		for _, e := range validationErrors {
			fields[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return fields
	}
	return nil
}

// pageFromQuery reads page and limit, defaulting to the first page of ten.
func pageFromQuery(c *fiber.Ctx) (models.Page, error) {
	return services.NewPage(
		c.QueryInt("page", services.DefaultPage),
		c.QueryInt("limit", services.DefaultLimit),
	)
}

func principal(c *fiber.Ctx) (models.Principal, error) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return models.Principal{}, apperrors.Unauthenticated(errors.New("no principal on request"))
	}
	return p, nil
}
