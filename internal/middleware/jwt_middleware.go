package middleware

import (
	"log"
	"strings"

	"blog/internal/apperrors"
	"blog/internal/models"
	"blog/internal/services"

	"github.com/gofiber/fiber/v2"
)

const principalKey = "principal"

// AuthRequired is a Fiber middleware that resolves the bearer token to a principal.
// Every failure produces the same 401 body.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return unauthorized(c)
		}

		principal, err := authService.Authenticate(c.UserContext(), token)
		if err != nil {
			if apperrors.KindOf(err) != apperrors.KindUnauthenticated {
				log.Printf("Authentication lookup failed: %v", err)
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"message": apperrors.MessageOf(err),
					"code":    apperrors.KindInternal,
				})
			}
			log.Printf("JWT validation failed: %v", err)
			return unauthorized(c)
		}

		c.Locals(principalKey, principal)
		return c.Next()
	}
}

// CurrentPrincipal returns the principal stored by AuthRequired.
func CurrentPrincipal(c *fiber.Ctx) (models.Principal, bool) {
	principal, ok := c.Locals(principalKey).(models.Principal)
	return principal, ok
}

// Expected format: "Bearer <token>"
func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func unauthorized(c *fiber.Ctx) error {
	c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": apperrors.Unauthenticated(nil).Message,
		"code":    apperrors.KindUnauthenticated,
	})
}
