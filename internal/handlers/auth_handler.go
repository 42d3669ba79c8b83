package handlers

import (
	"log"
	"strings"

	"blog/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	router.Post("/register", h.HandleRegister)
	router.Post("/login", h.HandleLogin)
	router.Get("/me", authRequired, h.HandleMe)
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := bind(c, h.validate, &req); err != nil {
		return writeError(c, err)
	}

	user, err := h.authService.Register(c.UserContext(), services.RegisterInput{
		Username: strings.TrimSpace(req.Username),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: req.Password,
		Bio:      req.Bio,
	})
	if err != nil {
		log.Printf("Error registering user %s: %v", req.Email, err)
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user": UserResponse{
			ID:        user.ID,
			Username:  user.Username,
			Email:     user.Email,
			Bio:       user.Bio,
			CreatedAt: user.CreatedAt,
		},
	})
}

// HandleLogin handles user login and issues a bearer token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := bind(c, h.validate, &req); err != nil {
		return writeError(c, err)
	}
	email := req.Username
	if email == "" {
		email = req.Email
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if err := h.validate.Var(email, "required,email"); err != nil {
		return writeError(c, fieldErrors{"Username": "Field 'Username' failed on the 'email' tag"})
	}

	token, err := h.authService.Login(c.UserContext(), email, req.Password)
	if err != nil {
		log.Printf("Error during login for %s: %v", email, err)
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":      "Login successful",
		"access_token": token,
		"token_type":   "bearer",
		"expires_in":   int64(h.authService.TokenTTL().Seconds()),
	})
}

// HandleMe returns the authenticated user's profile.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(userResponse(p))
}
