package handlers

import (
	"errors"
	"log"

	"pixpay/internal/services/auth"
	"pixpay/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService auth.Service
}

func NewAuthHandler(authService auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var body loginRequest
	if ok, err := bind(c, &body); !ok {
		return err
	}

	session, err := h.authService.Login(c.UserContext(), body.Email, body.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return utils.Unauthorized(c, "invalid credentials")
		}
		log.Printf("[auth] login error: %v", err)
		return utils.InternalError(c, "login failed")
	}

	return utils.Success(c, fiber.Map{
		"access_token": session.AccessToken,
		"token_type":   "Bearer",
		"expires_at":   session.ExpiresAt,
		"user": fiber.Map{
			"id":    session.User.ID,
			"name":  session.User.Name,
			"email": session.User.Email,
			"role":  session.User.Role,
		},
	})
}
