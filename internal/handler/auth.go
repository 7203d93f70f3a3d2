package handler

import (
	"net/http" // HTTP status codes

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing
	"github.com/rs/zerolog"

	"github.com/iliyamo/event-listing/internal/service" // registration and login rules
)

// AuthHandler serves /users/register and /users/login.
type AuthHandler struct {
	Users  *service.UserService
	Logger zerolog.Logger
}

func NewAuthHandler(users *service.UserService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{Users: users, Logger: logger}
}

// ----- DTOs -----
// Both endpoints accept form fields; JSON bodies bind through the same tags.

type registerReq struct {
	Username string `form:"username" json:"username"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

type loginReq struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

type loginResp struct {
	Message     string `json:"message"`
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Register creates a user account.  409 when the email is taken, 400 for a
// malformed email or a short password.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	_, err := h.Users.Register(c.Request().Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return fail(c, h.Logger, err, http.StatusNotFound)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "User registered successfully"})
}

// Login exchanges credentials for a bearer token.  404 for an unknown email,
// 401 for a wrong password.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	tok, err := h.Users.Login(c.Request().Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return fail(c, h.Logger, err, http.StatusNotFound)
	}
	return c.JSON(http.StatusOK, loginResp{
		Message:     "User logged in successfully",
		AccessToken: tok.Token,
		ExpiresIn:   int64(h.Users.TokenTTL().Seconds()),
	})
}
