package api

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"order-dashboard/internal/entity"
	"order-dashboard/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new instance of UserHandler.
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Login logs in a user --> /users/login
func (h *UserHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	login := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{}

	if err := c.Bind(&login); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	token, err := h.userService.Login(ctx, login.Email, login.Password)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(200, map[string]string{"token": token})
}

// ValidateSession checks that the caller's session is still live --> /users/validate
func (h *UserHandler) ValidateSession(c echo.Context) error {
	email := claimedEmail(c)
	if email == "" {
		return c.JSON(401, map[string]string{"error": "Unauthorized"})
	}

	if _, err := h.userService.ValidateSession(c.Request().Context(), email); err != nil {
		return c.JSON(401, map[string]string{"error": err.Error()})
	}

	return c.JSON(200, map[string]string{"message": "Session is valid"})
}

// Logout revokes the caller's session --> /users/logout
func (h *UserHandler) Logout(c echo.Context) error {
	email := claimedEmail(c)
	if email == "" {
		return c.JSON(401, map[string]string{"error": "Unauthorized"})
	}

	if err := h.userService.Logout(c.Request().Context(), email); err != nil {
		return writeError(c, err)
	}

	return c.JSON(200, map[string]string{"message": "Logged out"})
}

// CreateUser creates a new user --> /users
func (h *UserHandler) CreateUser(c echo.Context) error {
	user := entity.User{}
	if err := c.Bind(&user); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	createdUser, err := h.userService.CreateUser(c.Request().Context(), &user)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(201, createdUser)
}

// claimedEmail pulls the subject out of the verified JWT set by the
// echo-jwt middleware. Empty means the route was hit unauthenticated.
func claimedEmail(c echo.Context) string {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return ""
	}
	claims, ok := token.Claims.(*service.JwtCustomClaims)
	if !ok {
		return ""
	}
	return claims.Subject
}

// AdminOnly guards destructive routes: the JWT role claim must be admin.
func AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := c.Get("user").(*jwt.Token)
		if !ok {
			return c.JSON(401, map[string]string{"error": "Unauthorized"})
		}
		claims, ok := token.Claims.(*service.JwtCustomClaims)
		if !ok || claims.Role != entity.RoleAdmin {
			return c.JSON(403, map[string]string{"error": "Admin access required"})
		}
		return next(c)
	}
}
