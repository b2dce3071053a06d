package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jengzang/fleet-tracker-go/internal/middleware"
	"github.com/jengzang/fleet-tracker-go/internal/service"
	"github.com/jengzang/fleet-tracker-go/pkg/response"
)

// UserHandler handles HTTP requests for users
type UserHandler struct {
	service *service.AuthService
	log     zerolog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(service *service.AuthService, log zerolog.Logger) *UserHandler {
	return &UserHandler{service: service, log: log}
}

// List handles GET /api/v1/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, users)
}

// Me handles GET /api/v1/users/me
func (h *UserHandler) Me(c *gin.Context) {
	claims := middleware.Claims(c)
	if claims == nil {
		response.Error(c, http.StatusUnauthorized, "access token required")
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), claims.UserID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, user)
}
