package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jengzang/fleet-tracker-go/internal/models"
	"github.com/jengzang/fleet-tracker-go/internal/service"
	"github.com/jengzang/fleet-tracker-go/pkg/response"
)

// AuthHandler handles HTTP requests for accounts and tokens
type AuthHandler struct {
	service *service.AuthService
	log     zerolog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service *service.AuthService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{service: service, log: log}
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var in models.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.service.Register(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Created(c, user)
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var in models.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.service.Login(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, result)
}

// Refresh handles POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var in models.RefreshInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.service.Refresh(c.Request.Context(), in.RefreshToken)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, result)
}
