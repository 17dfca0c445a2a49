package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agrovigil/agrovigil-api/internal/models"
	"github.com/agrovigil/agrovigil-api/internal/service"
	appErrors "github.com/agrovigil/agrovigil-api/pkg/errors"
	"github.com/agrovigil/agrovigil-api/pkg/response"
)

// AuthHandler handles registration, login and profile endpoints.
type AuthHandler struct {
	service *service.AuthService
	users   *service.UserService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(svc *service.AuthService, users *service.UserService) *AuthHandler {
	return &AuthHandler{service: svc, users: users}
}

// Register creates a new account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, user)
}

// Login authenticates credentials and issues a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, resp, nil)
}

// Me returns the authenticated user's own profile.
func (h *AuthHandler) Me(c *gin.Context) {
	actor := actorFromContext(c)
	if actor.ID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	user, err := h.users.Profile(c.Request.Context(), actor, actor.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, user, nil)
}
