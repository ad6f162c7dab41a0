package user

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"linkup-service/pkg/apperrors"
	"linkup-service/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create godoc
// @Summary Create a user profile
// @Description Create a user profile directly, without identity sync
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body user.CreateUserRequest true "Profile data"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /users [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.Validation(err.Error()))
		return
	}

	u, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, u)
}

// GetByID godoc
// @Summary Get a user profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /users/{id} [get]
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperrors.Validation("invalid user id"))
		return
	}

	u, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, u)
}

// Update godoc
// @Summary Update a user profile
// @Description Partial update; absent fields are left unchanged
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body user.UpdateUserRequest true "Patch"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /users/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperrors.Validation("invalid user id"))
		return
	}

	// Only the owner may edit their profile.
	if callerID, ok := c.Get("user_id"); ok && callerID.(uuid.UUID) != id {
		response.Error(c, apperrors.Forbidden("cannot edit another user's profile"))
		return
	}

	var patch UpdateUserRequest
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error(c, apperrors.Validation(err.Error()))
		return
	}

	u, err := h.service.Update(c.Request.Context(), id, &patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, u)
}

// Search godoc
// @Summary Search users
// @Description Case-insensitive substring match over name and email, capped at 10 results
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search query"
// @Success 200 {object} response.Envelope
// @Router /users/search [get]
func (h *Handler) Search(c *gin.Context) {
	users, err := h.service.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"users": users})
}

// UploadAvatar godoc
// @Summary Upload a profile avatar
// @Tags users
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param avatar formData file true "Avatar image"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /users/{id}/avatar [post]
func (h *Handler) UploadAvatar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperrors.Validation("invalid user id"))
		return
	}

	if callerID, ok := c.Get("user_id"); ok && callerID.(uuid.UUID) != id {
		response.Error(c, apperrors.Forbidden("cannot edit another user's profile"))
		return
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		response.Error(c, apperrors.Validation("avatar file required"))
		return
	}

	u, err := h.service.UploadAvatar(c.Request.Context(), id, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, u)
}
