package friendship

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

// callerID returns the authenticated local user id set by the middleware.
func callerID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get("user_id")
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// SendRequest godoc
// @Summary Send a friend request
// @Tags friends
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body friendship.SendRequestRequest true "Requester and target"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /friends [post]
func (h *Handler) SendRequest(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		response.Error(c, apperrors.Unauthorized("unauthorized"))
		return
	}

	var req SendRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.Validation(err.Error()))
		return
	}

	if req.UserID != caller {
		response.Error(c, apperrors.Forbidden("cannot send a friend request on behalf of another user"))
		return
	}

	edge, err := h.service.SendRequest(c.Request.Context(), req.UserID, req.FriendID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, edge)
}

// Remove godoc
// @Summary Remove a friendship
// @Description Deletes the edge between two users regardless of direction
// @Tags friends
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body friendship.RemoveRequest true "The two sides"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /friends [delete]
func (h *Handler) Remove(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		response.Error(c, apperrors.Unauthorized("unauthorized"))
		return
	}

	var req RemoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.Validation(err.Error()))
		return
	}

	if err := h.service.Remove(c.Request.Context(), caller, req.UserID, req.FriendID); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "friendship removed")
}

// ListIncoming godoc
// @Summary List incoming friend requests
// @Tags friends
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Success 200 {object} response.Envelope
// @Router /friends/requests/{userId} [get]
func (h *Handler) ListIncoming(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.Error(c, apperrors.Validation("invalid user id"))
		return
	}

	requests, err := h.service.ListIncoming(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"requests": requests})
}

// Accept godoc
// @Summary Accept a friend request
// @Tags friends
// @Produce json
// @Security BearerAuth
// @Param id path string true "Friendship ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /friends/{id}/accept [put]
func (h *Handler) Accept(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		response.Error(c, apperrors.Unauthorized("unauthorized"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperrors.Validation("invalid friendship id"))
		return
	}

	edge, err := h.service.Accept(c.Request.Context(), caller, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, edge)
}

// Reject godoc
// @Summary Reject a friend request
// @Tags friends
// @Produce json
// @Security BearerAuth
// @Param id path string true "Friendship ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /friends/{id}/reject [delete]
func (h *Handler) Reject(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		response.Error(c, apperrors.Unauthorized("unauthorized"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperrors.Validation("invalid friendship id"))
		return
	}

	if err := h.service.Reject(c.Request.Context(), caller, id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "friend request rejected")
}

// GetFriends godoc
// @Summary List a user's accepted friends
// @Tags friends
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /users/{id}/friends [get]
func (h *Handler) GetFriends(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperrors.Validation("invalid user id"))
		return
	}

	friends, err := h.service.GetFriends(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"friends": friends})
}
