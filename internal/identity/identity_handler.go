package identity

import (
	"github.com/gin-gonic/gin"

	"linkup-service/pkg/apperrors"
	"linkup-service/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Sync godoc
// @Summary Sync the authenticated identity to a local user
// @Description Upsert keyed on the external identity id from the verified token
// @Tags identity
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body identity.SyncRequest true "Profile hint"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /identity/sync [post]
func (h *Handler) Sync(c *gin.Context) {
	externalID := c.GetString("external_id")
	if externalID == "" {
		response.Error(c, apperrors.Unauthorized("missing identity context"))
		return
	}

	var req SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.Validation("email required"))
		return
	}

	u, err := h.service.Sync(c.Request.Context(), externalID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, u)
}
