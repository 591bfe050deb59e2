package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taxportal-backend/internal/core"
	"taxportal-backend/internal/models"
)

// ContactHandler handles the public contact intake endpoint. Admin-side
// review of submissions lives in AdminHandler.
type ContactHandler struct {
	contactService core.ContactService
	logger         *zap.Logger
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(cs core.ContactService, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{contactService: cs, logger: logger}
}

// SubmitContact handles POST /contact. No authentication; anyone may submit.
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	var req models.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	msg, err := h.contactService.Submit(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("Failed to store contact submission", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to submit contact message"})
		return
	}
	c.JSON(http.StatusCreated, msg)
}
