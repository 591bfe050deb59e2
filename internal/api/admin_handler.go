package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taxportal-backend/internal/core"
	"taxportal-backend/internal/models"
)

// AdminHandler handles the admin console endpoints: the user directory,
// staff provisioning, and contact submission review. All routes carrying
// this handler sit behind RequireRole(admin).
type AdminHandler struct {
	userService    core.UserService
	staffService   core.StaffService
	contactService core.ContactService
	logger         *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(us core.UserService, ss core.StaffService, cs core.ContactService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		userService:    us,
		staffService:   ss,
		contactService: cs,
		logger:         logger,
	}
}

// ListUsers handles GET /admin/users. An optional ?q= query filters by a
// case-insensitive substring over display name and email.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.logger.Error("Failed to list users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// ListStaff handles GET /admin/staff.
func (h *AdminHandler) ListStaff(c *gin.Context) {
	staff, err := h.userService.ListStaff(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list staff", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list staff"})
		return
	}
	c.JSON(http.StatusOK, staff)
}

// CreateStaff handles POST /admin/staff. Creating a staff account never
// touches the calling admin's session; provisioning runs entirely through
// the Admin SDK.
func (h *AdminHandler) CreateStaff(c *gin.Context) {
	var req models.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	profile, err := h.staffService.CreateStaff(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrPasswordTooShort):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: core.ErrPasswordTooShort.Error()})
		case errors.Is(err, core.ErrPasswordMismatch):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: core.ErrPasswordMismatch.Error()})
		case errors.Is(err, core.ErrEmailInUse):
			c.JSON(http.StatusConflict, ErrorResponse{Error: core.ErrEmailInUse.Error()})
		default:
			h.logger.Error("Failed to create staff account", zap.Error(err))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create staff account"})
		}
		return
	}
	c.JSON(http.StatusCreated, profile)
}

// ListContactMessages handles GET /admin/contact-messages.
func (h *AdminHandler) ListContactMessages(c *gin.Context) {
	msgs, err := h.contactService.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list contact submissions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list contact messages"})
		return
	}
	c.JSON(http.StatusOK, msgs)
}

// MarkContactRead handles PATCH /admin/contact-messages/:messageId/read.
func (h *AdminHandler) MarkContactRead(c *gin.Context) {
	messageID := c.Param("messageId")
	if messageID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Message ID is required"})
		return
	}

	if err := h.contactService.MarkRead(c.Request.Context(), messageID); err != nil {
		if errors.Is(err, core.ErrMessageNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: core.ErrMessageNotFound.Error()})
			return
		}
		h.logger.Error("Failed to mark contact submission read", zap.String("messageId", messageID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update contact message"})
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Contact message marked as read"})
}

// DeleteContactMessage handles DELETE /admin/contact-messages/:messageId.
func (h *AdminHandler) DeleteContactMessage(c *gin.Context) {
	messageID := c.Param("messageId")
	if messageID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Message ID is required"})
		return
	}

	if err := h.contactService.Delete(c.Request.Context(), messageID); err != nil {
		if errors.Is(err, core.ErrMessageNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: core.ErrMessageNotFound.Error()})
			return
		}
		h.logger.Error("Failed to delete contact submission", zap.String("messageId", messageID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete contact message"})
		return
	}
	c.Status(http.StatusNoContent)
}
