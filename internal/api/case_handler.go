package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taxportal-backend/internal/core"
	"taxportal-backend/internal/middleware"
	"taxportal-backend/internal/models"
)

// CaseHandler handles API endpoints for the case registry.
type CaseHandler struct {
	caseService core.CaseService
	logger      *zap.Logger
}

// NewCaseHandler creates a new CaseHandler.
func NewCaseHandler(cs core.CaseService, logger *zap.Logger) *CaseHandler {
	return &CaseHandler{caseService: cs, logger: logger}
}

// mapCaseErrorToStatus maps errors from core.CaseService to HTTP status
// codes and an ErrorResponse body.
func (h *CaseHandler) mapCaseErrorToStatus(c *gin.Context, err error) {
	var statusCode int
	var errResponse ErrorResponse

	switch {
	case errors.Is(err, core.ErrCaseNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrCaseNotFound.Error()}
	case errors.Is(err, core.ErrForbiddenAccess):
		statusCode = http.StatusForbidden
		errResponse = ErrorResponse{Error: core.ErrForbiddenAccess.Error()}
	case errors.Is(err, core.ErrInvalidStatus):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: core.ErrInvalidStatus.Error(), Details: err.Error()}
	case errors.Is(err, core.ErrInvalidServiceType):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: core.ErrInvalidServiceType.Error(), Details: err.Error()}
	case errors.Is(err, core.ErrStaffNotFound):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: core.ErrStaffNotFound.Error()}
	case errors.Is(err, core.ErrNotStaff):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: core.ErrNotStaff.Error()}
	default:
		h.logger.Error("Unhandled case service error", zap.Error(err))
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: "An unexpected internal server error occurred."}
	}
	c.JSON(statusCode, errResponse)
}

// CreateCase handles POST /cases.
func (h *CaseHandler) CreateCase(c *gin.Context) {
	actor := middleware.ProfileFromContext(c)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User profile not found in context"})
		return
	}

	var req models.CreateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	createdCase, err := h.caseService.CreateCase(c.Request.Context(), actor, req)
	if err != nil {
		h.mapCaseErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, caseViewFor(actor, createdCase))
}

// ListCases handles GET /cases. The result is scoped by role: clients get
// their own cases, staff their assignments, admins everything.
func (h *CaseHandler) ListCases(c *gin.Context) {
	actor := middleware.ProfileFromContext(c)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User profile not found in context"})
		return
	}

	cases, err := h.caseService.ListCases(c.Request.Context(), actor)
	if err != nil {
		h.mapCaseErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, caseListViewFor(actor, cases))
}

// GetCase handles GET /cases/:caseId.
func (h *CaseHandler) GetCase(c *gin.Context) {
	actor := middleware.ProfileFromContext(c)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User profile not found in context"})
		return
	}
	caseID := c.Param("caseId")
	if caseID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Case ID is required"})
		return
	}

	taxCase, err := h.caseService.GetCase(c.Request.Context(), actor, caseID)
	if err != nil {
		h.mapCaseErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, caseViewFor(actor, taxCase))
}

// UpdateStatus handles PATCH /cases/:caseId/status.
func (h *CaseHandler) UpdateStatus(c *gin.Context) {
	actor := middleware.ProfileFromContext(c)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User profile not found in context"})
		return
	}
	caseID := c.Param("caseId")
	if caseID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Case ID is required"})
		return
	}

	var req models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	updatedCase, err := h.caseService.ChangeStatus(c.Request.Context(), actor, caseID, req.Status)
	if err != nil {
		h.mapCaseErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, caseViewFor(actor, updatedCase))
}

// AssignStaff handles PATCH /cases/:caseId/assignee. Admin only (also
// enforced by routing).
func (h *CaseHandler) AssignStaff(c *gin.Context) {
	actor := middleware.ProfileFromContext(c)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User profile not found in context"})
		return
	}
	caseID := c.Param("caseId")
	if caseID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Case ID is required"})
		return
	}

	var req models.AssignStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	updatedCase, err := h.caseService.AssignStaff(c.Request.Context(), actor, caseID, req.StaffID)
	if err != nil {
		h.mapCaseErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, updatedCase)
}
