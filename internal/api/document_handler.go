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

// maxUploadBytes caps a single document upload at 25 MiB.
const maxUploadBytes = 25 << 20

// DocumentHandler handles the per-case document ledger endpoints.
type DocumentHandler struct {
	documentService core.DocumentService
	logger          *zap.Logger
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(ds core.DocumentService, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{documentService: ds, logger: logger}
}

func (h *DocumentHandler) mapDocumentErrorToStatus(c *gin.Context, err error) {
	var statusCode int
	var errResponse ErrorResponse

	switch {
	case errors.Is(err, core.ErrCaseNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrCaseNotFound.Error()}
	case errors.Is(err, core.ErrForbiddenAccess):
		statusCode = http.StatusForbidden
		errResponse = ErrorResponse{Error: core.ErrForbiddenAccess.Error()}
	case errors.Is(err, core.ErrInvalidCategory):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: core.ErrInvalidCategory.Error(), Details: err.Error()}
	case errors.Is(err, core.ErrCategoryNotAllowed):
		statusCode = http.StatusForbidden
		errResponse = ErrorResponse{Error: core.ErrCategoryNotAllowed.Error(), Details: err.Error()}
	case errors.Is(err, core.ErrUploadClosed):
		statusCode = http.StatusConflict
		errResponse = ErrorResponse{Error: core.ErrUploadClosed.Error()}
	default:
		h.logger.Error("Unhandled document service error", zap.Error(err))
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: "An unexpected internal server error occurred."}
	}
	c.JSON(statusCode, errResponse)
}

// ListDocuments handles GET /cases/:caseId/documents.
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
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

	docs, err := h.documentService.ListDocuments(c.Request.Context(), actor, caseID)
	if err != nil {
		h.mapDocumentErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

// UploadDocument handles POST /cases/:caseId/documents. The file comes as
// multipart form field "file"; an optional "category" field overrides the
// role's default category.
func (h *DocumentHandler) UploadDocument(c *gin.Context) {
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

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Multipart field 'file' is required", Details: err.Error()})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded file", zap.String("caseId", caseID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	doc, err := h.documentService.Upload(c.Request.Context(), actor, caseID, core.UploadInput{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Category:    models.DocumentCategory(c.PostForm("category")),
		Body:        file,
	})
	if err != nil {
		h.mapDocumentErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}
