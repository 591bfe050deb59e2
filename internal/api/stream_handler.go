package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taxportal-backend/internal/core"
	"taxportal-backend/internal/middleware"
	"taxportal-backend/internal/models"
	"taxportal-backend/internal/watch"
)

// heartbeatInterval keeps idle SSE connections alive through proxies.
const heartbeatInterval = 30 * time.Second

// CaseStreamer is the subscription surface the stream handler consumes.
// Satisfied by *watch.Watcher.
type CaseStreamer interface {
	WatchCase(ctx context.Context, caseID string) <-chan watch.CaseEvent
	WatchCaseDocuments(ctx context.Context, caseID string) <-chan watch.DocumentsEvent
	WatchCasesByUser(ctx context.Context, userID string) <-chan watch.CaseListEvent
	WatchCasesByAssignee(ctx context.Context, staffID string) <-chan watch.CaseListEvent
	WatchAllCases(ctx context.Context) <-chan watch.CaseListEvent
}

// StreamHandler exposes the live subscriptions as Server-Sent Events. One
// HTTP connection carries one listener; closing the connection tears the
// listener down.
type StreamHandler struct {
	streamer    CaseStreamer
	caseService core.CaseService
	logger      *zap.Logger
}

// NewStreamHandler creates a new StreamHandler.
func NewStreamHandler(streamer CaseStreamer, cs core.CaseService, logger *zap.Logger) *StreamHandler {
	return &StreamHandler{streamer: streamer, caseService: cs, logger: logger}
}

// StreamCase handles GET /cases/:caseId/stream. Pushes the case record on
// every change. The view check runs once up front; cases are never deleted,
// so the scope only shifts on reassignment, which the next connect
// re-checks.
func (h *StreamHandler) StreamCase(c *gin.Context) {
	actor := middleware.ProfileFromContext(c)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User profile not found in context"})
		return
	}
	caseID := c.Param("caseId")

	if _, err := h.caseService.GetCase(c.Request.Context(), actor, caseID); err != nil {
		mapStreamAccessError(c, err)
		return
	}

	events := h.streamer.WatchCase(c.Request.Context(), caseID)
	serveSSE(c, events, func(ev watch.CaseEvent) (string, interface{}) {
		if ev.Exists && actor.Role == models.RoleClient {
			return "case", gin.H{"case": toClientCaseView(ev.Case), "exists": true}
		}
		return "case", ev
	})
}

// StreamCaseDocuments handles GET /cases/:caseId/documents/stream. Pushes
// the full ledger, newest first, on every change.
func (h *StreamHandler) StreamCaseDocuments(c *gin.Context) {
	actor := middleware.ProfileFromContext(c)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User profile not found in context"})
		return
	}
	caseID := c.Param("caseId")

	if _, err := h.caseService.GetCase(c.Request.Context(), actor, caseID); err != nil {
		mapStreamAccessError(c, err)
		return
	}

	events := h.streamer.WatchCaseDocuments(c.Request.Context(), caseID)
	serveSSE(c, events, func(ev watch.DocumentsEvent) (string, interface{}) {
		return "documents", ev
	})
}

// StreamCases handles GET /cases/stream. The subscription scope follows the
// actor's role the same way GET /cases does.
func (h *StreamHandler) StreamCases(c *gin.Context) {
	actor := middleware.ProfileFromContext(c)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User profile not found in context"})
		return
	}

	var events <-chan watch.CaseListEvent
	switch actor.Role {
	case models.RoleClient:
		events = h.streamer.WatchCasesByUser(c.Request.Context(), actor.UID)
	case models.RoleStaff:
		events = h.streamer.WatchCasesByAssignee(c.Request.Context(), actor.UID)
	case models.RoleAdmin:
		events = h.streamer.WatchAllCases(c.Request.Context())
	default:
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Insufficient permissions"})
		return
	}

	serveSSE(c, events, func(ev watch.CaseListEvent) (string, interface{}) {
		if actor.Role == models.RoleClient {
			return "cases", gin.H{"cases": caseListViewFor(actor, ev.Cases)}
		}
		return "cases", ev
	})
}

// serveSSE pumps events from ch to the client until the channel closes or
// the client disconnects. A write failure ends the stream; the context
// cancellation that follows tears down the listener.
func serveSSE[T any](c *gin.Context, ch <-chan T, render func(T) (string, interface{})) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return
			}
			name, payload := render(ev)
			if err := writeSSEEvent(c, name, payload); err != nil {
				return
			}
		case <-heartbeat.C:
			if _, err := fmt.Fprint(c.Writer, ": ping\n\n"); err != nil {
				return
			}
			c.Writer.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}

func writeSSEEvent(c *gin.Context, name string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", name, data); err != nil {
		return err
	}
	c.Writer.Flush()
	return nil
}

func mapStreamAccessError(c *gin.Context, err error) {
	switch {
	case err == nil:
		return
	case errors.Is(err, core.ErrCaseNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: core.ErrCaseNotFound.Error()})
	case errors.Is(err, core.ErrForbiddenAccess):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: core.ErrForbiddenAccess.Error()})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
	}
}
