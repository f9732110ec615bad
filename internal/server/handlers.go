package server

import (
	"errors"
	"net/http"

	"github.com/aretw0/introspection"
	"github.com/gin-gonic/gin"

	"github.com/aretw0/highlights/pkg/core"
)

// HealthResponse is the response body for GET /health.
// State is filled when the note service exposes its internals.
type HealthResponse struct {
	Status    string `json:"status"`
	Component string `json:"component,omitempty"`
	State     any    `json:"state,omitempty"`
}

// NotesResponse is the response body for GET /api/v1/notes.
type NotesResponse struct {
	Count int      `json:"count"`
	Notes []string `json:"notes"`
}

func (s *Server) handleHealth(c *gin.Context) {
	resp := HealthResponse{Status: "ok"}
	if comp, ok := s.svc.(introspection.Component); ok {
		resp.Component = comp.ComponentType()
	}
	if intro, ok := s.svc.(introspection.Introspectable); ok {
		resp.State = intro.State()
	}
	c.JSON(http.StatusOK, resp)
}

// handleCapture merges the posted capture into today's note and answers with a
// plain confirmation string.
func (s *Server) handleCapture(c *gin.Context) {
	var req core.Capture
	if err := c.ShouldBindJSON(&req); err != nil {
		s.metrics.captures.WithLabelValues(outcomeInvalid).Inc()
		c.String(http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	res, err := s.svc.Capture(c.Request.Context(), req)
	switch {
	case errors.Is(err, core.ErrEmptyText), errors.Is(err, core.ErrMissingURL):
		s.metrics.captures.WithLabelValues(outcomeInvalid).Inc()
		c.String(http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.metrics.captures.WithLabelValues(outcomeError).Inc()
		s.logger.Error("capture failed", "error", err, "request_id", c.GetString(requestIDKey))
		c.String(http.StatusInternalServerError, "Failed to save text")
		return
	}

	outcome := outcomeAppended
	if res.Created {
		outcome = outcomeCreated
	}
	s.metrics.captures.WithLabelValues(outcome).Inc()
	if res.LinkRecorded {
		s.metrics.links.Inc()
	}

	c.String(http.StatusOK, SavedMessage)
}

func (s *Server) handleListNotes(c *gin.Context) {
	ids, err := s.svc.ListNotes(c.Request.Context(), c.Query("match"))
	if errors.Is(err, core.ErrInvalidPattern) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		s.logger.Error("list notes failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list notes"})
		return
	}
	c.JSON(http.StatusOK, NotesResponse{Count: len(ids), Notes: ids})
}

func (s *Server) handleGetNote(c *gin.Context) {
	id := c.Param("id")
	if err := core.ValidateNoteID(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	note, err := s.svc.GetNote(c.Request.Context(), id)
	switch {
	case errors.Is(err, core.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "note not found"})
		return
	case err != nil:
		s.logger.Error("get note failed", "note", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read note"})
		return
	}

	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(note.Content))
}
