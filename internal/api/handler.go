// Package api exposes the feedback store over HTTP with gin.
package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"portfolio-feedback/internal/feedback"
)

const notFoundMessage = "Feedback not found"

// Handler serves the /api/feedback resource and the health check.
type Handler struct {
	svc *feedback.Service
	now func() time.Time
}

func NewHandler(svc *feedback.Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

// Register mounts the feedback routes on r.
func (h *Handler) Register(r gin.IRoutes) {
	r.POST("/api/feedback", h.CreateFeedback)
	r.GET("/api/feedback", h.ListFeedback)
	r.GET("/api/feedback/:id", h.GetFeedback)
	r.PATCH("/api/feedback/:id", h.UpdateFeedback)
	r.GET("/health", h.Health)
}

func (h *Handler) CreateFeedback(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	fields, err := feedback.Fields(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	rec, err := h.svc.Create(fields)
	if err != nil {
		var verr *feedback.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
		log.Printf("❌ Error saving feedback: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"id":      rec.ID,
		"message": "Feedback received and saved locally",
	})
}

func (h *Handler) ListFeedback(c *gin.Context) {
	records, err := h.svc.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *Handler) GetFeedback(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	rec, err := h.svc.Get(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) UpdateFeedback(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	patch, err := feedback.Fields(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := h.svc.Update(id, patch)
	if err != nil {
		writeError(c, err)
		return
	}
	log.Printf("📝 Feedback #%d updated (status: %s)", rec.ID, rec.Status)
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "running",
		"timestamp": feedback.ISOTime(h.now()),
	})
}

// parseID reads the :id path parameter. Anything that is not an integer
// cannot match a stored record, so it is answered as not found.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMessage})
		return 0, false
	}
	return id, true
}

func writeError(c *gin.Context, err error) {
	var verr *feedback.ValidationError
	switch {
	case errors.Is(err, feedback.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMessage})
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("❌ Feedback request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
