package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/anatolykoptev/go_finguide/internal/engine"
	"github.com/anatolykoptev/go_finguide/internal/toolutil"
	"github.com/gin-gonic/gin"
)

const errTopicRequired = "Topic is required"

type handler struct {
	rec Recommender
	exp Explainer
}

type topicRequest struct {
	Topic   string `json:"topic"`
	Context string `json:"context"`
}

// bindTopic decodes the body and validates the topic. It writes the 400
// response itself and reports false when the request is unusable.
func bindTopic(c *gin.Context) (topicRequest, bool) {
	var req topicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errTopicRequired})
		return req, false
	}
	topic, err := toolutil.RequireTopic(req.Topic)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errTopicRequired})
		return req, false
	}
	req.Topic = topic
	return req, true
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "AI Module is running"})
}

func (h *handler) metrics(c *gin.Context) {
	c.String(http.StatusOK, engine.FormatMetrics())
}

func (h *handler) recommendResources(c *gin.Context) {
	req, ok := bindTopic(c)
	if !ok {
		return
	}
	rec, err := h.rec.Recommend(c.Request.Context(), req.Topic)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resources": rec})
}

func (h *handler) generateExplanation(c *gin.Context) {
	req, ok := bindTopic(c)
	if !ok {
		return
	}
	text, err := h.exp.Explain(c.Request.Context(), req.Topic, req.Context)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"explanation": text})
}

func (h *handler) suggestResources(c *gin.Context) {
	req, ok := bindTopic(c)
	if !ok {
		return
	}
	s, err := h.exp.SuggestResources(c.Request.Context(), req.Topic)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resources": s})
}

// writeError maps pipeline errors to status codes.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	var pe *engine.ParseError
	switch {
	case errors.Is(err, engine.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": errTopicRequired})
		return
	case errors.As(err, &pe):
		status = http.StatusBadGateway
	}
	slog.Error("request failed",
		slog.String("path", c.FullPath()), slog.Int("status", status), slog.Any("error", err))
	c.JSON(status, gin.H{"error": err.Error()})
}
