// Package httpapi serves the recommendation and explanation pipeline over REST.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/anatolykoptev/go_finguide/internal/engine"
	"github.com/anatolykoptev/go_finguide/internal/recommend"
	"github.com/gin-gonic/gin"
)

const (
	readTimeout  = 10 * time.Second
	writeTimeout = 90 * time.Second // explanations can take most of the LLM timeout
	idleTimeout  = 120 * time.Second
)

// Recommender builds article and video recommendations.
type Recommender interface {
	Recommend(ctx context.Context, topic string) (recommend.Recommendation, error)
}

// Explainer produces LLM explanations and search-link suggestions.
type Explainer interface {
	Explain(ctx context.Context, topic, detail string) (string, error)
	SuggestResources(ctx context.Context, topic string) (engine.Suggestions, error)
}

// NewRouter wires the REST routes.
func NewRouter(rec Recommender, exp Explainer) *gin.Engine {
	router := gin.New()
	router.Use(recoveryMiddleware())
	router.Use(corsMiddleware())
	router.Use(loggingMiddleware())

	h := &handler{rec: rec, exp: exp}
	router.GET("/", h.health)
	router.GET("/metrics", h.metrics)
	router.POST("/recommend-resources", h.recommendResources)
	router.POST("/generate-explanation", h.generateExplanation)
	router.POST("/suggest-resources", h.suggestResources)
	return router
}

// NewServer returns an http.Server for the router on addr.
func NewServer(addr string, rec Recommender, exp Explainer) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      NewRouter(rec, exp),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
}
