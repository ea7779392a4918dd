package httpapi

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	classifier "github.com/FrenchMajesty/zeroshot-classifier"
)

// Setup creates and configures the Gin router
func Setup(pipeline *classifier.Pipeline, store classifier.SessionStore, cookie SessionCookie, logger *zap.Logger) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(RequestID())
	router.Use(Logger(logger))
	router.Use(Recovery(logger))
	router.Use(CORS())

	h := NewHandler(pipeline, logger)

	router.GET("/health", h.Health)

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/form", h.Form)
		v1.POST("/classify", h.Classify)

		sessions := v1.Group("/session")
		sessions.Use(Session(store, cookie, logger))
		{
			sessions.POST("/submit", h.Submit)
			sessions.GET("/results", h.Results)
			sessions.GET("/results.csv", h.ResultsCSV)
		}
	}

	return router
}
