// Package server exposes the conversion pipeline over HTTP.
package server

import (
	"net/http"
	"time"

	"github.com/brouwerict/PDF2UBL/internal/convert"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server wraps the gin router and its dependencies.
type Server struct {
	converter *convert.Converter
	logger    *zap.Logger
	router    *gin.Engine
}

// New creates the HTTP server and registers its routes.
func New(converter *convert.Converter, debug bool, logger *zap.Logger) *Server {
	if debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))
	router.Use(corsMiddleware())

	s := &Server{converter: converter, logger: logger, router: router}

	router.GET("/health", s.handleHealth)

	api := router.Group("/api/v1")
	{
		api.POST("/convert", s.handleConvert)
		api.GET("/templates", s.handleListTemplates)
		api.GET("/templates/:id", s.handleGetTemplate)
	}

	return s
}

// Handler returns the HTTP handler for mounting.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "pdf2ubl",
		"time":    time.Now().Format(time.RFC3339),
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		)
	}
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
