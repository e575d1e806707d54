package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ppiankov/factcheck/internal/model"
)

const (
	errNoText   = "No text provided"
	errTooLarge = "Request body too large"
)

func (s *Server) attachRoutes() {
	s.engine.GET("/", s.home)
	s.engine.GET("/health", s.health)
	s.engine.POST("/fact-check", s.factCheck)
}

func (s *Server) home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   Banner,
		"endpoints": []string{"/fact-check", "/health"},
	})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, model.HealthStatus{
		Status:    "healthy",
		Timestamp: unixSeconds(s.now()),
	})
}

func (s *Server) factCheck(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.config.MaxBodyBytes)

	var req struct {
		Text *string `json:"text"`
	}
	err := c.ShouldBindJSON(&req)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": errTooLarge})
		return
	}
	if err != nil || req.Text == nil || strings.TrimSpace(*req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errNoText})
		return
	}

	resp, err := s.checker.Check(c.Request.Context(), *req.Text)
	if err != nil {
		s.logger.Error("fact-check failed",
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}
