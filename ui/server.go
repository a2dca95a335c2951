package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tabula/app"
	"tabula/internal/errors"
)

// Server exposes the ingestion pipeline over HTTP: upload a document, adjust
// structural assumptions and per-column policies against a live preview,
// then confirm to materialize the final dataset.
type Server struct {
	router  *gin.Engine
	service *app.Service
}

// NewServer creates the HTTP server around an ingestion service.
func NewServer(service *app.Service) *Server {
	s := &Server{
		router:  gin.Default(),
		service: service,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")

	api.POST("/sessions", s.handleOpenSession)
	api.POST("/sessions/:id/preview", s.handlePreview)
	api.POST("/sessions/:id/confirm", s.handleConfirm)
	api.DELETE("/sessions/:id", s.handleCloseSession)

	api.GET("/datasets/:id", s.handleDataset)
	api.GET("/datasets/:id/report", s.handleDatasetReport)
}

// Start runs the HTTP server on the given address.
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// respondError maps domain errors onto HTTP statuses and a structured body.
func respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)

	status := http.StatusInternalServerError
	switch code {
	case errors.CodeOutOfRange, errors.CodeInvalidInput, errors.CodeParseError, errors.CodeConfigInvalid:
		status = http.StatusBadRequest
	case errors.CodeLimitExceeded:
		status = http.StatusUnprocessableEntity
	case errors.CodeNotFound:
		status = http.StatusNotFound
	}

	body := gin.H{"error": err.Error(), "code": code}
	if violations := limitViolations(err); violations != nil {
		body["violations"] = violations
	}
	c.JSON(status, body)
}
