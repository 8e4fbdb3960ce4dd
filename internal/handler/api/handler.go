package api

import (
	"github.com/labstack/echo/v4"

	"FundCorr/internal/middleware"
	"FundCorr/internal/usecase"
	"FundCorr/pkg/logger"
)

// Handler exposes the correlation API over HTTP.
type Handler struct {
	correlation *usecase.CorrelationUseCase
	hub         *middleware.ProgressHub
	log         *logger.Logger
	maxFunds    int
}

// HandlerOption configures Handler.
type HandlerOption func(*Handler)

// WithMaxFunds caps the number of identifiers per correlation request.
func WithMaxFunds(n int) HandlerOption {
	return func(h *Handler) {
		if n > 0 {
			h.maxFunds = n
		}
	}
}

// NewHandler creates the API handler.
func NewHandler(correlation *usecase.CorrelationUseCase, hub *middleware.ProgressHub, log *logger.Logger, opts ...HandlerOption) *Handler {
	h := &Handler{
		correlation: correlation,
		hub:         hub,
		log:         log,
		maxFunds:    10,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes wires the API routes.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.handleHealth)

	g := e.Group("/api")
	g.POST("/correlation", h.handleCorrelation)
	g.GET("/funds/:cnpj/returns", h.handleFundReturns)

	e.GET("/ws/progress", h.handleProgress)
}
