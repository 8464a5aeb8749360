// Package httpserver exposes the REST surface: the BMI endpoint, health
// and metrics, and the MCP streamable HTTP transport mounted at /mcp.
package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/lucasreb/healthflow/internal/health"
	"github.com/lucasreb/healthflow/internal/metrics"
)

// Server provides the HTTP endpoints.
type Server struct {
	echo *echo.Echo
	log  *zap.Logger
	addr string
}

// New creates an HTTP server wrapping the given MCP server. The MCP
// streamable transport is served on its default /mcp endpoint.
func New(mcp *mcpserver.MCPServer, log *zap.Logger, addr string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			log.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return err
		}
	})

	s := &Server{echo: e, log: log, addr: addr}

	e.GET("/bmi", s.handleBMI)
	e.GET("/health", s.handleHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.Any("/mcp", echo.WrapHandler(mcpserver.NewStreamableHTTPServer(mcp)))

	return s
}

// ErrorResponse is the body of a 4xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// handleBMI computes the body mass index from weight_kg and height_m
// query parameters. Invalid input yields a 400 naming the offending
// parameter.
func (s *Server) handleBMI(c echo.Context) error {
	weight, err := floatParam(c, health.ParamWeight)
	if err != nil {
		metrics.BMIRequests.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	height, err := floatParam(c, health.ParamHeight)
	if err != nil {
		metrics.BMIRequests.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	assessment, err := health.Assess(weight, height)
	if err != nil {
		metrics.BMIRequests.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	metrics.BMIRequests.WithLabelValues(metrics.OutcomeOK).Inc()
	return c.JSON(http.StatusOK, assessment)
}

func floatParam(c echo.Context, name string) (float64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, fmt.Errorf("missing query parameter %q", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("query parameter %q must be a number", name)
	}
	return v, nil
}

// Start runs the server until ListenAndServe fails or Shutdown is
// called. http.ErrServerClosed is normal shutdown.
func (s *Server) Start() error {
	s.log.Info("starting http server", zap.String("addr", s.addr))
	return s.echo.Start(s.addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}

// Handler exposes the routing tree for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}
