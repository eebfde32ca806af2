package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"github.com/johnquangdev/memory-care/pkg/config"
)

// Pinger is a dependency the health check probes
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Router holds all handlers
type Router struct {
	cfg              *config.Config
	logger           *zap.Logger
	speechHandler    *Speech
	recordingHandler *Recording
	webhookHandler   *WebhookHandler
	authMiddleware   echo.MiddlewareFunc
	dependencies     map[string]Pinger
}

// NewRouter creates a new router with all handlers
func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	speechHandler *Speech,
	recordingHandler *Recording,
	webhookHandler *WebhookHandler,
	authMiddleware echo.MiddlewareFunc,
	dependencies map[string]Pinger,
) *Router {
	return &Router{
		cfg:              cfg,
		logger:           logger,
		speechHandler:    speechHandler,
		recordingHandler: recordingHandler,
		webhookHandler:   webhookHandler,
		authMiddleware:   authMiddleware,
		dependencies:     dependencies,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.HTTPErrorHandler = HTTPErrorHandler(rt.logger)

	e.GET("/health", rt.healthCheck)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/v1")

	rt.setupSpeechRoutes(v1)
	rt.setupRecordingRoutes(v1)
	rt.setupWebhookRoutes(v1)
}

// setupSpeechRoutes configures the stateless calculator and the dashboard
func (rt *Router) setupSpeechRoutes(g *echo.Group) {
	speechGroup := g.Group("/speech")
	speechGroup.POST("/metrics", rt.speechHandler.Metrics)
	speechGroup.POST("/summary", rt.speechHandler.Summary)
	speechGroup.POST("/compare", rt.speechHandler.Compare)

	g.GET("/stats/speech", rt.speechHandler.Stats, rt.authMiddleware)
}

// setupRecordingRoutes configures recording routes; all require auth
func (rt *Router) setupRecordingRoutes(g *echo.Group) {
	recordingGroup := g.Group("/recordings", rt.authMiddleware)

	uploadLimit := middleware.BodyLimit(fmt.Sprintf("%dM", rt.maxUploadMB()))
	recordingGroup.POST("", rt.recordingHandler.Upload, uploadLimit)
	recordingGroup.GET("", rt.recordingHandler.List)
	recordingGroup.GET("/:id", rt.recordingHandler.Get)
	recordingGroup.DELETE("/:id", rt.recordingHandler.Delete)
	recordingGroup.PUT("/:id/baseline", rt.recordingHandler.SetBaseline)
	recordingGroup.GET("/:id/report", rt.speechHandler.Report)
	recordingGroup.GET("/:id/fhir", rt.speechHandler.FHIR)
}

// setupWebhookRoutes configures provider callbacks
func (rt *Router) setupWebhookRoutes(g *echo.Group) {
	webhookGroup := g.Group("/webhooks")
	webhookGroup.POST("/assemblyai", rt.webhookHandler.HandleAssemblyAIWebhook)
}

func (rt *Router) maxUploadMB() int64 {
	if rt.cfg != nil && rt.cfg.Server.MaxUploadMB > 0 {
		return rt.cfg.Server.MaxUploadMB
	}
	return 50
}

// healthCheck returns health status of the service and its dependencies
func (rt *Router) healthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	status := "ok"
	checks := make(map[string]string, len(rt.dependencies))
	for name, dep := range rt.dependencies {
		if err := dep.Ping(ctx); err != nil {
			checks[name] = err.Error()
			status = "degraded"
			continue
		}
		checks[name] = "ok"
	}

	environment := ""
	if rt.cfg != nil {
		environment = rt.cfg.Server.Environment
	}

	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, map[string]interface{}{
		"status":       status,
		"environment":  environment,
		"dependencies": checks,
		"time":         time.Now().UTC().Format(time.RFC3339),
	})
}
