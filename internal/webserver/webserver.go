package webserver

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/baliboard/baliboard/internal/app"
)

// ContextKeyApp is the echo context key holding the application container
const ContextKeyApp = "baliboard_app"

type WebServer struct {
	root        *echo.Echo
	api         *echo.Group
	application *app.Application
}

var server *WebServer

// Init builds the package level web server bound to the application
func Init(application *app.Application) *WebServer {
	server = NewWebServer(application)
	return server
}

func NewWebServer(application *app.Application) *WebServer {
	s := &WebServer{application: application}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = &JsoniterSerializer{}
	e.Validator = NewPayloadValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(ZapLogger())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(ContextKeyApp, application)
			return next(c)
		}
	})

	e.POST("/auth/login", s.login)

	api := e.Group("/api/v1")
	api.Use(s.jwtMiddleware())
	api.Use(s.auditMiddleware())
	s.root = e
	s.api = api
	return s
}

// Engine exposes the underlying echo instance, used by tests
func (s *WebServer) Engine() *echo.Echo {
	return s.root
}

func (s *WebServer) Start() error {
	cfg := s.application.Config().Web
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	zap.S().Infof("starting web server on %s", addr)
	return s.root.Start(addr)
}

func (s *WebServer) Shutdown() {
	_ = s.root.Close()
}

// GetApp fetches the application container from the request context
func GetApp(c echo.Context) *app.Application {
	return c.Get(ContextKeyApp).(*app.Application)
}

// Route registration helpers used by the admin api package

func ApiGET(path string, h echo.HandlerFunc) {
	server.api.GET(path, h)
}

func ApiPOST(path string, h echo.HandlerFunc) {
	server.api.POST(path, h)
}

func ApiPUT(path string, h echo.HandlerFunc) {
	server.api.PUT(path, h)
}

func ApiDELETE(path string, h echo.HandlerFunc) {
	server.api.DELETE(path, h)
}

// ZapLogger logs every request through the global zap logger
func ZapLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger := zap.L()
			fields := []zap.Field{
				zap.String("request_id", v.RequestID),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.String("remote_ip", v.RemoteIP),
				zap.Duration("latency", v.Latency),
			}
			if v.Status >= http.StatusInternalServerError {
				logger.Error("http request", fields...)
			} else {
				logger.Info("http request", fields...)
			}
			return nil
		},
	})
}
