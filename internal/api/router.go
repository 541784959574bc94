package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/carlot/inventory-api/docs"
	"github.com/carlot/inventory-api/internal/api/handler"
	"github.com/carlot/inventory-api/internal/api/middleware"
	"github.com/carlot/inventory-api/internal/core/auth"
	"github.com/carlot/inventory-api/internal/core/ports"
)

// Dependencies are the collaborators the router hands to its handlers.
type Dependencies struct {
	Auth     ports.AuthService
	Vehicles ports.VehicleService
	Users    ports.UserService
	Checks   []handler.DependencyCheck
	Logger   zerolog.Logger

	// VehicleReadsPublic opens GET /vehicles and GET /vehicles/:id to
	// anonymous callers.
	VehicleReadsPublic bool
	AllowOrigins       []string
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// Request metrics go to a registry owned by this router so that several
	// routers can live in one process; /metrics serves it with the default one.
	reg := prometheus.NewRegistry()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Logger))
	// The logger sits inside the metrics middleware and renders errors itself,
	// so the recorded status is the one the client saw.
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "inventory",
		Registerer: reg,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.Use(requestLogger(deps.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: deps.AllowOrigins,
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
	}))
	e.Use(middleware.AuthenticateWithConfig(middleware.AuthConfig{
		Gateway: deps.Auth,
		Skipper: skipsAuthentication,
	}))

	// --- Operational endpoints (no auth required) ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{reg, prometheus.DefaultGatherer},
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	health := handler.NewHealthHandler(deps.Checks...)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)

	authenticated := middleware.Require(deps.Auth, auth.TierAuthenticated)
	managerOrAdmin := middleware.Require(deps.Auth, auth.TierManager)
	adminOnly := middleware.Require(deps.Auth, auth.TierAdmin)

	// --- Auth ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/me", authHandler.Me, authenticated)
	e.POST("/auth/change-password", authHandler.ChangePassword, authenticated)

	// --- Vehicles ---
	vehicleHandler := handler.NewVehicleHandler(deps.Vehicles)
	vehicles := e.Group("/vehicles")
	var readGate []echo.MiddlewareFunc
	if !deps.VehicleReadsPublic {
		readGate = append(readGate, authenticated)
	}
	vehicles.GET("", vehicleHandler.List, readGate...)
	vehicles.GET("/:id", vehicleHandler.Get, readGate...)
	vehicles.POST("", vehicleHandler.Create, authenticated)
	vehicles.PUT("/:id", vehicleHandler.Update, authenticated)
	vehicles.DELETE("/:id", vehicleHandler.Delete, authenticated)

	// --- Users ---
	userHandler := handler.NewUserHandler(deps.Users)
	users := e.Group("/users")
	users.GET("", userHandler.List, managerOrAdmin)
	users.GET("/:id", userHandler.Get, managerOrAdmin)
	users.POST("", userHandler.Create, adminOnly)
	users.PUT("/:id", userHandler.Update, adminOnly)
	users.DELETE("/:id", userHandler.Delete, adminOnly)

	return e
}

// tokenFreeRoutes are served without looking at the Authorization header.
var tokenFreeRoutes = map[string]bool{
	"/auth/login":   true,
	"/health":       true,
	"/health/ready": true,
	"/metrics":      true,
	"/swagger/*":    true,
}

func skipsAuthentication(c echo.Context) bool {
	return tokenFreeRoutes[c.Path()]
}

// requestLogger writes one zerolog event per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			event := log.Info()
			switch {
			case v.Status >= http.StatusInternalServerError:
				event = log.Error().Err(v.Error)
			case v.Status >= http.StatusBadRequest:
				event = log.Warn()
			}
			event.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("remote_ip", v.RemoteIP).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
