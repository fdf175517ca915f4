package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/storefront/commerce-api/docs"
	"github.com/storefront/commerce-api/internal/api/handler"
	"github.com/storefront/commerce-api/internal/api/middleware"
	"github.com/storefront/commerce-api/internal/core/ports"
	"github.com/storefront/commerce-api/internal/infrastructure/http/handlers"
)

// Options carries the HTTP-level settings taken from configuration.
type Options struct {
	AllowedOrigins []string
	CookieSecure   bool
	AuthRateLimit  int
	AuthRateWindow time.Duration
}

// Dependencies is everything the router needs to serve requests.
type Dependencies struct {
	Log           zerolog.Logger
	Auth          ports.AuthService
	Users         ports.UserService
	Products      ports.ProductService
	SellerMetrics ports.SellerMetricsService
	Payments      ports.PaymentService
	// Limiter may be nil, which disables rate limiting.
	Limiter middleware.Limiter
	Health  *handlers.HealthHandler
	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
	Options    Options
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     deps.Options.AllowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		ExposeHeaders:    []string{"Set-Cookie"},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "storefront",
		Registerer: deps.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || strings.HasPrefix(c.Path(), "/swagger")
		},
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Options.CookieSecure)
	userHandler := handler.NewUserHandler(deps.Users)
	productHandler := handler.NewProductHandler(deps.Products)
	metricsHandler := handler.NewMetricsHandler(deps.SellerMetrics)
	paymentHandler := handler.NewPaymentHandler(deps.Payments)

	session := middleware.Auth(deps.Auth)
	seller := middleware.RequireSeller()
	throttle := middleware.RateLimit(deps.Limiter, "auth", deps.Options.AuthRateLimit, deps.Options.AuthRateWindow, deps.Log)

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register, throttle)
	auth.POST("/login", authHandler.Login, throttle)
	auth.POST("/logout", authHandler.Logout, session)

	users := api.Group("/users", session)
	users.GET("/profile", userHandler.GetProfile)
	users.PUT("/profile", userHandler.UpdateProfile)

	products := api.Group("/products")
	products.GET("", productHandler.ListAll)
	products.GET("/search", productHandler.Search)
	products.POST("/add", productHandler.Add, session, seller)
	products.POST("/image", productHandler.UploadImage, session, seller)
	products.GET("/seller", productHandler.ListMine, session, seller)
	products.PUT("/:id", productHandler.Update, session, seller)
	products.DELETE("/:id", productHandler.Delete, session, seller)
	products.POST("/buy/:id", productHandler.Buy, session)

	api.GET("/metrics/seller", metricsHandler.Seller, session, seller)
	api.POST("/payments/create-payment-intent", paymentHandler.CreateIntent)

	// --- Operations ---
	if deps.Health != nil {
		e.GET("/health", deps.Health.Liveness)
		e.GET("/health/ready", deps.Health.Readiness)
	}
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
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
			ev := log.Info()
			switch {
			case v.Status >= http.StatusInternalServerError:
				ev = log.Error().Err(v.Error)
			case v.Status >= http.StatusBadRequest:
				ev = log.Warn()
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
