package webserver

import (
	"fmt"
	"net/http"
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d085/storefront/config"
)

// AppProvider is what the web server needs from the application aggregate.
type AppProvider interface {
	DB() *gorm.DB
	Config() *config.AppConfig
}

// TokenCookieName is the cookie carrying the admin session JWT.
const TokenCookieName = "storefront_token"

type WebServer struct {
	app  AppProvider
	root *echo.Echo
	api  *echo.Group
	pub  *echo.Group
}

var server *WebServer

// Init builds the echo server: panic recovery, request logging through the
// global zap logger, a DB handle injected per request, a public group and a
// JWT-protected admin API group.
func Init(app AppProvider) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(requestLogger())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("db", app.DB())
			return next(c)
		}
	})

	jwtConfig := echojwt.Config{
		SigningKey:  []byte(app.Config().Web.Secret),
		TokenLookup: fmt.Sprintf("cookie:%s,header:Authorization:Bearer ", TokenCookieName),
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusUnauthorized, map[string]interface{}{
				"code":    "UNAUTHORIZED",
				"message": "A valid session is required",
			})
		},
	}

	server = &WebServer{
		app:  app,
		root: e,
		pub:  e.Group("/api"),
		api:  e.Group("/admin/api", echojwt.WithConfig(jwtConfig)),
	}
}

func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			zap.L().Debug("http request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)))
			return err
		}
	}
}

// Get returns the running server instance.
func Get() *WebServer {
	return server
}

// AppConfig returns the application configuration backing the server.
func AppConfig() *config.AppConfig {
	return server.app.Config()
}

// Listen blocks serving HTTP on the configured address.
func Listen() error {
	cfg := server.app.Config()
	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	zap.S().Infof("web server listening on %s", addr)
	return server.root.Start(addr)
}

// Admin API routes, JWT-protected.

func ApiGET(path string, h echo.HandlerFunc)    { server.api.GET(path, h) }
func ApiPOST(path string, h echo.HandlerFunc)   { server.api.POST(path, h) }
func ApiPUT(path string, h echo.HandlerFunc)    { server.api.PUT(path, h) }
func ApiDELETE(path string, h echo.HandlerFunc) { server.api.DELETE(path, h) }

// Public storefront routes.

func PubGET(path string, h echo.HandlerFunc)    { server.pub.GET(path, h) }
func PubPOST(path string, h echo.HandlerFunc)   { server.pub.POST(path, h) }
func PubPUT(path string, h echo.HandlerFunc)    { server.pub.PUT(path, h) }
func PubDELETE(path string, h echo.HandlerFunc) { server.pub.DELETE(path, h) }
