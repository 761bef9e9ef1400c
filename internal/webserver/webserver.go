package webserver

import (
	"fmt"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/vxsahu/crm-system/internal/app"
)

// TokenCookieName is the httpOnly cookie carrying the auth JWT.
const TokenCookieName = "auth-token"

var (
	server   *echo.Echo
	pubGroup *echo.Group
	apiGroup *echo.Group
	appCtx   *app.Application
)

// Init builds the echo server: public auth routes under /api/v1, every
// /api/v1/crm route behind the JWT cookie gate.
func Init(application *app.Application) {
	appCtx = application
	server = echo.New()
	server.HideBanner = true
	server.HidePort = true
	server.JSONSerializer = jsonSerializer{}

	server.Use(middleware.Recover())
	server.Use(requestLogger())
	server.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("app", appCtx)
			return next(c)
		}
	})

	pubGroup = server.Group("/api/v1")
	apiGroup = server.Group("/api/v1/crm", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(appCtx.Config().Web.Secret),
		TokenLookup: "cookie:" + TokenCookieName + ",header:Authorization:Bearer ",
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusUnauthorized, map[string]interface{}{
				"code":    "UNAUTHORIZED",
				"message": "Authentication required",
			})
		},
	}))
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			zap.L().Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Error(v.Error),
			)
			return nil
		},
	})
}

// Listen starts the HTTP listener and blocks.
func Listen() error {
	cfg := appCtx.Config().Web
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	zap.S().Infof("starting web server on %s", addr)
	return server.Start(addr)
}

// Server exposes the underlying echo instance (used in tests).
func Server() *echo.Echo {
	return server
}

// PubGET registers an unauthenticated GET route.
func PubGET(path string, h echo.HandlerFunc) {
	pubGroup.GET(path, h)
}

// PubPOST registers an unauthenticated POST route.
func PubPOST(path string, h echo.HandlerFunc) {
	pubGroup.POST(path, h)
}

// ApiGET registers an authenticated GET route under /crm.
func ApiGET(path string, h echo.HandlerFunc) {
	apiGroup.GET(path, h)
}

// ApiPOST registers an authenticated POST route under /crm.
func ApiPOST(path string, h echo.HandlerFunc) {
	apiGroup.POST(path, h)
}

// ApiPUT registers an authenticated PUT route under /crm.
func ApiPUT(path string, h echo.HandlerFunc) {
	apiGroup.PUT(path, h)
}

// ApiPATCH registers an authenticated PATCH route under /crm.
func ApiPATCH(path string, h echo.HandlerFunc) {
	apiGroup.PATCH(path, h)
}

// ApiDELETE registers an authenticated DELETE route under /crm.
func ApiDELETE(path string, h echo.HandlerFunc) {
	apiGroup.DELETE(path, h)
}
