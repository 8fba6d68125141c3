package pubsite

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/eringen/pubsite/filters"
)

const metricsPath = "/metrics"

func (a *App) setupMiddleware(e *echo.Echo, reg prom.Registerer) {
	e.HTTPErrorHandler = a.httpErrorHandler

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			a.logger.LogAttrs(c.Request().Context(), level, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			)
			return nil
		},
	}))

	e.Use(middleware.Recover())

	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "pubsite",
		Subsystem:  "http",
		Registerer: reg,
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == metricsPath
		},
	}))

	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			return isMedia(c.Request().URL.Path)
		},
	}))

	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' https: data:; font-src 'self'; connect-src 'self'; worker-src 'self'; media-src 'self' data:",
	}))

	e.Use(a.serviceWorkerMiddleware)
	e.Use(cacheControlMiddleware)
}

// serviceWorkerMiddleware lets the worker served at <prefix>sw.js control
// the whole prefix.
func (a *App) serviceWorkerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	prefix := filters.NormalizePrefix(a.Config.PathPrefix)
	return func(c echo.Context) error {
		if c.Request().URL.Path == prefix+"sw.js" {
			c.Response().Header().Set("Service-Worker-Allowed", prefix)
		}
		return next(c)
	}
}

func cacheControlMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		p := c.Request().URL.Path
		switch {
		case strings.HasSuffix(p, "/sw.js"), strings.HasSuffix(p, "/register-sw.js"),
			strings.HasSuffix(p, ".webmanifest"), p == metricsPath:
			c.Response().Header().Set("Cache-Control", "no-cache")
		case strings.Contains(p, "/assets/"):
			c.Response().Header().Set("Cache-Control", "public, max-age=86400")
		case strings.HasSuffix(p, ".xml") || strings.HasSuffix(p, ".txt"):
			c.Response().Header().Set("Cache-Control", "public, max-age=3600")
		default:
			c.Response().Header().Set("Cache-Control", "no-cache")
		}
		return next(c)
	}
}

var mediaExts = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".mp4", ".webm", ".pdf", ".woff2"}

func isMedia(p string) bool {
	p = strings.ToLower(p)
	for _, ext := range mediaExts {
		if strings.HasSuffix(p, ext) {
			return true
		}
	}
	return false
}
