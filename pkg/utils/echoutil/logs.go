package echoutil

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// LogHandlerFunc logs each request and its response with the time taken.
func LogHandlerFunc(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		meth, path := req.Method, req.URL.Path
		begin := time.Now()
		c.Logger().Infof("< request @[%s] %s %s from %s", begin.Format(time.RFC3339), meth, path, c.RealIP())

		err := next(c)

		status := c.Response().Status
		if he, ok := err.(*echo.HTTPError); ok {
			status = he.Code
		}
		c.Logger().Infof(
			"> response status = %d (for %s %s) in %v / error = %v",
			status, meth, path, time.Since(begin), err,
		)
		return err
	}
}

// ParseLevel converts a level name into gommon's level.
//
// Unknown names fall back to WARN and ok becomes false.
func ParseLevel(name string) (lvl log.Lvl, ok bool) {
	switch strings.ToLower(name) {
	case "debug":
		return log.DEBUG, true
	case "info":
		return log.INFO, true
	case "", "warn", "warning":
		return log.WARN, true
	case "error":
		return log.ERROR, true
	case "off":
		return log.OFF, true
	default:
		return log.WARN, false
	}
}

// SetLevel sets the log level of e by name.
func SetLevel(e *echo.Echo, name string) {
	lvl, ok := ParseLevel(name)
	e.Logger.SetLevel(lvl)
	if !ok {
		e.Logger.Warnf("unknown loglevel: %s . fall-backed to warn", name)
	}
}
