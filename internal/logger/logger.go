// Package logger configures logrus and adapts it to Echo's request logger.
package logger

import (
	"io"
	"os"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

// New creates the application logger: text output with debug level in
// development, JSON with info level everywhere else.
func New(appName, env string) *logrus.Logger {
	return NewWithOutput(appName, env, os.Stdout)
}

// NewWithOutput is New writing to w.
func NewWithOutput(appName, env string, w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	if env == "development" || env == "dev" {
		log.SetLevel(logrus.DebugLevel)
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetLevel(logrus.InfoLevel)
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	log.WithFields(logrus.Fields{"app": appName, "env": env}).Info("logger initialized")
	return log
}

// RequestLogger logs one line per request.  Only the path is logged, never
// headers or bodies, so tokens and passwords stay out of the logs.
func RequestLogger(log *logrus.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURIPath:   true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			entry := log.WithFields(logrus.Fields{
				"method":     v.Method,
				"path":       v.URIPath,
				"status":     v.Status,
				"latency_ms": v.Latency.Milliseconds(),
				"request_id": v.RequestID,
				"remote_ip":  v.RemoteIP,
			})
			switch {
			case v.Error != nil:
				entry.WithError(v.Error).Error("request failed")
			case v.Status >= 500:
				entry.Error("request")
			default:
				entry.Info("request")
			}
			return nil
		},
	})
}
