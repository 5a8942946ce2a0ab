package handler

import (
    "context"
    "errors"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/sirupsen/logrus"

    "github.com/brainiacs/portal/internal/service"
)

// requestTimeout bounds store calls made by a single request.
const requestTimeout = 5 * time.Second

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
    return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// respondError is the one place where service errors become HTTP
// responses.  Causes of internal errors are logged and never sent.
func respondError(c echo.Context, log *logrus.Logger, err error) error {
    var se *service.Error
    if !errors.As(err, &se) {
        se = &service.Error{Kind: service.KindInternal, Reason: "unclassified", Err: err}
    }

    switch se.Kind {
    case service.KindValidation:
        body := echo.Map{"error": "validation failed"}
        if len(se.Fields) > 0 {
            body["fields"] = se.Fields
        }
        return c.JSON(http.StatusBadRequest, body)
    case service.KindAuthentication:
        if errors.Is(err, service.ErrInvalidCredentials) {
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid credentials"})
        }
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    case service.KindAuthorization:
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    case service.KindConflict:
        return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
    case service.KindNotFound:
        return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
    }

    if log != nil {
        log.WithError(err).WithFields(logrus.Fields{
            "method": c.Request().Method,
            "path":   c.Path(),
        }).Error("request failed")
    }
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// badBody is returned when the request body cannot be decoded.
func badBody(c echo.Context) error {
    return c.JSON(http.StatusBadRequest, echo.Map{
        "error":  "validation failed",
        "fields": map[string]string{"body": "must be a valid JSON object"},
    })
}
