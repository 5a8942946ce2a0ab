package middleware // middleware provides the auth gate, role checks and rate limiting

import (
    "context"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"
    "github.com/sirupsen/logrus"

    "github.com/brainiacs/portal/internal/service"
)

// Authenticator resolves a raw bearer token to the caller.  It is
// implemented by *service.AuthService.
type Authenticator interface {
    Authenticate(ctx context.Context, raw string) (service.Principal, error)
}

// JWTAuth returns an Echo middleware that requires a valid Bearer access
// token.  On success the resolved principal is stored in the context; see
// IdentityFrom and PrincipalFrom.  The keys "user_id" and "role" are also
// set as plain strings.
//
// Every authentication failure produces the same 401 body so callers cannot
// tell a missing token from an expired one or a deleted user.
func JWTAuth(auth Authenticator, log *logrus.Logger) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
            if !ok {
                return unauthorized(c)
            }

            p, err := auth.Authenticate(c.Request().Context(), raw)
            if err != nil {
                if service.KindOf(err) == service.KindAuthentication {
                    return unauthorized(c)
                }
                if log != nil {
                    log.WithError(err).WithField("path", c.Path()).Error("authenticate request")
                }
                return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
            }

            setPrincipal(c, p)
            return next(c)
        }
    }
}

// bearerToken extracts the token from an Authorization header value.  The
// scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
    scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
    if !found || !strings.EqualFold(scheme, "Bearer") {
        return "", false
    }
    token = strings.TrimSpace(token)
    return token, token != ""
}

func unauthorized(c echo.Context) error {
    return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
}
