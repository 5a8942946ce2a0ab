package middleware

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/brainiacs/portal/internal/model"
)

// RequireRole enforces that the authenticated user has one of roles.  It
// must run after JWTAuth: without an attached identity the request gets
// 401.  An empty role list admits any authenticated user.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
    allowed := make(map[model.Role]bool, len(roles))
    for _, r := range roles {
        allowed[r] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            id, ok := IdentityFrom(c)
            if !ok {
                return unauthorized(c)
            }
            if len(allowed) > 0 && !allowed[id.Role] {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
            }
            return next(c)
        }
    }
}
