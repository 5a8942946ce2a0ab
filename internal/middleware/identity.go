package middleware

import (
    "github.com/labstack/echo/v4"

    "github.com/brainiacs/portal/internal/model"
    "github.com/brainiacs/portal/internal/service"
)

// Context keys written by JWTAuth.
const (
    keyPrincipal = "principal"
    keyIdentity  = "identity"
    keyUserID    = "user_id"
    keyRole      = "role"
)

func setPrincipal(c echo.Context, p service.Principal) {
    c.Set(keyPrincipal, p)
    c.Set(keyIdentity, p.Identity)
    c.Set(keyUserID, p.ID)
    c.Set(keyRole, string(p.Role))
}

// IdentityFrom returns the identity attached by JWTAuth.
func IdentityFrom(c echo.Context) (model.Identity, bool) {
    id, ok := c.Get(keyIdentity).(model.Identity)
    return id, ok && id.ID != ""
}

// PrincipalFrom returns the principal attached by JWTAuth.
func PrincipalFrom(c echo.Context) (service.Principal, bool) {
    p, ok := c.Get(keyPrincipal).(service.Principal)
    return p, ok && p.ID != ""
}

// userID returns the authenticated user id, or "anon".
func userID(c echo.Context) string {
    if s, ok := c.Get(keyUserID).(string); ok && s != "" {
        return s
    }
    return "anon"
}
