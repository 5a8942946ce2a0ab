package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"
    "github.com/sirupsen/logrus"

    "github.com/brainiacs/portal/internal/middleware"
    "github.com/brainiacs/portal/internal/service"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
    Auth *service.AuthService
    Log  *logrus.Logger
}

func NewAuthHandler(auth *service.AuthService, log *logrus.Logger) *AuthHandler {
    return &AuthHandler{Auth: auth, Log: log}
}

type loginReq struct {
    Email    string `json:"email"`
    Password string `json:"password"`
}

// Signup creates a student or teacher account and returns a session.
func (h *AuthHandler) Signup(c echo.Context) error {
    var in service.SignupInput
    if err := c.Bind(&in); err != nil {
        return badBody(c)
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    sess, err := h.Auth.Signup(ctx, in)
    if err != nil {
        return respondError(c, h.Log, err)
    }
    return c.JSON(http.StatusCreated, toSessionView(sess))
}

// Login exchanges credentials for a session.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := c.Bind(&req); err != nil {
        return badBody(c)
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    sess, err := h.Auth.Login(ctx, req.Email, req.Password)
    if err != nil {
        return respondError(c, h.Log, err)
    }
    return c.JSON(http.StatusOK, toSessionView(sess))
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c echo.Context) error {
    id, ok := middleware.IdentityFrom(c)
    if !ok {
        return respondError(c, h.Log, service.ErrNoToken)
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    u, err := h.Auth.Me(ctx, id.ID)
    if err != nil {
        return respondError(c, h.Log, err)
    }
    return c.JSON(http.StatusOK, toUserView(u))
}

// Logout revokes the presented token when revocation is enabled.
func (h *AuthHandler) Logout(c echo.Context) error {
    p, ok := middleware.PrincipalFrom(c)
    if !ok {
        return respondError(c, h.Log, service.ErrNoToken)
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Auth.Logout(ctx, p); err != nil {
        return respondError(c, h.Log, err)
    }
    return c.NoContent(http.StatusNoContent)
}
