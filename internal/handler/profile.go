package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"
    "github.com/sirupsen/logrus"

    "github.com/brainiacs/portal/internal/middleware"
    "github.com/brainiacs/portal/internal/service"
)

// UserHandler serves profile, user lookup and statistics endpoints.
type UserHandler struct {
    Users *service.UserService
    Log   *logrus.Logger
}

func NewUserHandler(users *service.UserService, log *logrus.Logger) *UserHandler {
    return &UserHandler{Users: users, Log: log}
}

// Profile returns the caller's own profile.
func (h *UserHandler) Profile(c echo.Context) error {
    id, ok := middleware.IdentityFrom(c)
    if !ok {
        return respondError(c, h.Log, service.ErrNoToken)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    p, err := h.Users.Profile(ctx, id.ID)
    if err != nil {
        return respondError(c, h.Log, err)
    }
    return c.JSON(http.StatusOK, p)
}

// UpdateStudentProfile merges the body into the caller's student profile.
func (h *UserHandler) UpdateStudentProfile(c echo.Context) error {
    id, ok := middleware.IdentityFrom(c)
    if !ok {
        return respondError(c, h.Log, service.ErrNoToken)
    }
    var patch service.StudentProfilePatch
    if err := c.Bind(&patch); err != nil {
        return badBody(c)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    p, err := h.Users.UpdateStudentProfile(ctx, id.ID, patch)
    if err != nil {
        return respondError(c, h.Log, err)
    }
    return c.JSON(http.StatusOK, p)
}

// UpdateTeacherProfile merges the body into the caller's teacher profile.
func (h *UserHandler) UpdateTeacherProfile(c echo.Context) error {
    id, ok := middleware.IdentityFrom(c)
    if !ok {
        return respondError(c, h.Log, service.ErrNoToken)
    }
    var patch service.TeacherProfilePatch
    if err := c.Bind(&patch); err != nil {
        return badBody(c)
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    p, err := h.Users.UpdateTeacherProfile(ctx, id.ID, patch)
    if err != nil {
        return respondError(c, h.Log, err)
    }
    return c.JSON(http.StatusOK, p)
}

// GetUser returns any user by id.  Admin only.
func (h *UserHandler) GetUser(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()

    u, err := h.Users.Get(ctx, c.Param("id"))
    if err != nil {
        return respondError(c, h.Log, err)
    }
    return c.JSON(http.StatusOK, toUserView(u))
}

// UserStatistics returns the number of accounts per role.
func (h *UserHandler) UserStatistics(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()

    counts, err := h.Users.CountUsers(ctx)
    if err != nil {
        return respondError(c, h.Log, err)
    }
    return c.JSON(http.StatusOK, counts)
}
