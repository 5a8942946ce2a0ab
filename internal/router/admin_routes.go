package router

import (
	"github.com/labstack/echo/v4"

	"github.com/brainiacs/portal/internal/handler"
	"github.com/brainiacs/portal/internal/middleware"
	"github.com/brainiacs/portal/internal/model"
)

// RegisterAdmin registers user lookup (admin only) and user statistics
// (teachers and admins).
func RegisterAdmin(e *echo.Echo, u *handler.UserHandler, gate echo.MiddlewareFunc) {
	e.GET("/users/:id", u.GetUser, gate, middleware.RequireRole(model.RoleAdmin))
	e.GET("/statistics/users", u.UserStatistics, gate, middleware.RequireRole(model.RoleTeacher, model.RoleAdmin))
}
