package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/brainiacs/portal/internal/handler"
	"github.com/brainiacs/portal/internal/middleware"
	"github.com/brainiacs/portal/internal/model"
)

// RegisterRoutes registers routes that need no authentication.  Currently
// it exposes only the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the /auth routes.  Signup and login are public and
// pass through limit; me and logout require the gate.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, gate, limit echo.MiddlewareFunc) {
	g := e.Group("/auth")
	g.POST("/signup", a.Signup, limit)
	g.POST("/login", a.Login, limit)

	// Any authenticated role may read itself or log out.
	g.GET("/me", a.Me, gate, middleware.RequireRole())
	g.POST("/logout", a.Logout, gate, middleware.RequireRole())
}

// RegisterProfile registers the profile routes for students and teachers.
// Admins have no profile and get 403.
func RegisterProfile(e *echo.Echo, u *handler.UserHandler, gate echo.MiddlewareFunc) {
	g := e.Group("/profile", gate)
	g.GET("", u.Profile, middleware.RequireRole(model.RoleStudent, model.RoleTeacher))
	g.PUT("/student", u.UpdateStudentProfile, middleware.RequireRole(model.RoleStudent))
	g.PUT("/teacher", u.UpdateTeacherProfile, middleware.RequireRole(model.RoleTeacher))
}
