package users

import (
	"github.com/austinfarr/read-that/pkg/auth"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers the user profile routes on a
// pre-configured group. Search is registered before the parameterized profile
// route so "/search" isn't swallowed by ":id".
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) *Service {
	usersService := NewService(db)

	h := &handler{usersService: usersService}

	g.GET("/search", h.search)
	g.GET("/:id", h.retrieve)
	g.PATCH("/me", h.updateProfile, authMiddleware.Authenticate)

	return usersService
}
