package library

import (
	"github.com/austinfarr/read-that/pkg/auth"
	"github.com/austinfarr/read-that/pkg/catalog"
	"github.com/austinfarr/read-that/pkg/social"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroups registers the shelf routes on libraryGroup and the
// public per-user shelf route on usersGroup.
func RegisterRoutesWithGroups(libraryGroup, usersGroup *echo.Group, db *bun.DB, catalogClient *catalog.Client, socialService *social.Service, authMiddleware *auth.Middleware) *Service {
	libraryService := NewService(db)

	h := &handler{
		libraryService: libraryService,
		socialService:  socialService,
		catalogClient:  catalogClient,
	}

	libraryGroup.GET("", h.list, authMiddleware.Authenticate)
	libraryGroup.POST("", h.add, authMiddleware.Authenticate)
	libraryGroup.PATCH("/:bookId", h.update, authMiddleware.Authenticate)
	libraryGroup.DELETE("/:bookId", h.delete, authMiddleware.Authenticate)

	usersGroup.GET("/:id/library", h.userLibrary, authMiddleware.AuthenticateOptional)

	return libraryService
}
