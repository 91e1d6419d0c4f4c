package social

import (
	"github.com/austinfarr/read-that/pkg/auth"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroups registers the feed routes on feedGroup and the
// follow-graph routes on usersGroup. It returns the social service so other
// feature packages can record activity events.
func RegisterRoutesWithGroups(feedGroup, usersGroup *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) *Service {
	socialService := NewService(db)

	h := &handler{socialService: socialService}

	feedGroup.GET("", h.feed, authMiddleware.Authenticate)

	usersGroup.POST("/:id/follow", h.follow, authMiddleware.Authenticate)
	usersGroup.DELETE("/:id/follow", h.unfollow, authMiddleware.Authenticate)
	usersGroup.GET("/:id/followers", h.followers)
	usersGroup.GET("/:id/following", h.following)

	return socialService
}
