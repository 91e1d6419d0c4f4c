package reviews

import (
	"github.com/austinfarr/read-that/pkg/auth"
	"github.com/austinfarr/read-that/pkg/social"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroups registers the review routes on reviewsGroup, the
// per-book review listing on booksGroup, and the per-user review listing on
// usersGroup.
func RegisterRoutesWithGroups(reviewsGroup, booksGroup, usersGroup *echo.Group, db *bun.DB, socialService *social.Service, authMiddleware *auth.Middleware) *Service {
	reviewsService := NewService(db)

	h := &handler{
		reviewsService: reviewsService,
		socialService:  socialService,
	}

	reviewsGroup.POST("", h.submit, authMiddleware.Authenticate)
	reviewsGroup.DELETE("/:id", h.delete, authMiddleware.Authenticate)

	booksGroup.GET("/:bookId/reviews", h.listForBook)

	usersGroup.GET("/:id/reviews", h.listForUser)

	return reviewsService
}
