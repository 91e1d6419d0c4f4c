package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/austinfarr/read-that/pkg/auth"
	"github.com/austinfarr/read-that/pkg/binder"
	"github.com/austinfarr/read-that/pkg/catalog"
	"github.com/austinfarr/read-that/pkg/config"
	"github.com/austinfarr/read-that/pkg/errcodes"
	"github.com/austinfarr/read-that/pkg/library"
	"github.com/austinfarr/read-that/pkg/reviews"
	"github.com/austinfarr/read-that/pkg/social"
	"github.com/austinfarr/read-that/pkg/users"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/uptrace/bun"
)

func New(cfg *config.Config, db *bun.DB) (*http.Server, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowCredentials: true,
	}))

	health.RegisterRoutes(e)

	// Register auth routes and get the auth service
	authService := auth.RegisterRoutes(e, db, cfg.JWTSecret)
	authMiddleware := auth.NewMiddleware(authService)

	catalogClient := catalog.NewClient(cfg)

	usersGroup := e.Group("/users")
	users.RegisterRoutesWithGroup(usersGroup, db, authMiddleware)

	feedGroup := e.Group("/feed")
	socialService := social.RegisterRoutesWithGroups(feedGroup, usersGroup, db, authMiddleware)

	libraryGroup := e.Group("/library")
	library.RegisterRoutesWithGroups(libraryGroup, usersGroup, db, catalogClient, socialService, authMiddleware)

	reviewsGroup := e.Group("/reviews")
	booksGroup := e.Group("/books")
	reviews.RegisterRoutesWithGroups(reviewsGroup, booksGroup, usersGroup, db, socialService, authMiddleware)

	catalogGroup := e.Group("/catalog")
	catalog.RegisterRoutesWithGroup(catalogGroup, catalogClient, authMiddleware)

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
