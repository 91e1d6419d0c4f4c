package users

import (
	"net/http"
	"strconv"

	"github.com/austinfarr/read-that/pkg/auth"
	"github.com/austinfarr/read-that/pkg/errcodes"
	"github.com/austinfarr/read-that/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	usersService *Service
}

// retrieve returns a user's public profile with social counts.
func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("User")
	}

	profile, err := h.usersService.RetrieveProfile(ctx, RetrieveUserOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, profile))
}

// search finds users by username prefix.
func (h *handler) search(c echo.Context) error {
	ctx := c.Request().Context()

	params := SearchUsersQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	users, err := h.usersService.Search(ctx, SearchUsersOptions{
		Query: params.Query,
		Limit: &params.Limit,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Users []*models.User `json:"users"`
	}{users}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

// updateProfile updates the caller's own bio and avatar.
func (h *handler) updateProfile(c echo.Context) error {
	ctx := c.Request().Context()

	user := auth.UserFromEchoContext(c)
	if user == nil {
		return errcodes.Unauthorized("Authentication required")
	}

	params := UpdateProfilePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	// Keep track of what's been changed.
	opts := UpdateProfileOptions{Columns: []string{}}

	if params.Bio != nil && (user.Bio == nil || *params.Bio != *user.Bio) {
		user.Bio = params.Bio
		opts.Columns = append(opts.Columns, "bio")
	}

	if params.AvatarURL != nil && (user.AvatarURL == nil || *params.AvatarURL != *user.AvatarURL) {
		user.AvatarURL = params.AvatarURL
		opts.Columns = append(opts.Columns, "avatar_url")
	}

	if len(opts.Columns) > 0 {
		if err := h.usersService.UpdateProfile(ctx, user, opts); err != nil {
			return errors.WithStack(err)
		}
	}

	return errors.WithStack(c.JSON(http.StatusOK, user))
}
