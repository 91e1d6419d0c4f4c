package social

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
	socialService *Service
}

func (h *handler) follow(c echo.Context) error {
	ctx := c.Request().Context()

	followingID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("User")
	}

	user := auth.UserFromEchoContext(c)
	if user == nil {
		return errcodes.Unauthorized("Authentication required")
	}

	edge, err := h.socialService.Follow(ctx, user.ID, followingID)
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusCreated, edge))
}

func (h *handler) unfollow(c echo.Context) error {
	ctx := c.Request().Context()

	followingID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("User")
	}

	user := auth.UserFromEchoContext(c)
	if user == nil {
		return errcodes.Unauthorized("Authentication required")
	}

	if err := h.socialService.Unfollow(ctx, user.ID, followingID); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}

func (h *handler) followers(c echo.Context) error {
	return h.listFollowUsers(c, true)
}

func (h *handler) following(c echo.Context) error {
	return h.listFollowUsers(c, false)
}

func (h *handler) listFollowUsers(c echo.Context, followers bool) error {
	ctx := c.Request().Context()

	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("User")
	}

	params := ListFollowsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	opts := ListFollowsOptions{
		Limit:  &params.Limit,
		Offset: &params.Offset,
	}

	var users []*models.User
	if followers {
		users, err = h.socialService.ListFollowers(ctx, userID, opts)
	} else {
		users, err = h.socialService.ListFollowing(ctx, userID, opts)
	}
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Users []*models.User `json:"users"`
	}{users}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) feed(c echo.Context) error {
	ctx := c.Request().Context()

	user := auth.UserFromEchoContext(c)
	if user == nil {
		return errcodes.Unauthorized("Authentication required")
	}

	params := FeedQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	events, err := h.socialService.Feed(ctx, user.ID, FeedOptions{
		Limit:  &params.Limit,
		Offset: &params.Offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Events []*models.ActivityEvent `json:"events"`
	}{events}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}
