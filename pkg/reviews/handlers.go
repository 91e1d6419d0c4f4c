package reviews

import (
	"net/http"
	"strconv"

	"github.com/austinfarr/read-that/pkg/auth"
	"github.com/austinfarr/read-that/pkg/errcodes"
	"github.com/austinfarr/read-that/pkg/models"
	"github.com/austinfarr/read-that/pkg/social"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
)

type handler struct {
	reviewsService *Service
	socialService  *social.Service
}

// listForBook returns all reviews for a book along with the aggregate rating.
func (h *handler) listForBook(c echo.Context) error {
	ctx := c.Request().Context()

	bookID, err := strconv.Atoi(c.Param("bookId"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	params := ListReviewsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	reviews, err := h.reviewsService.ListReviews(ctx, ListReviewsOptions{
		Limit:       &params.Limit,
		Offset:      &params.Offset,
		BookID:      &bookID,
		IncludeUser: true,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	summary, err := h.reviewsService.AggregateForBook(ctx, bookID)
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Reviews []*models.Review `json:"reviews"`
		RatingSummary
	}{reviews, summary}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

// listForUser returns a user's reviews, newest first.
func (h *handler) listForUser(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("User")
	}

	params := ListReviewsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	reviews, err := h.reviewsService.ListReviews(ctx, ListReviewsOptions{
		Limit:  &params.Limit,
		Offset: &params.Offset,
		UserID: &userID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Reviews []*models.Review `json:"reviews"`
	}{reviews}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

// submit creates or replaces the caller's review for a book.
func (h *handler) submit(c echo.Context) error {
	ctx := c.Request().Context()

	user := auth.UserFromEchoContext(c)
	if user == nil {
		return errcodes.Unauthorized("Authentication required")
	}

	params := SubmitReviewPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	review, err := h.reviewsService.SubmitReview(ctx, SubmitReviewOptions{
		UserID:     user.ID,
		BookID:     params.BookID,
		Rating:     *params.Rating,
		ReviewText: params.ReviewText,
		IsSpoiler:  params.IsSpoiler,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	event := &models.ActivityEvent{
		UserID:    user.ID,
		Username:  user.Username,
		EventType: models.ActivityReviewPosted,
		BookID:    &review.BookID,
		BookTitle: params.BookTitle,
		DataParsed: &models.ReviewPostedData{
			Rating:    review.Rating,
			IsSpoiler: review.IsSpoiler,
		},
	}
	if err := h.socialService.RecordEvent(ctx, event); err != nil {
		logger.FromEchoContext(c).Err(err).Warn("failed to record activity event")
	}

	return errors.WithStack(c.JSON(http.StatusCreated, review))
}

// delete removes one of the caller's own reviews.
func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()

	user := auth.UserFromEchoContext(c)
	if user == nil {
		return errcodes.Unauthorized("Authentication required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Review")
	}

	review, err := h.reviewsService.RetrieveReview(ctx, RetrieveReviewOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	if review.UserID != user.ID {
		return errcodes.Forbidden("Deleting another user's review")
	}

	if err := h.reviewsService.DeleteReview(ctx, review); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}
