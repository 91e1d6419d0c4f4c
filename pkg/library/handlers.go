package library

import (
	"net/http"
	"strconv"

	"github.com/austinfarr/read-that/pkg/auth"
	"github.com/austinfarr/read-that/pkg/catalog"
	"github.com/austinfarr/read-that/pkg/errcodes"
	"github.com/austinfarr/read-that/pkg/models"
	"github.com/austinfarr/read-that/pkg/social"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
)

type handler struct {
	libraryService *Service
	socialService  *social.Service
	catalogClient  *catalog.Client
}

// list returns the caller's own shelf, private records included, merged with
// catalog metadata.
func (h *handler) list(c echo.Context) error {
	user := auth.UserFromEchoContext(c)
	if user == nil {
		return errcodes.Unauthorized("Authentication required")
	}

	return h.renderLibrary(c, user.ID, true)
}

// userLibrary returns another user's shelf. Private records are only visible
// to their owner.
func (h *handler) userLibrary(c echo.Context) error {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("User")
	}

	includePrivate := false
	if viewer := auth.UserFromEchoContext(c); viewer != nil && viewer.ID == userID {
		includePrivate = true
	}

	return h.renderLibrary(c, userID, includePrivate)
}

func (h *handler) renderLibrary(c echo.Context, userID int, includePrivate bool) error {
	ctx := c.Request().Context()

	params := ListLibraryQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	opts := ListUserBooksOptions{
		Limit:          &params.Limit,
		Offset:         &params.Offset,
		UserID:         &userID,
		Status:         params.Status,
		FavoritesOnly:  params.Favorites,
		IncludePrivate: includePrivate,
	}

	recs, total, err := h.libraryService.ListUserBooksWithTotal(ctx, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	ids := make([]int, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, rec.BookID)
	}

	// Missing or failed metadata degrades to placeholders in the merge; the
	// tracking data itself always renders.
	metadataByID := h.catalogClient.FetchByIDs(ctx, ids)

	resp := struct {
		Books []*DisplayBook `json:"books"`
		Total int            `json:"total"`
	}{MergeLibrary(recs, metadataByID), total}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

// add shelves a book. If the book is already shelved, the existing record is
// updated instead of a duplicate being inserted.
func (h *handler) add(c echo.Context) error {
	ctx := c.Request().Context()

	user := auth.UserFromEchoContext(c)
	if user == nil {
		return errcodes.Unauthorized("Authentication required")
	}

	params := AddBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	rec, err := h.libraryService.RetrieveUserBook(ctx, RetrieveUserBookOptions{
		UserID: &user.ID,
		BookID: &params.BookID,
	})
	if err != nil && !errors.Is(err, errcodes.NotFound("Book")) {
		return errors.WithStack(err)
	}

	if rec != nil {
		return h.applyUpdates(c, user, rec, UpdateBookPayload{
			BookTitle:   params.BookTitle,
			Status:      params.Status,
			Rating:      params.Rating,
			Notes:       params.Notes,
			CurrentPage: params.CurrentPage,
			IsFavorite:  params.IsFavorite,
			IsPrivate:   params.IsPrivate,
		}, http.StatusOK)
	}

	opts := CreateUserBookOptions{
		UserID: user.ID,
		BookID: params.BookID,
	}
	if params.Status != nil {
		opts.Status = *params.Status
	}
	opts.Rating = params.Rating
	opts.Notes = params.Notes
	opts.CurrentPage = params.CurrentPage
	if params.IsFavorite != nil {
		opts.IsFavorite = *params.IsFavorite
	}
	if params.IsPrivate != nil {
		opts.IsPrivate = *params.IsPrivate
	}

	rec, err = h.libraryService.CreateUserBook(ctx, opts)
	if err != nil {
		return err
	}

	if !rec.IsPrivate {
		h.recordEvent(c, &models.ActivityEvent{
			UserID:    user.ID,
			Username:  user.Username,
			EventType: models.ActivityBookAdded,
			BookID:    &rec.BookID,
			BookTitle: params.BookTitle,
			DataParsed: &models.StatusChangeData{
				NewStatus: rec.Status,
			},
		})
	}

	return errors.WithStack(c.JSON(http.StatusCreated, rec))
}

// update mutates an existing tracking record.
func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	user := auth.UserFromEchoContext(c)
	if user == nil {
		return errcodes.Unauthorized("Authentication required")
	}

	bookID, err := strconv.Atoi(c.Param("bookId"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	params := UpdateBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	rec, err := h.libraryService.RetrieveUserBook(ctx, RetrieveUserBookOptions{
		UserID: &user.ID,
		BookID: &bookID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return h.applyUpdates(c, user, rec, params, http.StatusOK)
}

// applyUpdates applies the payload's provided fields to rec, runs the status
// transition policy, persists the changed columns, and records activity.
func (h *handler) applyUpdates(c echo.Context, user *models.User, rec *models.UserBook, params UpdateBookPayload, successCode int) error {
	ctx := c.Request().Context()

	// Keep track of what's been changed.
	opts := UpdateUserBookOptions{Columns: []string{}}
	events := []*models.ActivityEvent{}

	if params.Status != nil && *params.Status != rec.Status {
		today := nowDate()
		res, err := ApplyStatusTransition(rec, *params.Status, today)
		if err != nil {
			return err
		}

		events = append(events, &models.ActivityEvent{
			UserID:    user.ID,
			Username:  user.Username,
			EventType: models.ActivityStatusChange,
			BookID:    &rec.BookID,
			BookTitle: params.BookTitle,
			DataParsed: &models.StatusChangeData{
				OldStatus: rec.Status,
				NewStatus: *params.Status,
			},
		})

		rec.Status = *params.Status
		rec.StartDate = res.StartDate
		rec.FinishDate = res.FinishDate
		opts.Columns = append(opts.Columns, "status")
		opts.Columns = append(opts.Columns, res.Columns...)
	}

	if params.Rating != nil && (rec.Rating == nil || *params.Rating != *rec.Rating) {
		rec.Rating = params.Rating
		opts.Columns = append(opts.Columns, "rating")
	}

	if params.Notes != nil && (rec.Notes == nil || *params.Notes != *rec.Notes) {
		rec.Notes = params.Notes
		opts.Columns = append(opts.Columns, "notes")
	}

	if params.CurrentPage != nil && (rec.CurrentPage == nil || *params.CurrentPage != *rec.CurrentPage) {
		rec.CurrentPage = params.CurrentPage
		opts.Columns = append(opts.Columns, "current_page")
	}

	if params.IsFavorite != nil && *params.IsFavorite != rec.IsFavorite {
		rec.IsFavorite = *params.IsFavorite
		opts.Columns = append(opts.Columns, "is_favorite")

		if rec.IsFavorite {
			events = append(events, &models.ActivityEvent{
				UserID:    user.ID,
				Username:  user.Username,
				EventType: models.ActivityBookFavorited,
				BookID:    &rec.BookID,
				BookTitle: params.BookTitle,
			})
		}
	}

	if params.IsPrivate != nil && *params.IsPrivate != rec.IsPrivate {
		rec.IsPrivate = *params.IsPrivate
		opts.Columns = append(opts.Columns, "is_private")
	}

	if err := h.libraryService.UpdateUserBook(ctx, rec, opts); err != nil {
		return errors.WithStack(err)
	}

	if !rec.IsPrivate {
		for _, event := range events {
			h.recordEvent(c, event)
		}
	}

	return errors.WithStack(c.JSON(successCode, rec))
}

// delete removes a book from the caller's shelf.
func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()

	user := auth.UserFromEchoContext(c)
	if user == nil {
		return errcodes.Unauthorized("Authentication required")
	}

	bookID, err := strconv.Atoi(c.Param("bookId"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	rec, err := h.libraryService.RetrieveUserBook(ctx, RetrieveUserBookOptions{
		UserID: &user.ID,
		BookID: &bookID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	if err := h.libraryService.DeleteUserBook(ctx, rec); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}

// recordEvent appends an activity event, logging instead of failing the
// request if the insert goes wrong.
func (h *handler) recordEvent(c echo.Context, event *models.ActivityEvent) {
	ctx := c.Request().Context()
	if err := h.socialService.RecordEvent(ctx, event); err != nil {
		logger.FromEchoContext(c).Err(err).Warn("failed to record activity event")
	}
}
