package library

import (
	"context"
	"database/sql"
	"time"

	"github.com/austinfarr/read-that/pkg/errcodes"
	"github.com/austinfarr/read-that/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type RetrieveUserBookOptions struct {
	ID     *int
	UserID *int
	BookID *int
}

type ListUserBooksOptions struct {
	Limit          *int
	Offset         *int
	UserID         *int
	Status         *string
	FavoritesOnly  bool
	IncludePrivate bool

	includeTotal bool
}

type UpdateUserBookOptions struct {
	Columns []string
}

type CreateUserBookOptions struct {
	UserID      int
	BookID      int
	Status      string
	Rating      *float64
	Notes       *string
	CurrentPage *int
	IsFavorite  bool
	IsPrivate   bool
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// CreateUserBook inserts a new tracking record, applying the status
// transition policy to fill in the date fields for the initial status.
func (svc *Service) CreateUserBook(ctx context.Context, opts CreateUserBookOptions) (*models.UserBook, error) {
	status := opts.Status
	if status == "" {
		status = models.StatusWantToRead
	}

	res, err := ApplyStatusTransition(nil, status, nowDate())
	if err != nil {
		return nil, err
	}

	now := time.Now()
	rec := &models.UserBook{
		UserID:      opts.UserID,
		BookID:      opts.BookID,
		Status:      status,
		StartDate:   res.StartDate,
		FinishDate:  res.FinishDate,
		Rating:      opts.Rating,
		Notes:       opts.Notes,
		CurrentPage: opts.CurrentPage,
		IsFavorite:  opts.IsFavorite,
		IsPrivate:   opts.IsPrivate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err = svc.db.NewInsert().Model(rec).Returning("*").Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return rec, nil
}

func (svc *Service) RetrieveUserBook(ctx context.Context, opts RetrieveUserBookOptions) (*models.UserBook, error) {
	rec := &models.UserBook{}

	q := svc.db.
		NewSelect().
		Model(rec)

	if opts.ID != nil {
		q = q.Where("ub.id = ?", *opts.ID)
	}
	if opts.UserID != nil {
		q = q.Where("ub.user_id = ?", *opts.UserID)
	}
	if opts.BookID != nil {
		q = q.Where("ub.book_id = ?", *opts.BookID)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}

	return rec, nil
}

func (svc *Service) ListUserBooks(ctx context.Context, opts ListUserBooksOptions) ([]*models.UserBook, error) {
	recs, _, err := svc.listUserBooksWithTotal(ctx, opts)
	return recs, errors.WithStack(err)
}

func (svc *Service) ListUserBooksWithTotal(ctx context.Context, opts ListUserBooksOptions) ([]*models.UserBook, int, error) {
	opts.includeTotal = true
	return svc.listUserBooksWithTotal(ctx, opts)
}

func (svc *Service) listUserBooksWithTotal(ctx context.Context, opts ListUserBooksOptions) ([]*models.UserBook, int, error) {
	recs := []*models.UserBook{}
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&recs).
		Order("ub.updated_at DESC")

	if opts.UserID != nil {
		q = q.Where("ub.user_id = ?", *opts.UserID)
	}
	if opts.Status != nil {
		q = q.Where("ub.status = ?", *opts.Status)
	}
	if opts.FavoritesOnly {
		q = q.Where("ub.is_favorite = ?", true)
	}
	if !opts.IncludePrivate {
		q = q.Where("ub.is_private = ?", false)
	}
	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	if opts.includeTotal {
		total, err = q.ScanAndCount(ctx)
	} else {
		err = q.Scan(ctx)
	}
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return recs, total, nil
}

// UpdateUserBook writes the given columns of rec back to the database.
// updated_at is always refreshed, even when no other column changed, so that
// mutations bubble the record to the top of the shelf.
func (svc *Service) UpdateUserBook(ctx context.Context, rec *models.UserBook, opts UpdateUserBookOptions) error {
	rec.UpdatedAt = time.Now()
	columns := append(opts.Columns, "updated_at")

	_, err := svc.db.
		NewUpdate().
		Model(rec).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func (svc *Service) DeleteUserBook(ctx context.Context, rec *models.UserBook) error {
	_, err := svc.db.
		NewDelete().
		Model(rec).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}
