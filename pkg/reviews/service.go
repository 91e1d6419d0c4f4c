package reviews

import (
	"context"
	"database/sql"
	"time"

	"github.com/austinfarr/read-that/pkg/errcodes"
	"github.com/austinfarr/read-that/pkg/library"
	"github.com/austinfarr/read-that/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type RetrieveReviewOptions struct {
	ID     *int
	UserID *int
	BookID *int
}

type ListReviewsOptions struct {
	Limit       *int
	Offset      *int
	UserID      *int
	BookID      *int
	IncludeUser bool
}

type SubmitReviewOptions struct {
	UserID     int
	BookID     int
	Rating     float64
	ReviewText *string
	IsSpoiler  bool
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// SubmitReview creates or replaces the caller's review for a book. A user has
// at most one review per book, so resubmitting overwrites the previous one.
//
// The review also feeds back into the shelf: if the user hasn't shelved the
// book yet, a finished tracking record is created for them, and the tracking
// record's rating is kept in sync with the review's either way.
func (svc *Service) SubmitReview(ctx context.Context, opts SubmitReviewOptions) (*models.Review, error) {
	review := &models.Review{}
	now := time.Now()

	// Ratings keep one decimal of precision everywhere they are stored.
	opts.Rating = roundRating(opts.Rating)

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		err := tx.
			NewSelect().
			Model(review).
			Where("r.user_id = ?", opts.UserID).
			Where("r.book_id = ?", opts.BookID).
			Scan(ctx)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return errors.WithStack(err)
		}

		review.Rating = opts.Rating
		review.ReviewText = opts.ReviewText
		review.IsSpoiler = opts.IsSpoiler
		review.UpdatedAt = now

		if review.ID == 0 {
			review.UserID = opts.UserID
			review.BookID = opts.BookID
			review.CreatedAt = now

			_, err = tx.NewInsert().Model(review).Returning("*").Exec(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
		} else {
			_, err = tx.
				NewUpdate().
				Model(review).
				Column("rating", "review_text", "is_spoiler", "updated_at").
				WherePK().
				Exec(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
		}

		return svc.syncUserBook(ctx, tx, opts, now)
	})
	if err != nil {
		return nil, err
	}

	return review, nil
}

// syncUserBook keeps the shelf consistent with a submitted review. Reviewing
// an unshelved book implies the user finished it.
func (svc *Service) syncUserBook(ctx context.Context, tx bun.Tx, opts SubmitReviewOptions, now time.Time) error {
	rec := &models.UserBook{}

	err := tx.
		NewSelect().
		Model(rec).
		Where("ub.user_id = ?", opts.UserID).
		Where("ub.book_id = ?", opts.BookID).
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return errors.WithStack(err)
	}

	if rec.ID == 0 {
		res, err := library.ApplyStatusTransition(nil, models.StatusFinished, now.Format(models.DateFormat))
		if err != nil {
			return err
		}

		rec = &models.UserBook{
			UserID:     opts.UserID,
			BookID:     opts.BookID,
			Status:     models.StatusFinished,
			StartDate:  res.StartDate,
			FinishDate: res.FinishDate,
			Rating:     &opts.Rating,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		_, err = tx.NewInsert().Model(rec).Exec(ctx)
		return errors.WithStack(err)
	}

	rec.Rating = &opts.Rating
	rec.UpdatedAt = now

	_, err = tx.
		NewUpdate().
		Model(rec).
		Column("rating", "updated_at").
		WherePK().
		Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) RetrieveReview(ctx context.Context, opts RetrieveReviewOptions) (*models.Review, error) {
	review := &models.Review{}

	q := svc.db.
		NewSelect().
		Model(review)

	if opts.ID != nil {
		q = q.Where("r.id = ?", *opts.ID)
	}
	if opts.UserID != nil {
		q = q.Where("r.user_id = ?", *opts.UserID)
	}
	if opts.BookID != nil {
		q = q.Where("r.book_id = ?", *opts.BookID)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Review")
		}
		return nil, errors.WithStack(err)
	}

	return review, nil
}

func (svc *Service) ListReviews(ctx context.Context, opts ListReviewsOptions) ([]*models.Review, error) {
	reviews := []*models.Review{}

	q := svc.db.
		NewSelect().
		Model(&reviews).
		Order("r.created_at DESC")

	if opts.UserID != nil {
		q = q.Where("r.user_id = ?", *opts.UserID)
	}
	if opts.BookID != nil {
		q = q.Where("r.book_id = ?", *opts.BookID)
	}
	if opts.IncludeUser {
		q = q.Relation("User")
	}
	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return reviews, nil
}

// AggregateForBook computes the review count and average rating for a book.
func (svc *Service) AggregateForBook(ctx context.Context, bookID int) (RatingSummary, error) {
	ratings := []float64{}

	err := svc.db.
		NewSelect().
		Model((*models.Review)(nil)).
		Column("rating").
		Where("r.book_id = ?", bookID).
		Scan(ctx, &ratings)
	if err != nil {
		return RatingSummary{}, errors.WithStack(err)
	}

	return AggregateRatings(ratings), nil
}

func (svc *Service) DeleteReview(ctx context.Context, review *models.Review) error {
	_, err := svc.db.
		NewDelete().
		Model(review).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}
