package users

import (
	"context"
	"database/sql"
	"time"

	"github.com/austinfarr/read-that/pkg/errcodes"
	"github.com/austinfarr/read-that/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// Service handles user profile operations.
type Service struct {
	db *bun.DB
}

// NewService creates a new users service.
func NewService(db *bun.DB) *Service {
	return &Service{db: db}
}

type RetrieveUserOptions struct {
	ID       *int
	Username *string
}

type SearchUsersOptions struct {
	Query string
	Limit *int
}

type UpdateProfileOptions struct {
	Columns []string
}

// Profile is a user with their social and shelf counts attached.
type Profile struct {
	*models.User

	FollowerCount  int `json:"follower_count"`
	FollowingCount int `json:"following_count"`
	BookCount      int `json:"book_count"`
}

// Retrieve returns a single user.
func (s *Service) Retrieve(ctx context.Context, opts RetrieveUserOptions) (*models.User, error) {
	user := &models.User{}

	q := s.db.
		NewSelect().
		Model(user).
		Where("u.is_active = ?", true)

	if opts.ID != nil {
		q = q.Where("u.id = ?", *opts.ID)
	}
	if opts.Username != nil {
		q = q.Where("u.username = ? COLLATE NOCASE", *opts.Username)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("User")
		}
		return nil, errors.WithStack(err)
	}

	return user, nil
}

// RetrieveProfile returns a user with their follower, following, and public
// shelf counts.
func (s *Service) RetrieveProfile(ctx context.Context, opts RetrieveUserOptions) (*Profile, error) {
	user, err := s.Retrieve(ctx, opts)
	if err != nil {
		return nil, err
	}

	profile := &Profile{User: user}

	profile.FollowerCount, err = s.db.
		NewSelect().
		Model((*models.Follow)(nil)).
		Where("fl.following_id = ?", user.ID).
		Count(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	profile.FollowingCount, err = s.db.
		NewSelect().
		Model((*models.Follow)(nil)).
		Where("fl.follower_id = ?", user.ID).
		Count(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	profile.BookCount, err = s.db.
		NewSelect().
		Model((*models.UserBook)(nil)).
		Where("ub.user_id = ?", user.ID).
		Where("ub.is_private = ?", false).
		Count(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return profile, nil
}

// Search finds active users whose username starts with the query,
// case-insensitively.
func (s *Service) Search(ctx context.Context, opts SearchUsersOptions) ([]*models.User, error) {
	users := []*models.User{}

	q := s.db.
		NewSelect().
		Model(&users).
		Where("u.is_active = ?", true).
		Where("u.username LIKE ? COLLATE NOCASE", opts.Query+"%").
		Order("u.username ASC")

	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return users, nil
}

// UpdateProfile writes the given columns of user back to the database.
func (s *Service) UpdateProfile(ctx context.Context, user *models.User, opts UpdateProfileOptions) error {
	user.UpdatedAt = time.Now()
	columns := append(opts.Columns, "updated_at")

	_, err := s.db.
		NewUpdate().
		Model(user).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}
