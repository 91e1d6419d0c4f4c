package social

import (
	"context"
	"database/sql"
	"time"

	"github.com/austinfarr/read-that/pkg/errcodes"
	"github.com/austinfarr/read-that/pkg/models"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

type ListFollowsOptions struct {
	Limit  *int
	Offset *int
}

type FeedOptions struct {
	Limit  *int
	Offset *int
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// Follow creates a follow edge. Following yourself is rejected; following
// someone you already follow returns the existing edge unchanged.
func (svc *Service) Follow(ctx context.Context, followerID, followingID int) (*models.Follow, error) {
	if followerID == followingID {
		return nil, errcodes.ValidationError("You can't follow yourself")
	}

	exists, err := svc.db.NewSelect().
		Model((*models.User)(nil)).
		Where("id = ?", followingID).
		Where("is_active = ?", true).
		Exists(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if !exists {
		return nil, errcodes.NotFound("User")
	}

	edge := &models.Follow{}
	err = svc.db.NewSelect().
		Model(edge).
		Where("fl.follower_id = ?", followerID).
		Where("fl.following_id = ?", followingID).
		Scan(ctx)
	if err == nil {
		return edge, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, errors.WithStack(err)
	}

	edge = &models.Follow{
		FollowerID:  followerID,
		FollowingID: followingID,
		CreatedAt:   time.Now(),
	}
	_, err = svc.db.NewInsert().Model(edge).Returning("*").Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return edge, nil
}

// Unfollow removes a follow edge. Removing an edge that doesn't exist is a
// no-op.
func (svc *Service) Unfollow(ctx context.Context, followerID, followingID int) error {
	_, err := svc.db.NewDelete().
		Model((*models.Follow)(nil)).
		Where("follower_id = ?", followerID).
		Where("following_id = ?", followingID).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func (svc *Service) IsFollowing(ctx context.Context, followerID, followingID int) (bool, error) {
	exists, err := svc.db.NewSelect().
		Model((*models.Follow)(nil)).
		Where("follower_id = ?", followerID).
		Where("following_id = ?", followingID).
		Exists(ctx)
	if err != nil {
		return false, errors.WithStack(err)
	}
	return exists, nil
}

// ListFollowers returns the users following userID.
func (svc *Service) ListFollowers(ctx context.Context, userID int, opts ListFollowsOptions) ([]*models.User, error) {
	return svc.listFollowUsers(ctx, userID, opts, true)
}

// ListFollowing returns the users userID follows.
func (svc *Service) ListFollowing(ctx context.Context, userID int, opts ListFollowsOptions) ([]*models.User, error) {
	return svc.listFollowUsers(ctx, userID, opts, false)
}

func (svc *Service) listFollowUsers(ctx context.Context, userID int, opts ListFollowsOptions, followers bool) ([]*models.User, error) {
	follows := []*models.Follow{}

	q := svc.db.
		NewSelect().
		Model(&follows).
		Order("fl.created_at DESC")

	if followers {
		q = q.Relation("Follower").Where("fl.following_id = ?", userID)
	} else {
		q = q.Relation("Following").Where("fl.follower_id = ?", userID)
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

	users := make([]*models.User, 0, len(follows))
	for _, f := range follows {
		if followers {
			if f.Follower != nil {
				users = append(users, f.Follower)
			}
		} else {
			if f.Following != nil {
				users = append(users, f.Following)
			}
		}
	}

	return users, nil
}

func (svc *Service) CountFollowers(ctx context.Context, userID int) (int, error) {
	count, err := svc.db.NewSelect().
		Model((*models.Follow)(nil)).
		Where("following_id = ?", userID).
		Count(ctx)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return count, nil
}

func (svc *Service) CountFollowing(ctx context.Context, userID int) (int, error) {
	count, err := svc.db.NewSelect().
		Model((*models.Follow)(nil)).
		Where("follower_id = ?", userID).
		Count(ctx)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return count, nil
}

// RecordEvent appends an activity event. Events are insert-only; they are
// never updated after the fact.
func (svc *Service) RecordEvent(ctx context.Context, event *models.ActivityEvent) error {
	if err := event.MarshalData(); err != nil {
		return err
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	_, err := svc.db.NewInsert().Model(event).Returning("*").Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// Feed returns the reverse-chronological union of the user's own activity and
// the activity of everyone they follow. The feed is computed at read time;
// there is no fan-out on write.
func (svc *Service) Feed(ctx context.Context, userID int, opts FeedOptions) ([]*models.ActivityEvent, error) {
	events := []*models.ActivityEvent{}

	following := svc.db.NewSelect().
		Model((*models.Follow)(nil)).
		Column("fl.following_id").
		Where("fl.follower_id = ?", userID)

	q := svc.db.
		NewSelect().
		Model(&events).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("ae.user_id = ?", userID).
				WhereOr("ae.user_id IN (?)", following)
		}).
		Order("ae.created_at DESC").
		Order("ae.id DESC")

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

	log := logger.FromContext(ctx)
	for _, event := range events {
		if err := event.UnmarshalData(); err != nil {
			// A bad payload shouldn't sink the whole feed.
			log.Err(err).Warn("failed to parse activity payload", logger.Data{"event_id": event.ID})
		}
	}

	return events, nil
}
