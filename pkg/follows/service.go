package follows

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/topnlists/topn/pkg/errcodes"
	"github.com/topnlists/topn/pkg/models"
	"github.com/uptrace/bun"
)

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// Follow makes followerID follow followingID. Following someone twice is a
// no-op; the bool reports whether a new follow was recorded.
func (svc *Service) Follow(ctx context.Context, followerID, followingID int) (bool, error) {
	if followerID == 0 {
		return false, errcodes.Unauthorized("Authentication required")
	}
	if followerID == followingID {
		return false, errcodes.ValidationError("You can't follow yourself.")
	}

	exists, err := svc.db.
		NewSelect().
		Model((*models.User)(nil)).
		Where("u.id = ?", followingID).
		Exists(ctx)
	if err != nil {
		return false, errors.WithStack(err)
	}
	if !exists {
		return false, errcodes.NotFound("User")
	}

	follow := &models.Follow{
		CreatedAt:   time.Now(),
		FollowerID:  followerID,
		FollowingID: followingID,
	}
	res, err := svc.db.
		NewInsert().
		Model(follow).
		On("CONFLICT (follower_id, following_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return false, errors.WithStack(err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, errors.WithStack(err)
	}

	return rows > 0, nil
}

// Unfollow is idempotent.
func (svc *Service) Unfollow(ctx context.Context, followerID, followingID int) error {
	if followerID == 0 {
		return errcodes.Unauthorized("Authentication required")
	}

	_, err := svc.db.
		NewDelete().
		Model((*models.Follow)(nil)).
		Where("follower_id = ?", followerID).
		Where("following_id = ?", followingID).
		Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) IsFollowing(ctx context.Context, followerID, followingID int) (bool, error) {
	if followerID == 0 {
		return false, nil
	}

	exists, err := svc.db.
		NewSelect().
		Model((*models.Follow)(nil)).
		Where("f.follower_id = ?", followerID).
		Where("f.following_id = ?", followingID).
		Exists(ctx)
	return exists, errors.WithStack(err)
}

type ListOptions struct {
	UserID int
	Limit  *int
	Offset *int
}

// ListFollowing returns the users UserID follows, most recent first.
func (svc *Service) ListFollowing(ctx context.Context, opts ListOptions) ([]*models.User, int, error) {
	return svc.listUsers(ctx, "f.following_id", "f.follower_id", opts)
}

// ListFollowers returns the users following UserID, most recent first.
func (svc *Service) ListFollowers(ctx context.Context, opts ListOptions) ([]*models.User, int, error) {
	return svc.listUsers(ctx, "f.follower_id", "f.following_id", opts)
}

func (svc *Service) listUsers(ctx context.Context, joinColumn, filterColumn string, opts ListOptions) ([]*models.User, int, error) {
	users := []*models.User{}

	q := svc.db.
		NewSelect().
		Model(&users).
		Join("JOIN follows AS f ON "+joinColumn+" = u.id").
		Where(filterColumn+" = ?", opts.UserID).
		Order("f.created_at DESC", "f.id DESC")

	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	total, err := q.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return users, total, nil
}

type Counts struct {
	Followers int `json:"followers"`
	Following int `json:"following"`
}

func (svc *Service) Counts(ctx context.Context, userID int) (Counts, error) {
	var counts Counts
	err := svc.db.
		NewSelect().
		ColumnExpr("(SELECT COUNT(*) FROM follows WHERE following_id = ?) AS followers", userID).
		ColumnExpr("(SELECT COUNT(*) FROM follows WHERE follower_id = ?) AS following", userID).
		Scan(ctx, &counts.Followers, &counts.Following)
	if err != nil {
		return Counts{}, errors.WithStack(err)
	}
	return counts, nil
}

type FeedOptions struct {
	UserID int
	Limit  *int
	Offset *int
}

// Feed returns the newest items added to lists owned by people UserID
// follows.
func (svc *Service) Feed(ctx context.Context, opts FeedOptions) ([]*models.ListItem, error) {
	if opts.UserID == 0 {
		return nil, errcodes.Unauthorized("Authentication required")
	}

	items := []*models.ListItem{}

	q := svc.db.
		NewSelect().
		Model(&items).
		Relation("List").
		Relation("List.User").
		Relation("List.Template").
		Where(`"list"."user_id" IN (SELECT following_id FROM follows WHERE follower_id = ?)`, opts.UserID).
		Order("li.created_at DESC", "li.id DESC")

	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, errors.WithStack(err)
	}
	return items, nil
}
