package users

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/topnlists/topn/pkg/auth"
	"github.com/topnlists/topn/pkg/errcodes"
	"github.com/topnlists/topn/pkg/htmlutil"
	"github.com/topnlists/topn/pkg/models"
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

// RetrieveUserOptions selects a user by ID or by username. Usernames match
// case-insensitively.
type RetrieveUserOptions struct {
	ID       *int
	Username *string
}

// Retrieve gets a single user.
func (s *Service) Retrieve(ctx context.Context, opts RetrieveUserOptions) (*models.User, error) {
	user := &models.User{}
	q := s.db.NewSelect().
		Model(user)

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

// ListOptions contains options for listing users.
type ListOptions struct {
	Search *string
	Limit  int
	Offset int
}

// List returns a page of users, optionally filtered by a username substring.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]*models.User, int, error) {
	users := []*models.User{}

	query := s.db.NewSelect().
		Model(&users).
		Order("u.username ASC")

	if opts.Search != nil && *opts.Search != "" {
		query = query.Where(`u.username LIKE ? ESCAPE '\'`, "%"+escapeLike(*opts.Search)+"%")
	}
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}

	total, err := query.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return users, total, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// UpdateProfileOptions holds profile changes. Nil fields are left alone;
// an empty string clears the field.
type UpdateProfileOptions struct {
	Bio       *string
	AvatarURL *string
}

// UpdateProfile changes the user's bio and avatar. Markup is stripped from
// the bio.
func (s *Service) UpdateProfile(ctx context.Context, userID int, opts UpdateProfileOptions) (*models.User, error) {
	user, err := s.Retrieve(ctx, RetrieveUserOptions{ID: &userID})
	if err != nil {
		return nil, err
	}

	columns := []string{}
	if opts.Bio != nil {
		user.Bio = nil
		if bio := htmlutil.StripTags(*opts.Bio); bio != "" {
			user.Bio = &bio
		}
		columns = append(columns, "bio")
	}
	if opts.AvatarURL != nil {
		user.AvatarURL = nil
		if url := strings.TrimSpace(*opts.AvatarURL); url != "" {
			user.AvatarURL = &url
		}
		columns = append(columns, "avatar_url")
	}
	if len(columns) == 0 {
		return user, nil
	}

	user.UpdatedAt = time.Now()
	columns = append(columns, "updated_at")
	_, err = s.db.NewUpdate().
		Model(user).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return user, nil
}

// ChangePassword replaces the user's password after checking the current one.
func (s *Service) ChangePassword(ctx context.Context, userID int, currentPassword, newPassword string) error {
	valid, err := s.VerifyPassword(ctx, userID, currentPassword)
	if err != nil {
		return err
	}
	if !valid {
		return errcodes.ValidationError("Current password is incorrect")
	}

	hashedPassword, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	_, err = s.db.NewUpdate().
		Model((*models.User)(nil)).
		Set("password_hash = ?", hashedPassword).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", userID).
		Exec(ctx)
	return errors.WithStack(err)
}

// VerifyPassword checks if the password is correct for a user.
func (s *Service) VerifyPassword(ctx context.Context, userID int, password string) (bool, error) {
	user := &models.User{}
	err := s.db.NewSelect().
		Model(user).
		Column("password_hash").
		Where("id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, errcodes.NotFound("User")
		}
		return false, errors.WithStack(err)
	}

	return auth.CheckPassword(password, user.PasswordHash), nil
}

// CountUsers returns the total number of users.
func (s *Service) CountUsers(ctx context.Context) (int, error) {
	count, err := s.db.NewSelect().Model((*models.User)(nil)).Count(ctx)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return count, nil
}
