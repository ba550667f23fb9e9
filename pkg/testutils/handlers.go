package testutils

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/topnlists/topn/pkg/auth"
	"github.com/topnlists/topn/pkg/models"
	"github.com/uptrace/bun"
)

type handler struct {
	db *bun.DB
}

// createUserRequest is the request body for creating a test user.
type createUserRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// createUserResponse is the response body for creating a test user.
type createUserResponse struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

// createUser creates a test user without going through signup validation.
// POST /test/users.
func (h *handler) createUser(c echo.Context) error {
	ctx := c.Request().Context()

	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return errors.WithStack(err)
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return errors.Wrap(err, "failed to hash password")
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: hashedPassword,
	}

	_, err = h.db.NewInsert().Model(user).Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to create user")
	}

	return c.JSON(http.StatusCreated, createUserResponse{
		ID:       user.ID,
		Username: user.Username,
	})
}

// resetResponse reports how many rows each reset removed.
type resetResponse struct {
	Users     int `json:"users"`
	Templates int `json:"templates"`
}

// reset deletes every user and every user-created template. Lists, items,
// and follows go with their users through foreign keys. Core templates stay.
// DELETE /test/data.
func (h *handler) reset(c echo.Context) error {
	ctx := c.Request().Context()

	var resp resetResponse
	err := h.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		result, err := tx.NewDelete().
			Model((*models.User)(nil)).
			Where("1=1").
			Exec(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to delete users")
		}
		deleted, _ := result.RowsAffected()
		resp.Users = int(deleted)

		result, err = tx.NewDelete().
			Model((*models.ListTemplate)(nil)).
			Where("is_core = ?", false).
			Exec(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to delete templates")
		}
		deleted, _ = result.RowsAffected()
		resp.Templates = int(deleted)
		return nil
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}
