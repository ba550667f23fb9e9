package users

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/topnlists/topn/pkg/auth"
	"github.com/topnlists/topn/pkg/follows"
	"github.com/topnlists/topn/pkg/lists"
	"github.com/topnlists/topn/pkg/models"
)

type handler struct {
	userService    *Service
	followsService *follows.Service
	listsService   *lists.Service
}

// Profile is a user's public page: the user, follow counts, and their lists.
type Profile struct {
	User        *models.User       `json:"user"`
	Counts      follows.Counts     `json:"counts"`
	IsFollowing bool               `json:"is_following"`
	Lists       []*models.UserList `json:"lists"`
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	username := c.Param("username")
	user, err := h.userService.Retrieve(ctx, RetrieveUserOptions{Username: &username})
	if err != nil {
		return err
	}

	counts, err := h.followsService.Counts(ctx, user.ID)
	if err != nil {
		return err
	}

	isFollowing, err := h.followsService.IsFollowing(ctx, auth.CurrentUserID(c), user.ID)
	if err != nil {
		return err
	}

	userLists, err := h.listsService.ListLists(ctx, lists.ListListsOptions{UserID: &user.ID})
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, Profile{
		User:        user,
		Counts:      counts,
		IsFollowing: isFollowing,
		Lists:       userLists,
	}))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListUsersQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	opts := ListOptions{Limit: params.Limit, Offset: params.Offset}
	if params.Search != "" {
		opts.Search = &params.Search
	}

	users, total, err := h.userService.List(ctx, opts)
	if err != nil {
		return err
	}

	resp := struct {
		Users []*models.User `json:"users"`
		Total int            `json:"total"`
	}{users, total}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) updateMe(c echo.Context) error {
	ctx := c.Request().Context()

	current, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}

	params := UpdateProfilePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.userService.UpdateProfile(ctx, current.ID, UpdateProfileOptions(params))
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, user))
}

func (h *handler) changePassword(c echo.Context) error {
	ctx := c.Request().Context()

	current, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}

	params := ChangePasswordPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	err = h.userService.ChangePassword(ctx, current.ID, params.CurrentPassword, params.NewPassword)
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]string{"message": "Password changed successfully"}))
}
