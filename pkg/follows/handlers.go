package follows

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	echologger "github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/logger"
	"github.com/topnlists/topn/pkg/auth"
	"github.com/topnlists/topn/pkg/errcodes"
	"github.com/topnlists/topn/pkg/models"
)

type handler struct {
	followsService *Service
}

func userIDParam(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, errcodes.NotFound("User")
	}
	return id, nil
}

func (h *handler) follow(c echo.Context) error {
	ctx := c.Request().Context()
	log := echologger.FromEchoContext(c)

	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}

	id, err := userIDParam(c)
	if err != nil {
		return err
	}

	created, err := h.followsService.Follow(ctx, user.ID, id)
	if err != nil {
		return errors.WithStack(err)
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		log.Info("user followed", logger.Data{"follower_id": user.ID, "following_id": id})
	}
	return errors.WithStack(c.JSON(status, echo.Map{
		"following": true,
	}))
}

func (h *handler) unfollow(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}

	id, err := userIDParam(c)
	if err != nil {
		return err
	}

	if err := h.followsService.Unfollow(ctx, user.ID, id); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}

func (h *handler) followers(c echo.Context) error {
	return h.listUsers(c, h.followsService.ListFollowers)
}

func (h *handler) following(c echo.Context) error {
	return h.listUsers(c, h.followsService.ListFollowing)
}

func (h *handler) listUsers(c echo.Context, fetch func(ctx context.Context, opts ListOptions) ([]*models.User, int, error)) error {
	ctx := c.Request().Context()

	id, err := userIDParam(c)
	if err != nil {
		return err
	}

	params := ListFollowsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	users, total, err := fetch(ctx, ListOptions{
		UserID: id,
		Limit:  &params.Limit,
		Offset: &params.Offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, echo.Map{
		"users": users,
		"total": total,
	}))
}

func (h *handler) feed(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}

	params := FeedQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	items, err := h.followsService.Feed(ctx, FeedOptions{
		UserID: user.ID,
		Limit:  &params.Limit,
		Offset: &params.Offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, echo.Map{
		"items": items,
	}))
}
