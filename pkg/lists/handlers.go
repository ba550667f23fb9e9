package lists

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/topnlists/topn/pkg/auth"
	"github.com/topnlists/topn/pkg/errcodes"
	"github.com/topnlists/topn/pkg/models"
	"github.com/topnlists/topn/pkg/templates"
)

type handler struct {
	listsService     *Service
	templatesService *templates.Service
}

// listView is a list as rendered to a viewer. Only the owner sees the share
// token; anyone else has to be handed the link.
type listView struct {
	*models.UserList
	ShareToken string `json:"share_token,omitempty"`
}

func viewOf(list *models.UserList, viewerID int) listView {
	v := listView{UserList: list}
	if viewerID != 0 && list.UserID == viewerID {
		v.ShareToken = list.ShareToken
	}
	return v
}

func listIDParam(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, errcodes.NotFound("List")
	}
	return id, nil
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListListsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	userID := params.UserID
	if userID == 0 {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}
		userID = user.ID
	}

	opts := ListListsOptions{
		UserID: &userID,
		Limit:  &params.Limit,
		Offset: &params.Offset,
	}
	if params.Category != "" {
		opts.Category = &params.Category
	}

	lists, total, err := h.listsService.ListListsWithTotal(ctx, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	viewerID := auth.CurrentUserID(c)
	views := make([]listView, 0, len(lists))
	for _, l := range lists {
		views = append(views, viewOf(l, viewerID))
	}

	return errors.WithStack(c.JSON(http.StatusOK, echo.Map{
		"lists": views,
		"total": total,
	}))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := listIDParam(c)
	if err != nil {
		return err
	}

	list, err := h.listsService.RetrieveList(ctx, RetrieveListOptions{ID: &id, IncludeItems: true})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, viewOf(list, auth.CurrentUserID(c))))
}

// create resolves the posted tuple to its template and starts the user's
// list for it.
func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}

	params := templates.TuplePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	tmpl, _, err := h.templatesService.Resolve(ctx, params.Tuple(), user.ID)
	if err != nil {
		return errors.WithStack(err)
	}

	list, err := h.listsService.CreateList(ctx, CreateListOptions{UserID: user.ID, TemplateID: tmpl.ID})
	if err != nil {
		return errors.WithStack(err)
	}

	list, err = h.listsService.RetrieveList(ctx, RetrieveListOptions{ID: &list.ID})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, viewOf(list, user.ID)))
}

func (h *handler) adopt(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}

	params := AdoptTemplatePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	list, created, err := h.listsService.AdoptTemplate(ctx, user.ID, params.TemplateID)
	if err != nil {
		return errors.WithStack(err)
	}

	list, err = h.listsService.RetrieveList(ctx, RetrieveListOptions{ID: &list.ID})
	if err != nil {
		return errors.WithStack(err)
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return errors.WithStack(c.JSON(status, viewOf(list, user.ID)))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}

	id, err := listIDParam(c)
	if err != nil {
		return err
	}

	if err := h.listsService.DeleteList(ctx, id, user.ID); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}

func (h *handler) listItems(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := listIDParam(c)
	if err != nil {
		return err
	}

	// 404 for a missing list rather than an empty page.
	if _, err := h.listsService.RetrieveList(ctx, RetrieveListOptions{ID: &id}); err != nil {
		return errors.WithStack(err)
	}

	items, err := h.listsService.ListItems(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, echo.Map{
		"items": items,
	}))
}

func (h *handler) addItem(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}

	id, err := listIDParam(c)
	if err != nil {
		return err
	}

	params := ItemPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	item, err := h.listsService.AddItem(ctx, AddItemOptions{
		ListID:  id,
		OwnerID: user.ID,
		Item:    params.input(),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, item))
}

func (h *handler) addItems(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}

	id, err := listIDParam(c)
	if err != nil {
		return err
	}

	params := AddItemsPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	inputs := make([]ItemInput, 0, len(params.Items))
	for _, p := range params.Items {
		inputs = append(inputs, p.input())
	}

	items, err := h.listsService.AddItems(ctx, AddItemsOptions{
		ListID:                id,
		OwnerID:               user.ID,
		Items:                 inputs,
		ExpectedExistingCount: *params.ExpectedExistingCount,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, echo.Map{
		"items": items,
	}))
}

func (h *handler) removeItem(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}

	id, err := listIDParam(c)
	if err != nil {
		return err
	}

	itemID, err := strconv.Atoi(c.Param("itemId"))
	if err != nil {
		return errcodes.NotFound("Item")
	}

	err = h.listsService.RemoveItem(ctx, RemoveItemOptions{
		ListID:  id,
		ItemID:  itemID,
		OwnerID: user.ID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}

func (h *handler) reorderItems(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}

	id, err := listIDParam(c)
	if err != nil {
		return err
	}

	params := ReorderItemsPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	err = h.listsService.ReorderItems(ctx, ReorderItemsOptions{
		ListID:  id,
		OwnerID: user.ID,
		ItemIDs: params.ItemIDs,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	items, err := h.listsService.ListItems(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, echo.Map{
		"items": items,
	}))
}

func (h *handler) shared(c echo.Context) error {
	ctx := c.Request().Context()

	list, err := h.listsService.RetrieveSharedList(ctx, c.Param("token"))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, list))
}
