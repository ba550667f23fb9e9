package templates

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/topnlists/topn/pkg/auth"
	"github.com/topnlists/topn/pkg/categories"
	"github.com/topnlists/topn/pkg/errcodes"
	"github.com/topnlists/topn/pkg/filters"
	"github.com/topnlists/topn/pkg/listnames"
)

type handler struct {
	templatesService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListTemplatesQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	opts := ListTemplatesOptions{
		IsCore: params.Core,
		Limit:  &params.Limit,
		Offset: &params.Offset,
	}
	if params.Category != "" {
		opts.Category = &params.Category
	}

	templates, total, err := h.templatesService.ListTemplatesWithTotal(ctx, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, echo.Map{
		"templates": templates,
		"total":     total,
	}))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Template")
	}

	tmpl, err := h.templatesService.RetrieveTemplate(ctx, RetrieveTemplateOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, tmpl))
}

func (h *handler) resolve(c echo.Context) error {
	ctx := c.Request().Context()

	params := TuplePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	tmpl, created, err := h.templatesService.Resolve(ctx, params.Tuple(), auth.CurrentUserID(c))
	if err != nil {
		return errors.WithStack(err)
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return errors.WithStack(c.JSON(status, echo.Map{
		"template": tmpl,
		"created":  created,
	}))
}

func (h *handler) count(c echo.Context) error {
	ctx := c.Request().Context()

	params := TuplePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	tmpl, count, err := h.templatesService.CountTemplateUsers(ctx, params.Tuple())
	if err != nil {
		return errors.WithStack(err)
	}

	resp := CountResponse{UserCount: count}
	if tmpl != nil {
		resp.TemplateID = &tmpl.ID
	}
	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

// preview names a tuple without touching the database.
func (h *handler) preview(c echo.Context) error {
	params := TuplePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	tuple := params.Tuple()
	if err := tuple.Validate(); err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, PreviewResponse{
		DisplayName: listnames.GenerateName(tuple),
		Description: listnames.FormatDescription(tuple),
	}))
}

func (h *handler) vocabulary(c echo.Context) error {
	return errors.WithStack(c.JSON(http.StatusOK, echo.Map{
		"categories": categories.All,
		"filters":    filters.Vocab(),
	}))
}
