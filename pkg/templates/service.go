package templates

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/topnlists/topn/pkg/database"
	"github.com/topnlists/topn/pkg/errcodes"
	"github.com/topnlists/topn/pkg/filters"
	"github.com/topnlists/topn/pkg/listnames"
	"github.com/topnlists/topn/pkg/metrics"
	"github.com/topnlists/topn/pkg/models"
	"github.com/uptrace/bun"
)

const userCountExpr = "(SELECT COUNT(*) FROM user_lists AS ul WHERE ul.template_id = lt.id) AS user_count"

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// Resolve returns the one template for the tuple, creating it on first use.
// The bool reports whether this call created it.
//
// Two requests racing on a new tuple both miss the lookup, but the unique
// tuple index lets only one insert through. The loser reads back the
// winner's row.
func (svc *Service) Resolve(ctx context.Context, tuple filters.Tuple, requesterID int) (*models.ListTemplate, bool, error) {
	if requesterID == 0 {
		return nil, false, errcodes.Unauthorized("Authentication required")
	}
	if err := tuple.Validate(); err != nil {
		return nil, false, err
	}

	tmpl, err := svc.findByTuple(ctx, tuple)
	if err == nil {
		metrics.RecordTemplateResolution(false)
		return tmpl, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, errors.WithStack(err)
	}

	tmpl = &models.ListTemplate{
		CreatedAt:       time.Now(),
		Category:        tuple.Category,
		Genre:           tuple.Genre,
		Decade:          tuple.Decade,
		Keyword:         tuple.Keyword,
		Certification:   tuple.Certification,
		Language:        tuple.Language,
		MaxCount:        tuple.Size,
		DisplayName:     listnames.GenerateName(tuple),
		Description:     listnames.FormatDescription(tuple),
		IsCore:          false,
		CreatedByUserID: &requesterID,
	}

	_, err = svc.db.
		NewInsert().
		Model(tmpl).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if !database.IsUniqueViolation(err) {
			return nil, false, errors.WithStack(err)
		}
		tmpl, err = svc.findByTuple(ctx, tuple)
		if err != nil {
			return nil, false, errors.WithStack(err)
		}
		metrics.RecordTemplateResolution(false)
		return tmpl, false, nil
	}

	logger.FromContext(ctx).Info("list template created", logger.Data{
		"template_id":  tmpl.ID,
		"display_name": tmpl.DisplayName,
	})
	metrics.RecordTemplateResolution(true)

	return tmpl, true, nil
}

// FindTemplate looks a template up by tuple without creating it.
func (svc *Service) FindTemplate(ctx context.Context, tuple filters.Tuple) (*models.ListTemplate, error) {
	if err := tuple.Validate(); err != nil {
		return nil, err
	}

	tmpl, err := svc.findByTuple(ctx, tuple)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Template")
		}
		return nil, errors.WithStack(err)
	}

	return tmpl, nil
}

func (svc *Service) findByTuple(ctx context.Context, tuple filters.Tuple) (*models.ListTemplate, error) {
	tmpl := &models.ListTemplate{}
	q := svc.db.
		NewSelect().
		Model(tmpl)
	err := WhereTuple(q, tuple).Limit(1).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return tmpl, nil
}

// WhereTuple adds one condition per tuple field. Unset optional fields must
// be NULL in the row; set fields must equal the value.
func WhereTuple(q *bun.SelectQuery, tuple filters.Tuple) *bun.SelectQuery {
	q = q.
		Where("lt.category = ?", tuple.Category).
		Where("lt.max_count = ?", tuple.Size)

	optional := []struct {
		column string
		value  *string
	}{
		{"lt.genre", tuple.Genre},
		{"lt.decade", tuple.Decade},
		{"lt.keyword", tuple.Keyword},
		{"lt.certification", tuple.Certification},
		{"lt.language", tuple.Language},
	}
	for _, f := range optional {
		if f.value == nil {
			q = q.Where(f.column + " IS NULL")
		} else {
			q = q.Where(f.column+" = ?", *f.value)
		}
	}
	return q
}

type RetrieveTemplateOptions struct {
	ID *int
}

func (svc *Service) RetrieveTemplate(ctx context.Context, opts RetrieveTemplateOptions) (*models.ListTemplate, error) {
	tmpl := &models.ListTemplate{}

	q := svc.db.
		NewSelect().
		Model(tmpl).
		ColumnExpr("lt.*").
		ColumnExpr(userCountExpr)

	if opts.ID != nil {
		q = q.Where("lt.id = ?", *opts.ID)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Template")
		}
		return nil, errors.WithStack(err)
	}

	return tmpl, nil
}

type ListTemplatesOptions struct {
	Category     *string
	IsCore       *bool
	Limit        *int
	Offset       *int
	includeTotal bool
}

// ListTemplates returns templates with their user counts, most used first.
func (svc *Service) ListTemplates(ctx context.Context, opts ListTemplatesOptions) ([]*models.ListTemplate, error) {
	templates, _, err := svc.listTemplatesWithTotal(ctx, opts)
	return templates, errors.WithStack(err)
}

func (svc *Service) ListTemplatesWithTotal(ctx context.Context, opts ListTemplatesOptions) ([]*models.ListTemplate, int, error) {
	opts.includeTotal = true
	return svc.listTemplatesWithTotal(ctx, opts)
}

func (svc *Service) listTemplatesWithTotal(ctx context.Context, opts ListTemplatesOptions) ([]*models.ListTemplate, int, error) {
	var templates []*models.ListTemplate
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&templates).
		ColumnExpr("lt.*").
		ColumnExpr(userCountExpr).
		OrderExpr("user_count DESC").
		OrderExpr("lt.id ASC")

	if opts.Category != nil {
		q = q.Where("lt.category = ?", *opts.Category)
	}
	if opts.IsCore != nil {
		q = q.Where("lt.is_core = ?", *opts.IsCore)
	}
	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	if opts.includeTotal {
		total, err = q.ScanAndCount(ctx)
	} else {
		err = q.Scan(ctx)
	}
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return templates, total, nil
}

// CountTemplateUsers reports how many users hold a list for the tuple's
// template. It never creates the template; the template is nil when there
// isn't one yet.
func (svc *Service) CountTemplateUsers(ctx context.Context, tuple filters.Tuple) (*models.ListTemplate, int, error) {
	if err := tuple.Validate(); err != nil {
		return nil, 0, err
	}

	tmpl, err := svc.findByTuple(ctx, tuple)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, nil
		}
		return nil, 0, errors.WithStack(err)
	}

	count, err := svc.db.
		NewSelect().
		Model((*models.UserList)(nil)).
		Where("ul.template_id = ?", tmpl.ID).
		Count(ctx)
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}
	tmpl.UserCount = count

	return tmpl, count, nil
}
