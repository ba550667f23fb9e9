package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/topnlists/topn/pkg/categories"
	"github.com/topnlists/topn/pkg/filters"
	"github.com/topnlists/topn/pkg/listnames"
	"github.com/uptrace/bun"
)

// CoreTemplateSize is the capacity of every category's favorites list.
const CoreTemplateSize = 50

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		for _, slug := range categories.Slugs() {
			tuple := filters.Tuple{Category: slug, Size: CoreTemplateSize}
			_, err := db.Exec(`
				INSERT INTO list_templates (category, max_count, display_name, description, is_core)
				VALUES (?, ?, ?, ?, TRUE)
			`, slug, CoreTemplateSize, listnames.GenerateName(tuple), listnames.FormatDescription(tuple))
			if err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	}

	down := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`DELETE FROM list_templates WHERE is_core = TRUE AND created_by_user_id IS NULL`)
		return errors.WithStack(err)
	}

	Migrations.MustRegister(up, down)
}
