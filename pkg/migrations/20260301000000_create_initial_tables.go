package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`
			CREATE TABLE users (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				username TEXT NOT NULL,
				password_hash TEXT NOT NULL,
				bio TEXT,
				avatar_url TEXT
			)
		`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`CREATE UNIQUE INDEX ux_users_username ON users (username COLLATE NOCASE)`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`
			CREATE TABLE list_templates (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				category TEXT NOT NULL,
				genre TEXT,
				decade TEXT,
				keyword TEXT,
				certification TEXT,
				language TEXT,
				max_count INTEGER NOT NULL CHECK (max_count > 0),
				display_name TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				is_core BOOLEAN NOT NULL DEFAULT FALSE,
				created_by_user_id INTEGER REFERENCES users (id) ON DELETE SET NULL
			)
		`)
		if err != nil {
			return errors.WithStack(err)
		}

		// One template per filter tuple. Unset fields take part in the key, and
		// no valid tag is the empty string, so COALESCE to '' can't collide.
		_, err = db.Exec(`
			CREATE UNIQUE INDEX ux_list_templates_tuple ON list_templates (
				category,
				COALESCE(genre, ''),
				COALESCE(decade, ''),
				COALESCE(keyword, ''),
				COALESCE(certification, ''),
				COALESCE(language, ''),
				max_count
			)
		`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`CREATE INDEX ix_list_templates_category ON list_templates (category, is_core)`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`
			CREATE TABLE user_lists (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				user_id INTEGER REFERENCES users (id) ON DELETE CASCADE NOT NULL,
				template_id INTEGER REFERENCES list_templates (id) NOT NULL,
				share_token TEXT NOT NULL,
				version INTEGER NOT NULL DEFAULT 0
			)
		`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`CREATE UNIQUE INDEX ux_user_lists_user_template ON user_lists (user_id, template_id)`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`CREATE UNIQUE INDEX ux_user_lists_share_token ON user_lists (share_token)`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`CREATE INDEX ix_user_lists_template_id ON user_lists (template_id)`)
		if err != nil {
			return errors.WithStack(err)
		}

		// Ranks are kept dense by the list service inside a transaction. There is
		// no unique index on (list_id, rank) because SQLite checks it row by row
		// during the shift after a removal.
		_, err = db.Exec(`
			CREATE TABLE list_items (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				list_id INTEGER REFERENCES user_lists (id) ON DELETE CASCADE NOT NULL,
				title TEXT NOT NULL,
				external_id TEXT,
				cover_image TEXT,
				subtitle TEXT,
				year INTEGER,
				rank INTEGER NOT NULL CHECK (rank > 0)
			)
		`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`CREATE UNIQUE INDEX ux_list_items_external_id ON list_items (list_id, external_id)`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`CREATE INDEX ix_list_items_list_rank ON list_items (list_id, rank)`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`
			CREATE TABLE follows (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				follower_id INTEGER REFERENCES users (id) ON DELETE CASCADE NOT NULL,
				following_id INTEGER REFERENCES users (id) ON DELETE CASCADE NOT NULL,
				CHECK (follower_id <> following_id)
			)
		`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`CREATE UNIQUE INDEX ux_follows ON follows (follower_id, following_id)`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`CREATE INDEX ix_follows_following_id ON follows (following_id)`)
		return errors.WithStack(err)
	}

	down := func(_ context.Context, db *bun.DB) error {
		for _, table := range []string{"follows", "list_items", "user_lists", "list_templates", "users"} {
			_, err := db.Exec(`DROP TABLE IF EXISTS ` + table)
			if err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	}

	Migrations.MustRegister(up, down)
}
