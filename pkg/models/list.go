package models

import (
	"time"

	"github.com/topnlists/topn/pkg/filters"
	"github.com/uptrace/bun"
)

type ListTemplate struct {
	bun.BaseModel `bun:"table:list_templates,alias:lt"`

	ID              int       `bun:",pk,nullzero" json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	Category        string    `bun:",nullzero" json:"category"`
	Genre           *string   `json:"genre"`
	Decade          *string   `json:"decade"`
	Keyword         *string   `json:"keyword"`
	Certification   *string   `json:"certification"`
	Language        *string   `json:"language"`
	MaxCount        int       `json:"max_count"`
	DisplayName     string    `bun:",nullzero" json:"display_name"`
	Description     string    `json:"description"`
	IsCore          bool      `json:"is_core"`
	CreatedByUserID *int      `json:"created_by_user_id"`
	CreatedByUser   *User     `bun:"rel:belongs-to,join:created_by_user_id=id" json:"created_by_user,omitempty"`

	UserCount int `bun:",scanonly" json:"user_count"`
}

// Tuple returns the filter tuple the template was created for.
func (t *ListTemplate) Tuple() filters.Tuple {
	return filters.Tuple{
		Category:      t.Category,
		Genre:         t.Genre,
		Decade:        t.Decade,
		Keyword:       t.Keyword,
		Certification: t.Certification,
		Language:      t.Language,
		Size:          t.MaxCount,
	}
}

type UserList struct {
	bun.BaseModel `bun:"table:user_lists,alias:ul"`

	ID         int           `bun:",pk,nullzero" json:"id"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
	UserID     int           `bun:",nullzero" json:"user_id"`
	User       *User         `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	TemplateID int           `bun:",nullzero" json:"template_id"`
	Template   *ListTemplate `bun:"rel:belongs-to,join:template_id=id" json:"template,omitempty"`
	ShareToken string        `bun:",nullzero" json:"-"`
	Version    int           `json:"version"`

	// Relations
	Items []*ListItem `bun:"rel:has-many,join:id=list_id" json:"items,omitempty"`

	ItemCount int `bun:",scanonly" json:"item_count"`
}

type ListItem struct {
	bun.BaseModel `bun:"table:list_items,alias:li"`

	ID         int       `bun:",pk,nullzero" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	ListID     int       `bun:",nullzero" json:"list_id"`
	List       *UserList `bun:"rel:belongs-to,join:list_id=id" json:"list,omitempty"`
	Title      string    `bun:",nullzero" json:"title"`
	ExternalID *string   `json:"external_id"`
	CoverImage *string   `json:"cover_image"`
	Subtitle   *string   `json:"subtitle"`
	Year       *int      `json:"year"`
	Rank       int       `json:"rank"`
}
