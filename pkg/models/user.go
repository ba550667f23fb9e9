package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int       `bun:",pk,nullzero" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Username     string    `bun:",nullzero" json:"username"`
	PasswordHash string    `json:"-"` // Never expose password hash
	Bio          *string   `json:"bio"`
	AvatarURL    *string   `json:"avatar_url"`

	// Relations
	Lists []*UserList `bun:"rel:has-many,join:id=user_id" json:"lists,omitempty"`
}
