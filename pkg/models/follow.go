package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Follow struct {
	bun.BaseModel `bun:"table:follows,alias:f"`

	ID          int       `bun:",pk,nullzero" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	FollowerID  int       `bun:",nullzero" json:"follower_id"`
	Follower    *User     `bun:"rel:belongs-to,join:follower_id=id" json:"follower,omitempty"`
	FollowingID int       `bun:",nullzero" json:"following_id"`
	Following   *User     `bun:"rel:belongs-to,join:following_id=id" json:"following,omitempty"`
}
