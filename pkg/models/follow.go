package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Follow is a directed edge in the social graph: follower follows following.
// Edges are unique per (follower_id, following_id) and self-follows are
// rejected at the service layer.
type Follow struct {
	bun.BaseModel `bun:"table:follows,alias:fl"`

	ID          int       `bun:",pk,nullzero" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	FollowerID  int       `bun:",nullzero" json:"follower_id"`
	FollowingID int       `bun:",nullzero" json:"following_id"`

	Follower  *User `bun:"rel:belongs-to,join:follower_id=id" json:"follower,omitempty"`
	Following *User `bun:"rel:belongs-to,join:following_id=id" json:"following,omitempty"`
}
