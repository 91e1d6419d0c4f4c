package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Review is a user's rating and optional writeup for one book. Like
// UserBook, there is exactly one row per (user_id, book_id) pair. The rating
// is kept to one decimal of precision.
type Review struct {
	bun.BaseModel `bun:"table:reviews,alias:r"`

	ID         int       `bun:",pk,nullzero" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	UserID     int       `bun:",nullzero" json:"user_id"`
	BookID     int       `bun:",nullzero" json:"book_id"`
	Rating     float64   `json:"rating"`
	ReviewText *string   `json:"review_text,omitempty"`
	IsSpoiler  bool      `json:"is_spoiler"`

	User *User `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
}
