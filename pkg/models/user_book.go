package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	StatusWantToRead = "want_to_read"
	StatusReading    = "reading"
	StatusFinished   = "finished"
	StatusDNF        = "dnf"
)

// ValidStatuses is the set of reading statuses a user book can be in.
var ValidStatuses = map[string]bool{
	StatusWantToRead: true,
	StatusReading:    true,
	StatusFinished:   true,
	StatusDNF:        true,
}

// DateFormat is the format used for start_date and finish_date. Dates are
// stored as plain calendar days, not timestamps, so that a book finished on
// the 3rd stays finished on the 3rd regardless of timezone.
const DateFormat = "2006-01-02"

// UserBook is a user's tracking record for one book in the external catalog.
// There is exactly one row per (user_id, book_id) pair.
type UserBook struct {
	bun.BaseModel `bun:"table:user_books,alias:ub"`

	ID          int       `bun:",pk,nullzero" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	UserID      int       `bun:",nullzero" json:"user_id"`
	BookID      int       `bun:",nullzero" json:"book_id"`
	Status      string    `bun:",nullzero" json:"status"`
	StartDate   *string   `json:"start_date"`
	FinishDate  *string   `json:"finish_date"`
	CurrentPage *int      `json:"current_page,omitempty"`
	Rating      *float64  `json:"rating,omitempty"`
	Notes       *string   `json:"notes,omitempty"`
	IsFavorite  bool      `json:"is_favorite"`
	IsPrivate   bool      `json:"is_private"`

	User *User `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
}
