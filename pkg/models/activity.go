package models

import (
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
	"github.com/uptrace/bun"
)

const (
	ActivityStatusChange  = "status_change"
	ActivityReviewPosted  = "review_posted"
	ActivityBookAdded     = "book_added"
	ActivityBookFavorited = "book_favorited"
)

// ActivityEvent is an append-only record of a user action for the social
// feed. Rows are only ever inserted and read, never updated. The username and
// book title are denormalized onto the row so the feed can be rendered
// without joining back to books that live in the external catalog.
type ActivityEvent struct {
	bun.BaseModel `bun:"table:activity_events,alias:ae"`

	ID         int         `bun:",pk,nullzero" json:"id"`
	CreatedAt  time.Time   `json:"created_at"`
	UserID     int         `bun:",nullzero" json:"user_id"`
	Username   string      `bun:",nullzero" json:"username"`
	EventType  string      `bun:",nullzero" json:"event_type"`
	BookID     *int        `json:"book_id,omitempty"`
	BookTitle  *string     `json:"book_title,omitempty"`
	Data       string      `json:"-"`
	DataParsed interface{} `bun:"-" json:"data,omitempty"`
}

// StatusChangeData is the payload for status_change events.
type StatusChangeData struct {
	OldStatus string `json:"old_status,omitempty"`
	NewStatus string `json:"new_status"`
}

// ReviewPostedData is the payload for review_posted events.
type ReviewPostedData struct {
	Rating    float64 `json:"rating"`
	IsSpoiler bool    `json:"is_spoiler"`
}

// MarshalData serializes DataParsed into the Data column.
func (e *ActivityEvent) MarshalData() error {
	if e.DataParsed == nil {
		e.Data = "{}"
		return nil
	}
	b, err := json.Marshal(e.DataParsed)
	if err != nil {
		return errors.WithStack(err)
	}
	e.Data = string(b)
	return nil
}

// UnmarshalData parses the Data column into a typed payload based on the
// event type.
func (e *ActivityEvent) UnmarshalData() error {
	switch e.EventType {
	case ActivityStatusChange:
		e.DataParsed = &StatusChangeData{}
	case ActivityReviewPosted:
		e.DataParsed = &ReviewPostedData{}
	default:
		return nil
	}

	err := json.Unmarshal([]byte(e.Data), e.DataParsed)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}
