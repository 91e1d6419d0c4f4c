package reviews

// SubmitReviewPayload creates or replaces the caller's review for a book.
// BookTitle is only used to denormalize activity events.
type SubmitReviewPayload struct {
	BookID     int      `json:"book_id" validate:"required,min=1"`
	BookTitle  *string  `json:"book_title,omitempty" validate:"omitempty,max=500"`
	Rating     *float64 `json:"rating" validate:"required,min=0,max=10"`
	ReviewText *string  `json:"review_text,omitempty" validate:"omitempty,max=20000"`
	IsSpoiler  bool     `json:"is_spoiler,omitempty"`
}

// ListReviewsQuery is the query for listing reviews.
type ListReviewsQuery struct {
	Limit  int `query:"limit" json:"limit,omitempty" default:"24" validate:"min=1,max=100"`
	Offset int `query:"offset" json:"offset,omitempty" validate:"min=0"`
}
