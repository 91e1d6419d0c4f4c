package library

// ListLibraryQuery is the query for listing a shelf.
type ListLibraryQuery struct {
	Limit     int     `query:"limit" json:"limit,omitempty" default:"24" validate:"min=1,max=100"`
	Offset    int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
	Status    *string `query:"status" json:"status,omitempty" validate:"omitempty,oneof=want_to_read reading finished dnf"`
	Favorites bool    `query:"favorites" json:"favorites,omitempty"`
}

// AddBookPayload adds a book to the caller's library. Adding a book that is
// already shelved updates the existing record instead of inserting a
// duplicate. BookTitle is only used to denormalize activity events; the
// canonical title always comes from the catalog.
type AddBookPayload struct {
	BookID      int      `json:"book_id" validate:"required,min=1"`
	BookTitle   *string  `json:"book_title,omitempty" validate:"omitempty,max=500"`
	Status      *string  `json:"status,omitempty" validate:"omitempty,oneof=want_to_read reading finished dnf"`
	Rating      *float64 `json:"rating,omitempty" validate:"omitempty,min=0,max=10"`
	Notes       *string  `json:"notes,omitempty" validate:"omitempty,max=5000"`
	CurrentPage *int     `json:"current_page,omitempty" validate:"omitempty,min=0"`
	IsFavorite  *bool    `json:"is_favorite,omitempty"`
	IsPrivate   *bool    `json:"is_private,omitempty"`
}

// UpdateBookPayload updates an existing tracking record.
type UpdateBookPayload struct {
	BookTitle   *string  `json:"book_title,omitempty" validate:"omitempty,max=500"`
	Status      *string  `json:"status,omitempty" validate:"omitempty,oneof=want_to_read reading finished dnf"`
	Rating      *float64 `json:"rating,omitempty" validate:"omitempty,min=0,max=10"`
	Notes       *string  `json:"notes,omitempty" validate:"omitempty,max=5000"`
	CurrentPage *int     `json:"current_page,omitempty" validate:"omitempty,min=0"`
	IsFavorite  *bool    `json:"is_favorite,omitempty"`
	IsPrivate   *bool    `json:"is_private,omitempty"`
}
