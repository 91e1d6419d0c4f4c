package library

import (
	"github.com/austinfarr/read-that/pkg/catalog"
	"github.com/austinfarr/read-that/pkg/models"
)

// Placeholder fields shown when the catalog has no metadata for a book. A
// failed metadata lookup must never make a user's tracking data disappear.
const (
	UnknownBookTitle  = "Unknown Book"
	UnknownBookAuthor = "Unknown Author"
)

// DisplayBook combines a user's tracking record with the catalog metadata for
// the same book.
type DisplayBook struct {
	Record *models.UserBook      `json:"record"`
	Book   *catalog.BookMetadata `json:"book"`
}

// MergeLibrary combines tracking records with fetched catalog metadata into
// display-ready composites. Records whose metadata is missing (unknown ID,
// deleted upstream, partial fetch failure) get a placeholder book instead of
// being dropped, so the output always has one entry per input record, in
// input order. The function is pure.
func MergeLibrary(records []*models.UserBook, metadataByID map[int]*catalog.BookMetadata) []*DisplayBook {
	merged := make([]*DisplayBook, 0, len(records))

	for _, rec := range records {
		book, ok := metadataByID[rec.BookID]
		if !ok || book == nil {
			book = &catalog.BookMetadata{
				ID:      rec.BookID,
				Title:   UnknownBookTitle,
				Authors: []string{UnknownBookAuthor},
			}
		}
		merged = append(merged, &DisplayBook{
			Record: rec,
			Book:   book,
		})
	}

	return merged
}
