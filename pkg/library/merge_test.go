package library

import (
	"testing"

	"github.com/austinfarr/read-that/pkg/catalog"
	"github.com/austinfarr/read-that/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeLibrary(t *testing.T) {
	t.Parallel()

	records := []*models.UserBook{
		{ID: 1, BookID: 101, Status: models.StatusReading},
		{ID: 2, BookID: 102, Status: models.StatusFinished},
		{ID: 3, BookID: 103, Status: models.StatusWantToRead},
	}
	metadata := map[int]*catalog.BookMetadata{
		101: {ID: 101, Title: "The Left Hand of Darkness", Authors: []string{"Ursula K. Le Guin"}},
		103: {ID: 103, Title: "Piranesi", Authors: []string{"Susanna Clarke"}},
	}

	merged := MergeLibrary(records, metadata)
	require.Len(t, merged, 3)

	assert.Equal(t, records[0], merged[0].Record)
	assert.Equal(t, "The Left Hand of Darkness", merged[0].Book.Title)

	// The middle record has no metadata and gets a placeholder, not dropped.
	assert.Equal(t, records[1], merged[1].Record)
	assert.Equal(t, UnknownBookTitle, merged[1].Book.Title)
	assert.Equal(t, []string{UnknownBookAuthor}, merged[1].Book.Authors)
	assert.Equal(t, 102, merged[1].Book.ID)

	assert.Equal(t, "Piranesi", merged[2].Book.Title)
}

func TestMergeLibraryEmptyMetadata(t *testing.T) {
	t.Parallel()

	records := []*models.UserBook{
		{ID: 1, BookID: 101},
		{ID: 2, BookID: 102},
	}

	merged := MergeLibrary(records, nil)
	require.Len(t, merged, 2)
	for _, m := range merged {
		assert.Equal(t, UnknownBookTitle, m.Book.Title)
	}
}

func TestMergeLibraryNilMetadataEntry(t *testing.T) {
	t.Parallel()

	records := []*models.UserBook{{ID: 1, BookID: 101}}
	metadata := map[int]*catalog.BookMetadata{101: nil}

	merged := MergeLibrary(records, metadata)
	require.Len(t, merged, 1)
	assert.Equal(t, UnknownBookTitle, merged[0].Book.Title)
}

func TestMergeLibraryEmptyRecords(t *testing.T) {
	t.Parallel()

	merged := MergeLibrary(nil, nil)
	assert.Empty(t, merged)
}
