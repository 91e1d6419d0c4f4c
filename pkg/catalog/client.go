package catalog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/austinfarr/read-that/pkg/config"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/segmentio/encoding/json"
)

// booksByIDsQuery fetches a batch of books in one round trip using an _in
// list filter. The API has no pagination contract beyond this, so callers
// fall back to one-by-one lookups if the bulk form fails.
const booksByIDsQuery = `
query BooksByIDs($ids: [Int!]!) {
  books(where: {id: {_in: $ids}}) {
    id
    title
    subtitle
    description
    pages
    release_year
    release_date
    cached_image
    contributions {
      author {
        name
      }
    }
  }
}`

const bookByIDQuery = `
query BookByID($id: Int!) {
  books(where: {id: {_eq: $id}}) {
    id
    title
    subtitle
    description
    pages
    release_year
    release_date
    cached_image
    contributions {
      author {
        name
      }
    }
  }
}`

// BookMetadata is the display metadata for one catalog book. It is owned by
// the external catalog and never persisted locally.
type BookMetadata struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Subtitle    *string  `json:"subtitle,omitempty"`
	Authors     []string `json:"authors"`
	CoverURL    *string  `json:"cover_url,omitempty"`
	PageCount   *int     `json:"page_count,omitempty"`
	Description *string  `json:"description,omitempty"`
	ReleaseYear *int     `json:"release_year,omitempty"`
	ReleaseDate *string  `json:"release_date,omitempty"`
}

// Client talks to the external book catalog's GraphQL endpoint.
type Client struct {
	httpClient *http.Client
	endpoint   string
	token      string
}

// NewClient creates a catalog client from config.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.CatalogRequestTimeout,
		},
		endpoint: cfg.CatalogAPIURL,
		token:    cfg.CatalogAPIToken,
	}
}

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type catalogBook struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	Subtitle      *string `json:"subtitle"`
	Description   *string `json:"description"`
	Pages         *int    `json:"pages"`
	ReleaseYear   *int    `json:"release_year"`
	ReleaseDate   *string `json:"release_date"`
	CachedImage   *string `json:"cached_image"`
	Contributions []struct {
		Author struct {
			Name string `json:"name"`
		} `json:"author"`
	} `json:"contributions"`
}

type booksResponse struct {
	Data struct {
		Books []catalogBook `json:"books"`
	} `json:"data"`
	Errors []graphqlError `json:"errors"`
}

// FetchByIDs looks up metadata for a batch of catalog IDs. Unknown IDs are
// simply absent from the returned map. If the bulk query fails, it falls back
// to one-by-one lookups; IDs that still fail are skipped and logged so a
// partial upstream outage never sinks the whole page.
func (c *Client) FetchByIDs(ctx context.Context, ids []int) map[int]*BookMetadata {
	byID := map[int]*BookMetadata{}
	if len(ids) == 0 {
		return byID
	}

	log := logger.FromContext(ctx)

	books, err := c.queryBooks(ctx, booksByIDsQuery, map[string]interface{}{"ids": ids})
	if err == nil {
		for _, b := range books {
			byID[b.ID] = convertBook(b)
		}
		return byID
	}

	log.Err(err).Warn("bulk catalog lookup failed, falling back to single lookups")

	for _, id := range ids {
		book, err := c.FetchByID(ctx, id)
		if err != nil {
			log.Err(err).Warn("catalog lookup failed", logger.Data{"book_id": id})
			continue
		}
		if book != nil {
			byID[book.ID] = book
		}
	}

	return byID
}

// FetchByID looks up a single book. Returns nil without an error when the
// catalog doesn't know the ID.
func (c *Client) FetchByID(ctx context.Context, id int) (*BookMetadata, error) {
	books, err := c.queryBooks(ctx, bookByIDQuery, map[string]interface{}{"id": id})
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, nil
	}
	return convertBook(books[0]), nil
}

// Forward posts a raw GraphQL document to the catalog and returns the
// upstream status code and response body verbatim.
func (c *Client) Forward(ctx context.Context, body io.Reader) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return 0, nil, errors.WithStack(err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, errors.WithStack(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, errors.WithStack(err)
	}

	return resp.StatusCode, respBody, nil
}

func (c *Client) queryBooks(ctx context.Context, query string, variables map[string]interface{}) ([]catalogBook, error) {
	payload, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("catalog returned status %d", resp.StatusCode)
	}

	parsed := booksResponse{}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errors.WithStack(err)
	}

	if len(parsed.Errors) > 0 {
		return nil, errors.Errorf("catalog error: %s", parsed.Errors[0].Message)
	}

	return parsed.Data.Books, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}
}

func convertBook(b catalogBook) *BookMetadata {
	authors := make([]string, 0, len(b.Contributions))
	for _, contribution := range b.Contributions {
		if contribution.Author.Name != "" {
			authors = append(authors, contribution.Author.Name)
		}
	}

	return &BookMetadata{
		ID:          b.ID,
		Title:       b.Title,
		Subtitle:    b.Subtitle,
		Authors:     authors,
		CoverURL:    b.CachedImage,
		PageCount:   b.Pages,
		Description: b.Description,
		ReleaseYear: b.ReleaseYear,
		ReleaseDate: b.ReleaseDate,
	}
}
