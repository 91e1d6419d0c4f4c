package catalog

import (
	"github.com/austinfarr/read-that/pkg/errcodes"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	client *Client
}

// proxy forwards an arbitrary GraphQL document to the catalog API and returns
// its JSON response verbatim. The bearer credential stays server-side. A
// transport failure surfaces as the generic 500 envelope.
func (h *handler) proxy(c echo.Context) error {
	ctx := c.Request().Context()

	if c.Request().ContentLength == 0 {
		return errcodes.EmptyRequestBody()
	}

	status, body, err := h.client.Forward(ctx, c.Request().Body)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSONBlob(status, body))
}
