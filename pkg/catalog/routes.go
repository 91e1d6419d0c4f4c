package catalog

import (
	"github.com/austinfarr/read-that/pkg/auth"
	"github.com/labstack/echo/v4"
)

// RegisterRoutesWithGroup registers catalog routes on a pre-configured group.
// The proxy relays requests with the server's credential attached, so it is
// only available to signed-in users.
func RegisterRoutesWithGroup(g *echo.Group, client *Client, authMiddleware *auth.Middleware) {
	h := &handler{client: client}

	g.POST("/graphql", h.proxy, authMiddleware.Authenticate)
}
