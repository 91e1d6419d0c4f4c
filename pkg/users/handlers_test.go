package users

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/austinfarr/read-that/pkg/binder"
	"github.com/austinfarr/read-that/pkg/errcodes"
	"github.com/labstack/echo/v4"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUsersTestContext(t *testing.T, method, path, payload string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	req := httptest.NewRequest(method, path, strings.NewReader(payload))
	if payload != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rr := httptest.NewRecorder()
	return e.NewContext(req, rr), rr
}

func TestHandlerRetrieve(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	h := &handler{usersService: NewService(db)}
	ctx := context.Background()
	alice := createTestUser(ctx, t, db, "alice")

	c, rr := newUsersTestContext(t, http.MethodGet, "/users/"+strconv.Itoa(alice.ID), "")
	c.SetPath("/users/:id")
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(alice.ID))

	err := h.retrieve(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rr.Code)

	resp := Profile{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp.Username)
	assert.Zero(t, resp.FollowerCount)
}

func TestHandlerRetrieveNotFound(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	h := &handler{usersService: NewService(db)}

	c, _ := newUsersTestContext(t, http.MethodGet, "/users/999", "")
	c.SetPath("/users/:id")
	c.SetParamNames("id")
	c.SetParamValues("999")

	err := h.retrieve(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "User not found")
}

func TestHandlerSearch(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	h := &handler{usersService: NewService(db)}
	ctx := context.Background()
	createTestUser(ctx, t, db, "reader_one")
	createTestUser(ctx, t, db, "bookworm")

	c, rr := newUsersTestContext(t, http.MethodGet, "/users/search?q=reader", "")
	c.SetPath("/users/search")

	err := h.search(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rr.Code)

	resp := struct {
		Users []struct {
			Username string `json:"username"`
		} `json:"users"`
	}{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Users, 1)
	assert.Equal(t, "reader_one", resp.Users[0].Username)
}

func TestHandlerUpdateProfile(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	h := &handler{usersService: NewService(db)}
	ctx := context.Background()
	alice := createTestUser(ctx, t, db, "alice")

	c, rr := newUsersTestContext(t, http.MethodPatch, "/users/me", `{"bio":"Mostly sci-fi."}`)
	c.SetPath("/users/me")
	c.Set("user_id", alice.ID)
	c.Set("user", alice)

	err := h.updateProfile(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rr.Code)

	got, err := h.usersService.Retrieve(ctx, RetrieveUserOptions{ID: &alice.ID})
	require.NoError(t, err)
	require.NotNil(t, got.Bio)
	assert.Equal(t, "Mostly sci-fi.", *got.Bio)
}

func TestHandlerUpdateProfileRequiresAuth(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	h := &handler{usersService: NewService(db)}

	c, _ := newUsersTestContext(t, http.MethodPatch, "/users/me", `{"bio":"hi"}`)
	c.SetPath("/users/me")

	err := h.updateProfile(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Authentication required")
}
