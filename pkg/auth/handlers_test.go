package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/austinfarr/read-that/pkg/binder"
	"github.com/austinfarr/read-that/pkg/errcodes"
	"github.com/labstack/echo/v4"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestContext(t *testing.T, payload string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rr := httptest.NewRecorder()
	return e.NewContext(req, rr), rr
}

func sessionCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == CookieName {
			return cookie
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestHandlerSignup(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	h := &handler{authService: NewService(db, testSecret)}

	c, rr := newAuthTestContext(t, `{"username":"alice","password":"password123"}`)

	err := h.signup(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rr.Code)

	resp := MeResponse{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp.Username)

	cookie := sessionCookie(t, rr)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)

	claims, err := h.authService.ValidateToken(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, claims.UserID)
}

func TestHandlerSignupValidation(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	h := &handler{authService: NewService(db, testSecret)}

	c, _ := newAuthTestContext(t, `{"username":"al","password":"short"}`)

	err := h.signup(c)
	require.Error(t, err)
}

func TestHandlerLogin(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	h := &handler{authService: NewService(db, testSecret)}
	signupCtx, _ := newAuthTestContext(t, `{"username":"alice","password":"password123"}`)
	require.NoError(t, h.signup(signupCtx))

	t.Run("valid credentials", func(t *testing.T) {
		c, rr := newAuthTestContext(t, `{"username":"alice","password":"password123"}`)
		err := h.login(c)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.NotEmpty(t, sessionCookie(t, rr).Value)
	})

	t.Run("wrong password", func(t *testing.T) {
		c, _ := newAuthTestContext(t, `{"username":"alice","password":"wrongwrong"}`)
		err := h.login(c)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid username or password")
	})
}

func TestHandlerLogout(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	h := &handler{authService: NewService(db, testSecret)}

	c, rr := newAuthTestContext(t, "")

	err := h.logout(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rr.Code)

	cookie := sessionCookie(t, rr)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestHandlerStatus(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	h := &handler{authService: NewService(db, testSecret)}
	signupCtx, signupRR := newAuthTestContext(t, `{"username":"alice","password":"password123"}`)
	require.NoError(t, h.signup(signupCtx))
	cookie := sessionCookie(t, signupRR)

	t.Run("authenticated", func(t *testing.T) {
		c, rr := newAuthTestContext(t, "")
		c.Request().AddCookie(cookie)

		err := h.status(c)
		require.NoError(t, err)

		resp := StatusResponse{}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.True(t, resp.Authenticated)
		require.NotNil(t, resp.Username)
		assert.Equal(t, "alice", *resp.Username)
	})

	t.Run("anonymous", func(t *testing.T) {
		c, rr := newAuthTestContext(t, "")

		err := h.status(c)
		require.NoError(t, err)

		resp := StatusResponse{}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.False(t, resp.Authenticated)
		assert.Nil(t, resp.Username)
	})
}
