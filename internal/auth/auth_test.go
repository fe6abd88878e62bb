package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"helpnow/internal"
	"helpnow/pkg/types"

	"github.com/gorilla/securecookie"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthenticator(t *testing.T, production bool) *Authenticator {
	t.Helper()
	a, err := New(Options{
		Secret:     []byte("test-secret-value"),
		HashKey:    securecookie.GenerateRandomKey(32),
		BlockKey:   securecookie.GenerateRandomKey(32),
		Production: production,
	})
	require.NoError(t, err)
	return a
}

// requestWithCookies replays the cookies set on rec onto a fresh request.
func requestWithCookies(rec *httptest.ResponseRecorder) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func TestSetCookieAndVerify(t *testing.T) {
	a := newTestAuthenticator(t, false)

	rec := httptest.NewRecorder()
	require.NoError(t, a.SetCookie(rec, types.Identity{Email: "vol@example.com", Name: "Vol"}))

	identity, err := a.Verify(requestWithCookies(rec))
	require.NoError(t, err)
	assert.Equal(t, "vol@example.com", identity.Email)
	assert.Equal(t, "Vol", identity.Name)
}

func TestCookieAttributes(t *testing.T) {
	tests := []struct {
		name       string
		production bool
		secure     bool
		sameSite   http.SameSite
	}{
		{name: "development", production: false, secure: false, sameSite: http.SameSiteStrictMode},
		{name: "production", production: true, secure: true, sameSite: http.SameSiteNoneMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAuthenticator(t, tt.production)

			rec := httptest.NewRecorder()
			require.NoError(t, a.SetCookie(rec, types.Identity{Email: "vol@example.com"}))

			cookies := rec.Result().Cookies()
			require.Len(t, cookies, 1)
			c := cookies[0]
			assert.Equal(t, internal.COOKIE_TOKEN_NAME, c.Name)
			assert.True(t, c.HttpOnly)
			assert.Equal(t, tt.secure, c.Secure)
			assert.Equal(t, tt.sameSite, c.SameSite)
			assert.Equal(t, int(DefaultTTL.Seconds()), c.MaxAge)
		})
	}
}

func TestClearCookie(t *testing.T) {
	a := newTestAuthenticator(t, false)

	rec := httptest.NewRecorder()
	a.ClearCookie(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, internal.COOKIE_TOKEN_NAME, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestVerifyWithoutCookie(t *testing.T) {
	a := newTestAuthenticator(t, false)

	_, err := a.Verify(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestVerifyTamperedCookie(t *testing.T) {
	a := newTestAuthenticator(t, false)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: internal.COOKIE_TOKEN_NAME, Value: "not-a-real-cookie"})

	_, err := a.Verify(r)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestVerifyCookieFromOtherKeys(t *testing.T) {
	issuer := newTestAuthenticator(t, false)
	verifier := newTestAuthenticator(t, false)

	rec := httptest.NewRecorder()
	require.NoError(t, issuer.SetCookie(rec, types.Identity{Email: "vol@example.com"}))

	_, err := verifier.Verify(requestWithCookies(rec))
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	a := newTestAuthenticator(t, false)
	a.now = func() time.Time { return time.Now().Add(-31 * 24 * time.Hour) }

	token, err := a.Issue(types.Identity{Email: "vol@example.com"})
	require.NoError(t, err)

	_, err = a.ParseToken(token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	a := newTestAuthenticator(t, false)
	other, err := New(Options{Secret: []byte("another-secret"), HashKey: securecookie.GenerateRandomKey(32)})
	require.NoError(t, err)

	token, err := other.Issue(types.Identity{Email: "vol@example.com"})
	require.NoError(t, err)

	_, err = a.ParseToken(token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthorize(t *testing.T) {
	identity := &types.Identity{Email: "vol@example.com"}

	assert.NoError(t, Authorize("vol@example.com", identity))
	assert.ErrorIs(t, Authorize("other@example.com", identity), ErrForbidden)
	assert.ErrorIs(t, Authorize("VOL@example.com", identity), ErrForbidden)
	assert.ErrorIs(t, Authorize("vol@example.com", nil), ErrForbidden)
}

func TestNewRequiresSecrets(t *testing.T) {
	_, err := New(Options{HashKey: securecookie.GenerateRandomKey(32)})
	assert.Error(t, err)

	_, err = New(Options{Secret: []byte("secret")})
	assert.Error(t, err)
}
