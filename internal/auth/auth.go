// Package auth issues and verifies the session token carried in the "token" cookie.
//
// The token is an HS256 JWT embedding the user's email. Before it is placed in the cookie it
// is authenticated and encrypted with securecookie, so the cookie value is opaque to clients.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"helpnow/internal"
	"helpnow/pkg/types"

	"github.com/gorilla/securecookie"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

var (
	ErrUnauthorized = errors.New("unauthorized access")
	ErrForbidden    = errors.New("forbidden access")
)

const DefaultTTL = 30 * 24 * time.Hour

type Options struct {
	Secret     []byte
	TTL        time.Duration
	HashKey    []byte
	BlockKey   []byte
	Production bool
}

type Authenticator struct {
	secret   []byte
	ttl      time.Duration
	cookie   *securecookie.SecureCookie
	secure   bool
	sameSite http.SameSite

	now func() time.Time
}

func New(opts Options) (*Authenticator, error) {
	if len(opts.Secret) == 0 {
		return nil, fmt.Errorf("token secret is required")
	}

	if len(opts.HashKey) == 0 {
		return nil, fmt.Errorf("cookie hash key is required")
	}

	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	cookie := securecookie.New(opts.HashKey, opts.BlockKey)
	cookie.MaxAge(int(ttl.Seconds()))

	a := &Authenticator{
		secret: opts.Secret,
		ttl:    ttl,
		cookie: cookie,
		now:    time.Now,
	}

	// Cross-site front-ends need SameSite=None, which browsers only accept on secure cookies.
	if opts.Production {
		a.secure = true
		a.sameSite = http.SameSiteNoneMode
	} else {
		a.sameSite = http.SameSiteStrictMode
	}

	return a, nil
}

// Issue signs a token for the identity that expires after the configured TTL.
func (a *Authenticator) Issue(identity types.Identity) (string, error) {
	now := a.now()

	builder := jwt.NewBuilder().
		Subject(identity.Email).
		Claim("email", identity.Email).
		IssuedAt(now).
		Expiration(now.Add(a.ttl))
	if identity.Name != "" {
		builder = builder.Claim("name", identity.Name)
	}

	token, err := builder.Build()
	if err != nil {
		return "", fmt.Errorf("failed to build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), a.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return string(signed), nil
}

// SetCookie issues a token for the identity and stores it in the session cookie.
func (a *Authenticator) SetCookie(w http.ResponseWriter, identity types.Identity) error {
	token, err := a.Issue(identity)
	if err != nil {
		return err
	}

	encoded, err := a.cookie.Encode(internal.COOKIE_TOKEN_NAME, token)
	if err != nil {
		return fmt.Errorf("failed to encrypt token: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     internal.COOKIE_TOKEN_NAME,
		Value:    encoded,
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: a.sameSite,
		MaxAge:   int(a.ttl.Seconds()),
		Path:     "/",
	})

	return nil
}

// ClearCookie expires the session cookie immediately.
func (a *Authenticator) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     internal.COOKIE_TOKEN_NAME,
		Value:    "",
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: a.sameSite,
		MaxAge:   -1,
		Path:     "/",
	})
}

// Verify reads the session cookie from the request and returns the identity embedded in its
// token. Any failure is reported as ErrUnauthorized wrapping the cause.
func (a *Authenticator) Verify(r *http.Request) (*types.Identity, error) {
	cookie, err := r.Cookie(internal.COOKIE_TOKEN_NAME)
	if err != nil || cookie.Value == "" {
		return nil, fmt.Errorf("%w: no token cookie", ErrUnauthorized)
	}

	var token string
	if err := a.cookie.Decode(internal.COOKIE_TOKEN_NAME, cookie.Value, &token); err != nil {
		return nil, fmt.Errorf("%w: failed to decrypt token: %s", ErrUnauthorized, err.Error())
	}

	return a.ParseToken(token)
}

// ParseToken validates signature and expiry of a raw token.
func (a *Authenticator) ParseToken(raw string) (*types.Identity, error) {
	token, err := jwt.Parse(
		[]byte(raw),
		jwt.WithKey(jwa.HS256(), a.secret),
		jwt.WithValidate(true),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnauthorized, err.Error())
	}

	var email string
	if err := token.Get("email", &email); err != nil || email == "" {
		return nil, fmt.Errorf("%w: no email claim in token", ErrUnauthorized)
	}

	identity := &types.Identity{Email: email}

	var name string
	if err := token.Get("name", &name); err == nil {
		identity.Name = name
	}

	return identity, nil
}

// Authorize checks that the email named by the route is the email the token was issued for.
func Authorize(routeEmail string, identity *types.Identity) error {
	if identity == nil || routeEmail != identity.Email {
		return ErrForbidden
	}
	return nil
}
