package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"helpnow/internal/auth"
	"helpnow/pkg/types"

	"github.com/sirupsen/logrus"
)

// Context key types to avoid collisions
type contextKey string

const (
	contextKeyIdentity contextKey = "identity"
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Service) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration_ms": time.Since(started).Milliseconds(),
		}).Info("http request")
	})
}

// RequireToken rejects requests without a valid session cookie and adds the token's
// identity to the request context.
func (s *Service) RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := s.auth.Verify(r)
		if err != nil {
			s.logger.WithError(err).WithField("path", r.URL.Path).Debug("rejected session token")
			writeMessage(w, http.StatusUnauthorized, auth.ErrUnauthorized.Error())
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyIdentity, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireOwnEmail rejects requests whose path parameter does not name the email in the
// session token. It must run after RequireToken.
func (s *Service) RequireOwnEmail(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, _ := identityFromContext(r.Context())

			routeEmail := pathParam(r, param)
			if err := auth.Authorize(routeEmail, identity); err != nil {
				s.logger.WithFields(logrus.Fields{
					"path":        r.URL.Path,
					"route_email": routeEmail,
				}).Info("identity mismatch on own-data route")
				writeMessage(w, http.StatusForbidden, auth.ErrForbidden.Error())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func identityFromContext(ctx context.Context) (*types.Identity, bool) {
	identity, ok := ctx.Value(contextKeyIdentity).(*types.Identity)
	return identity, ok
}

func (s *Service) StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// Only strip if path is not root and has trailing slash
		if path != "/" && strings.HasSuffix(path, "/") {
			newURL := *r.URL
			newURL.Path = strings.TrimSuffix(path, "/")

			// Preserve query string
			http.Redirect(w, r, newURL.String(), http.StatusMovedPermanently)
			return
		}

		next.ServeHTTP(w, r)
	})
}
