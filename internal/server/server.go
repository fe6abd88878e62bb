package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"helpnow/internal/auth"
	"helpnow/internal/volunteer"
	"helpnow/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/handlers"
	"github.com/sirupsen/logrus"
)

var decoder = form.NewDecoder()

type Service struct {
	logger     *logrus.Logger
	config     *types.Config
	auth       *auth.Authenticator
	volunteers *volunteer.Service

	handler http.Handler
	server  *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	authenticator *auth.Authenticator,
	volunteers *volunteer.Service,
) (*Service, error) {
	if authenticator == nil || volunteers == nil {
		return nil, fmt.Errorf("server requires an authenticator and a volunteer service")
	}

	mux := flow.New()

	s := &Service{
		logger:     logger,
		config:     config,
		auth:       authenticator,
		volunteers: volunteers,
	}

	s.buildRouter(mux)

	s.handler = handlers.CORS(
		handlers.AllowedOrigins(config.AllowedOrigins),
		handlers.AllowCredentials(),
		handlers.AllowedMethods([]string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete,
		}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(mux)
	s.handler = handlers.RecoveryHandler(
		handlers.RecoveryLogger(logger),
		handlers.PrintRecoveryStack(true),
	)(s.handler)

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", config.ServerPort),
		Handler:           s.handler,
		ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
		ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Service) Handler() http.Handler {
	return s.handler
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.NotFound = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusNotFound, "not found")
	})

	r.Use(s.StripTrailingSlash)
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/", s.handleHome, http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)

	// Session
	r.HandleFunc("/jwt", s.handlePostJWT, http.MethodPost)
	r.HandleFunc("/logout", s.handlePostLogout, http.MethodPost)

	// Volunteer needs
	r.HandleFunc("/volunteerNeeds", s.handleGetNeeds, http.MethodGet)
	r.HandleFunc("/volunteerNeed", s.handlePostNeed, http.MethodPost)
	r.HandleFunc("/volunteerNeed/:id", s.handleGetNeed, http.MethodGet)
	r.HandleFunc("/volunteerNeed/:id", s.handlePutNeed, http.MethodPut)
	r.HandleFunc("/volunteerNeed/:id", s.handleDeleteNeed, http.MethodDelete)
	r.HandleFunc("/searchPosts", s.handleSearchNeeds, http.MethodGet)

	// Volunteer requests
	r.HandleFunc("/volunteerRequest", s.handlePostRequest, http.MethodPost)
	r.HandleFunc("/volunteerRequest/:id", s.handleDeleteRequest, http.MethodDelete)
	r.HandleFunc("/volunteer-requests/:id", s.handlePatchRequestStatus, http.MethodPatch)

	// Listings of a user's own data: the token must belong to the email in the path.
	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireToken)
		r.Use(s.RequireOwnEmail("email"))

		r.HandleFunc("/volunteerNeeds/:email", s.handleGetNeedsByOrganizer, http.MethodGet)
		r.HandleFunc("/my-request/:email", s.handleGetRequestsByVolunteer, http.MethodGet)
		r.HandleFunc("/volunteer-requests/:email", s.handleGetRequestsByOrganizer, http.MethodGet)
	})
}
