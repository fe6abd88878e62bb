package server

import (
	"net/http"

	"helpnow/internal/volunteer"
	"helpnow/pkg/types"
)

func (s *Service) handlePostJWT(w http.ResponseWriter, r *http.Request) {
	var identity types.Identity
	if err := decodeJSON(w, r, &identity); err != nil {
		s.writeServiceError(w, r, err, "failed to decode identity")
		return
	}

	if err := volunteer.Validate(&identity); err != nil {
		s.writeServiceError(w, r, err, "invalid identity")
		return
	}

	if err := s.auth.SetCookie(w, identity); err != nil {
		s.logger.WithError(err).Error("failed to issue session token")
		s.internalServerError(w)
		return
	}

	s.logger.WithField("email", identity.Email).Debug("issued session token")

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (s *Service) handlePostLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.ClearCookie(w)

	if identity, err := s.auth.Verify(r); err == nil {
		s.logger.WithField("email", identity.Email).Debug("cleared session token")
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
