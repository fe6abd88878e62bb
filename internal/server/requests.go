package server

import (
	"net/http"

	"helpnow/pkg/types"
)

func (s *Service) handlePostRequest(w http.ResponseWriter, r *http.Request) {
	var request types.VolunteerRequest
	if err := decodeJSON(w, r, &request); err != nil {
		s.writeServiceError(w, r, err, "failed to decode volunteer request")
		return
	}

	result, err := s.volunteers.CreateRequest(r.Context(), &request)
	if err != nil {
		s.writeServiceError(w, r, err, "failed to create volunteer request")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Service) handleGetRequestsByVolunteer(w http.ResponseWriter, r *http.Request) {
	requests, err := s.volunteers.RequestsByVolunteer(r.Context(), pathParam(r, "email"))
	if err != nil {
		s.writeServiceError(w, r, err, "failed to list volunteer requests by volunteer")
		return
	}

	writeJSON(w, http.StatusOK, requests)
}

func (s *Service) handleGetRequestsByOrganizer(w http.ResponseWriter, r *http.Request) {
	requests, err := s.volunteers.RequestsByOrganizer(r.Context(), pathParam(r, "email"))
	if err != nil {
		s.writeServiceError(w, r, err, "failed to list volunteer requests by organizer")
		return
	}

	writeJSON(w, http.StatusOK, requests)
}

func (s *Service) handleDeleteRequest(w http.ResponseWriter, r *http.Request) {
	result, err := s.volunteers.DeleteRequest(r.Context(), pathParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, err, "failed to delete volunteer request")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Service) handlePatchRequestStatus(w http.ResponseWriter, r *http.Request) {
	var update types.RequestStatusUpdate
	if err := decodeJSON(w, r, &update); err != nil {
		s.writeServiceError(w, r, err, "failed to decode volunteer request status")
		return
	}

	result, err := s.volunteers.UpdateRequestStatus(r.Context(), pathParam(r, "id"), update)
	if err != nil {
		s.writeServiceError(w, r, err, "failed to update volunteer request status")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
