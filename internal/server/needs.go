package server

import (
	"net/http"

	"helpnow/pkg/types"
)

type searchQuery struct {
	Search string `form:"search"`
}

func (s *Service) handleGetNeeds(w http.ResponseWriter, r *http.Request) {
	needs, err := s.volunteers.Needs(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err, "failed to list volunteer needs")
		return
	}

	writeJSON(w, http.StatusOK, needs)
}

func (s *Service) handleGetNeed(w http.ResponseWriter, r *http.Request) {
	need, err := s.volunteers.Need(r.Context(), pathParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, err, "failed to fetch volunteer need")
		return
	}

	if need == nil {
		writeEmpty(w)
		return
	}

	writeJSON(w, http.StatusOK, need)
}

func (s *Service) handlePostNeed(w http.ResponseWriter, r *http.Request) {
	var need types.VolunteerNeed
	if err := decodeJSON(w, r, &need); err != nil {
		s.writeServiceError(w, r, err, "failed to decode volunteer need")
		return
	}

	result, err := s.volunteers.CreateNeed(r.Context(), &need)
	if err != nil {
		s.writeServiceError(w, r, err, "failed to create volunteer need")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Service) handleGetNeedsByOrganizer(w http.ResponseWriter, r *http.Request) {
	needs, err := s.volunteers.NeedsByOrganizer(r.Context(), pathParam(r, "email"))
	if err != nil {
		s.writeServiceError(w, r, err, "failed to list volunteer needs by organizer")
		return
	}

	writeJSON(w, http.StatusOK, needs)
}

func (s *Service) handlePutNeed(w http.ResponseWriter, r *http.Request) {
	var update types.VolunteerNeedUpdate
	if err := decodeJSON(w, r, &update); err != nil {
		s.writeServiceError(w, r, err, "failed to decode volunteer need update")
		return
	}

	result, err := s.volunteers.UpdateNeed(r.Context(), pathParam(r, "id"), update)
	if err != nil {
		s.writeServiceError(w, r, err, "failed to update volunteer need")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Service) handleDeleteNeed(w http.ResponseWriter, r *http.Request) {
	result, err := s.volunteers.DeleteNeed(r.Context(), pathParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, err, "failed to delete volunteer need")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Service) handleSearchNeeds(w http.ResponseWriter, r *http.Request) {
	var q searchQuery
	if err := decoder.Decode(&q, r.URL.Query()); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid search query")
		return
	}

	needs, err := s.volunteers.SearchNeeds(r.Context(), q.Search)
	if err != nil {
		s.writeServiceError(w, r, err, "failed to search volunteer needs")
		return
	}

	writeJSON(w, http.StatusOK, needs)
}
