package volunteer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"helpnow/internal/utils"
	"helpnow/pkg/types"

	"github.com/sirupsen/logrus"
)

// Service implements the needs and requests operations on top of the two repositories and
// keeps each need's volunteersNeeded counter in step with the requests filed against it.
type Service struct {
	logger   logrus.FieldLogger
	needs    NeedRepository
	requests RequestRepository
}

func NewService(logger logrus.FieldLogger, needs NeedRepository, requests RequestRepository) *Service {
	return &Service{
		logger:   logger,
		needs:    needs,
		requests: requests,
	}
}

func (s *Service) Needs(ctx context.Context) ([]*types.VolunteerNeed, error) {
	needs, err := s.needs.Needs(ctx)
	return needs, utils.ErrorWrapOrNil(err, "failed to list volunteer needs")
}

// Need returns nil without an error when no need has the given id.
func (s *Service) Need(ctx context.Context, id string) (*types.VolunteerNeed, error) {
	need, err := s.needs.Need(ctx, id)
	if errors.Is(err, types.ErrNeedNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch volunteer need %s: %w", id, err)
	}

	return need, nil
}

func (s *Service) NeedsByOrganizer(ctx context.Context, email string) ([]*types.VolunteerNeed, error) {
	needs, err := s.needs.NeedsByOrganizer(ctx, utils.NormalizeEmail(email))
	return needs, utils.ErrorWrapOrNil(err, "failed to list volunteer needs by organizer")
}

func (s *Service) SearchNeeds(ctx context.Context, title string) ([]*types.VolunteerNeed, error) {
	needs, err := s.needs.SearchNeeds(ctx, strings.TrimSpace(title))
	return needs, utils.ErrorWrapOrNil(err, "failed to search volunteer needs")
}

func (s *Service) CreateNeed(ctx context.Context, need *types.VolunteerNeed) (*types.InsertResult, error) {
	if err := Validate(need); err != nil {
		return nil, err
	}

	need.ID = ""
	id, err := s.needs.CreateNeed(ctx, need)
	if err != nil {
		return nil, fmt.Errorf("failed to create volunteer need: %w", err)
	}

	return &types.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

// UpdateNeed merges the supplied fields into the need. An id that matches nothing creates the
// need from those fields.
func (s *Service) UpdateNeed(ctx context.Context, id string, update types.VolunteerNeedUpdate) (*types.UpdateResult, error) {
	if update.IsEmpty() {
		return nil, types.ErrEmptyNeedUpdate
	}

	if err := Validate(&update); err != nil {
		return nil, err
	}

	result, err := s.needs.UpsertNeed(ctx, id, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update volunteer need %s: %w", id, err)
	}

	return result, nil
}

func (s *Service) DeleteNeed(ctx context.Context, id string) (*types.DeleteResult, error) {
	result, err := s.needs.DeleteNeed(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete volunteer need %s: %w", id, err)
	}

	return result, nil
}

// CreateRequest takes one slot from the referenced need and then stores the request.
//
// The slot is taken with a conditional update, so a need whose counter is already zero
// refuses the request with types.ErrNoSlotsRemaining. A request whose need no longer exists
// is still stored. If storing the request fails the slot is handed back on a best-effort
// basis.
func (s *Service) CreateRequest(ctx context.Context, request *types.VolunteerRequest) (*types.InsertResult, error) {
	if err := Validate(request); err != nil {
		return nil, err
	}

	request.ID = ""
	if strings.TrimSpace(request.Status) == "" {
		request.Status = types.RequestStatusRequested
	}

	entry := s.logger.WithFields(logrus.Fields{
		"need_id":         request.VolunteerID,
		"volunteer_email": request.Volunteer.Email,
	})

	reserved := true
	err := s.needs.AdjustVolunteersNeeded(ctx, request.VolunteerID, -1)
	switch {
	case errors.Is(err, types.ErrNeedNotFound):
		entry.Warn("volunteer request references a missing need, counter left untouched")
		reserved = false
	case err != nil:
		return nil, fmt.Errorf("failed to reserve slot on volunteer need %s: %w", request.VolunteerID, err)
	}

	id, err := s.requests.CreateRequest(ctx, request)
	if err != nil {
		if reserved {
			if rerr := s.needs.AdjustVolunteersNeeded(ctx, request.VolunteerID, 1); rerr != nil {
				entry.WithError(rerr).Error("failed to release slot after request insert failed")
			}
		}
		return nil, fmt.Errorf("failed to create volunteer request: %w", err)
	}

	return &types.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (s *Service) RequestsByVolunteer(ctx context.Context, email string) ([]*types.VolunteerRequest, error) {
	requests, err := s.requests.RequestsByVolunteer(ctx, utils.NormalizeEmail(email))
	return requests, utils.ErrorWrapOrNil(err, "failed to list volunteer requests by volunteer")
}

func (s *Service) RequestsByOrganizer(ctx context.Context, email string) ([]*types.VolunteerRequest, error) {
	requests, err := s.requests.RequestsByOrganizer(ctx, utils.NormalizeEmail(email))
	return requests, utils.ErrorWrapOrNil(err, "failed to list volunteer requests by organizer")
}

// DeleteRequest removes the request and gives its slot back to the referenced need. Deleting
// an unknown id reports zero deletions. A need that no longer exists is skipped silently, and
// a failed restore is logged without failing the delete that already happened.
func (s *Service) DeleteRequest(ctx context.Context, id string) (*types.DeleteResult, error) {
	request, err := s.requests.Request(ctx, id)
	if errors.Is(err, types.ErrRequestNotFound) {
		return &types.DeleteResult{Acknowledged: true}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch volunteer request %s: %w", id, err)
	}

	result, err := s.requests.DeleteRequest(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete volunteer request %s: %w", id, err)
	}

	// Someone else deleted it between the read and the delete and already released the slot.
	if result.DeletedCount == 0 {
		return result, nil
	}

	err = s.needs.AdjustVolunteersNeeded(ctx, request.VolunteerID, 1)
	if errors.Is(err, types.ErrNeedNotFound) || errors.Is(err, types.ErrInvalidID) {
		return result, nil
	}
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"request_id": id,
			"need_id":    request.VolunteerID,
		}).Warn("volunteer request deleted but need counter was not restored")
	}

	return result, nil
}

func (s *Service) UpdateRequestStatus(ctx context.Context, id string, update types.RequestStatusUpdate) (*types.UpdateResult, error) {
	if update.IsEmpty() {
		return nil, types.ErrEmptyStatusUpdate
	}

	result, err := s.requests.UpdateRequestStatus(ctx, id, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update volunteer request %s: %w", id, err)
	}

	return result, nil
}
