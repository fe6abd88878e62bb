// Package memstore keeps volunteer needs and requests in process memory. It backs the
// "memory" database driver used for local development and the service and server tests.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"helpnow/internal/utils"
	"helpnow/pkg/types"
)

// Store implements both volunteer.NeedRepository and volunteer.RequestRepository. Documents
// are copied in and out so callers never share memory with the store.
type Store struct {
	mu       sync.RWMutex
	needs    map[string]types.VolunteerNeed
	requests map[string]types.VolunteerRequest
	// insertion order, used to break deadline ties deterministically
	needOrder    []string
	requestOrder []string
}

func New() *Store {
	return &Store{
		needs:    make(map[string]types.VolunteerNeed),
		requests: make(map[string]types.VolunteerRequest),
	}
}

func (s *Store) Needs(ctx context.Context) ([]*types.VolunteerNeed, error) {
	return s.filterNeeds(func(*types.VolunteerNeed) bool { return true }), nil
}

func (s *Store) Need(ctx context.Context, id string) (*types.VolunteerNeed, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	need, ok := s.needs[id]
	if !ok {
		return nil, types.ErrNeedNotFound
	}

	return &need, nil
}

func (s *Store) NeedsByOrganizer(ctx context.Context, email string) ([]*types.VolunteerNeed, error) {
	return s.filterNeeds(func(n *types.VolunteerNeed) bool {
		return n.Organizer.Email == email
	}), nil
}

func (s *Store) SearchNeeds(ctx context.Context, title string) ([]*types.VolunteerNeed, error) {
	title = strings.ToLower(title)
	return s.filterNeeds(func(n *types.VolunteerNeed) bool {
		return strings.Contains(strings.ToLower(n.PostTitle), title)
	}), nil
}

func (s *Store) CreateNeed(ctx context.Context, need *types.VolunteerNeed) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := utils.NanoID()
	stored := *need
	stored.ID = id
	s.needs[id] = stored
	s.needOrder = append(s.needOrder, id)

	return id, nil
}

func (s *Store) UpsertNeed(ctx context.Context, id string, update types.VolunteerNeedUpdate) (*types.UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.needs[id]

	stored := existing
	stored.ID = id
	update.Apply(&stored)
	s.needs[id] = stored

	if !ok {
		s.needOrder = append(s.needOrder, id)
		return &types.UpdateResult{Acknowledged: true, UpsertedCount: 1, UpsertedID: id}, nil
	}

	result := &types.UpdateResult{Acknowledged: true, MatchedCount: 1}
	if existing != stored {
		result.ModifiedCount = 1
	}

	return result, nil
}

func (s *Store) DeleteNeed(ctx context.Context, id string) (*types.DeleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.needs[id]; !ok {
		return &types.DeleteResult{Acknowledged: true}, nil
	}

	delete(s.needs, id)
	s.needOrder = removeID(s.needOrder, id)

	return &types.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}

func (s *Store) AdjustVolunteersNeeded(ctx context.Context, id string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	need, ok := s.needs[id]
	if !ok {
		return types.ErrNeedNotFound
	}

	if need.VolunteersNeeded+delta < 0 {
		return types.ErrNoSlotsRemaining
	}

	need.VolunteersNeeded += delta
	s.needs[id] = need

	return nil
}

func (s *Store) Request(ctx context.Context, id string) (*types.VolunteerRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	request, ok := s.requests[id]
	if !ok {
		return nil, types.ErrRequestNotFound
	}

	return &request, nil
}

func (s *Store) RequestsByVolunteer(ctx context.Context, email string) ([]*types.VolunteerRequest, error) {
	return s.filterRequests(func(r *types.VolunteerRequest) bool {
		return r.Volunteer.Email == email
	}), nil
}

func (s *Store) RequestsByOrganizer(ctx context.Context, email string) ([]*types.VolunteerRequest, error) {
	return s.filterRequests(func(r *types.VolunteerRequest) bool {
		return r.Organizer.Email == email
	}), nil
}

func (s *Store) CreateRequest(ctx context.Context, request *types.VolunteerRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := utils.NanoID()
	stored := *request
	stored.ID = id
	s.requests[id] = stored
	s.requestOrder = append(s.requestOrder, id)

	return id, nil
}

func (s *Store) DeleteRequest(ctx context.Context, id string) (*types.DeleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.requests[id]; !ok {
		return &types.DeleteResult{Acknowledged: true}, nil
	}

	delete(s.requests, id)
	s.requestOrder = removeID(s.requestOrder, id)

	return &types.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}

func (s *Store) UpdateRequestStatus(ctx context.Context, id string, update types.RequestStatusUpdate) (*types.UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	request, ok := s.requests[id]
	if !ok {
		return &types.UpdateResult{Acknowledged: true}, nil
	}

	before := request
	if update.Status != nil {
		request.Status = *update.Status
	}
	if update.Suggestion != nil {
		request.Suggestion = *update.Suggestion
	}
	s.requests[id] = request

	result := &types.UpdateResult{Acknowledged: true, MatchedCount: 1}
	if before != request {
		result.ModifiedCount = 1
	}

	return result, nil
}

func (s *Store) filterNeeds(keep func(*types.VolunteerNeed) bool) []*types.VolunteerNeed {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*types.VolunteerNeed, 0, len(s.needOrder))
	for _, id := range s.needOrder {
		need := s.needs[id]
		if keep(&need) {
			out = append(out, &need)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Deadline.Before(out[j].Deadline)
	})

	return out
}

func (s *Store) filterRequests(keep func(*types.VolunteerRequest) bool) []*types.VolunteerRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*types.VolunteerRequest, 0)
	for _, id := range s.requestOrder {
		request := s.requests[id]
		if keep(&request) {
			out = append(out, &request)
		}
	}

	return out
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
