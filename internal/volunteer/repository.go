package volunteer

import (
	"context"

	"helpnow/pkg/types"
)

// NeedRepository is implemented by every storage backend for the volunteerNeeds collection.
//
// Lookups of a missing id return types.ErrNeedNotFound. Ids the backend cannot parse return
// types.ErrInvalidID.
type NeedRepository interface {
	// Needs returns every need ordered by ascending deadline.
	Needs(ctx context.Context) ([]*types.VolunteerNeed, error)
	Need(ctx context.Context, id string) (*types.VolunteerNeed, error)
	NeedsByOrganizer(ctx context.Context, email string) ([]*types.VolunteerNeed, error)
	// SearchNeeds matches title as a literal, case-insensitive substring of postTitle.
	SearchNeeds(ctx context.Context, title string) ([]*types.VolunteerNeed, error)
	CreateNeed(ctx context.Context, need *types.VolunteerNeed) (string, error)
	// UpsertNeed sets the supplied fields of the need, creating it under id when absent.
	// Fields the update leaves nil keep their stored value.
	UpsertNeed(ctx context.Context, id string, update types.VolunteerNeedUpdate) (*types.UpdateResult, error)
	DeleteNeed(ctx context.Context, id string) (*types.DeleteResult, error)
	// AdjustVolunteersNeeded atomically adds delta to the counter of a single need. A
	// change that would take the counter below zero is refused with
	// types.ErrNoSlotsRemaining.
	AdjustVolunteersNeeded(ctx context.Context, id string, delta int) error
}

// RequestRepository is implemented by every storage backend for the volunteerRequests
// collection. Missing ids return types.ErrRequestNotFound.
type RequestRepository interface {
	Request(ctx context.Context, id string) (*types.VolunteerRequest, error)
	RequestsByVolunteer(ctx context.Context, email string) ([]*types.VolunteerRequest, error)
	RequestsByOrganizer(ctx context.Context, email string) ([]*types.VolunteerRequest, error)
	CreateRequest(ctx context.Context, request *types.VolunteerRequest) (string, error)
	DeleteRequest(ctx context.Context, id string) (*types.DeleteResult, error)
	UpdateRequestStatus(ctx context.Context, id string, update types.RequestStatusUpdate) (*types.UpdateResult, error)
}
