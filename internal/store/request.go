package store

import (
	"context"
	"fmt"
	"time"

	"helpnow/internal/utils"
	"helpnow/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const requestTableName = "helpnow.volunteer_requests"

type requestRow struct {
	ID             string    `db:"id"`
	VolunteerID    string    `db:"volunteer_id"`
	PostTitle      string    `db:"post_title"`
	Thumbnail      string    `db:"thumbnail"`
	Description    string    `db:"description"`
	Category       string    `db:"category"`
	Location       string    `db:"location"`
	Deadline       time.Time `db:"deadline"`
	OrganizerName  string    `db:"organizer_name"`
	OrganizerEmail string    `db:"organizer_email"`
	OrganizerPhoto string    `db:"organizer_photo"`
	VolunteerName  string    `db:"volunteer_name"`
	VolunteerEmail string    `db:"volunteer_email"`
	VolunteerPhoto string    `db:"volunteer_photo"`
	Suggestion     string    `db:"suggestion"`
	Status         string    `db:"status"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

var requestColumns = utils.StructTagValues(requestRow{})

func newRequestRow(request *types.VolunteerRequest) *requestRow {
	return &requestRow{
		ID:             request.ID,
		VolunteerID:    request.VolunteerID,
		PostTitle:      request.PostTitle,
		Thumbnail:      request.Thumbnail,
		Description:    request.Description,
		Category:       request.Category,
		Location:       request.Location,
		Deadline:       request.Deadline,
		OrganizerName:  request.Organizer.Name,
		OrganizerEmail: request.Organizer.Email,
		OrganizerPhoto: request.Organizer.Photo,
		VolunteerName:  request.Volunteer.Name,
		VolunteerEmail: request.Volunteer.Email,
		VolunteerPhoto: request.Volunteer.Photo,
		Suggestion:     request.Suggestion,
		Status:         request.Status,
	}
}

func (r *requestRow) toRequest() *types.VolunteerRequest {
	return &types.VolunteerRequest{
		ID:          r.ID,
		VolunteerID: r.VolunteerID,
		PostTitle:   r.PostTitle,
		Thumbnail:   r.Thumbnail,
		Description: r.Description,
		Category:    r.Category,
		Location:    r.Location,
		Deadline:    r.Deadline,
		Organizer: types.Person{
			Name:  r.OrganizerName,
			Email: r.OrganizerEmail,
			Photo: r.OrganizerPhoto,
		},
		Volunteer: types.Person{
			Name:  r.VolunteerName,
			Email: r.VolunteerEmail,
			Photo: r.VolunteerPhoto,
		},
		Suggestion: r.Suggestion,
		Status:     r.Status,
	}
}

type RequestRepository struct {
	pool *pgxpool.Pool
}

func NewRequestRepository(pool *pgxpool.Pool) *RequestRepository {
	return &RequestRepository{pool: pool}
}

func (r *RequestRepository) Request(ctx context.Context, id string) (*types.VolunteerRequest, error) {

	query, args, err := psql().Select(requestColumns...).From(requestTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate request query: %w", err)
	}

	var row requestRow
	err = pgxscan.Get(ctx, r.pool, &row, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to fetch request: %w", err)
	}

	return row.toRequest(), nil
}

func (r *RequestRepository) RequestsByVolunteer(ctx context.Context, email string) ([]*types.VolunteerRequest, error) {
	return r.selectRequests(ctx, sq.Eq{"volunteer_email": email})
}

func (r *RequestRepository) RequestsByOrganizer(ctx context.Context, email string) ([]*types.VolunteerRequest, error) {
	return r.selectRequests(ctx, sq.Eq{"organizer_email": email})
}

func (r *RequestRepository) selectRequests(ctx context.Context, where sq.Eq) ([]*types.VolunteerRequest, error) {

	query, args, err := psql().Select(requestColumns...).From(requestTableName).
		Where(where).
		OrderBy("created_at asc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate requests query: %w", err)
	}

	var rows []*requestRow
	err = pgxscan.Select(ctx, r.pool, &rows, query, args...)
	if err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to fetch requests")
	}

	requests := make([]*types.VolunteerRequest, 0, len(rows))
	for _, row := range rows {
		requests = append(requests, row.toRequest())
	}

	return requests, nil
}

func (r *RequestRepository) CreateRequest(ctx context.Context, request *types.VolunteerRequest) (string, error) {

	now := time.Now()
	row := newRequestRow(request)
	row.ID = utils.NanoID()
	row.CreatedAt = now
	row.UpdatedAt = now

	query, args, err := psql().Insert(requestTableName).SetMap(utils.StructToMap(row)).ToSql()
	if err != nil {
		return "", fmt.Errorf("failed to generate insert request query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	return row.ID, nil
}

func (r *RequestRepository) DeleteRequest(ctx context.Context, id string) (*types.DeleteResult, error) {

	query, args, err := psql().Delete(requestTableName).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate delete request query for request %s: %w", id, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to delete request: %w", err)
	}

	return &types.DeleteResult{Acknowledged: true, DeletedCount: tag.RowsAffected()}, nil
}

func (r *RequestRepository) UpdateRequestStatus(ctx context.Context, id string, update types.RequestStatusUpdate) (*types.UpdateResult, error) {

	query, args, err := psql().Update(requestTableName).
		SetMap(statusUpdateMap(update, time.Now())).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate update request query for request %s: %w", id, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update request: %w", err)
	}

	matched := tag.RowsAffected()
	return &types.UpdateResult{Acknowledged: true, MatchedCount: matched, ModifiedCount: matched}, nil
}

func statusUpdateMap(update types.RequestStatusUpdate, now time.Time) map[string]any {
	m := map[string]any{"updated_at": now}
	if update.Status != nil {
		m["status"] = *update.Status
	}
	if update.Suggestion != nil {
		m["suggestion"] = *update.Suggestion
	}
	return m
}
