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

const needTableName = "helpnow.volunteer_needs"

// needRow is the flattened table layout of a types.VolunteerNeed.
type needRow struct {
	ID               string    `db:"id"`
	Thumbnail        string    `db:"thumbnail"`
	PostTitle        string    `db:"post_title"`
	Description      string    `db:"description"`
	Category         string    `db:"category"`
	Location         string    `db:"location"`
	VolunteersNeeded int       `db:"volunteers_needed"`
	Deadline         time.Time `db:"deadline"`
	OrganizerName    string    `db:"organizer_name"`
	OrganizerEmail   string    `db:"organizer_email"`
	OrganizerPhoto   string    `db:"organizer_photo"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

var needColumns = utils.StructTagValues(needRow{})

func newNeedRow(need *types.VolunteerNeed) *needRow {
	return &needRow{
		ID:               need.ID,
		Thumbnail:        need.Thumbnail,
		PostTitle:        need.PostTitle,
		Description:      need.Description,
		Category:         need.Category,
		Location:         need.Location,
		VolunteersNeeded: need.VolunteersNeeded,
		Deadline:         need.Deadline,
		OrganizerName:    need.Organizer.Name,
		OrganizerEmail:   need.Organizer.Email,
		OrganizerPhoto:   need.Organizer.Photo,
	}
}

func (r *needRow) toNeed() *types.VolunteerNeed {
	return &types.VolunteerNeed{
		ID:               r.ID,
		Thumbnail:        r.Thumbnail,
		PostTitle:        r.PostTitle,
		Description:      r.Description,
		Category:         r.Category,
		Location:         r.Location,
		VolunteersNeeded: r.VolunteersNeeded,
		Deadline:         r.Deadline,
		Organizer: types.Person{
			Name:  r.OrganizerName,
			Email: r.OrganizerEmail,
			Photo: r.OrganizerPhoto,
		},
	}
}

type NeedRepository struct {
	pool *pgxpool.Pool
}

func NewNeedRepository(pool *pgxpool.Pool) *NeedRepository {
	return &NeedRepository{pool: pool}
}

func (r *NeedRepository) Needs(ctx context.Context) ([]*types.VolunteerNeed, error) {
	return r.selectNeeds(ctx, psql().Select(needColumns...).From(needTableName))
}

func (r *NeedRepository) Need(ctx context.Context, id string) (*types.VolunteerNeed, error) {

	query, args, err := psql().Select(needColumns...).From(needTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate need query: %w", err)
	}

	var row needRow
	err = pgxscan.Get(ctx, r.pool, &row, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrNeedNotFound
		}
		return nil, fmt.Errorf("failed to fetch need: %w", err)
	}

	return row.toNeed(), nil
}

func (r *NeedRepository) NeedsByOrganizer(ctx context.Context, email string) ([]*types.VolunteerNeed, error) {
	return r.selectNeeds(ctx, psql().Select(needColumns...).From(needTableName).
		Where(sq.Eq{"organizer_email": email}))
}

func (r *NeedRepository) SearchNeeds(ctx context.Context, title string) ([]*types.VolunteerNeed, error) {
	return r.selectNeeds(ctx, psql().Select(needColumns...).From(needTableName).
		Where("post_title ILIKE ?", containsPattern(title)))
}

func (r *NeedRepository) selectNeeds(ctx context.Context, builder sq.SelectBuilder) ([]*types.VolunteerNeed, error) {

	query, args, err := builder.OrderBy("deadline asc", "created_at asc").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate needs query: %w", err)
	}

	var rows []*needRow
	err = pgxscan.Select(ctx, r.pool, &rows, query, args...)
	if err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to fetch needs")
	}

	needs := make([]*types.VolunteerNeed, 0, len(rows))
	for _, row := range rows {
		needs = append(needs, row.toNeed())
	}

	return needs, nil
}

func (r *NeedRepository) CreateNeed(ctx context.Context, need *types.VolunteerNeed) (string, error) {

	now := time.Now()
	row := newNeedRow(need)
	row.ID = utils.NanoID()
	row.CreatedAt = now
	row.UpdatedAt = now

	query, args, err := psql().Insert(needTableName).SetMap(utils.StructToMap(row)).ToSql()
	if err != nil {
		return "", fmt.Errorf("failed to generate insert need query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return "", fmt.Errorf("failed to create need: %w", err)
	}

	return row.ID, nil

}

func (r *NeedRepository) UpsertNeed(ctx context.Context, id string, update types.VolunteerNeedUpdate) (*types.UpdateResult, error) {

	query, args, err := upsertNeedQuery(id, update, time.Now()).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate upsert need query for need %s: %w", id, err)
	}

	var inserted bool
	err = pgxscan.Get(ctx, r.pool, &inserted, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert need: %w", err)
	}

	if inserted {
		return &types.UpdateResult{Acknowledged: true, UpsertedCount: 1, UpsertedID: id}, nil
	}

	return &types.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil

}

// upsertNeedQuery inserts the update as a new row, or on conflict overwrites only the columns
// the update supplies.
func upsertNeedQuery(id string, update types.VolunteerNeedUpdate, now time.Time) sq.InsertBuilder {
	var need types.VolunteerNeed
	update.Apply(&need)

	row := newNeedRow(&need)
	row.ID = id
	row.CreatedAt = now
	row.UpdatedAt = now

	return psql().Insert(needTableName).
		SetMap(utils.StructToMap(row)).
		Suffix(upsertSuffix("id", append(needUpdateColumns(update), "updated_at")))
}

func needUpdateColumns(update types.VolunteerNeedUpdate) []string {
	columns := make([]string, 0, len(needColumns))
	if update.Thumbnail != nil {
		columns = append(columns, "thumbnail")
	}
	if update.PostTitle != nil {
		columns = append(columns, "post_title")
	}
	if update.Description != nil {
		columns = append(columns, "description")
	}
	if update.Category != nil {
		columns = append(columns, "category")
	}
	if update.Location != nil {
		columns = append(columns, "location")
	}
	if update.VolunteersNeeded != nil {
		columns = append(columns, "volunteers_needed")
	}
	if update.Deadline != nil {
		columns = append(columns, "deadline")
	}
	if update.Organizer != nil {
		columns = append(columns, "organizer_name", "organizer_email", "organizer_photo")
	}
	return columns
}

func (r *NeedRepository) DeleteNeed(ctx context.Context, id string) (*types.DeleteResult, error) {

	query, args, err := psql().Delete(needTableName).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate delete need query for need %s: %w", id, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to delete need: %w", err)
	}

	return &types.DeleteResult{Acknowledged: true, DeletedCount: tag.RowsAffected()}, nil

}

func (r *NeedRepository) AdjustVolunteersNeeded(ctx context.Context, id string, delta int) error {

	query, args, err := adjustVolunteersQuery(id, delta, time.Now()).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate adjust volunteers query for need %s: %w", id, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to adjust volunteers needed: %w", err)
	}

	if tag.RowsAffected() > 0 {
		return nil
	}

	// Nothing matched: either the need is gone or the guard refused the change.
	query, args, err = psql().Select("count(*)").From(needTableName).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate need exists query: %w", err)
	}

	var count int
	if err := pgxscan.Get(ctx, r.pool, &count, query, args...); err != nil {
		return fmt.Errorf("failed to check need exists: %w", err)
	}

	if count == 0 {
		return types.ErrNeedNotFound
	}

	return types.ErrNoSlotsRemaining

}

// adjustVolunteersQuery adds delta to the counter in a single statement. The guard in the
// WHERE clause keeps concurrent decrements from taking the counter below zero.
func adjustVolunteersQuery(id string, delta int, now time.Time) sq.UpdateBuilder {
	return psql().Update(needTableName).
		Set("volunteers_needed", sq.Expr("volunteers_needed + ?", delta)).
		Set("updated_at", now).
		Where(sq.Eq{"id": id}).
		Where("volunteers_needed + ? >= 0", delta)
}
