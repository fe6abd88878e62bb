// Package mongostore provides MongoDB-backed storage for volunteer needs and requests.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"helpnow/pkg/types"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	NeedsCollection    = "volunteerNeeds"
	RequestsCollection = "volunteerRequests"
)

// needDocument is the stored shape of a need.
type needDocument struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Thumbnail        string             `bson:"thumbnail"`
	PostTitle        string             `bson:"postTitle"`
	Description      string             `bson:"description"`
	Category         string             `bson:"category"`
	Location         string             `bson:"location"`
	VolunteersNeeded int                `bson:"volunteersNeeded"`
	Deadline         time.Time          `bson:"deadline"`
	Organizer        types.Person       `bson:"organizer"`
}

func newNeedDocument(need *types.VolunteerNeed) *needDocument {
	return &needDocument{
		Thumbnail:        need.Thumbnail,
		PostTitle:        need.PostTitle,
		Description:      need.Description,
		Category:         need.Category,
		Location:         need.Location,
		VolunteersNeeded: need.VolunteersNeeded,
		Deadline:         need.Deadline,
		Organizer:        need.Organizer,
	}
}

func (d *needDocument) toNeed() *types.VolunteerNeed {
	return &types.VolunteerNeed{
		ID:               d.ID.Hex(),
		Thumbnail:        d.Thumbnail,
		PostTitle:        d.PostTitle,
		Description:      d.Description,
		Category:         d.Category,
		Location:         d.Location,
		VolunteersNeeded: d.VolunteersNeeded,
		Deadline:         d.Deadline.UTC(),
		Organizer:        d.Organizer,
	}
}

type NeedRepository struct {
	collection *mongo.Collection
}

func NewNeedRepository(db *mongo.Database) *NeedRepository {
	return &NeedRepository{collection: db.Collection(NeedsCollection)}
}

var byDeadline = bson.D{{Key: "deadline", Value: 1}, {Key: "_id", Value: 1}}

func (r *NeedRepository) Needs(ctx context.Context) ([]*types.VolunteerNeed, error) {
	return r.find(ctx, bson.M{})
}

func (r *NeedRepository) Need(ctx context.Context, id string) (*types.VolunteerNeed, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var doc needDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, types.ErrNeedNotFound
		}
		return nil, fmt.Errorf("failed to find need: %w", err)
	}

	return doc.toNeed(), nil
}

func (r *NeedRepository) NeedsByOrganizer(ctx context.Context, email string) ([]*types.VolunteerNeed, error) {
	return r.find(ctx, bson.M{"organizer.email": email})
}

func (r *NeedRepository) SearchNeeds(ctx context.Context, title string) ([]*types.VolunteerNeed, error) {
	return r.find(ctx, bson.M{"postTitle": titlePattern(title)})
}

// titlePattern matches title literally and case-insensitively anywhere in postTitle.
func titlePattern(title string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(title), Options: "i"}
}

func (r *NeedRepository) find(ctx context.Context, filter bson.M) ([]*types.VolunteerNeed, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(byDeadline))
	if err != nil {
		return nil, fmt.Errorf("failed to find needs: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*needDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode needs: %w", err)
	}

	needs := make([]*types.VolunteerNeed, 0, len(docs))
	for _, doc := range docs {
		needs = append(needs, doc.toNeed())
	}

	return needs, nil
}

func (r *NeedRepository) CreateNeed(ctx context.Context, need *types.VolunteerNeed) (string, error) {
	doc := newNeedDocument(need)
	doc.ID = primitive.NewObjectID()

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("failed to create need: %w", err)
	}

	return doc.ID.Hex(), nil
}

func (r *NeedRepository) UpsertNeed(ctx context.Context, id string, update types.VolunteerNeedUpdate) (*types.UpdateResult, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": needSet(update)},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert need: %w", err)
	}

	return updateResult(res), nil
}

// needSet holds only the fields present in the update.
func needSet(update types.VolunteerNeedUpdate) bson.M {
	set := bson.M{}
	if update.Thumbnail != nil {
		set["thumbnail"] = *update.Thumbnail
	}
	if update.PostTitle != nil {
		set["postTitle"] = *update.PostTitle
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Category != nil {
		set["category"] = *update.Category
	}
	if update.Location != nil {
		set["location"] = *update.Location
	}
	if update.VolunteersNeeded != nil {
		set["volunteersNeeded"] = *update.VolunteersNeeded
	}
	if update.Deadline != nil {
		set["deadline"] = *update.Deadline
	}
	if update.Organizer != nil {
		set["organizer"] = *update.Organizer
	}
	return set
}

func (r *NeedRepository) DeleteNeed(ctx context.Context, id string) (*types.DeleteResult, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, fmt.Errorf("failed to delete need: %w", err)
	}

	return &types.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

func (r *NeedRepository) AdjustVolunteersNeeded(ctx context.Context, id string, delta int) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	res, err := r.collection.UpdateOne(ctx, adjustFilter(oid, delta), bson.M{
		"$inc": bson.M{"volunteersNeeded": delta},
	})
	if err != nil {
		return fmt.Errorf("failed to adjust volunteers needed: %w", err)
	}

	if res.MatchedCount > 0 {
		return nil
	}

	// Nothing matched: either the need is gone or the guard refused the change.
	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("failed to check need exists: %w", err)
	}

	if count == 0 {
		return types.ErrNeedNotFound
	}

	return types.ErrNoSlotsRemaining
}

// adjustFilter matches the need only while the counter can absorb a negative delta.
func adjustFilter(oid primitive.ObjectID, delta int) bson.M {
	filter := bson.M{"_id": oid}
	if delta < 0 {
		filter["volunteersNeeded"] = bson.M{"$gte": -delta}
	}
	return filter
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", types.ErrInvalidID, id)
	}
	return oid, nil
}

func updateResult(res *mongo.UpdateResult) *types.UpdateResult {
	result := &types.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
	}

	if oid, ok := res.UpsertedID.(primitive.ObjectID); ok {
		result.UpsertedID = oid.Hex()
	}

	return result
}
