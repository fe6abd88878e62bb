package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"helpnow/pkg/types"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type requestDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	VolunteerID string             `bson:"volunteerId"`
	PostTitle   string             `bson:"postTitle"`
	Thumbnail   string             `bson:"thumbnail"`
	Description string             `bson:"description"`
	Category    string             `bson:"category"`
	Location    string             `bson:"location"`
	Deadline    time.Time          `bson:"deadline"`
	Organizer   types.Person       `bson:"organizer"`
	Volunteer   types.Person       `bson:"volunteer"`
	Suggestion  string             `bson:"suggestion"`
	Status      string             `bson:"status"`
}

func newRequestDocument(request *types.VolunteerRequest) *requestDocument {
	return &requestDocument{
		VolunteerID: request.VolunteerID,
		PostTitle:   request.PostTitle,
		Thumbnail:   request.Thumbnail,
		Description: request.Description,
		Category:    request.Category,
		Location:    request.Location,
		Deadline:    request.Deadline,
		Organizer:   request.Organizer,
		Volunteer:   request.Volunteer,
		Suggestion:  request.Suggestion,
		Status:      request.Status,
	}
}

func (d *requestDocument) toRequest() *types.VolunteerRequest {
	return &types.VolunteerRequest{
		ID:          d.ID.Hex(),
		VolunteerID: d.VolunteerID,
		PostTitle:   d.PostTitle,
		Thumbnail:   d.Thumbnail,
		Description: d.Description,
		Category:    d.Category,
		Location:    d.Location,
		Deadline:    d.Deadline.UTC(),
		Organizer:   d.Organizer,
		Volunteer:   d.Volunteer,
		Suggestion:  d.Suggestion,
		Status:      d.Status,
	}
}

type RequestRepository struct {
	collection *mongo.Collection
}

func NewRequestRepository(db *mongo.Database) *RequestRepository {
	return &RequestRepository{collection: db.Collection(RequestsCollection)}
}

func (r *RequestRepository) Request(ctx context.Context, id string) (*types.VolunteerRequest, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var doc requestDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, types.ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to find request: %w", err)
	}

	return doc.toRequest(), nil
}

func (r *RequestRepository) RequestsByVolunteer(ctx context.Context, email string) ([]*types.VolunteerRequest, error) {
	return r.find(ctx, bson.M{"volunteer.email": email})
}

func (r *RequestRepository) RequestsByOrganizer(ctx context.Context, email string) ([]*types.VolunteerRequest, error) {
	return r.find(ctx, bson.M{"organizer.email": email})
}

func (r *RequestRepository) find(ctx context.Context, filter bson.M) ([]*types.VolunteerRequest, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find requests: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*requestDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode requests: %w", err)
	}

	requests := make([]*types.VolunteerRequest, 0, len(docs))
	for _, doc := range docs {
		requests = append(requests, doc.toRequest())
	}

	return requests, nil
}

func (r *RequestRepository) CreateRequest(ctx context.Context, request *types.VolunteerRequest) (string, error) {
	doc := newRequestDocument(request)
	doc.ID = primitive.NewObjectID()

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	return doc.ID.Hex(), nil
}

func (r *RequestRepository) DeleteRequest(ctx context.Context, id string) (*types.DeleteResult, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, fmt.Errorf("failed to delete request: %w", err)
	}

	return &types.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

func (r *RequestRepository) UpdateRequestStatus(ctx context.Context, id string, update types.RequestStatusUpdate) (*types.UpdateResult, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": statusSet(update)})
	if err != nil {
		return nil, fmt.Errorf("failed to update request: %w", err)
	}

	return updateResult(res), nil
}

func statusSet(update types.RequestStatusUpdate) bson.M {
	set := bson.M{}
	if update.Status != nil {
		set["status"] = *update.Status
	}
	if update.Suggestion != nil {
		set["suggestion"] = *update.Suggestion
	}
	return set
}
