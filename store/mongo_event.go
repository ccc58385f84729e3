package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-volunteer/models"
)

// MongoEventStore implements EventStore on a mongo collection.
type MongoEventStore struct {
	collection *mongo.Collection
}

func NewMongoEventStore(db *mongo.Database) *MongoEventStore {
	return &MongoEventStore{collection: db.Collection(eventsCollection)}
}

func (s *MongoEventStore) Create(ctx context.Context, event *models.Event) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	_, err := s.collection.InsertOne(ctx, event)
	return mapMongoErr(err)
}

func (s *MongoEventStore) ByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var event models.Event
	if err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&event); err != nil {
		return nil, mapMongoErr(err)
	}
	return &event, nil
}

func (s *MongoEventStore) Update(ctx context.Context, event *models.Event) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	result, err := s.collection.ReplaceOne(ctx, bson.M{"_id": event.ID}, event)
	if err != nil {
		return mapMongoErr(err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoEventStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mapMongoErr(err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoEventStore) List(ctx context.Context, q EventQuery) ([]models.Event, int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	// The page envelope is computed against the whole collection, not the
	// filtered subset.
	total, err := s.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, mapMongoErr(err)
	}

	opts := options.Find().
		SetSkip(int64((q.Page - 1) * q.Limit)).
		SetLimit(int64(q.Limit))

	if len(q.Sort) > 0 {
		sort := bson.D{}
		for _, key := range q.Sort {
			order := 1
			if key.Desc {
				order = -1
			}
			sort = append(sort, bson.E{Key: key.Field, Value: order})
		}
		opts.SetSort(sort)
	}
	if len(q.Select) > 0 {
		projection := bson.M{}
		for _, field := range q.Select {
			projection[field] = 1
		}
		opts.SetProjection(projection)
	}

	cursor, err := s.collection.Find(ctx, buildFilter(q.Filter), opts)
	if err != nil {
		return nil, 0, mapMongoErr(err)
	}
	defer cursor.Close(ctx)

	events := []models.Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (s *MongoEventStore) ByOrganization(ctx context.Context, orgUserID primitive.ObjectID) ([]models.Event, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := s.collection.Find(ctx, bson.M{"organization": orgUserID}, opts)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	defer cursor.Close(ctx)

	events := []models.Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// buildFilter turns whitelist conditions into a mongo filter document.
func buildFilter(filter map[string]Cond) bson.M {
	out := bson.M{}
	for field, cond := range filter {
		if v, ok := cond["eq"]; ok && len(cond) == 1 {
			out[field] = v
			continue
		}
		ops := bson.M{}
		for op, v := range cond {
			if op == "eq" {
				ops["$eq"] = v
				continue
			}
			ops["$"+op] = v
		}
		out[field] = ops
	}
	return out
}
