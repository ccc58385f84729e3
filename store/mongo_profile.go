package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"go-volunteer/models"
)

// MongoVolunteerStore implements VolunteerStore on a mongo collection.
type MongoVolunteerStore struct {
	collection *mongo.Collection
}

func NewMongoVolunteerStore(db *mongo.Database) *MongoVolunteerStore {
	return &MongoVolunteerStore{collection: db.Collection(volunteersCollection)}
}

func (s *MongoVolunteerStore) Create(ctx context.Context, volunteer *models.Volunteer) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if volunteer.ID.IsZero() {
		volunteer.ID = primitive.NewObjectID()
	}
	_, err := s.collection.InsertOne(ctx, volunteer)
	return mapMongoErr(err)
}

func (s *MongoVolunteerStore) ByID(ctx context.Context, id primitive.ObjectID) (*models.Volunteer, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoVolunteerStore) ByUser(ctx context.Context, userID primitive.ObjectID) (*models.Volunteer, error) {
	return s.findOne(ctx, bson.M{"user": userID})
}

func (s *MongoVolunteerStore) List(ctx context.Context) ([]models.Volunteer, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cursor, err := s.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, mapMongoErr(err)
	}
	defer cursor.Close(ctx)

	volunteers := []models.Volunteer{}
	if err := cursor.All(ctx, &volunteers); err != nil {
		return nil, err
	}
	return volunteers, nil
}

func (s *MongoVolunteerStore) AddRegisteredEvent(ctx context.Context, userID primitive.ObjectID, entry models.RegisteredEvent) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	result, err := s.collection.UpdateOne(ctx,
		bson.M{"user": userID},
		bson.M{"$push": bson.M{"registered_events": entry}},
	)
	if err != nil {
		return mapMongoErr(err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoVolunteerStore) findOne(ctx context.Context, filter bson.M) (*models.Volunteer, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var volunteer models.Volunteer
	if err := s.collection.FindOne(ctx, filter).Decode(&volunteer); err != nil {
		return nil, mapMongoErr(err)
	}
	return &volunteer, nil
}

// MongoOrganizationStore implements OrganizationStore on a mongo collection.
type MongoOrganizationStore struct {
	collection *mongo.Collection
}

func NewMongoOrganizationStore(db *mongo.Database) *MongoOrganizationStore {
	return &MongoOrganizationStore{collection: db.Collection(organizationsCollection)}
}

func (s *MongoOrganizationStore) Create(ctx context.Context, organization *models.Organization) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if organization.ID.IsZero() {
		organization.ID = primitive.NewObjectID()
	}
	_, err := s.collection.InsertOne(ctx, organization)
	return mapMongoErr(err)
}

func (s *MongoOrganizationStore) ByID(ctx context.Context, id primitive.ObjectID) (*models.Organization, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoOrganizationStore) ByUser(ctx context.Context, userID primitive.ObjectID) (*models.Organization, error) {
	return s.findOne(ctx, bson.M{"user": userID})
}

func (s *MongoOrganizationStore) List(ctx context.Context) ([]models.Organization, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cursor, err := s.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, mapMongoErr(err)
	}
	defer cursor.Close(ctx)

	organizations := []models.Organization{}
	if err := cursor.All(ctx, &organizations); err != nil {
		return nil, err
	}
	return organizations, nil
}

func (s *MongoOrganizationStore) AddEvent(ctx context.Context, userID, eventID primitive.ObjectID) error {
	return s.updateEvents(ctx, userID, bson.M{"$push": bson.M{"events": eventID}})
}

func (s *MongoOrganizationStore) RemoveEvent(ctx context.Context, userID, eventID primitive.ObjectID) error {
	return s.updateEvents(ctx, userID, bson.M{"$pull": bson.M{"events": eventID}})
}

func (s *MongoOrganizationStore) updateEvents(ctx context.Context, userID primitive.ObjectID, update bson.M) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	result, err := s.collection.UpdateOne(ctx, bson.M{"user": userID}, update)
	if err != nil {
		return mapMongoErr(err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoOrganizationStore) findOne(ctx context.Context, filter bson.M) (*models.Organization, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var organization models.Organization
	if err := s.collection.FindOne(ctx, filter).Decode(&organization); err != nil {
		return nil, mapMongoErr(err)
	}
	return &organization, nil
}
