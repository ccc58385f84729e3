package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"go-volunteer/models"
)

// MongoUserStore implements UserStore on a mongo collection.
type MongoUserStore struct {
	collection *mongo.Collection
}

func NewMongoUserStore(db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{collection: db.Collection(usersCollection)}
}

func (s *MongoUserStore) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	_, err := s.collection.InsertOne(ctx, user)
	return mapMongoErr(err)
}

func (s *MongoUserStore) ByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoUserStore) ByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

// ByVerificationToken matches token and expiry in one filter so the compare
// and the expiry check cannot race each other.
func (s *MongoUserStore) ByVerificationToken(ctx context.Context, token string, now time.Time) (*models.User, error) {
	return s.findOne(ctx, bson.M{
		"verification_token":        token,
		"verification_token_expire": bson.M{"$gt": now},
	})
}

func (s *MongoUserStore) Update(ctx context.Context, user *models.User) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	// Full replace: omitempty fields that were cleared (the token pair) drop
	// out of the stored document.
	result, err := s.collection.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		return mapMongoErr(err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoUserStore) Delete(ctx context.Context, id primitive.ObjectID) error {
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

func (s *MongoUserStore) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var user models.User
	if err := s.collection.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, mapMongoErr(err)
	}
	return &user, nil
}
