package userstore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/labsai/eddiauth/core/auth"
)

// CollectionName is the collection holding user documents.
const CollectionName = "users"

// Mongo is an auth.UserStore backed by a MongoDB collection with a unique
// index on username.
type Mongo struct {
	coll *mongo.Collection
}

// NewMongo returns a store over db and ensures the username index exists.
func NewMongo(ctx context.Context, db *mongo.Database) (*Mongo, error) {
	coll := db.Collection(CollectionName)

	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("username_unique"),
	})
	if err != nil {
		return nil, errors.Join(ErrIndex, err)
	}

	return &Mongo{coll: coll}, nil
}

// FindByUsername implements auth.UserStore.
func (m *Mongo) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	var u auth.User
	err := m.coll.FindOne(ctx, byUsername(username)).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, auth.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create implements auth.UserStore. A duplicate key maps to
// auth.ErrAlreadyExists so concurrent signups cannot both succeed.
func (m *Mongo) Create(ctx context.Context, user *auth.User) error {
	if _, err := m.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return auth.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update implements auth.UserStore.
func (m *Mongo) Update(ctx context.Context, user *auth.User) error {
	res, err := m.coll.ReplaceOne(ctx, byUsername(user.Username), user)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return auth.ErrNotFound
	}
	return nil
}

// UpdateLastLogin implements auth.UserStore.
func (m *Mongo) UpdateLastLogin(ctx context.Context, username string, at time.Time) error {
	res, err := m.coll.UpdateOne(ctx, byUsername(username), bson.M{"$set": bson.M{"lastLoginAt": at}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return auth.ErrNotFound
	}
	return nil
}

// Delete implements auth.UserStore.
func (m *Mongo) Delete(ctx context.Context, username string) error {
	res, err := m.coll.DeleteOne(ctx, byUsername(username))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return auth.ErrNotFound
	}
	return nil
}

func byUsername(username string) bson.M {
	return bson.M{"username": username}
}
