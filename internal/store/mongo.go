package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names match the ones the existing document data lives in.
const (
	usersCollection    = "users"
	journalsCollection = "journalentries"
	postsCollection    = "posts"

	mongoOpTimeout = 5 * time.Second
)

// NewMongoStore wires the Mongo repositories onto db.
func NewMongoStore(db *mongo.Database) *Store {
	return &Store{
		Users:    &MongoUserRepository{col: db.Collection(usersCollection)},
		Journals: &MongoJournalRepository{col: db.Collection(journalsCollection)},
		Posts:    &MongoPostRepository{col: db.Collection(postsCollection)},
	}
}

// EnsureMongoIndexes configures the indexes the repositories rely on.
// Called on startup after Mongo has connected, and by the indexes command.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetName("idx_email_unique").SetUnique(true),
			},
		},
		journalsCollection: {
			{
				Keys: bson.D{
					{Key: "user", Value: 1},
					{Key: "createdAt", Value: -1},
				},
				Options: options.Index().SetName("idx_user_created"),
			},
		},
		postsCollection: {
			{
				Keys:    bson.D{{Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("idx_created"),
			},
			{
				Keys:    bson.D{{Key: "authorId", Value: 1}},
				Options: options.Index().SetName("idx_author").SetSparse(true),
			},
		},
	}

	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}

// objectID parses a hex id; malformed ids can never match a document.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return oid, nil
}

func translateMongoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	default:
		return err
	}
}
