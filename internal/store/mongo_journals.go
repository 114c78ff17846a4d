package store

import (
	"context"
	"time"

	"github.com/willora/willora-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type journalDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	User      primitive.ObjectID `bson:"user"`
	Text      string             `bson:"text"`
	Mood      string             `bson:"mood"`
	DateOnly  string             `bson:"dateOnly"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d journalDocument) model() models.JournalEntry {
	return models.JournalEntry{
		ID:        d.ID.Hex(),
		UserID:    d.User.Hex(),
		Text:      d.Text,
		Mood:      d.Mood,
		DateOnly:  d.DateOnly,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// MongoJournalRepository stores entries in the "journalentries" collection.
type MongoJournalRepository struct {
	col *mongo.Collection
}

func (r *MongoJournalRepository) Create(ctx context.Context, entry models.JournalEntry) (models.JournalEntry, error) {
	owner, err := objectID(entry.UserID)
	if err != nil {
		return models.JournalEntry{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	now := time.Now()
	doc := journalDocument{
		ID:        primitive.NewObjectID(),
		User:      owner,
		Text:      entry.Text,
		Mood:      entry.Mood,
		DateOnly:  entry.DateOnly,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return models.JournalEntry{}, translateMongoError(err)
	}
	return doc.model(), nil
}

func (r *MongoJournalRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.JournalEntry, error) {
	entries := []models.JournalEntry{}
	owner, err := objectID(userID)
	if err != nil {
		return entries, nil
	}

	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{
		{Key: "createdAt", Value: -1},
		{Key: "_id", Value: -1},
	})
	if limit > 0 {
		findOptions.SetLimit(int64(limit))
	}

	cursor, err := r.col.Find(ctx, bson.M{"user": owner}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []journalDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, d := range docs {
		entries = append(entries, d.model())
	}
	return entries, nil
}

func (r *MongoJournalRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	owner, err := objectID(userID)
	if err != nil {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{"user": owner})
}

func (r *MongoJournalRepository) DeleteForUser(ctx context.Context, userID, entryID string) error {
	owner, err := objectID(userID)
	if err != nil {
		return err
	}
	id, err := objectID(entryID)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	result, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "user": owner})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
