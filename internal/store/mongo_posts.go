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

type commentDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Content   string             `bson:"content"`
	PostedBy  string             `bson:"postedBy"`
	Timestamp string             `bson:"timestamp"`
}

type postDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Content   string             `bson:"content"`
	PostedBy  string             `bson:"postedBy"`
	AuthorID  string             `bson:"authorId,omitempty"`
	Likes     int                `bson:"likes"`
	UpvotedBy []string           `bson:"upvotedBy"`
	Comments  []commentDocument  `bson:"comments"`
	Timestamp string             `bson:"timestamp"`
	CreatedAt time.Time          `bson:"createdAt,omitempty"`
}

func (d postDocument) model() models.Post {
	post := models.Post{
		ID:        d.ID.Hex(),
		Content:   d.Content,
		PostedBy:  d.PostedBy,
		AuthorID:  d.AuthorID,
		Likes:     d.Likes,
		UpvotedBy: d.UpvotedBy,
		Comments:  make([]models.Comment, 0, len(d.Comments)),
		Timestamp: d.Timestamp,
		CreatedAt: d.CreatedAt,
	}
	if post.UpvotedBy == nil {
		post.UpvotedBy = []string{}
	}
	// Older documents carry no createdAt; the ObjectID holds the insert time.
	if post.CreatedAt.IsZero() {
		post.CreatedAt = d.ID.Timestamp()
	}
	for _, c := range d.Comments {
		post.Comments = append(post.Comments, c.model())
	}
	return post
}

func (d commentDocument) model() models.Comment {
	return models.Comment{
		ID:        d.ID.Hex(),
		Content:   d.Content,
		PostedBy:  d.PostedBy,
		Timestamp: d.Timestamp,
	}
}

// MongoPostRepository stores community posts in the "posts" collection.
type MongoPostRepository struct {
	col *mongo.Collection
}

func (r *MongoPostRepository) Create(ctx context.Context, post models.Post) (models.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	doc := postDocument{
		ID:        primitive.NewObjectID(),
		Content:   post.Content,
		PostedBy:  post.PostedBy,
		AuthorID:  post.AuthorID,
		Likes:     0,
		UpvotedBy: []string{},
		Comments:  []commentDocument{},
		Timestamp: post.Timestamp,
		CreatedAt: post.CreatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return models.Post{}, translateMongoError(err)
	}
	return doc.model(), nil
}

func (r *MongoPostRepository) List(ctx context.Context, limit int) ([]models.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	// ObjectIDs grow with insert time, so _id descending is newest first.
	findOptions := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	if limit > 0 {
		findOptions.SetLimit(int64(limit))
	}

	cursor, err := r.col.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []postDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	posts := make([]models.Post, 0, len(docs))
	for _, d := range docs {
		posts = append(posts, d.model())
	}
	return posts, nil
}

func (r *MongoPostRepository) Get(ctx context.Context, id string) (models.Post, error) {
	oid, err := objectID(id)
	if err != nil {
		return models.Post{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	var doc postDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return models.Post{}, translateMongoError(err)
	}
	return doc.model(), nil
}

func (r *MongoPostRepository) AddComment(ctx context.Context, postID string, comment models.Comment) (models.Comment, error) {
	oid, err := objectID(postID)
	if err != nil {
		return models.Comment{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	doc := commentDocument{
		ID:        primitive.NewObjectID(),
		Content:   comment.Content,
		PostedBy:  comment.PostedBy,
		Timestamp: comment.Timestamp,
	}
	result, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$push": bson.M{"comments": doc},
	})
	if err != nil {
		return models.Comment{}, err
	}
	if result.MatchedCount == 0 {
		return models.Comment{}, ErrNotFound
	}
	return doc.model(), nil
}

// ToggleUpvote runs the like/unlike as a single pipeline update. Both $cond branches
// read the pre-update document.
func (r *MongoPostRepository) ToggleUpvote(ctx context.Context, postID, voterID string) (models.Post, error) {
	oid, err := objectID(postID)
	if err != nil {
		return models.Post{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	voter := bson.D{{Key: "$literal", Value: voterID}}
	voters := bson.D{{Key: "$ifNull", Value: bson.A{"$upvotedBy", bson.A{}}}}
	likes := bson.D{{Key: "$ifNull", Value: bson.A{"$likes", 0}}}
	liked := bson.D{{Key: "$in", Value: bson.A{voter, voters}}}

	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "likes", Value: bson.D{{Key: "$cond", Value: bson.A{
				liked,
				bson.D{{Key: "$max", Value: bson.A{0, bson.D{{Key: "$subtract", Value: bson.A{likes, 1}}}}}},
				bson.D{{Key: "$add", Value: bson.A{likes, 1}}},
			}}}},
			{Key: "upvotedBy", Value: bson.D{{Key: "$cond", Value: bson.A{
				liked,
				bson.D{{Key: "$filter", Value: bson.D{
					{Key: "input", Value: voters},
					{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$this", voter}}}},
				}}},
				bson.D{{Key: "$concatArrays", Value: bson.A{voters, bson.A{voter}}}},
			}}}},
		}}},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc postDocument
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, pipeline, opts).Decode(&doc); err != nil {
		return models.Post{}, translateMongoError(err)
	}
	return doc.model(), nil
}

func (r *MongoPostRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	result, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoPostRepository) CountByAuthor(ctx context.Context, authorID, name string) (int64, error) {
	var clauses bson.A
	if authorID != "" {
		clauses = append(clauses, bson.M{"authorId": authorID})
	}
	if name != "" {
		clauses = append(clauses, bson.M{
			"authorId": bson.M{"$exists": false},
			"postedBy": name,
		})
	}
	if len(clauses) == 0 {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{"$or": clauses})
}
