package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"contentlib/internal/content/model"
	"contentlib/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const contentsCounterID = "contents"

// mongoContent is the stored BSON form. Integer ids come from a sequence
// document in the counters collection, mirroring the SERIAL column.
type mongoContent struct {
	ID          int       `bson:"_id"`
	Title       string    `bson:"title"`
	Description *string   `bson:"description"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

func (m mongoContent) toModel() *model.Content {
	return &model.Content{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

type MongoRepository struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{col: db.Collection("contents"), counters: db.Collection("counters")}
}

// Migrate ensures the index used by List exists.
func (m *MongoRepository) Migrate(ctx context.Context) error {
	idx := mongo.IndexModel{Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}}
	if _, err := m.col.Indexes().CreateOne(ctx, idx); err != nil {
		logger.Sugar.Errorf("Failed to ensure contents index: %v", err)
		return fmt.Errorf("ensure contents index: %w", err)
	}
	return nil
}

func (m *MongoRepository) nextID(ctx context.Context) (int, error) {
	var counter struct {
		Seq int `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := m.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": contentsCounterID},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next content id: %w", err)
	}
	return counter.Seq, nil
}

// now is truncated to BSON date precision so createdAt and updatedAt
// compare equal after a round trip.
func mongoNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func (m *MongoRepository) List(ctx context.Context) ([]model.Content, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := m.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		logger.Sugar.Errorf("Failed to list contents: %v", err)
		return nil, err
	}
	defer cur.Close(ctx)

	out := []model.Content{}
	for cur.Next(ctx) {
		var d mongoContent
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, *d.toModel())
	}
	return out, cur.Err()
}

func (m *MongoRepository) Get(ctx context.Context, id int) (*model.Content, error) {
	var d mongoContent
	err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("content %d: %w", id, ErrNotFound)
	}
	if err != nil {
		logger.Sugar.Errorf("Failed to get content %d: %v", id, err)
		return nil, err
	}
	return d.toModel(), nil
}

func (m *MongoRepository) Create(ctx context.Context, in model.NewContent) (*model.Content, error) {
	id, err := m.nextID(ctx)
	if err != nil {
		logger.Sugar.Errorf("Failed to create content: %v", err)
		return nil, err
	}
	now := mongoNow()
	d := mongoContent{ID: id, Title: in.Title, Description: in.Description, CreatedAt: now, UpdatedAt: now}
	if _, err := m.col.InsertOne(ctx, d); err != nil {
		logger.Sugar.Errorf("Failed to create content: %v", err)
		return nil, err
	}
	return d.toModel(), nil
}

func (m *MongoRepository) Update(ctx context.Context, id int, patch model.Patch) (*model.Content, error) {
	set := bson.M{"updatedAt": mongoNow()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.SetDescription {
		set["description"] = patch.Description
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var d mongoContent
	err := m.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("content %d: %w", id, ErrNotFound)
	}
	if err != nil {
		logger.Sugar.Errorf("Failed to update content %d: %v", id, err)
		return nil, err
	}
	return d.toModel(), nil
}

func (m *MongoRepository) Delete(ctx context.Context, id int) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logger.Sugar.Errorf("Failed to delete content %d: %v", id, err)
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("content %d: %w", id, ErrNotFound)
	}
	return nil
}

func (m *MongoRepository) DeleteAll(ctx context.Context) error {
	if _, err := m.col.DeleteMany(ctx, bson.M{}); err != nil {
		logger.Sugar.Errorf("Failed to clear contents: %v", err)
		return err
	}
	return nil
}
