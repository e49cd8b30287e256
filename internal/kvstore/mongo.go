package kvstore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo keeps demo values in a single collection as {_id: key, value: string}
// documents, upserted on Set. IDs are the demo keys themselves, which keeps
// lookups indexed without any extra index management.
type Mongo struct {
	col *mongo.Collection
}

type kvDoc struct {
	Key   string `bson:"_id"`
	Value string `bson:"value"`
}

func NewMongo(col *mongo.Collection) *Mongo {
	return &Mongo{col: col}
}

func (m *Mongo) Get(ctx context.Context, key string) (string, bool, error) {
	var d kvDoc
	if err := m.col.FindOne(ctx, bson.M{"_id": key}).Decode(&d); err != nil {
		if err == mongo.ErrNoDocuments {
			return "", false, nil
		}
		return "", false, fmt.Errorf("kvstore get %q: %w", key, err)
	}
	return d.Value, true, nil
}

func (m *Mongo) Set(ctx context.Context, key, value string) error {
	opts := options.Update().SetUpsert(true)
	_, err := m.col.UpdateOne(ctx, bson.M{"_id": key}, bson.M{"$set": bson.M{"value": value}}, opts)
	if err != nil {
		return fmt.Errorf("kvstore set %q: %w", key, err)
	}
	return nil
}

func (m *Mongo) Remove(ctx context.Context, key string) error {
	if _, err := m.col.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("kvstore remove %q: %w", key, err)
	}
	return nil
}

func (m *Mongo) Clear(ctx context.Context) error {
	if _, err := m.col.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("kvstore clear: %w", err)
	}
	return nil
}
