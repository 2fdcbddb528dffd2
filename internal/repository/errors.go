package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate document")
)

// findOne decodes the first match of filter into out, mapping a missing
// document to ErrNotFound.
func findOne(ctx context.Context, coll *mongo.Collection, filter bson.M, out interface{}) error {
	err := coll.FindOne(ctx, filter).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("find in %s: %w", coll.Name(), err)
	}
	return nil
}

// insert maps unique index violations to ErrDuplicate.
func insert(ctx context.Context, coll *mongo.Collection, doc interface{}) error {
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert into %s: %w", coll.Name(), err)
	}
	return nil
}

// updateOne applies update to the document matching filter and reports
// ErrNotFound when nothing matched.
func updateOne(ctx context.Context, coll *mongo.Collection, filter, update bson.M) error {
	res, err := coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("update %s: %w", coll.Name(), err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
