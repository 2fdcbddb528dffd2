package database

import (
	"context"
	"fmt"
	"time"

	"dtmapi/internal/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Collection names without the configured prefix.
const (
	UsersCollection          = "users"
	UserAuthTokensCollection = "user_auth_tokens"
	EmailsCollection         = "emails"
	ImagesCollection         = "images"
	ChannelTokensCollection  = "channel_tokens"
)

// Store bundles the database handle with the collection naming scheme.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	prefix string
}

// ConnectMongoDB establishes a connection to MongoDB and verifies it with a ping.
func ConnectMongoDB(ctx context.Context, cfg config.MongoConfig, log *zap.Logger) (*Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	ctxPing, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	defer cancelPing()
	if err := client.Ping(ctxPing, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	log.Info("Connected to MongoDB", zap.String("database", cfg.Database))

	return NewStore(client, client.Database(cfg.Database), cfg.CollectionPrefix), nil
}

// NewStore wraps an existing database handle. client may be nil in tests.
func NewStore(client *mongo.Client, db *mongo.Database, prefix string) *Store {
	return &Store{client: client, db: db, prefix: prefix}
}

// Collection returns the prefixed collection for name.
func (s *Store) Collection(name string) *mongo.Collection {
	return s.db.Collection(CollectionName(s.prefix, name))
}

// CollectionName applies the "<prefix>_<name>" naming scheme.
func CollectionName(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "_" + name
}

// Disconnect disconnects from MongoDB.
func (s *Store) Disconnect(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the lookup indexes every repository relies on.
// Creating an existing index is a no-op.
func (s *Store) EnsureIndexes(ctx context.Context, log *zap.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexes := map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "lineUserId", Value: 1}}, Options: options.Index().SetSparse(true)},
		},
		UserAuthTokensCollection: {
			{Keys: bson.D{{Key: "accessToken", Value: 1}}},
			{Keys: bson.D{{Key: "refreshToken", Value: 1}}},
		},
		EmailsCollection: {
			{Keys: bson.D{{Key: "token", Value: 1}, {Key: "isUsed", Value: 1}}},
		},
		ImagesCollection: {
			{Keys: bson.D{{Key: "name", Value: 1}}},
		},
		ChannelTokensCollection: {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "token", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}

	for name, models := range indexes {
		if _, err := s.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
		log.Debug("Ensured indexes", zap.String("collection", CollectionName(s.prefix, name)))
	}
	return nil
}
