package services

import (
	"context"
	"crypto/tls"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type StoreConfig struct {
	URI      string
	Database string
	// TLS forces TLS 1.2, which some hosted clusters require for server selection.
	TLS bool
}

// Store owns the single Mongo client shared by every Mongo-backed service.
type Store struct {
	client   *mongo.Client
	db       *mongo.Database
	users    *mongo.Collection
	profiles *mongo.Collection
	posts    *mongo.Collection
}

func NewStore(ctx context.Context, cfg StoreConfig) (*Store, error) {
	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.TLS {
		opts.SetTLSConfig(&tls.Config{
			MinVersion: tls.VersionTLS12,
			MaxVersion: tls.VersionTLS12,
		})
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	db := client.Database(cfg.Database)
	s := &Store{
		client:   client,
		db:       db,
		users:    db.Collection("users"),
		profiles: db.Collection("profiles"),
		posts:    db.Collection("posts"),
	}
	s.ensureIndexes(ctx)

	log.Printf("MongoDB connected: db=%s", cfg.Database)
	return s, nil
}

// Best-effort indexes.
func (s *Store) ensureIndexes(ctx context.Context) {
	if _, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		log.Printf("[store] users index: %v", err)
	}
	if _, err := s.profiles.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		log.Printf("[store] profiles index: %v", err)
	}
	if _, err := s.posts.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "user", Value: 1}}},
	}); err != nil {
		log.Printf("[store] posts indexes: %v", err)
	}
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
