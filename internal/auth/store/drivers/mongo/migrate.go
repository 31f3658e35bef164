package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ApplyMigrations creates the indexes the repositories rely on: a unique
// email on identities and a TTL on verification_codes.expires_at so the
// server drops expired codes on its own.
func (s *Store) ApplyMigrations() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := s.db.Collection(identitiesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("identities_email_unique").SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = s.db.Collection(codesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetName("verification_codes_expires_at_ttl").SetExpireAfterSeconds(0),
	})
	return err
}
