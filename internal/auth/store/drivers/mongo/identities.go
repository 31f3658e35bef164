package mongo

import (
	"context"
	"time"

	"github.com/aussiebroadwan/carecube/internal/auth/domain"
	"github.com/aussiebroadwan/carecube/internal/auth/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type identitiesRepo struct {
	coll *mongo.Collection
	sess mongo.Session
}

func (r *identitiesRepo) findOne(ctx context.Context, filter bson.M) (domain.Identity, error) {
	var doc identityDoc
	if err := r.coll.FindOne(withSession(ctx, r.sess), filter).Decode(&doc); err != nil {
		return domain.Identity{}, mapNotFound(err)
	}
	return doc.toDomain(), nil
}

func (r *identitiesRepo) GetIdentityByID(ctx context.Context, id string) (domain.Identity, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *identitiesRepo) GetIdentityByEmail(ctx context.Context, email string) (domain.Identity, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *identitiesRepo) CreateIdentity(ctx context.Context, i domain.Identity) error {
	now := time.Now().UTC()
	doc := identityDoc{
		ID:            i.ID,
		Name:          i.Name,
		Email:         i.Email,
		PasswordHash:  i.PasswordHash,
		Photo:         i.Photo,
		Role:          i.Role.String(),
		EmailVerified: i.EmailVerified,
		RefreshToken:  i.RefreshToken,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
	if doc.Role == "" {
		doc.Role = domain.RoleUser.String()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = doc.CreatedAt
	}

	_, err := r.coll.InsertOne(withSession(ctx, r.sess), doc)
	return mapConflict(err)
}

func (r *identitiesRepo) UpdateRefreshToken(ctx context.Context, id string, token string) error {
	res, err := r.coll.UpdateOne(withSession(ctx, r.sess),
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"refresh_token": token, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *identitiesRepo) MarkEmailVerified(ctx context.Context, email string) error {
	_, err := r.coll.UpdateOne(withSession(ctx, r.sess),
		bson.M{"email": email, "email_verified": false},
		bson.M{"$set": bson.M{"email_verified": true, "updated_at": time.Now().UTC()}},
	)
	return err
}
