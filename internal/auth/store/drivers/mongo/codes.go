package mongo

import (
	"context"
	"time"

	"github.com/aussiebroadwan/carecube/internal/auth/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type codesRepo struct {
	coll *mongo.Collection
	sess mongo.Session
}

func (r *codesRepo) PutCode(ctx context.Context, c domain.VerificationCode) error {
	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	doc := codeDoc{
		Email:     c.Email,
		Code:      c.Code,
		ExpiresAt: c.ExpiresAt.UTC(),
		CreatedAt: createdAt.UTC(),
	}
	_, err := r.coll.ReplaceOne(withSession(ctx, r.sess),
		bson.M{"_id": c.Email},
		doc,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (r *codesRepo) RedeemCode(ctx context.Context, email string, code int, now time.Time) (domain.VerificationCode, error) {
	filter := bson.M{
		"_id":        email,
		"code":       code,
		"expires_at": bson.M{"$gt": now.UTC()},
	}

	var doc codeDoc
	if err := r.coll.FindOneAndDelete(withSession(ctx, r.sess), filter).Decode(&doc); err != nil {
		return domain.VerificationCode{}, mapRedeemErr(err)
	}
	return doc.toDomain(), nil
}

func (r *codesRepo) DeleteExpiredCodes(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.coll.DeleteMany(withSession(ctx, r.sess), bson.M{"expires_at": bson.M{"$lte": now.UTC()}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
