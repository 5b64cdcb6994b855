package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/powerplay-sports/booking-service/internal/models"
	"github.com/powerplay-sports/booking-service/internal/repositories"
)

type userMongo struct {
	coll *mongo.Collection
}

func newUserMongo(coll *mongo.Collection) *userMongo {
	return &userMongo{coll: coll}
}

func (r *userMongo) ensureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: models.FieldEmail, Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetName(emailUniqueIndexName).
			// documents without a string email stay out of the index
			SetPartialFilterExpression(bson.M{models.FieldEmail: bson.M{"$type": "string"}}),
	})
	if err != nil {
		return fmt.Errorf("create users email index: %w", err)
	}
	return nil
}

func (r *userMongo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var doc bson.M
	err := r.coll.FindOne(ctx, bson.M{models.FieldEmail: email}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return userFromDoc(doc), nil
}

func (r *userMongo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *userMongo) Create(ctx context.Context, user *models.User) (*repositories.InsertResult, error) {
	res, err := r.coll.InsertOne(ctx, userToDoc(user))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, repositories.ErrDuplicateKey
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	user.ID = idString(res.InsertedID)
	return &repositories.InsertResult{Acknowledged: true, InsertedID: user.ID}, nil
}

func (r *userMongo) List(ctx context.Context) ([]*models.User, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	users := make([]*models.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, userFromDoc(doc))
	}
	return users, nil
}

func (r *userMongo) UpdateRole(ctx context.Context, id string, role models.Role) (*repositories.UpdateResult, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repositories.ErrInvalidID
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{models.FieldID: oid},
		bson.M{"$set": bson.M{models.FieldRole: string(role)}},
	)
	if err != nil {
		return nil, fmt.Errorf("update user role: %w", err)
	}

	out := &repositories.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
	}
	if res.UpsertedID != nil {
		upserted := idString(res.UpsertedID)
		out.UpsertedID = &upserted
	}
	return out, nil
}
