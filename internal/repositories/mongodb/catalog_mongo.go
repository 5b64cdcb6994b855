package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/powerplay-sports/booking-service/internal/models"
	"github.com/powerplay-sports/booking-service/internal/repositories"
)

type classMongo struct {
	coll *mongo.Collection
}

func newClassMongo(coll *mongo.Collection) *classMongo {
	return &classMongo{coll: coll}
}

func (r *classMongo) ListByStudentsDesc(ctx context.Context, limit int) ([]*models.Class, error) {
	docs, err := findAll(ctx, r.coll, true, limit)
	if err != nil {
		return nil, fmt.Errorf("find classes: %w", err)
	}
	classes := make([]*models.Class, 0, len(docs))
	for _, doc := range docs {
		classes = append(classes, classFromDoc(doc))
	}
	return classes, nil
}

type instructorMongo struct {
	coll *mongo.Collection
}

func newInstructorMongo(coll *mongo.Collection) *instructorMongo {
	return &instructorMongo{coll: coll}
}

func (r *instructorMongo) ListByStudentsDesc(ctx context.Context, limit int) ([]*models.Instructor, error) {
	docs, err := findAll(ctx, r.coll, true, limit)
	if err != nil {
		return nil, fmt.Errorf("find instructors: %w", err)
	}
	instructors := make([]*models.Instructor, 0, len(docs))
	for _, doc := range docs {
		instructors = append(instructors, instructorFromDoc(doc))
	}
	return instructors, nil
}

type reviewMongo struct {
	coll *mongo.Collection
}

func newReviewMongo(coll *mongo.Collection) *reviewMongo {
	return &reviewMongo{coll: coll}
}

func (r *reviewMongo) List(ctx context.Context) ([]*models.Review, error) {
	docs, err := findAll(ctx, r.coll, false, 0)
	if err != nil {
		return nil, fmt.Errorf("find reviews: %w", err)
	}
	reviews := make([]*models.Review, 0, len(docs))
	for _, doc := range docs {
		reviews = append(reviews, reviewFromDoc(doc))
	}
	return reviews, nil
}

type classSubmissionMongo struct {
	coll *mongo.Collection
}

func newClassSubmissionMongo(coll *mongo.Collection) *classSubmissionMongo {
	return &classSubmissionMongo{coll: coll}
}

func (r *classSubmissionMongo) Create(ctx context.Context, submission *models.ClassSubmission) (*repositories.InsertResult, error) {
	res, err := r.coll.InsertOne(ctx, submissionToDoc(submission))
	if err != nil {
		return nil, fmt.Errorf("insert class submission: %w", err)
	}
	submission.ID = idString(res.InsertedID)
	return &repositories.InsertResult{Acknowledged: true, InsertedID: submission.ID}, nil
}

// findAll reads the whole collection, ranked by students when ranked is set.
func findAll(ctx context.Context, coll *mongo.Collection, ranked bool, limit int) ([]bson.M, error) {
	var (
		cursor *mongo.Cursor
		err    error
	)
	if ranked {
		cursor, err = coll.Aggregate(ctx, rankedPipeline(limit))
	} else {
		cursor, err = coll.Find(ctx, bson.M{})
	}
	if err != nil {
		return nil, err
	}

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}
