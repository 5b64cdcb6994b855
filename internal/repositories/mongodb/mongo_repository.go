package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/powerplay-sports/booking-service/internal/repositories"
)

// Collection names inside the configured database.
const (
	UsersCollection          = "users"
	ClassesCollection        = "allClasses"
	InstructorsCollection    = "instructors"
	ReviewsCollection        = "reviews"
	PendingClassesCollection = "pendingClasses"

	defaultDatabase      = "powerPlaySports"
	emailUniqueIndexName = "email_unique"
	studentsField        = "students"
	rankField            = "_rank"
)

// Config holds what is needed to reach the cluster.
type Config struct {
	URI      string
	Database string
}

var _ repositories.Repository = (*MongoRepository)(nil)

// MongoRepository implements repositories.Repository on a MongoDB database.
type MongoRepository struct {
	client *mongo.Client
	db     *mongo.Database

	user            *userMongo
	class           *classMongo
	instructor      *instructorMongo
	review          *reviewMongo
	classSubmission *classSubmissionMongo
}

// Connect opens a client with the stable API v1 and pings the deployment.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1).
		SetStrict(true).
		SetDeprecationErrors(true)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI).SetServerAPIOptions(serverAPI))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	if err := ping(ctx, client); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return client, nil
}

// NewMongoRepository wires every collection of database onto client.
func NewMongoRepository(client *mongo.Client, database string) *MongoRepository {
	if database == "" {
		database = defaultDatabase
	}
	db := client.Database(database)

	return &MongoRepository{
		client:          client,
		db:              db,
		user:            newUserMongo(db.Collection(UsersCollection)),
		class:           newClassMongo(db.Collection(ClassesCollection)),
		instructor:      newInstructorMongo(db.Collection(InstructorsCollection)),
		review:          newReviewMongo(db.Collection(ReviewsCollection)),
		classSubmission: newClassSubmissionMongo(db.Collection(PendingClassesCollection)),
	}
}

func (r *MongoRepository) User() repositories.UserRepository             { return r.user }
func (r *MongoRepository) Class() repositories.ClassRepository           { return r.class }
func (r *MongoRepository) Instructor() repositories.InstructorRepository { return r.instructor }
func (r *MongoRepository) Review() repositories.ReviewRepository         { return r.review }
func (r *MongoRepository) ClassSubmission() repositories.ClassSubmissionRepository {
	return r.classSubmission
}

// EnsureIndexes creates the unique index on users.email.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	return r.user.ensureIndexes(ctx)
}

func (r *MongoRepository) Ping(ctx context.Context) error {
	return ping(ctx, r.client)
}

func (r *MongoRepository) Close(ctx context.Context) error {
	if err := r.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect mongodb: %w", err)
	}
	return nil
}

func ping(ctx context.Context, client *mongo.Client) error {
	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		return fmt.Errorf("ping mongodb: %w", err)
	}
	return nil
}

// rankedPipeline sorts on a numeric view of students so that strings, decimals
// and missing counts rank with the numbers instead of above them. The stored
// documents are returned unchanged.
func rankedPipeline(limit int) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		{{Key: "$addFields", Value: bson.D{{Key: rankField, Value: bson.D{{Key: "$convert", Value: bson.D{
			{Key: "input", Value: "$" + studentsField},
			{Key: "to", Value: "double"},
			{Key: "onError", Value: 0},
			{Key: "onNull", Value: 0},
		}}}}}}},
		{{Key: "$sort", Value: bson.D{{Key: rankField, Value: -1}, {Key: "_id", Value: 1}}}},
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: int64(limit)}})
	}
	return append(pipeline, bson.D{{Key: "$project", Value: bson.D{{Key: rankField, Value: 0}}}})
}
