package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sahil-chaple/happy-street-godhani/internal/models"
)

// MongoStore serves both repositories from one MongoDB database.
type MongoStore struct {
	client      *mongo.Client
	submissions *MongoSubmissionRepo
	admins      *MongoAdminRepo
}

// OpenMongo connects to uri and verifies the connection with a ping.
func OpenMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}
	return NewMongoStore(client, client.Database(database)), nil
}

func NewMongoStore(client *mongo.Client, database *mongo.Database) *MongoStore {
	return &MongoStore{
		client:      client,
		submissions: &MongoSubmissionRepo{coll: database.Collection(SubmissionsCollection)},
		admins:      &MongoAdminRepo{coll: database.Collection(AdminsCollection)},
	}
}

func (s *MongoStore) Submissions() SubmissionRepository { return s.submissions }
func (s *MongoStore) Admins() AdminRepository           { return s.admins }

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

type submissionDoc struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	models.Submission `bson:",inline"`
}

// MongoSubmissionRepo is the MongoDB-backed SubmissionRepository.
type MongoSubmissionRepo struct {
	coll *mongo.Collection
}

func (r *MongoSubmissionRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "submittedAt", Value: -1}},
	})
	return err
}

func (r *MongoSubmissionRepo) Create(ctx context.Context, sub *models.Submission) (string, error) {
	res, err := r.coll.InsertOne(ctx, submissionDoc{Submission: *sub})
	if err != nil {
		return "", err
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("mongo: unexpected inserted id %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

func (r *MongoSubmissionRepo) List(ctx context.Context) ([]models.Submission, error) {
	return r.find(ctx, options.Find().SetSort(bson.D{{Key: "submittedAt", Value: -1}}))
}

func (r *MongoSubmissionRepo) All(ctx context.Context) ([]models.Submission, error) {
	return r.find(ctx, options.Find())
}

func (r *MongoSubmissionRepo) find(ctx context.Context, opts *options.FindOptions) ([]models.Submission, error) {
	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	var docs []submissionDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	subs := make([]models.Submission, 0, len(docs))
	for _, d := range docs {
		s := d.Submission
		s.ID = d.ID.Hex()
		if s.Status == "" {
			s.Status = models.DefaultStatus
		}
		subs = append(subs, s)
	}
	return subs, nil
}

func (r *MongoSubmissionRepo) UpdateStatus(ctx context.Context, id, status string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	_, err = r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"status": status}})
	return err
}

func (r *MongoSubmissionRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	_, err = r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

type adminDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	PasswordHash string             `bson:"password"`
}

// MongoAdminRepo is the MongoDB-backed AdminRepository.
type MongoAdminRepo struct {
	coll *mongo.Collection
}

func (r *MongoAdminRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *MongoAdminRepo) FindByUsername(ctx context.Context, username string) (*models.Admin, error) {
	var doc adminDoc
	err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &models.Admin{ID: doc.ID.Hex(), Username: doc.Username, PasswordHash: doc.PasswordHash}, nil
}

func (r *MongoAdminRepo) Create(ctx context.Context, admin *models.Admin) (string, error) {
	res, err := r.coll.InsertOne(ctx, adminDoc{Username: admin.Username, PasswordHash: admin.PasswordHash})
	if mongo.IsDuplicateKeyError(err) {
		return "", fmt.Errorf("admin %q: %w", admin.Username, ErrDuplicate)
	}
	if err != nil {
		return "", err
	}
	oid, _ := res.InsertedID.(primitive.ObjectID)
	return oid.Hex(), nil
}
