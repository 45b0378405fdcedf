package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/prossm/basic-web-tts/pkg/recording"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

var _ recording.Store = (*Store)(nil)

const (
	collectionRecordings = "recordings"
	collectionAnonymous  = "anonymous_recordings"
	collectionUsers      = "users"
)

type Store struct {
	client   *mongo.Client
	database *mongo.Database
}

func New(uri, database string) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))

	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	return &Store{
		client:   client,
		database: client.Database(database),
	}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Put writes into the owned or anonymous partition depending on rec.Owner.
// Owned writes replace by (owner, id), so the last write to an identity wins.
func (s *Store) Put(ctx context.Context, rec recording.Recording) error {
	if rec.Owner == "" {
		_, err := s.database.Collection(collectionAnonymous).InsertOne(ctx, rec)

		if err != nil {
			return fmt.Errorf("insert anonymous recording: %w", err)
		}

		return nil
	}

	filter := bson.D{
		{Key: "owner", Value: rec.Owner},
		{Key: "id", Value: rec.ID},
	}

	_, err := s.database.Collection(collectionRecordings).
		ReplaceOne(ctx, filter, rec, options.Replace().SetUpsert(true))

	if err != nil {
		return fmt.Errorf("upsert recording %q: %w", rec.ID, err)
	}

	return nil
}

func (s *Store) List(ctx context.Context, owner string) ([]recording.Recording, error) {
	filter := bson.D{
		{Key: "owner", Value: owner},
		{Key: "deleted", Value: bson.D{{Key: "$ne", Value: true}}},
	}

	return s.find(ctx, s.database.Collection(collectionRecordings), filter)
}

func (s *Store) ListAnonymous(ctx context.Context) ([]recording.Recording, error) {
	filter := bson.D{
		{Key: "deleted", Value: bson.D{{Key: "$ne", Value: true}}},
	}

	return s.find(ctx, s.database.Collection(collectionAnonymous), filter)
}

func (s *Store) find(ctx context.Context, collection *mongo.Collection, filter bson.D) ([]recording.Recording, error) {
	cursor, err := collection.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created", Value: -1}}))

	if err != nil {
		return nil, fmt.Errorf("find recordings: %w", err)
	}

	var recordings []recording.Recording

	if err := cursor.All(ctx, &recordings); err != nil {
		return nil, fmt.Errorf("decode recordings: %w", err)
	}

	return recordings, nil
}

// SoftDelete flags the document; neither the document nor the stored audio
// artifact is removed.
func (s *Store) SoftDelete(ctx context.Context, owner, id string) error {
	filter := bson.D{
		{Key: "owner", Value: owner},
		{Key: "id", Value: id},
	}

	update := bson.D{
		{Key: "$set", Value: bson.D{{Key: "deleted", Value: true}}},
	}

	result, err := s.database.Collection(collectionRecordings).UpdateOne(ctx, filter, update)

	if err != nil {
		return fmt.Errorf("soft delete recording %q: %w", id, err)
	}

	if result.MatchedCount == 0 {
		return recording.ErrNotFound
	}

	return nil
}

func (s *Store) Profiles(ctx context.Context) ([]recording.Profile, error) {
	cursor, err := s.database.Collection(collectionUsers).Find(ctx, bson.D{})

	if err != nil {
		return nil, fmt.Errorf("find profiles: %w", err)
	}

	var profiles []recording.Profile

	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, fmt.Errorf("decode profiles: %w", err)
	}

	return profiles, nil
}

func (s *Store) Profile(ctx context.Context, subject string) (*recording.Profile, error) {
	var profile recording.Profile

	err := s.database.Collection(collectionUsers).
		FindOne(ctx, bson.D{{Key: "_id", Value: subject}}).
		Decode(&profile)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, recording.ErrNotFound
		}

		return nil, fmt.Errorf("find profile %q: %w", subject, err)
	}

	return &profile, nil
}

// EnsureProfile creates the owner's profile document on first authenticated
// touch and keeps the email current. The superuser flag is only ever set
// out-of-band.
func (s *Store) EnsureProfile(ctx context.Context, subject, email string) error {
	filter := bson.D{{Key: "_id", Value: subject}}

	update := bson.D{
		{Key: "$set", Value: bson.D{{Key: "email", Value: email}}},
		{Key: "$setOnInsert", Value: bson.D{{Key: "superuser", Value: false}}},
	}

	_, err := s.database.Collection(collectionUsers).
		UpdateOne(ctx, filter, update, options.UpdateOne().SetUpsert(true))

	if err != nil {
		return fmt.Errorf("ensure profile %q: %w", subject, err)
	}

	return nil
}
