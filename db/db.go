package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store owns the Mongo client and every collection handle. One Store is
// created at startup and injected into the feature packages; nothing here
// is package-level state.
type Store struct {
	Client *mongo.Client

	Users             *mongo.Collection
	Tours             *mongo.Collection
	Bookings          *mongo.Collection
	Dependants        *mongo.Collection
	DependantProfiles *mongo.Collection
	Reviews           *mongo.Collection
	Enquiries         *mongo.Collection
	Intents           *mongo.Collection
	Idempotency       *mongo.Collection
}

func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	d := client.Database(dbName)
	return &Store{
		Client:            client,
		Users:             d.Collection("users"),
		Tours:             d.Collection("tours"),
		Bookings:          d.Collection("bookings"),
		Dependants:        d.Collection("dependants"),
		DependantProfiles: d.Collection("dependant_profiles"),
		Reviews:           d.Collection("reviews"),
		Enquiries:         d.Collection("enquiries"),
		Intents:           d.Collection("payment_intents"),
		Idempotency:       d.Collection("idempotency"),
	}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}

// EnsureIndexes creates the unique and TTL indexes the handlers rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.Users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"email": 1},
		Options: options.Index().SetUnique(true).SetName("unique_email"),
	})
	if err != nil {
		return err
	}

	for _, c := range []struct {
		coll *mongo.Collection
		key  string
	}{
		{s.Tours, "tourid"},
		{s.Bookings, "bookingid"},
		{s.Dependants, "dependantid"},
		{s.DependantProfiles, "profileid"},
		{s.Reviews, "reviewid"},
		{s.Intents, "intentid"},
	} {
		_, err := c.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.M{c.key: 1},
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return err
		}
	}

	_, err = s.Idempotency.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.M{"key": 1},
			Options: options.Index().SetUnique(true).SetName("unique_key"),
		},
		{
			Keys:    bson.M{"expires_at": 1},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("ttl_expires_at"),
		},
	})
	return err
}

// Ctx returns a request-scoped context with the conventional DB timeout.
func Ctx(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, 5*time.Second)
}
