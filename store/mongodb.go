package store

import (
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type DB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

func NewMongoDB(ctx context.Context, uri, dbName string) (*DB, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	log.Println("Connected to MongoDB")
	return &DB{
		Client:   client,
		Database: client.Database(dbName),
	}, nil
}

func (db *DB) Profiles() *mongo.Collection {
	return db.Database.Collection("profiles")
}

func (db *DB) Books() *mongo.Collection {
	return db.Database.Collection("books")
}

func (db *DB) Orders() *mongo.Collection {
	return db.Database.Collection("orders")
}

func (db *DB) Reviews() *mongo.Collection {
	return db.Database.Collection("reviews")
}

func (db *DB) SiteSettings() *mongo.Collection {
	return db.Database.Collection("site_settings")
}

func (db *DB) MailConfig() *mongo.Collection {
	return db.Database.Collection("mail_settings")
}

// EnsureIndexes creates the unique and lookup indexes the application relies on.
func (db *DB) EnsureIndexes(ctx context.Context) error {
	indexes := []struct {
		coll  *mongo.Collection
		model mongo.IndexModel
	}{
		{db.Orders(), mongo.IndexModel{Keys: bson.D{{Key: "trackingNumber", Value: 1}}, Options: options.Index().SetUnique(true)}},
		{db.Orders(), mongo.IndexModel{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}}},
		{db.Profiles(), mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)}},
		{db.SiteSettings(), mongo.IndexModel{Keys: bson.D{{Key: "key", Value: 1}}, Options: options.Index().SetUnique(true)}},
		{db.Reviews(), mongo.IndexModel{Keys: bson.D{{Key: "bookId", Value: 1}, {Key: "createdAt", Value: -1}}}},
	}
	for _, idx := range indexes {
		if _, err := idx.coll.Indexes().CreateOne(ctx, idx.model); err != nil {
			return err
		}
	}
	return nil
}

func (db *DB) Disconnect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return db.Client.Disconnect(ctx)
}

// findOne decodes the first match into out. found is false on ErrNoDocuments.
func findOne(ctx context.Context, coll *mongo.Collection, filter bson.M, out any) (found bool, err error) {
	err = coll.FindOne(ctx, filter).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func insertErr(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}
