package store

import (
	"context"

	"github.com/hamropustak/pasal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InsertOrder returns ErrDuplicate when the tracking number is already taken.
func (db *DB) InsertOrder(ctx context.Context, order *models.Order) (primitive.ObjectID, error) {
	res, err := db.Orders().InsertOne(ctx, order, options.InsertOne())
	if err != nil {
		return primitive.NilObjectID, insertErr(err)
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (db *DB) OrderByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var o models.Order
	found, err := findOne(ctx, db.Orders(), bson.M{"_id": id}, &o)
	if err != nil || !found {
		return nil, err
	}
	return &o, nil
}

func (db *DB) OrderByTrackingNumber(ctx context.Context, trackingNumber string) (*models.Order, error) {
	var o models.Order
	found, err := findOne(ctx, db.Orders(), bson.M{"trackingNumber": trackingNumber}, &o)
	if err != nil || !found {
		return nil, err
	}
	return &o, nil
}

func (db *DB) findOrders(ctx context.Context, filter bson.M) ([]models.Order, error) {
	cur, err := db.Orders().Find(ctx, filter, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (db *DB) OrdersByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return db.findOrders(ctx, bson.M{"userId": userID})
}

func (db *DB) AllOrders(ctx context.Context) ([]models.Order, error) {
	return db.findOrders(ctx, bson.M{})
}

func (db *DB) AppendStatus(ctx context.Context, id primitive.ObjectID, entry models.StatusEntry) (bool, error) {
	update := bson.M{
		"$set":  bson.M{"status": entry.Status, "updatedAt": entry.Timestamp},
		"$push": bson.M{"statusHistory": entry},
	}
	res, err := db.Orders().UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// CancelOrder matches only orders outside the non-cancellable states, so the check and write are one atomic update.
func (db *DB) CancelOrder(ctx context.Context, id primitive.ObjectID, entry models.StatusEntry, reason string) (bool, error) {
	filter := bson.M{
		"_id":    id,
		"status": bson.M{"$nin": models.NonCancellableStatuses},
	}
	update := bson.M{
		"$set": bson.M{
			"status":             models.StatusCancelled,
			"cancellationReason": reason,
			"cancelledAt":        entry.Timestamp,
			"updatedAt":          entry.Timestamp,
		},
		"$push": bson.M{"statusHistory": entry},
	}
	res, err := db.Orders().UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}
