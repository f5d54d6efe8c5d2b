package store

import (
	"context"

	"github.com/hamropustak/pasal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *DB) InsertReview(ctx context.Context, r *models.Review) (primitive.ObjectID, error) {
	res, err := db.Reviews().InsertOne(ctx, r, options.InsertOne())
	if err != nil {
		return primitive.NilObjectID, insertErr(err)
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

// ReviewsForBook returns a book's reviews newest first.
func (db *DB) ReviewsForBook(ctx context.Context, bookID primitive.ObjectID) ([]models.Review, error) {
	cur, err := db.Reviews().Find(ctx, bson.M{"bookId": bookID}, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	reviews := []models.Review{}
	if err := cur.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}
