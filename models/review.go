package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BookID    primitive.ObjectID `bson:"bookId" json:"bookId"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Name      string             `bson:"name" json:"name"`
	Rating    int                `bson:"rating" json:"rating" validate:"gte=1,lte=5"`
	Comment   string             `bson:"comment,omitempty" json:"comment,omitempty" validate:"max=2000"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// AverageRating returns the mean rating rounded to one decimal, or 0 for no reviews.
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	avg := float64(sum) / float64(len(reviews))
	return float64(int(avg*10+0.5)) / 10
}
