package store

import (
	"context"

	"github.com/hamropustak/pasal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *DB) InsertBook(ctx context.Context, book *models.Book) (primitive.ObjectID, error) {
	res, err := db.Books().InsertOne(ctx, book, options.InsertOne())
	if err != nil {
		return primitive.NilObjectID, insertErr(err)
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

// AllBooks returns the catalog newest first. Filtering happens in the catalog package.
func (db *DB) AllBooks(ctx context.Context) ([]models.Book, error) {
	cur, err := db.Books().Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	books := []models.Book{}
	if err := cur.All(ctx, &books); err != nil {
		return nil, err
	}
	return books, nil
}

func (db *DB) BookByID(ctx context.Context, id primitive.ObjectID) (*models.Book, error) {
	var book models.Book
	found, err := findOne(ctx, db.Books(), bson.M{"_id": id}, &book)
	if err != nil || !found {
		return nil, err
	}
	return &book, nil
}

// UpdateBook replaces the editable fields of a book. Rating and review count are owned by reviews.
func (db *DB) UpdateBook(ctx context.Context, id primitive.ObjectID, book *models.Book) (bool, error) {
	update := bson.M{
		"title":        book.Title,
		"author":       book.Author,
		"cover":        book.Cover,
		"price":        book.Price,
		"formats":      book.Formats,
		"readingTime":  book.ReadingTime,
		"genres":       book.Genres,
		"description":  book.Description,
		"excerpt":      book.Excerpt,
		"publishDate":  book.PublishDate,
		"publisher":    book.Publisher,
		"pageCount":    book.PageCount,
		"isbn":         book.ISBN,
		"tags":         book.Tags,
		"isBestseller": book.IsBestseller,
		"isNew":        book.IsNew,
		"moods":        book.Moods,
		"status":       book.Status,
		"updatedAt":    book.UpdatedAt,
	}
	res, err := db.Books().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// DeleteBook removes a book and returns the deleted record so its cover can be cleaned up.
func (db *DB) DeleteBook(ctx context.Context, id primitive.ObjectID) (*models.Book, error) {
	var book models.Book
	err := db.Books().FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&book)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (db *DB) UpdateBookRating(ctx context.Context, id primitive.ObjectID, rating float64, count int) error {
	_, err := db.Books().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"rating": rating, "reviewCount": count}})
	return err
}
