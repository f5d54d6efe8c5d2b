package store

import (
	"context"

	"github.com/hamropustak/pasal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AdminsCount returns the number of profiles with role admin.
func (db *DB) AdminsCount(ctx context.Context) (int64, error) {
	return db.Profiles().CountDocuments(ctx, bson.M{"role": models.RoleAdmin})
}

func (db *DB) ProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var p models.Profile
	found, err := findOne(ctx, db.Profiles(), bson.M{"email": email}, &p)
	if err != nil || !found {
		return nil, err
	}
	return &p, nil
}

func (db *DB) CreateProfile(ctx context.Context, p *models.Profile) (primitive.ObjectID, error) {
	res, err := db.Profiles().InsertOne(ctx, p, options.InsertOne())
	if err != nil {
		return primitive.NilObjectID, insertErr(err)
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (db *DB) ProfileByID(ctx context.Context, id primitive.ObjectID) (*models.Profile, error) {
	var p models.Profile
	found, err := findOne(ctx, db.Profiles(), bson.M{"_id": id}, &p)
	if err != nil || !found {
		return nil, err
	}
	return &p, nil
}

func (db *DB) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	cur, err := db.Profiles().Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"createdAt": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	profiles := []models.Profile{}
	if err := cur.All(ctx, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// UpdateProfileDetails writes contact and shipping fields and the completeness flag.
func (db *DB) UpdateProfileDetails(ctx context.Context, id primitive.ObjectID, p *models.Profile) error {
	set := bson.M{
		"fullName":        p.FullName,
		"phone":           p.Phone,
		"address":         p.Address,
		"city":            p.City,
		"profileComplete": p.Complete(),
	}
	_, err := db.Profiles().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

func (db *DB) UpdateRole(ctx context.Context, id primitive.ObjectID, role string) error {
	_, err := db.Profiles().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"role": role}})
	return err
}
