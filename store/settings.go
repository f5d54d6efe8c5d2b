package store

import (
	"context"
	"time"

	"github.com/hamropustak/pasal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mailSettingsID is the _id of the single mail settings document.
const mailSettingsID = "default"

func (db *DB) Setting(ctx context.Context, key string) (*models.SiteSetting, error) {
	var s models.SiteSetting
	found, err := findOne(ctx, db.SiteSettings(), bson.M{"key": key}, &s)
	if err != nil || !found {
		return nil, err
	}
	return &s, nil
}

// PutSetting creates or replaces the value stored under key.
func (db *DB) PutSetting(ctx context.Context, key, value string, at time.Time) error {
	set := bson.M{"key": key, "value": value, "updatedAt": at}
	_, err := db.SiteSettings().UpdateOne(ctx, bson.M{"key": key}, bson.M{"$set": set}, options.Update().SetUpsert(true))
	return err
}

// MailSettings returns the SMTP config, or nil if none has been saved.
func (db *DB) MailSettings(ctx context.Context) (*models.MailSettings, error) {
	var m models.MailSettings
	found, err := findOne(ctx, db.MailConfig(), bson.M{"_id": mailSettingsID}, &m)
	if err != nil || !found {
		return nil, err
	}
	return &m, nil
}

func (db *DB) SaveMailSettings(ctx context.Context, m *models.MailSettings) error {
	set := bson.M{
		"host":      m.Host,
		"port":      m.Port,
		"username":  m.Username,
		"password":  m.Password,
		"from":      m.From,
		"enabled":   m.Enabled,
		"updatedAt": m.UpdatedAt,
	}
	opts := options.Update().SetUpsert(true)
	_, err := db.MailConfig().UpdateOne(ctx, bson.M{"_id": mailSettingsID}, bson.M{"$set": set}, opts)
	return err
}
