package models

import "time"

// MailSettings holds the SMTP account used for order notifications. A single document exists.
type MailSettings struct {
	Host      string    `bson:"host" json:"host"`
	Port      int       `bson:"port" json:"port"`
	Username  string    `bson:"username" json:"username"`
	Password  string    `bson:"password" json:"password"` // "enc:" prefixed when an encryption key is configured
	From      string    `bson:"from" json:"from"`
	Enabled   bool      `bson:"enabled" json:"enabled"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Usable reports whether enough is configured to attempt a send.
func (m *MailSettings) Usable() bool {
	return m != nil && m.Enabled && m.Host != "" && m.Port > 0 && m.From != ""
}
