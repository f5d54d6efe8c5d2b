package models

import (
	"encoding/json"
	"time"
)

// Well-known site setting keys edited from the admin content page.
const (
	SettingTrustBadges   = "trust_badges"
	SettingSocialLinks   = "social_links"
	SettingPrivacyPolicy = "privacy_policy"
	SettingTermsPage     = "terms_of_service"
	SettingReturnPolicy  = "return_policy"
	SettingShippingInfo  = "shipping_info"
)

// SiteSetting is a key-value entry for editable marketing content. Value is raw JSON text.
type SiteSetting struct {
	Key       string    `bson:"key" json:"key"`
	Value     string    `bson:"value" json:"-"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// MarshalJSON emits Value as embedded JSON rather than a quoted string.
func (s SiteSetting) MarshalJSON() ([]byte, error) {
	value := json.RawMessage(s.Value)
	if len(value) == 0 || !json.Valid(value) {
		value = json.RawMessage("null")
	}
	return json.Marshal(struct {
		Key       string          `json:"key"`
		Value     json.RawMessage `json:"value"`
		UpdatedAt time.Time       `json:"updatedAt"`
	}{s.Key, value, s.UpdatedAt})
}
