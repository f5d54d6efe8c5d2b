package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hamropustak/pasal/models"
	"github.com/hamropustak/pasal/store"
	"github.com/hamropustak/pasal/utils"
)

type SettingsHandler struct {
	Settings store.SettingsStore
	EncKey   []byte // 32 bytes for encrypting the SMTP password at rest; nil = stored as given
}

// Get returns a public site setting such as trust badges or the return policy.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	s, err := h.Settings.Setting(r.Context(), key)
	if err != nil {
		log.Printf("settings: get %s: %v", key, err)
		http.Error(w, `{"error":"failed to load setting"}`, http.StatusInternalServerError)
		return
	}
	if s == nil {
		http.Error(w, `{"error":"setting not found"}`, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// Put stores the request body, which must be a JSON value, under key.
func (h *SettingsHandler) Put(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimSpace(chi.URLParam(r, "key"))
	if key == "" {
		http.Error(w, `{"error":"key is required"}`, http.StatusBadRequest)
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		http.Error(w, `{"error":"failed to read body"}`, http.StatusBadRequest)
		return
	}
	if !json.Valid(body) {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}
	now := time.Now().UTC()
	if err := h.Settings.PutSetting(r.Context(), key, string(body), now); err != nil {
		log.Printf("settings: put %s: %v", key, err)
		http.Error(w, `{"error":"failed to save setting"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, models.SiteSetting{Key: key, Value: string(body), UpdatedAt: now})
}

type MailSettingsResponse struct {
	Host        string    `json:"host"`
	Port        int       `json:"port"`
	Username    string    `json:"username"`
	From        string    `json:"from"`
	Enabled     bool      `json:"enabled"`
	PasswordSet bool      `json:"passwordSet"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type SaveMailSettingsRequest struct {
	Host     string `json:"host" validate:"required_if=Enabled true"`
	Port     int    `json:"port" validate:"gte=0,lte=65535"`
	Username string `json:"username"`
	// Password is kept unchanged when empty.
	Password string `json:"password"`
	From     string `json:"from" validate:"omitempty,email"`
	Enabled  bool   `json:"enabled"`
}

func mailResponse(m *models.MailSettings) MailSettingsResponse {
	if m == nil {
		return MailSettingsResponse{}
	}
	return MailSettingsResponse{
		Host:        m.Host,
		Port:        m.Port,
		Username:    m.Username,
		From:        m.From,
		Enabled:     m.Enabled,
		PasswordSet: m.Password != "",
		UpdatedAt:   m.UpdatedAt,
	}
}

// GetMail never returns the SMTP password.
func (h *SettingsHandler) GetMail(w http.ResponseWriter, r *http.Request) {
	m, err := h.Settings.MailSettings(r.Context())
	if err != nil {
		log.Printf("mail settings: get: %v", err)
		http.Error(w, `{"error":"failed to load mail settings"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, mailResponse(m))
}

func (h *SettingsHandler) SaveMail(w http.ResponseWriter, r *http.Request) {
	var req SaveMailSettingsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	current, err := h.Settings.MailSettings(r.Context())
	if err != nil {
		log.Printf("mail settings: load: %v", err)
		http.Error(w, `{"error":"failed to load mail settings"}`, http.StatusInternalServerError)
		return
	}
	next := &models.MailSettings{
		Host:      strings.TrimSpace(req.Host),
		Port:      req.Port,
		Username:  strings.TrimSpace(req.Username),
		From:      strings.TrimSpace(req.From),
		Enabled:   req.Enabled,
		UpdatedAt: time.Now().UTC(),
	}
	switch {
	case req.Password == "" && current != nil:
		next.Password = current.Password
	case req.Password != "" && len(h.EncKey) == 32:
		enc, err := utils.Encrypt([]byte(req.Password), h.EncKey)
		if err != nil {
			log.Printf("mail settings: encrypt password: %v", err)
			http.Error(w, `{"error":"failed to encrypt password"}`, http.StatusInternalServerError)
			return
		}
		next.Password = enc
	default:
		next.Password = req.Password
	}
	if err := h.Settings.SaveMailSettings(r.Context(), next); err != nil {
		log.Printf("mail settings: save: %v", err)
		http.Error(w, `{"error":"failed to save mail settings"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, mailResponse(next))
}
