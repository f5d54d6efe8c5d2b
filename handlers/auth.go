package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/hamropustak/pasal/middleware"
	"github.com/hamropustak/pasal/models"
	"github.com/hamropustak/pasal/store"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	Profiles  store.ProfileStore
	JWTSecret string
	// Default admin credentials from config; the admin profile is created on first login.
	DefaultEmail string
	DefaultPass  string
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"fullName"`
}

type LoginResponse struct {
	Token   string          `json:"token"`
	Profile *models.Profile `json:"profile"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))

	profile, err := h.Profiles.ProfileByEmail(r.Context(), email)
	if err != nil {
		log.Printf("auth: login %s: %v", email, err)
		http.Error(w, `{"error":"login failed"}`, http.StatusInternalServerError)
		return
	}
	if profile == nil {
		if email != h.DefaultEmail || req.Password != h.DefaultPass {
			http.Error(w, `{"error":"invalid email or password"}`, http.StatusUnauthorized)
			return
		}
		profile, err = h.ensureDefaultAdmin(r)
		if err != nil {
			log.Printf("auth: seed default admin: %v", err)
			http.Error(w, `{"error":"login failed"}`, http.StatusInternalServerError)
			return
		}
	} else if err := bcrypt.CompareHashAndPassword([]byte(profile.Password), []byte(req.Password)); err != nil {
		http.Error(w, `{"error":"invalid email or password"}`, http.StatusUnauthorized)
		return
	}
	h.respondWithToken(w, http.StatusOK, profile)
}

// Register creates a shopper profile. Admins are only made by promotion.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if h.DefaultEmail != "" && email == h.DefaultEmail {
		// Reserved for the seeded admin.
		http.Error(w, `{"error":"email already registered"}`, http.StatusConflict)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, `{"error":"registration failed"}`, http.StatusInternalServerError)
		return
	}
	profile := &models.Profile{
		Email:     email,
		Password:  string(hash),
		Role:      models.RoleShopper,
		FullName:  strings.TrimSpace(req.FullName),
		CreatedAt: time.Now().UTC(),
	}
	profile.ID, err = h.Profiles.CreateProfile(r.Context(), profile)
	if errors.Is(err, store.ErrDuplicate) {
		http.Error(w, `{"error":"email already registered"}`, http.StatusConflict)
		return
	}
	if err != nil {
		log.Printf("auth: register %s: %v", email, err)
		http.Error(w, `{"error":"registration failed"}`, http.StatusInternalServerError)
		return
	}
	h.respondWithToken(w, http.StatusCreated, profile)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, status int, p *models.Profile) {
	token, err := middleware.NewToken(h.JWTSecret, p, time.Now())
	if err != nil {
		http.Error(w, `{"error":"could not create token"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, status, LoginResponse{Token: token, Profile: p})
}

func (h *AuthHandler) ensureDefaultAdmin(r *http.Request) (*models.Profile, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(h.DefaultPass), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	admin := &models.Profile{
		Email:     h.DefaultEmail,
		Password:  string(hash),
		Role:      models.RoleAdmin,
		CreatedAt: time.Now().UTC(),
	}
	admin.ID, err = h.Profiles.CreateProfile(r.Context(), admin)
	if errors.Is(err, store.ErrDuplicate) {
		// Lost a race with a concurrent first login.
		return h.Profiles.ProfileByEmail(r.Context(), h.DefaultEmail)
	}
	if err != nil {
		return nil, err
	}
	return admin, nil
}
