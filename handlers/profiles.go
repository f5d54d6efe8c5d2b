package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/hamropustak/pasal/middleware"
	"github.com/hamropustak/pasal/models"
	"github.com/hamropustak/pasal/store"
)

type ProfilesHandler struct {
	Profiles store.ProfileStore
}

type UpdateProfileRequest struct {
	FullName string `json:"fullName" validate:"max=200"`
	Phone    string `json:"phone" validate:"max=40"`
	Address  string `json:"address" validate:"max=500"`
	City     string `json:"city" validate:"max=100"`
}

type SetRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

func (h *ProfilesHandler) current(w http.ResponseWriter, r *http.Request) (*models.Profile, bool) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	p, err := h.Profiles.ProfileByID(r.Context(), userID)
	if err != nil {
		log.Printf("profiles: load %s: %v", userID.Hex(), err)
		http.Error(w, `{"error":"failed to load profile"}`, http.StatusInternalServerError)
		return nil, false
	}
	if p == nil {
		http.Error(w, `{"error":"profile not found"}`, http.StatusNotFound)
		return nil, false
	}
	return p, true
}

func (h *ProfilesHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := h.current(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Update saves contact and shipping defaults and recomputes profileComplete.
func (h *ProfilesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, ok := h.current(w, r)
	if !ok {
		return
	}
	p.FullName = strings.TrimSpace(req.FullName)
	p.Phone = strings.TrimSpace(req.Phone)
	p.Address = strings.TrimSpace(req.Address)
	p.City = strings.TrimSpace(req.City)
	p.ProfileComplete = p.Complete()
	if err := h.Profiles.UpdateProfileDetails(r.Context(), p.ID, p); err != nil {
		log.Printf("profiles: update %s: %v", p.ID.Hex(), err)
		http.Error(w, `{"error":"failed to update profile"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProfilesHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.Profiles.ListProfiles(r.Context())
	if err != nil {
		log.Printf("profiles: list: %v", err)
		http.Error(w, `{"error":"failed to list profiles"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}

// SetRole changes a profile's role. The last admin cannot be demoted.
func (h *ProfilesHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id", "profile")
	if !ok {
		return
	}
	var req SetRoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	role := strings.TrimSpace(strings.ToLower(req.Role))
	if !models.RoleValid(role) {
		http.Error(w, `{"error":"invalid role; use shopper or admin"}`, http.StatusBadRequest)
		return
	}
	target, err := h.Profiles.ProfileByID(r.Context(), id)
	if err != nil {
		log.Printf("profiles: load %s: %v", id.Hex(), err)
		http.Error(w, `{"error":"failed to load profile"}`, http.StatusInternalServerError)
		return
	}
	if target == nil {
		http.Error(w, `{"error":"profile not found"}`, http.StatusNotFound)
		return
	}
	if target.Role == models.RoleAdmin && role != models.RoleAdmin {
		admins, err := h.Profiles.AdminsCount(r.Context())
		if err != nil {
			http.Error(w, `{"error":"failed to update role"}`, http.StatusInternalServerError)
			return
		}
		if admins <= 1 {
			http.Error(w, `{"error":"cannot remove the last admin"}`, http.StatusConflict)
			return
		}
	}
	if err := h.Profiles.UpdateRole(r.Context(), id, role); err != nil {
		log.Printf("profiles: set role %s: %v", id.Hex(), err)
		http.Error(w, `{"error":"failed to update role"}`, http.StatusInternalServerError)
		return
	}
	target.Role = role
	writeJSON(w, http.StatusOK, target)
}
