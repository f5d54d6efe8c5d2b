package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hamropustak/pasal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type contextKey string

const (
	UserIDKey contextKey = "userID"
	EmailKey  contextKey = "email"
	RoleKey   contextKey = "role"
)

const TokenTTL = 7 * 24 * time.Hour

type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// NewToken signs an HS256 token for the profile.
func NewToken(secret string, p *models.Profile, now time.Time) (string, error) {
	claims := Claims{
		UserID: p.ID.Hex(),
		Email:  p.Email,
		Role:   p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func parseBearer(r *http.Request, secret string) (*Claims, primitive.ObjectID, string) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return nil, primitive.NilObjectID, "missing authorization header"
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, primitive.NilObjectID, "invalid authorization format"
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, primitive.NilObjectID, "invalid or expired token"
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, primitive.NilObjectID, "invalid user id"
	}
	return claims, userID, ""
}

func withClaims(ctx context.Context, c *Claims, userID primitive.ObjectID) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	ctx = context.WithValue(ctx, EmailKey, c.Email)
	return context.WithValue(ctx, RoleKey, c.Role)
}

func Auth(jwtSecret string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, userID, problem := parseBearer(r, jwtSecret)
			if problem != "" {
				http.Error(w, `{"error":"`+problem+`"}`, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims, userID)))
		})
	}
}

// OptionalAuth attaches the user when a valid token is present and lets anonymous requests through.
// A request carrying a bad token is treated as anonymous.
func OptionalAuth(jwtSecret string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if claims, userID, problem := parseBearer(r, jwtSecret); problem == "" {
				r = r.WithContext(withClaims(r.Context(), claims, userID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ProfileLookup loads the stored profile behind a token.
type ProfileLookup interface {
	ProfileByID(ctx context.Context, id primitive.ObjectID) (*models.Profile, error)
}

// RequirePermission must run after Auth. The role comes from the stored
// profile, so a role change takes effect on the next request.
func RequirePermission(profiles ProfileLookup, perm models.Permission) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserIDFromContext(r.Context())
			if !ok {
				http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
				return
			}
			profile, err := profiles.ProfileByID(r.Context(), userID)
			if err != nil {
				log.Printf("auth: load profile %s: %v", userID.Hex(), err)
				http.Error(w, `{"error":"could not check permissions"}`, http.StatusInternalServerError)
				return
			}
			if profile == nil || !profile.Can(perm) {
				http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
				return
			}
			ctx := context.WithValue(r.Context(), RoleKey, profile.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func UserIDFromContext(ctx context.Context) (primitive.ObjectID, bool) {
	id, ok := ctx.Value(UserIDKey).(primitive.ObjectID)
	return id, ok
}

func EmailFromContext(ctx context.Context) string {
	s, _ := ctx.Value(EmailKey).(string)
	return s
}

func RoleFromContext(ctx context.Context) string {
	s, _ := ctx.Value(RoleKey).(string)
	return s
}
