package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hamropustak/pasal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const secret = "test-secret"

func whoami(w http.ResponseWriter, r *http.Request) {
	id, ok := UserIDFromContext(r.Context())
	if !ok {
		w.Write([]byte("anonymous"))
		return
	}
	w.Write([]byte(id.Hex() + " " + EmailFromContext(r.Context()) + " " + RoleFromContext(r.Context())))
}

func tokenFor(t *testing.T, role string, now time.Time) (string, primitive.ObjectID) {
	t.Helper()
	p := &models.Profile{ID: primitive.NewObjectID(), Email: "ram@example.com", Role: role}
	tok, err := NewToken(secret, p, now)
	require.NoError(t, err)
	return tok, p.ID
}

func serve(h http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuth(t *testing.T) {
	h := Auth(secret)(http.HandlerFunc(whoami))
	tok, id := tokenFor(t, models.RoleShopper, time.Now())

	rec := serve(h, tok)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id.Hex()+" ram@example.com shopper", rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, serve(h, "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(h, "garbage").Code)

	expired, _ := tokenFor(t, models.RoleShopper, time.Now().Add(-8*24*time.Hour))
	assert.Equal(t, http.StatusUnauthorized, serve(h, expired).Code)

	other, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: id.Hex()}).SignedString([]byte("wrong"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, serve(h, other).Code)
}

func TestOptionalAuth(t *testing.T) {
	h := OptionalAuth(secret)(http.HandlerFunc(whoami))
	assert.Equal(t, "anonymous", serve(h, "").Body.String())
	assert.Equal(t, "anonymous", serve(h, "garbage").Body.String())

	tok, id := tokenFor(t, models.RoleAdmin, time.Now())
	assert.Equal(t, id.Hex()+" ram@example.com admin", serve(h, tok).Body.String())
}

type profileMap map[primitive.ObjectID]*models.Profile

func (m profileMap) ProfileByID(_ context.Context, id primitive.ObjectID) (*models.Profile, error) {
	return m[id], nil
}

type failingLookup struct{}

func (failingLookup) ProfileByID(context.Context, primitive.ObjectID) (*models.Profile, error) {
	return nil, errors.New("db down")
}

func TestRequirePermission(t *testing.T) {
	profiles := profileMap{}
	h := Auth(secret)(RequirePermission(profiles, models.PermManageOrders)(http.HandlerFunc(whoami)))
	shopper, shopperID := tokenFor(t, models.RoleShopper, time.Now())
	admin, adminID := tokenFor(t, models.RoleAdmin, time.Now())
	profiles[shopperID] = &models.Profile{ID: shopperID, Role: models.RoleShopper}
	profiles[adminID] = &models.Profile{ID: adminID, Role: models.RoleAdmin}

	assert.Equal(t, http.StatusForbidden, serve(h, shopper).Code)
	assert.Equal(t, http.StatusOK, serve(h, admin).Code)

	// The stored role wins over the role in the token.
	profiles[adminID].Role = models.RoleShopper
	assert.Equal(t, http.StatusForbidden, serve(h, admin).Code)
	profiles[shopperID].Role = models.RoleAdmin
	rec := serve(h, shopper)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, shopperID.Hex()+" ram@example.com admin", rec.Body.String())

	delete(profiles, shopperID)
	assert.Equal(t, http.StatusForbidden, serve(h, shopper).Code)

	broken := Auth(secret)(RequirePermission(failingLookup{}, models.PermManageOrders)(http.HandlerFunc(whoami)))
	assert.Equal(t, http.StatusInternalServerError, serve(broken, admin).Code)
}

func TestIPLimiter(t *testing.T) {
	l := NewIPLimiter(2)
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return clock }

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"), "limits are per address")

	clock = clock.Add(30 * time.Second)
	assert.True(t, l.Allow("10.0.0.1"))

	clock = clock.Add(time.Hour)
	l.Allow("10.0.0.3")
	assert.Len(t, l.limiters, 1, "idle visitors are swept")
}

func TestIPLimiterHandler(t *testing.T) {
	h := NewIPLimiter(1).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.7:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req.RemoteAddr = "192.0.2.7:6666"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://shop.np")

	rec := httptest.NewRecorder()
	CORS()(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	CORS("https://shop.np")(next).ServeHTTP(rec, req)
	assert.Equal(t, "https://shop.np", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	CORS("https://other.np")(next).ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
