package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicURLRoundTrip(t *testing.T) {
	s := &S3Service{bucket: "covers", publicBaseURL: "https://cdn.example.com"}
	u := s.PublicURL("covers/abc.jpg")
	assert.Equal(t, "https://cdn.example.com/covers/abc.jpg", u)

	key, ok := s.KeyFromURL(u)
	assert.True(t, ok)
	assert.Equal(t, "covers/abc.jpg", key)

	_, ok = s.KeyFromURL("https://covers.openlibrary.org/b/isbn/1-L.jpg")
	assert.False(t, ok)
}

func TestPublicReadPolicyIsJSON(t *testing.T) {
	var doc map[string]any
	assert.NoError(t, json.Unmarshal([]byte(publicReadPolicy("hamro-covers")), &doc))
	assert.Contains(t, publicReadPolicy("hamro-covers"), "arn:aws:s3:::hamro-covers/*")
}
