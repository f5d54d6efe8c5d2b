package utils

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecrypt(t *testing.T) {
	key := bytes.Repeat([]byte{1}, 32)
	enc, err := Encrypt([]byte("smtp-password"), key)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(enc, "enc:"))

	dec, err := Decrypt(enc, key)
	require.NoError(t, err)
	assert.Equal(t, "smtp-password", dec)

	plain, err := Decrypt("legacy-plaintext", key)
	require.NoError(t, err)
	assert.Equal(t, "legacy-plaintext", plain)

	_, err = Decrypt(enc, bytes.Repeat([]byte{2}, 32))
	assert.Error(t, err)
	_, err = Encrypt([]byte("x"), []byte("short"))
	assert.Error(t, err)
}

func TestISBN(t *testing.T) {
	assert.Equal(t, "9780306406157", SanitizeISBN(" 978-0-306-40615-7 "))
	assert.Equal(t, "080442957X", SanitizeISBN("0-8044-2957-x"))
	assert.True(t, ValidISBN("9780306406157"))
	assert.True(t, ValidISBN("0306406152"))
	assert.True(t, ValidISBN("080442957X"))
	assert.False(t, ValidISBN("9780306406158"))
	assert.False(t, ValidISBN("12345"))
}

func TestTrackingNumber(t *testing.T) {
	tn := NewTrackingNumber()
	assert.Len(t, tn, len(TrackingPrefix)+8)
	assert.True(t, strings.HasPrefix(tn, TrackingPrefix))
	assert.Equal(t, strings.ToUpper(tn), tn)
	assert.NotEqual(t, tn, NewTrackingNumber())
	assert.Equal(t, "HPP-ABC", NormalizeTrackingNumber("  hpp-abc "))
}

func TestParseKey(t *testing.T) {
	k, err := ParseKey("")
	require.NoError(t, err)
	assert.Nil(t, k)

	k, err = ParseKey(strings.Repeat("ab", 32))
	require.NoError(t, err)
	assert.Len(t, k, 32)

	k, err = ParseKey(strings.Repeat("k", 32))
	require.NoError(t, err)
	assert.Equal(t, []byte(strings.Repeat("k", 32)), k)

	_, err = ParseKey("too-short")
	assert.ErrorIs(t, err, ErrKeySize)
}
