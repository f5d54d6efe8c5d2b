package main

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateIsDeterministic(t *testing.T) {
	base := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	a := generate(rand.New(rand.NewPCG(seed, seed>>1)), 25, base)
	b := generate(rand.New(rand.NewPCG(seed, seed>>1)), 25, base)
	require.Len(t, a, 25)
	assert.Equal(t, a, b)
	for i := range a {
		assert.NoError(t, a[i].Validate(), a[i].Title)
	}
}

func TestFixedBooksAreValid(t *testing.T) {
	for _, b := range fixed() {
		assert.NoError(t, b.Validate(), b.Title)
	}
}
