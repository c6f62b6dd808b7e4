package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	apperrors "sjsage522/topicworker/pkg/errors"
)

// This test requires a running memcached instance
// If memcached is not available, the test will be skipped
func TestMemcacheService(t *testing.T) {
	mc := NewMemcacheService("localhost:11211")

	if err := mc.Ping(); err != nil {
		t.Skip("Memcached is not available, skipping test")
	}

	// Set a value
	err := mc.Set("portal_rate_limited_test", []byte("600"), 1*time.Second)
	assert.NoError(t, err)

	// Get the value
	value, err := mc.Get("portal_rate_limited_test")
	assert.NoError(t, err)
	assert.Equal(t, "600", string(value))

	// Delete the value
	err = mc.Delete("portal_rate_limited_test")
	assert.NoError(t, err)

	// Try to get the deleted value
	_, err = mc.Get("portal_rate_limited_test")
	assert.ErrorIs(t, err, ErrMiss)

	// Deleting a missing key is not an error
	assert.NoError(t, mc.Delete("portal_rate_limited_test"))
}

func TestMemcacheServiceUnreachable(t *testing.T) {
	mc := NewMemcacheService("127.0.0.1:1")

	err := mc.Ping()
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeCache))

	_, err = mc.Get("portal_rate_limited")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeCache))
	assert.NotErrorIs(t, err, ErrMiss)
}
