package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorFormatting(t *testing.T) {
	err := NewNetwork("portal", "failed to fetch topics", stderrors.New("connection refused"))
	assert.Equal(t, "[network] portal: failed to fetch topics - connection refused", err.Error())

	err = NewAuthentication("portal", "login failed, check your credentials")
	assert.Equal(t, "[authentication] portal: login failed, check your credentials", err.Error())
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := NewStorage("store", "failed to write topics", cause)

	assert.True(t, stderrors.Is(err, cause))
	assert.False(t, err.Time.IsZero())
}

func TestIsRetryable(t *testing.T) {
	expired := NewSessionExpired("portal")
	wrapped := fmt.Errorf("fetch topics: %w", expired)

	assert.True(t, IsRetryable(expired))
	assert.True(t, IsRetryable(wrapped))
	assert.True(t, expired.Retryable())

	assert.False(t, IsRetryable(stderrors.New("session expired")))
	assert.False(t, IsRetryable(NewAuthentication("portal", "bad password")))
	assert.False(t, IsRetryable(NewRateLimit("portal", time.Minute)))
	assert.False(t, IsRetryable(NewNetwork("portal", "failed to fetch topics", nil)))
	assert.False(t, IsRetryable(nil))
}

func TestIsType(t *testing.T) {
	err := fmt.Errorf("guard: %w", NewRateLimit("portal", 10*time.Minute))

	assert.True(t, IsType(err, ErrorTypeRateLimit))
	assert.False(t, IsType(err, ErrorTypeNetwork))
	assert.Contains(t, err.Error(), "rate limited for 10m0s")
}
