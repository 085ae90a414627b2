package pkg

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	j := NewJWTEncoderDecoder("test-secret", time.Hour)

	issued, token, err := j.Encode("u-1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	got, err := j.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.UserID)
	assert.True(t, issued.Expiration.Equal(got.Expiration))
}

func TestJWTDecodeRejects(t *testing.T) {
	j := NewJWTEncoderDecoder("test-secret", time.Hour)
	_, good, err := j.Encode("u-1")
	require.NoError(t, err)

	other := NewJWTEncoderDecoder("other-secret", time.Hour)
	_, foreign, err := other.Encode("u-1")
	require.NoError(t, err)

	hs256, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	expired := NewJWTEncoderDecoder("test-secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	_, stale, err := expired.Encode("u-1")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"garbage", "not-a-jwt", ErrTokenInvalid},
		{"wrong secret", foreign, ErrTokenInvalid},
		{"wrong algorithm", hs256, ErrTokenInvalid},
		{"expired", stale, ErrTokenExpired},
		{"tampered", good + "x", ErrTokenInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := j.Decode(tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
