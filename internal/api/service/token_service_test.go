package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_RoundTrip(t *testing.T) {
	tokens := NewTokenService("secret", time.Hour)

	token, err := tokens.Issue("session-1")
	require.NoError(t, err)

	id, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "session-1", id)
}

func TestTokenService_Rejects(t *testing.T) {
	good := NewTokenService("secret", time.Hour)
	expired := &jwtTokenService{
		secret: []byte("secret"),
		ttl:    time.Minute,
		now:    func() time.Time { return time.Now().Add(-time.Hour) },
	}

	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{
			name:  "garbage",
			token: func(*testing.T) string { return "not-a-jwt" },
		},
		{
			name: "other secret",
			token: func(t *testing.T) string {
				tok, err := NewTokenService("other", time.Hour).Issue("session-1")
				require.NoError(t, err)
				return tok
			},
		},
		{
			name: "expired",
			token: func(t *testing.T) string {
				tok, err := expired.Issue("session-1")
				require.NoError(t, err)
				return tok
			},
		},
		{
			name: "unsigned",
			token: func(t *testing.T) string {
				tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "session-1"}).
					SignedString(jwt.UnsafeAllowNoneSignatureType)
				require.NoError(t, err)
				return tok
			},
		},
		{
			name: "no subject",
			token: func(t *testing.T) string {
				tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{}).
					SignedString([]byte("secret"))
				require.NoError(t, err)
				return tok
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := good.Verify(tt.token(t))
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
