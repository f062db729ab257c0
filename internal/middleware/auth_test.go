package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-123456"

func TestIssueAndParseToken(t *testing.T) {
	token, err := IssueToken(testSecret, 42, "leo")
	require.NoError(t, err)

	userID, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestParseToken_Rejects(t *testing.T) {
	valid, err := IssueToken(testSecret, 7, "anna")
	require.NoError(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "7",
		"iss": tokenIssuer,
		"aud": tokenAudience,
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	expiredStr, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "7",
		"iss": "someone-else",
		"aud": tokenAudience,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	foreignStr, err := foreign.SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret string
		token  string
	}{
		{"wrong secret", "another-secret-that-is-long-enough-00", valid},
		{"expired", testSecret, expiredStr},
		{"foreign issuer", testSecret, foreignStr},
		{"garbage", testSecret, "not-a-jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseToken(tt.secret, tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestIssueToken_EmptySecret(t *testing.T) {
	_, err := IssueToken("", 1, "x")
	assert.Error(t, err)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{"missing", "", "", ErrMissingToken},
		{"wrong scheme", "Basic abc", "", ErrInvalidToken},
		{"empty token", "Bearer ", "", ErrInvalidToken},
		{"ok", "Bearer abc.def", "abc.def", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			var got string
			var gotErr error
			app.Get("/", func(c *fiber.Ctx) error {
				got, gotErr = BearerToken(c)
				return c.SendStatus(fiber.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, tt.want, got)
			if tt.wantErr != nil {
				assert.ErrorIs(t, gotErr, tt.wantErr)
			} else {
				assert.NoError(t, gotErr)
			}
		})
	}
}
