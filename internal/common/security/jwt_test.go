package security

import (
	"testing"
	"time"

	"bookreview/internal/common"
	"bookreview/internal/platform/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initTestJWT(t *testing.T, exp time.Duration) {
	t.Helper()
	config.AppConfig = &config.Config{
		JWTKey: []byte("test-signing-key"),
		JWTExp: exp,
	}
	InitJWT()
}

func TestGenerateAndParseRoundTrip(t *testing.T) {
	initTestJWT(t, time.Hour)

	token, err := GenerateToken("Ada Lovelace", "admin", 42)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, int64(42), claims.UserID)
}

func TestParseExpiredToken(t *testing.T) {
	initTestJWT(t, -time.Minute)

	token, err := GenerateToken("Ada Lovelace", "user", 1)
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.ErrorIs(t, err, common.ErrInvalidCredential)
}

func TestParseTamperedToken(t *testing.T) {
	initTestJWT(t, time.Hour)
	token, err := GenerateToken("Ada Lovelace", "user", 1)
	require.NoError(t, err)

	// Re-key the verifier; the old signature must no longer verify.
	config.AppConfig.JWTKey = []byte("a-different-key")
	InitJWT()

	_, err = ParseToken(token)
	assert.ErrorIs(t, err, common.ErrInvalidCredential)
}

func TestParseMalformedToken(t *testing.T) {
	initTestJWT(t, time.Hour)

	_, err := ParseToken("not.a.jwt")
	assert.ErrorIs(t, err, common.ErrInvalidCredential)

	_, err = ParseToken("")
	assert.ErrorIs(t, err, common.ErrInvalidCredential)
}

func TestParseRejectsMissingClaims(t *testing.T) {
	initTestJWT(t, time.Hour)
	now := time.Now()

	// No subject.
	_, noSub, err := TokenAuth.Encode(jwt.MapClaims{
		"role":    "user",
		"user_id": int64(1),
		"iat":     now.Unix(),
		"exp":     now.Add(time.Hour).Unix(),
	})
	require.NoError(t, err)
	_, err = ParseToken(noSub)
	assert.ErrorIs(t, err, common.ErrInvalidCredential)

	// No role.
	_, noRole, err := TokenAuth.Encode(jwt.MapClaims{
		"sub":     "Ada Lovelace",
		"user_id": int64(1),
		"iat":     now.Unix(),
		"exp":     now.Add(time.Hour).Unix(),
	})
	require.NoError(t, err)
	_, err = ParseToken(noRole)
	assert.ErrorIs(t, err, common.ErrInvalidCredential)

	// No user id.
	_, noID, err := TokenAuth.Encode(jwt.MapClaims{
		"sub":  "Ada Lovelace",
		"role": "user",
		"iat":  now.Unix(),
		"exp":  now.Add(time.Hour).Unix(),
	})
	require.NoError(t, err)
	_, err = ParseToken(noID)
	assert.ErrorIs(t, err, common.ErrInvalidCredential)
}
