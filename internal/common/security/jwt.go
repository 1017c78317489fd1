package security

import (
	"time"

	"bookreview/internal/common"
	"bookreview/internal/platform/config"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var TokenAuth *jwtauth.JWTAuth

func InitJWT() {
	TokenAuth = jwtauth.New("HS256", config.AppConfig.JWTKey, nil)
}

// TokenClaims is the identity a session token asserts. The access guard
// treats it only as a lookup key: the live user record is authoritative.
type TokenClaims struct {
	Subject string
	Role    string
	UserID  int64
}

func GenerateToken(fullName, role string, userID int64) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":     fullName,
		"role":    role,
		"user_id": userID,
		"jti":     uuid.NewString(),
		"iat":     now.Unix(),
		"exp":     now.Add(config.AppConfig.JWTExp).Unix(),
	}
	_, tokenString, err := TokenAuth.Encode(claims)
	return tokenString, err
}

// ParseToken verifies signature and expiry and extracts the identity claims.
// Every failure mode (tampered, expired, malformed, missing subject) comes
// back as the same ErrInvalidCredential so the response cannot be used to
// probe which check failed.
func ParseToken(tokenString string) (TokenClaims, error) {
	token, err := jwtauth.VerifyToken(TokenAuth, tokenString)
	if err != nil {
		return TokenClaims{}, common.ErrInvalidCredential
	}

	sub := token.Subject()
	if sub == "" {
		return TokenClaims{}, common.ErrInvalidCredential
	}

	private := token.PrivateClaims()
	role, ok := private["role"].(string)
	if !ok {
		return TokenClaims{}, common.ErrInvalidCredential
	}
	userID, ok := numericClaim(private["user_id"])
	if !ok {
		return TokenClaims{}, common.ErrInvalidCredential
	}

	return TokenClaims{Subject: sub, Role: role, UserID: userID}, nil
}

// JSON round-trips integers as float64; jwx may also hand back int64.
func numericClaim(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	default:
		return 0, false
	}
}
