package iam

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/clinicore/clinic-admin/pkg/rbac"
)

// SessionClaims are the JWT claims carried by a clinic-admin session
// token. They hold everything the authorization engine needs from the
// principal.
type SessionClaims struct {
	Email           string   `json:"email"`
	Role            string   `json:"role"`
	AssignedClinics []string `json:"assigned_clinics"`
	PrimaryClinic   string   `json:"primary_clinic,omitempty"`
	Language        string   `json:"language,omitempty"`
	Theme           string   `json:"theme,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager issues and validates session tokens.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenManager creates a token manager with the given HMAC secret.
func NewTokenManager(secret, issuer string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}
}

// Issue creates a signed session token for the user.
func (tm *TokenManager) Issue(user *rbac.SessionUser) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		Email:           user.Email,
		Role:            string(user.Role),
		AssignedClinics: user.AssignedClinics,
		PrimaryClinic:   user.PrimaryClinic,
		Language:        user.Preferences.Language,
		Theme:           user.Preferences.Theme,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    tm.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tm.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate parses a session token and reconstructs the session user.
func (tm *TokenManager) Validate(tokenString string) (*rbac.SessionUser, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	return &rbac.SessionUser{
		ID:              claims.Subject,
		Email:           claims.Email,
		Role:            rbac.Role(claims.Role),
		AssignedClinics: claims.AssignedClinics,
		PrimaryClinic:   claims.PrimaryClinic,
		Preferences: rbac.UserPreferences{
			Language: claims.Language,
			Theme:    claims.Theme,
		},
	}, nil
}
