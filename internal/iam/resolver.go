package iam

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/clinicore/clinic-admin/pkg/rbac"
)

// BearerSessionResolver resolves sessions from Authorization: Bearer
// headers. It satisfies authz.SessionResolver.
type BearerSessionResolver struct {
	tokens *TokenManager
}

// NewBearerSessionResolver creates a resolver backed by the token manager.
func NewBearerSessionResolver(tokens *TokenManager) *BearerSessionResolver {
	return &BearerSessionResolver{tokens: tokens}
}

// Resolve extracts and validates the bearer token, returning the session
// user. Any failure means "unauthenticated".
func (br *BearerSessionResolver) Resolve(r *http.Request) (*rbac.SessionUser, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, fmt.Errorf("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, fmt.Errorf("invalid authorization header format")
	}

	return br.tokens.Validate(parts[1])
}
