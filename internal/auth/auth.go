package auth

import (
	"context"
	"errors"
	"fmt"

	"optibill-backend/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

type Role string

const (
	RoleOwner    Role = "owner"
	RoleManager  Role = "manager"
	RoleSalesman Role = "salesman"
	RoleAdmin    Role = "admin"
	RoleDemo     Role = "demo"
)

// Identity is the authenticated caller. BranchIDs is the set of branches
// the token grants; whether an owner token carries every branch or only the
// owned ones is decided at issuance, not here.
type Identity struct {
	UserID    string
	Role      Role
	BranchIDs []string
}

// Resolve derives the tenant scope for one request. It is deliberately the
// only place scope policy lives; the cache and store layers take the
// resolved set as given.
func Resolve(id Identity) domain.Scope {
	return domain.NewScope(id.BranchIDs...)
}

type claims struct {
	Role      string   `json:"role"`
	BranchIDs []string `json:"branchIds"`
	jwt.RegisteredClaims
}

// ParseToken validates an HS256 bearer token and extracts the identity.
func ParseToken(secret, token string) (*Identity, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || c.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &Identity{
		UserID:    c.Subject,
		Role:      Role(c.Role),
		BranchIDs: c.BranchIDs,
	}, nil
}

type contextKey struct{}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

func IdentityFrom(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(*Identity)
	return id, ok
}
