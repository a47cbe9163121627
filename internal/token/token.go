// Package token issues and parses the bearer tokens of authenticated users.
package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/permgate/permgate/internal/db/models"
	"github.com/permgate/permgate/internal/permission"
	"github.com/permgate/permgate/internal/rbac"
)

var (
	// ErrEmptySecret is returned by New without a signing secret.
	ErrEmptySecret = errors.New("token secret is empty")
	// ErrInvalid is returned for malformed tokens or tokens with a bad signature.
	ErrInvalid = errors.New("invalid token")
	// ErrExpired is returned for tokens past their expiry.
	ErrExpired = errors.New("expired token")
)

// Claims is the payload of an issued token.
type Claims struct {
	ID          uint64              `json:"id"`
	Email       string              `json:"email"`
	Firstname   string              `json:"firstname"`
	Lastname    string              `json:"lastname"`
	IsVerified  bool                `json:"is_verified"`
	Roles       []string            `json:"roles"`
	Permissions map[string][]string `json:"permissions"`
	jwt.RegisteredClaims
}

// PermissionSource provides the effective permissions of a user.
type PermissionSource interface {
	EffectivePermissions(ctx context.Context, user *models.User) (rbac.Permissions, error)
}

// TranslatorSource provides the alias translator of the current catalog.
type TranslatorSource interface {
	Translator(ctx context.Context) (*permission.Translator, error)
}

// Issuer signs tokens with HS256.
type Issuer struct {
	secret      []byte
	issuer      string
	users       PermissionSource
	translators TranslatorSource
	coordinator *rbac.Coordinator
	now         func() time.Time
}

// New creates an Issuer.
func New(
	secret, issuer string,
	users PermissionSource,
	translators TranslatorSource,
	coordinator *rbac.Coordinator,
) (*Issuer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	return &Issuer{
		secret:      []byte(secret),
		issuer:      issuer,
		users:       users,
		translators: translators,
		coordinator: coordinator,
		now:         time.Now,
	}, nil
}

// Issue creates a token for user valid until the next local midnight.
// The cached permissions of the user are recomputed first.
func (i *Issuer) Issue(ctx context.Context, user *models.User) (string, error) {
	i.coordinator.ForgetUser(ctx, user.ID)

	perms, err := i.users.EffectivePermissions(ctx, user)
	if err != nil {
		return "", fmt.Errorf("permissions of user %d: %w", user.ID, err)
	}

	translator, err := i.translators.Translator(ctx)
	if err != nil {
		return "", err
	}

	now := i.now()

	claims := &Claims{
		ID:          user.ID,
		Email:       user.Email,
		Firstname:   user.Firstname,
		Lastname:    user.Lastname,
		IsVerified:  user.IsVerified,
		Roles:       user.Roles(),
		Permissions: translator.TranslatePermissions(perms),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(NextMidnight(now)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Parse validates a signed token and returns its claims.
func (i *Issuer) Parse(signed string) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(signed, claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(i.now))

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpired
	case err != nil:
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return claims, nil
}

// NextMidnight returns the start of the day after t in the location of t.
func NextMidnight(t time.Time) time.Time {
	y, m, d := t.Date()

	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
}
