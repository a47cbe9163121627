// Package authn resolves the current user of a request from its bearer token.
package authn

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/permgate/permgate/internal/cache"
	usercontroller "github.com/permgate/permgate/internal/db/controller/user"
	"github.com/permgate/permgate/internal/db/models"
	"github.com/permgate/permgate/internal/rbac"
	"github.com/permgate/permgate/internal/token"
)

const (
	localsUser = "CurrentUser"
	bearer     = "Bearer "

	// MsgInvalidToken is the body message of rejected tokens.
	MsgInvalidToken = "Invalid JWT Token"
	// MsgExpiredToken is the body message of expired tokens.
	MsgExpiredToken = "Expired JWT Token"
)

// TokenParser validates bearer tokens.
type TokenParser interface {
	Parse(signed string) (*token.Claims, error)
}

// Authenticator is the middleware attaching the token owner to the request.
type Authenticator struct {
	tokens TokenParser
	db     *gorm.DB
	cache  *cache.Cache
}

// New creates an Authenticator. The cache may be nil.
func New(tokens TokenParser, db *gorm.DB, c *cache.Cache) *Authenticator {
	return &Authenticator{tokens: tokens, db: db, cache: c}
}

// Handler returns the fiber middleware. Requests without a token continue anonymously.
func (a *Authenticator) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Next()
		}

		if !strings.HasPrefix(header, bearer) {
			return reject(c, MsgInvalidToken)
		}

		claims, err := a.tokens.Parse(strings.TrimSpace(strings.TrimPrefix(header, bearer)))

		switch {
		case errors.Is(err, token.ErrExpired):
			return reject(c, MsgExpiredToken)
		case err != nil:
			log.Debug().Err(err).Msg("rejecting bearer token")
			return reject(c, MsgInvalidToken)
		}

		user, err := a.load(c.UserContext(), claims.ID)

		switch {
		case errors.Is(err, usercontroller.ErrUserNotFound):
			return reject(c, MsgInvalidToken)
		case err != nil:
			return err
		}

		SetUser(c, user)

		return c.Next()
	}
}

// load reads the user through the cache. The record is untagged, it is dropped by key
// when the user changes.
func (a *Authenticator) load(ctx context.Context, id uint64) (*models.User, error) {
	return cache.Remember(ctx, a.cache, rbac.UserKey(id), nil,
		func(ctx context.Context) (*models.User, error) {
			return usercontroller.Get(ctx, a.db, id)
		})
}

func reject(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"code": fiber.StatusUnauthorized, "message": msg})
}

// SetUser attaches user to the request.
func SetUser(c *fiber.Ctx, user *models.User) {
	c.Locals(localsUser, user)
}

// CurrentUser returns the authenticated user of the request, nil for anonymous calls.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(localsUser).(*models.User)

	return user
}

// Subject returns the id of the current user for access logs.
func Subject(c *fiber.Ctx) string {
	if user := CurrentUser(c); user != nil {
		return strconv.FormatUint(user.ID, 10)
	}

	return ""
}
