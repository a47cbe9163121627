package access

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/permgate/permgate/internal/db/models"
	"github.com/permgate/permgate/internal/rbac"
	"github.com/permgate/permgate/internal/web/middleware/authn"
)

type stubChecker struct {
	public  bool
	allowed bool
	err     error

	gotUser  *models.User
	gotAttrs rbac.Attributes
}

func (s *stubChecker) IsPublic(string, string) bool {
	return s.public
}

func (s *stubChecker) IsAuthorized(_ context.Context, _, _ string, user *models.User, attrs rbac.Attributes) (bool, error) {
	s.gotUser = user
	s.gotAttrs = attrs

	return s.allowed, s.err
}

func run(t *testing.T, checker *stubChecker, user *models.User) (int, string, bool) {
	t.Helper()

	app := fiber.New()
	reached := false

	app.Use(func(c *fiber.Ctx) error {
		if user != nil {
			authn.SetUser(c, user)
		}

		return c.Next()
	})

	app.Get("/api/users/:id", New(checker).Guard("UserController", "getUserDetails", func(c *fiber.Ctx) error {
		reached = true
		return c.SendString("body")
	}))

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/users/42", nil))
	require.NoError(t, err)

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, string(body), reached
}

func TestGuard(t *testing.T) {
	user := &models.User{ID: 7}

	t.Run("public", func(t *testing.T) {
		status, body, reached := run(t, &stubChecker{public: true}, nil)
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "body", body)
		assert.True(t, reached)
	})

	t.Run("authorized", func(t *testing.T) {
		checker := &stubChecker{allowed: true}

		status, _, reached := run(t, checker, user)
		assert.Equal(t, fiber.StatusOK, status)
		assert.True(t, reached)
		assert.Equal(t, user, checker.gotUser)
		assert.Equal(t, rbac.Attributes{"id": "42"}, checker.gotAttrs)
	})

	t.Run("denied", func(t *testing.T) {
		status, body, reached := run(t, &stubChecker{}, user)
		assert.Equal(t, fiber.StatusForbidden, status)
		assert.JSONEq(t, `{"error":"Access Denied"}`, body)
		assert.False(t, reached, "denied handlers never run")
	})

	t.Run("anonymous", func(t *testing.T) {
		checker := &stubChecker{}

		status, _, reached := run(t, checker, nil)
		assert.Equal(t, fiber.StatusForbidden, status)
		assert.False(t, reached)
		assert.Nil(t, checker.gotUser)
	})

	t.Run("error", func(t *testing.T) {
		status, _, reached := run(t, &stubChecker{allowed: true, err: errors.New("boom")}, user)
		assert.Equal(t, fiber.StatusInternalServerError, status)
		assert.False(t, reached)
	})
}
