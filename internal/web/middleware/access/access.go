// Package access guards controller actions with the access checker.
package access

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"

	"github.com/permgate/permgate/internal/db/models"
	"github.com/permgate/permgate/internal/rbac"
	"github.com/permgate/permgate/internal/web/middleware/authn"
)

const (
	decisionAllow = "allow"
	decisionDeny  = "deny"
	decisionError = "error"
)

var decisions = promauto.NewCounterVec( //nolint:gochecknoglobals
	prometheus.CounterOpts{
		Name: "permgate_access_decisions_total",
		Help: "Number of access decisions of guarded routes, differentiated by decision.",
	},
	[]string{"decision"},
)

// Checker decides on controller actions.
type Checker interface {
	IsPublic(controllerID, action string) bool
	IsAuthorized(ctx context.Context, controllerID, action string, user *models.User, attrs rbac.Attributes) (bool, error)
}

// Hook binds route handlers to their controller action.
type Hook struct {
	checker Checker
}

// New creates a Hook.
func New(checker Checker) *Hook {
	return &Hook{checker: checker}
}

// Guard returns h wrapped with the access decision of controllerID.action.
// Denied requests get 403 before h runs.
func (h *Hook) Guard(controllerID, action string, next fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if h.checker.IsPublic(controllerID, action) {
			decisions.WithLabelValues(decisionAllow).Inc()
			return next(c)
		}

		user := authn.CurrentUser(c)

		allowed, err := h.checker.IsAuthorized(c.UserContext(), controllerID, action, user, c.AllParams())
		if err != nil {
			decisions.WithLabelValues(decisionError).Inc()
			log.Error().Err(err).Str("controller", controllerID).Str("action", action).Msg("access check failed")

			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
		}

		if !allowed {
			decisions.WithLabelValues(decisionDeny).Inc()

			event := log.Debug().Str("controller", controllerID).Str("action", action)
			if user != nil {
				event = event.Uint64("user_id", user.ID)
			}

			event.Msg("access denied")

			return Deny(c)
		}

		decisions.WithLabelValues(decisionAllow).Inc()

		return next(c)
	}
}

// Deny writes the access denied response.
func Deny(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Access Denied"})
}
