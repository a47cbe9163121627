package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/permgate/permgate/internal/db/controller/role"
	"github.com/permgate/permgate/internal/db/controller/user"
	"github.com/permgate/permgate/internal/rbac"
)

// Message writes a {"message": msg} body with status.
func Message(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"message": msg})
}

// Error maps err to its HTTP response.
func Error(c *fiber.Ctx, err error) error {
	var (
		verr  *rbac.ValidationError
		verrs validator.ValidationErrors
	)

	switch {
	case errors.Is(err, rbac.ErrNotFound),
		errors.Is(err, role.ErrRoleNotFound),
		errors.Is(err, user.ErrUserNotFound):
		return Message(c, fiber.StatusNotFound, "Not found")
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": verr.Message, "key": verr.Key})
	case errors.As(err, &verrs):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Validation failed", "errors": fields(verrs)})
	case errors.Is(err, rbac.ErrReservedRole),
		errors.Is(err, role.ErrRoleAlreadyExists),
		errors.Is(err, user.ErrEmailExists):
		return Message(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, rbac.ErrAccessDenied):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Access Denied"})
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("request failed")

	return Message(c, fiber.StatusInternalServerError, "Internal Server Error")
}

func fields(errs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(errs))
	for _, fe := range errs {
		out[fe.Field()] = fe.Tag()
	}

	return out
}
