package handler

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/permgate/permgate/internal/db/query"
	"github.com/permgate/permgate/internal/rbac"
)

const maxRoleIDLength = 20

var roleIDPattern = regexp.MustCompile(`^ROLE_[A-Z0-9]+(_[A-Z0-9]+)*$`) //nolint:gochecknoglobals

// NewValidator returns a validator with the role_id rule and json field names.
func NewValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0] //nolint:mnd
		if name == "-" {
			return ""
		}

		return name
	})

	_ = v.RegisterValidation("role_id", func(fl validator.FieldLevel) bool {
		return ValidRoleID(fl.Field().String())
	})

	return v
}

// ValidRoleID reports whether id is a well-formed role identifier.
func ValidRoleID(id string) bool {
	return len(id) <= maxRoleIDLength && roleIDPattern.MatchString(id)
}

// Bind parses the JSON body of c into out and validates it.
func Bind(c *fiber.Ctx, v *validator.Validate, out any) error {
	if err := c.BodyParser(out); err != nil {
		return &rbac.ValidationError{Message: "invalid JSON format"}
	}

	return v.Struct(out)
}

// ParseID returns the numeric id route parameter.
func ParseID(c *fiber.Ctx) (uint64, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return 0, &rbac.ValidationError{Key: "id", Message: "invalid identifier"}
	}

	return id, nil
}

// ListParams reads the pagination, search and sorting parameters of c.
func ListParams(c *fiber.Ctx) query.Params {
	return query.Params{
		Page:     c.QueryInt("page", 1),
		Limit:    c.QueryInt("limit", query.DefaultLimit),
		Search:   c.Query("search"),
		OrderBy:  c.Query("orderBy"),
		OrderDir: c.Query("orderDir"),
	}.Normalize()
}
