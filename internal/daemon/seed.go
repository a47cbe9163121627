package daemon

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/permgate/permgate/internal/config"
	usercontroller "github.com/permgate/permgate/internal/db/controller/user"
	"github.com/permgate/permgate/internal/db/models"
)

// seed creates the reserved roles and, on an empty user table, the superadmin account.
func seed(ctx context.Context, cfg *config.Config, conn *gorm.DB) error {
	reserved := []models.Role{
		{ID: models.RoleSuperAdmin, Description: "Super administrator"},
		{ID: models.RoleUser, Description: "User"},
	}

	for i := range reserved {
		if err := conn.WithContext(ctx).FirstOrCreate(&reserved[i], "id = ?", reserved[i].ID).Error; err != nil {
			return errors.Wrapf(err, "failed to seed role %s", reserved[i].ID)
		}
	}

	count, err := usercontroller.Count(ctx, conn)
	if err != nil {
		return errors.Wrap(err, "failed to count users")
	}

	if count > 0 || cfg.Seed.AdminEmail == "" {
		return nil
	}

	admin := &models.User{
		Email:      cfg.Seed.AdminEmail,
		Firstname:  "Super",
		Lastname:   "Admin",
		IsVerified: true,
	}
	admin.SetRoles([]string{models.RoleSuperAdmin})

	if err = admin.SetPassword(cfg.Seed.AdminPassword); err != nil {
		return errors.Wrap(err, "failed to hash seed password")
	}

	if err = usercontroller.Create(ctx, conn, admin); err != nil {
		return errors.Wrap(err, "failed to seed admin")
	}

	log.Warn().Str("email", admin.Email).Msg("created the initial superadmin account, change its password")

	return nil
}
