package seed

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/gamevault/gamevault/internal/account/domain"
	"github.com/gamevault/gamevault/internal/account/password"
	"github.com/gamevault/gamevault/internal/config"
	"gorm.io/gorm"
)

// EnsureAdminAccount seeds the bootstrap admin for local and self-hosted
// installs. It is a no-op when the username already exists, so role and
// password changes made after first boot survive restarts.
func EnsureAdminAccount(db *gorm.DB, cfg config.BootstrapConfig) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	username := strings.TrimSpace(cfg.AdminUsername)
	if username == "" || cfg.AdminPassword == "" {
		return errors.New("bootstrap admin username and password are required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing accountdomain.Account
		err := tx.WithContext(ctx).
			Where("username = ?", username).
			First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := password.Hash(cfg.AdminPassword)
		if err != nil {
			return err
		}

		account := accountdomain.Account{
			ID:           node.Generate(),
			Username:     username,
			PasswordHash: hashed,
			Email:        cfg.AdminEmail,
			Role:         accountdomain.RoleAdmin,
		}
		return tx.WithContext(ctx).Create(&account).Error
	})
}
