package app

import (
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/d085/storefront/internal/domain"
	"github.com/d085/storefront/pkg/common"
)

// checkAdmin bootstraps the single administrator account from config.
// The login runs on exactly one account; a missing row is created and
// an empty password hash is repaired so the dashboard is never locked
// out.
func (a *Application) checkAdmin() {
	email := strings.ToLower(strings.TrimSpace(a.appConfig.Store.AdminEmail))
	if email == "" {
		zap.L().Error("admin email not configured, skipping account bootstrap")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(a.appConfig.Store.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		zap.L().Error("failed to hash admin password", zap.Error(err))
		return
	}

	var account domain.Account
	err = a.gormDB.Where("email = ?", email).First(&account).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := a.gormDB.Create(&domain.Account{
			ID:        common.UUIDint64(),
			Name:      "Administrador",
			Email:     email,
			Password:  string(hashed),
			LastLogin: time.Now(),
		}).Error; err != nil {
			zap.L().Error("failed to create admin account", zap.Error(err))
		} else {
			zap.L().Info("initialized admin account", zap.String("email", email))
		}
		return
	case err != nil:
		zap.L().Error("failed to query admin account", zap.Error(err))
		return
	}

	if strings.TrimSpace(account.Password) != "" {
		return
	}

	if err := a.gormDB.Model(&domain.Account{}).Where("id = ?", account.ID).Updates(map[string]interface{}{
		"password":   string(hashed),
		"updated_at": time.Now(),
	}).Error; err != nil {
		zap.L().Error("failed to repair admin account", zap.Error(err))
		return
	}

	zap.L().Warn("repaired admin account password", zap.String("email", email))
}
