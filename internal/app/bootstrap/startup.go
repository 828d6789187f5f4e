// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	userstore "github.com/rhinogeeks/coursedesk/internal/app/store/users"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.SuperAdminEmail != "" {
		if err := ensureSuperAdmin(ctx, deps, appCfg, logger); err != nil {
			return err
		}
	}
	return nil
}

// ensureSuperAdmin promotes an existing account to superadmin, or
// creates one when the email is unknown. Creation needs a password;
// promotion leaves the existing credentials alone.
func ensureSuperAdmin(ctx context.Context, deps DBDeps, appCfg AppConfig, logger *zap.Logger) error {
	var hash string
	if appCfg.SuperAdminPassword != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(appCfg.SuperAdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash superadmin password: %w", err)
		}
		hash = string(h)
	}

	store := userstore.New(deps.MongoDatabase)
	if err := store.PromoteSuperAdmin(ctx, appCfg.SuperAdminEmail, appCfg.SuperAdminName, hash); err != nil {
		if appCfg.SuperAdminPassword == "" {
			return fmt.Errorf("ensure superadmin %s (no account exists and superadmin_password is not set?): %w",
				appCfg.SuperAdminEmail, err)
		}
		return fmt.Errorf("ensure superadmin %s: %w", appCfg.SuperAdminEmail, err)
	}

	logger.Info("superadmin ensured", zap.String("email", appCfg.SuperAdminEmail))
	return nil
}
