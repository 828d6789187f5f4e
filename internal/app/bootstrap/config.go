// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/rhinogeeks/coursedesk/internal/app/system/provision"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for CourseDesk.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: COURSEDESK_MONGO_URI, COURSEDESK_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "coursedesk", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	// Remote learning-platform cluster
	{Name: "remote_mongo_uri", Default: "", Desc: "Learning-platform MongoDB URI (blank disables learner provisioning)"},
	{Name: "remote_mongo_database", Default: "learn", Desc: "Learning-platform database name"},

	// Sessions
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "coursedesk-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session lifetime (e.g., 24h, 8h)"},

	// Email/SMTP configuration
	{Name: "mail_smtp_host", Default: "localhost", Desc: "SMTP server host"},
	{Name: "mail_smtp_port", Default: 1025, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@coursedesk.local", Desc: "From email address"},
	{Name: "mail_from_name", Default: "CourseDesk", Desc: "From display name"},

	// Site identity
	{Name: "site_name", Default: "CourseDesk", Desc: "Site name used in outbound email"},
	{Name: "base_url", Default: "http://localhost:3000", Desc: "Base URL for links in email"},
	{Name: "learn_login_url", Default: "", Desc: "Learning-platform sign-in URL included in welcome emails"},

	// Learner provisioning
	{Name: "temp_password_mode", Default: "random", Desc: "Temp password scheme: 'random' or 'deterministic' (legacy)"},
	{Name: "password_suffix", Default: "", Desc: "Suffix for deterministic temp passwords (legacy scheme only)"},

	// SuperAdmin bootstrap
	{Name: "superadmin_email", Default: "", Desc: "Email of the superadmin user (promotes/creates on startup)"},
	{Name: "superadmin_name", Default: "Super Admin", Desc: "Display name when creating the superadmin"},
	{Name: "superadmin_password", Default: "", Desc: "Initial superadmin password (only used when creating)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// COURSEDESK_* environment variables, and command-line flags, merging
// with precedence: flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "COURSEDESK", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		RemoteMongoURI:      appValues.String("remote_mongo_uri"),
		RemoteMongoDatabase: appValues.String("remote_mongo_database"),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 24*time.Hour),

		MailSMTPHost: appValues.String("mail_smtp_host"),
		MailSMTPPort: appValues.Int("mail_smtp_port"),
		MailSMTPUser: appValues.String("mail_smtp_user"),
		MailSMTPPass: appValues.String("mail_smtp_pass"),
		MailFrom:     appValues.String("mail_from"),
		MailFromName: appValues.String("mail_from_name"),

		SiteName:      appValues.String("site_name"),
		BaseURL:       appValues.String("base_url"),
		LearnLoginURL: appValues.String("learn_login_url"),

		TempPasswordMode: appValues.String("temp_password_mode"),
		PasswordSuffix:   appValues.String("password_suffix"),

		SuperAdminEmail:    appValues.String("superadmin_email"),
		SuperAdminName:     appValues.String("superadmin_name"),
		SuperAdminPassword: appValues.String("superadmin_password"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation before any
// backends are dialed.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.RemoteMongoURI != "" {
		if err := wafflemongo.ValidateURI(appCfg.RemoteMongoURI); err != nil {
			logger.Error("invalid remote MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid remote MongoDB URI: %w", err)
		}
	}

	switch appCfg.TempPasswordMode {
	case "", provision.TempPasswordRandom:
		// ok
	case provision.TempPasswordDeterministic:
		if appCfg.PasswordSuffix == "" {
			return fmt.Errorf("temp_password_mode 'deterministic' requires password_suffix")
		}
		logger.Warn("deterministic temp passwords are guessable from the learner's email; use only for legacy parity")
	default:
		return fmt.Errorf("temp_password_mode must be 'random' or 'deterministic', got %q", appCfg.TempPasswordMode)
	}

	return nil
}
