// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS,
// logging, CORS); AppConfig is everything specific to CourseDesk:
// database connections for both clusters, session cookies, SMTP, and
// the learner-provisioning knobs.
type AppConfig struct {
	// Primary MongoDB cluster (registrations, courses, promo codes, admins)
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Remote learning-platform cluster where learner accounts are
	// provisioned. Blank URI disables provisioning entirely.
	RemoteMongoURI      string
	RemoteMongoDatabase string

	// Session management for back-office staff
	SessionKey    string
	SessionName   string
	SessionDomain string
	SessionMaxAge time.Duration

	// Email/SMTP configuration
	MailSMTPHost string
	MailSMTPPort int
	MailSMTPUser string
	MailSMTPPass string
	MailFrom     string
	MailFromName string

	// Site identity used in outbound email
	SiteName string
	BaseURL  string

	// LearnLoginURL is the learning-platform sign-in page included in
	// welcome emails.
	LearnLoginURL string

	// Learner provisioning: "random" (default) or "deterministic".
	// Deterministic mode derives the temp password from the email local
	// part plus PasswordSuffix and exists only for parity with accounts
	// created by the old back office.
	TempPasswordMode string
	PasswordSuffix   string

	// SuperAdmin bootstrap (created/promoted on startup when set)
	SuperAdminEmail    string
	SuperAdminName     string
	SuperAdminPassword string
}
