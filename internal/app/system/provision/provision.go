// Package provision creates learner accounts on the remote learning
// platform when a registration is verified. Provisioning is idempotent
// on the learner's email: an existing account is reported, never
// touched.
package provision

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rhinogeeks/coursedesk/internal/app/store/remoteusers"
	"github.com/rhinogeeks/coursedesk/internal/app/system/mailer"
	"github.com/rhinogeeks/coursedesk/internal/app/system/normalize"
	"github.com/rhinogeeks/coursedesk/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Temp password modes. Random is the default; the legacy deterministic
// scheme (email local part + fixed suffix) exists only for
// compatibility with accounts provisioned by the old back office and
// should stay off for new deployments.
const (
	TempPasswordRandom        = "random"
	TempPasswordDeterministic = "deterministic"
)

// Config carries the provisioning knobs from app configuration.
type Config struct {
	SiteName         string
	LoginURL         string
	TempPasswordMode string // "random" (default) or "deterministic"
	PasswordSuffix   string // deterministic mode only
	Source           string // metadata.source stamped on created accounts
}

// Provisioner creates learner accounts and sends welcome mail.
type Provisioner struct {
	store  *remoteusers.Store
	sender mailer.Sender
	cfg    Config
	log    *zap.Logger
}

func New(store *remoteusers.Store, sender mailer.Sender, cfg Config, log *zap.Logger) *Provisioner {
	if cfg.TempPasswordMode == "" {
		cfg.TempPasswordMode = TempPasswordRandom
	}
	if cfg.Source == "" {
		cfg.Source = "coursedesk"
	}
	return &Provisioner{store: store, sender: sender, cfg: cfg, log: log}
}

// Provision ensures a learner account exists for the given registration
// details. The outcome is always returned as a value, never an error:
// the caller records it on the registration and moves on, because a
// provisioning failure must not undo an admin's verification decision.
func (p *Provisioner) Provision(ctx context.Context, name, email, courseSlug string) models.RemoteUserOutcome {
	email = normalize.Email(email)

	existing, err := p.store.GetByEmail(ctx, email)
	if err != nil {
		p.log.Error("remote account lookup failed",
			zap.String("email", email), zap.Error(err))
		return models.RemoteUserOutcome{Email: email, Error: err.Error()}
	}
	if existing != nil {
		p.log.Info("remote account already exists",
			zap.String("email", email))
		return models.RemoteUserOutcome{
			Existed: true,
			UserID:  existing.ID.Hex(),
			Email:   email,
		}
	}

	tempPassword := p.tempPassword(name, email)
	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return models.RemoteUserOutcome{Email: email, Error: err.Error()}
	}

	created, err := p.store.Create(ctx, models.RemoteUser{
		Name:         normalize.Name(name),
		Email:        email,
		PasswordHash: string(hash),
		Roles:        []string{"student"},
		Verified:     true,
		Metadata: models.RemoteUserMetadata{
			Source: p.cfg.Source,
			SourceInfo: map[string]any{
				"course":         courseSlug,
				"provisioned_at": time.Now().UTC().Format(time.RFC3339),
			},
		},
	})
	if err != nil {
		// A concurrent provision can lose the insert race; the account
		// exists either way.
		if err == remoteusers.ErrDuplicateEmail {
			return models.RemoteUserOutcome{Existed: true, Email: email}
		}
		p.log.Error("remote account create failed",
			zap.String("email", email), zap.Error(err))
		return models.RemoteUserOutcome{Email: email, Error: err.Error()}
	}

	p.log.Info("remote account provisioned",
		zap.String("email", email),
		zap.String("remote_user_id", created.ID.Hex()))

	return models.RemoteUserOutcome{
		Created:     true,
		UserID:      created.ID.Hex(),
		Email:       email,
		EmailResult: p.sendWelcome(name, email, tempPassword),
	}
}

// sendWelcome delivers the temporary password and reports the attempt.
// A mail failure never fails the provision, since the account already
// exists and support can resend credentials, but the failed attempt is
// recorded on the outcome so the admin panel can surface it.
func (p *Provisioner) sendWelcome(name, email, tempPassword string) *models.EmailMeta {
	msg := mailer.BuildWelcomeEmail(mailer.WelcomeEmailData{
		SiteName:     p.cfg.SiteName,
		Name:         normalize.Name(name),
		Email:        email,
		TempPassword: tempPassword,
		LoginURL:     p.cfg.LoginURL,
	})
	msg.To = email

	now := time.Now().UTC()
	meta := models.EmailMeta{OK: true, SentAt: &now}
	if err := p.sender.Send(&msg); err != nil {
		p.log.Warn("welcome email failed",
			zap.String("email", email), zap.Error(err))
		meta.OK = false
		meta.Error = err.Error()
		meta.SentAt = nil
	}
	meta.MessageID = msg.MessageID
	return &meta
}

// tempPassword derives the deterministic legacy password from the first
// whitespace token of the learner's name (falling back to the email
// local part) plus the configured suffix. Random mode ignores both.
func (p *Provisioner) tempPassword(name, email string) string {
	if p.cfg.TempPasswordMode == TempPasswordDeterministic {
		base := ""
		if fields := strings.Fields(name); len(fields) > 0 {
			base = fields[0]
		}
		if base == "" {
			base = email
			if i := strings.IndexByte(email, '@'); i > 0 {
				base = email[:i]
			}
		}
		return fmt.Sprintf("%s%s", base, p.cfg.PasswordSuffix)
	}
	return uuid.NewString()
}
