// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	coursesfeature "github.com/rhinogeeks/coursedesk/internal/app/features/courses"
	errorsfeature "github.com/rhinogeeks/coursedesk/internal/app/features/errors"
	healthfeature "github.com/rhinogeeks/coursedesk/internal/app/features/health"
	loginfeature "github.com/rhinogeeks/coursedesk/internal/app/features/login"
	logoutfeature "github.com/rhinogeeks/coursedesk/internal/app/features/logout"
	promocodesfeature "github.com/rhinogeeks/coursedesk/internal/app/features/promocodes"
	registerfeature "github.com/rhinogeeks/coursedesk/internal/app/features/register"
	registrationsfeature "github.com/rhinogeeks/coursedesk/internal/app/features/registrations"
	"github.com/rhinogeeks/coursedesk/internal/app/store/remoteusers"
	userstore "github.com/rhinogeeks/coursedesk/internal/app/store/users"
	"github.com/rhinogeeks/coursedesk/internal/app/system/auth"
	"github.com/rhinogeeks/coursedesk/internal/app/system/mailer"
	"github.com/rhinogeeks/coursedesk/internal/app/system/provision"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// CourseDesk mounts the public surfaces (course catalog, registration,
// health) at the root and the staff panel under /admin behind session
// auth.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Create the session manager using app config.
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Set up the UserFetcher so LoadSessionUser fetches fresh user data on each request.
	// This ensures role changes and disabled accounts take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	// Create error logger for handlers.
	errLog := errorsfeature.NewErrorLogger(logger)

	// Outbound email for receipts, decision results, and welcome messages.
	sender := mailer.New(appCfg.MailSMTPHost, appCfg.MailSMTPPort, appCfg.MailSMTPUser,
		appCfg.MailSMTPPass, appCfg.MailFrom, appCfg.MailFromName, logger)

	// Learner provisioning against the learning-platform cluster, when
	// configured. A nil provisioner means verified registrations record a
	// provisioning-unavailable outcome instead of an account.
	var provisioner *provision.Provisioner
	if deps.Remote != nil {
		remoteStore := remoteusers.NewStore(deps.Remote)
		provisioner = provision.New(remoteStore, sender, provision.Config{
			SiteName:         appCfg.SiteName,
			LoginURL:         appCfg.LearnLoginURL,
			TempPasswordMode: appCfg.TempPasswordMode,
			PasswordSuffix:   appCfg.PasswordSuffix,
		}, logger)
	}

	r := chi.NewRouter()

	// Uniform JSON error bodies for unmatched routes.
	r.NotFound(errorsfeature.NotFoundHandler)
	r.MethodNotAllowed(errorsfeature.MethodNotAllowedHandler)

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, deps.Remote, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Public course catalog
	publicCourses := coursesfeature.NewPublicHandler(deps.MongoDatabase, errLog, logger)
	r.Mount("/courses", coursesfeature.PublicRoutes(publicCourses))

	// Public registration: submit, promo preview, status by reference
	registerHandler := registerfeature.NewHandler(deps.MongoDatabase, sender, appCfg.SiteName, errLog, logger)
	r.Mount("/register", registerfeature.Routes(registerHandler))

	// Staff panel
	loginHandler := loginfeature.NewHandler(deps.MongoDatabase, sessionMgr, errLog, logger)
	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	registrationsHandler := registrationsfeature.NewHandler(deps.MongoDatabase, sender, provisioner, appCfg.SiteName, errLog, logger)
	adminCourses := coursesfeature.NewAdminHandler(deps.MongoDatabase, errLog, logger)
	promoHandler := promocodesfeature.NewHandler(deps.MongoDatabase, errLog, logger)

	r.Route("/admin", func(ar chi.Router) {
		ar.Mount("/", loginfeature.Routes(loginHandler, sessionMgr))
		ar.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))
		ar.Mount("/registrations", registrationsfeature.Routes(registrationsHandler, sessionMgr))
		ar.Mount("/courses", coursesfeature.AdminRoutes(adminCourses, sessionMgr))
		ar.Mount("/promo-codes", promocodesfeature.Routes(promoHandler, sessionMgr))
	})

	return r, nil
}
