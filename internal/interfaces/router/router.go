package router

import (
	"context"
	"errors"
	"time"

	adminsvc "github.com/AndyRamoss/Invitacion-Andy/internal/application/admins"
	authsvc "github.com/AndyRamoss/Invitacion-Andy/internal/application/auth"
	"github.com/AndyRamoss/Invitacion-Andy/internal/application/emails"
	invsvc "github.com/AndyRamoss/Invitacion-Andy/internal/application/invitations"
	policies "github.com/AndyRamoss/Invitacion-Andy/internal/application/policies/rsvp"
	statssvc "github.com/AndyRamoss/Invitacion-Andy/internal/application/stats"
	"github.com/AndyRamoss/Invitacion-Andy/internal/config"
	"github.com/AndyRamoss/Invitacion-Andy/internal/infrastructure/bus"
	"github.com/AndyRamoss/Invitacion-Andy/internal/infrastructure/database"
	"github.com/AndyRamoss/Invitacion-Andy/internal/infrastructure/store"
	adminhandler "github.com/AndyRamoss/Invitacion-Andy/internal/interfaces/handlers/admins"
	authhandler "github.com/AndyRamoss/Invitacion-Andy/internal/interfaces/handlers/auth"
	healthhandler "github.com/AndyRamoss/Invitacion-Andy/internal/interfaces/handlers/health"
	invhandler "github.com/AndyRamoss/Invitacion-Andy/internal/interfaces/handlers/invitations"
	statshandler "github.com/AndyRamoss/Invitacion-Andy/internal/interfaces/handlers/stats"
	"github.com/AndyRamoss/Invitacion-Andy/internal/middleware"
	"github.com/AndyRamoss/Invitacion-Andy/internal/pkg/metrics"
	"github.com/AndyRamoss/Invitacion-Andy/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	rsvpRateMax    = 20
	rsvpRateWindow = time.Minute
	authRateMax    = 10
	authRateWindow = time.Minute
)

// rateLimit limits requests per client IP and answers 429 RATE_LIMITED.
func rateLimit(max int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return response.ErrorCode(c, "Demasiadas solicitudes, intenta más tarde", "RATE_LIMITED", fiber.StatusTooManyRequests, nil)
		},
	})
}

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Deps are the long-lived clients opened by CreateApp.
type Deps struct {
	DB      *gorm.DB
	Rdb     *redis.Client
	Bus     *bus.Bus
	Metrics *metrics.Metrics
}

// Close drains the bus and closes Redis and the database pool.
func (d *Deps) Close() {
	if d == nil {
		return
	}
	d.Bus.Close()
	if d.Rdb != nil {
		_ = d.Rdb.Close()
	}
	if d.DB != nil {
		if sqlDB, err := d.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

// OpenDeps connects the database (migrating it), Redis and, when configured, NATS.
// A NATS failure is logged and the service runs without events.
func OpenDeps(cfg *config.Config) (*Deps, error) {
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required for sessions")
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, err
	}
	deps := &Deps{DB: db, Rdb: redis.NewClient(opts), Metrics: metrics.New()}
	if cfg.NatsURL != "" {
		b, err := bus.New(cfg.NatsURL)
		if err != nil {
			log.Warn().Err(err).Msg("nats unavailable, lifecycle events disabled")
		} else {
			deps.Bus = b
		}
	}
	return deps, nil
}

// CreateApp opens dependencies, seeds bootstrap admins and builds the route table.
func CreateApp(cfg *config.Config) (*fiber.App, *Deps, error) {
	deps, err := OpenDeps(cfg)
	if err != nil {
		return nil, nil, err
	}
	app, err := NewApp(cfg, deps)
	if err != nil {
		deps.Close()
		return nil, nil, err
	}
	return app, deps, nil
}

// NewApp wires services and handlers over already opened dependencies.
func NewApp(cfg *config.Config, deps *Deps) (*fiber.App, error) {
	db, rdb := deps.DB, deps.Rdb

	invStore := &store.InvitationStore{DB: db}
	admins := &adminsvc.Service{Admins: &store.AdminStore{DB: db}, Audit: invStore}
	if _, err := admins.Seed(context.Background(), cfg.BootstrapAdmins); err != nil {
		return nil, err
	}

	// Interface fields stay nil when the collaborator is disabled.
	var publisher invsvc.Publisher
	if deps.Bus != nil {
		publisher = deps.Bus
	}
	var mailer invsvc.Mailer
	if cfg.SendinblueAPIKey != "" {
		mailer = &emails.BrevoClient{APIKey: cfg.SendinblueAPIKey, MailFrom: cfg.MailFrom}
	}
	var verifier authsvc.TokenVerifier
	if cfg.GoogleClientID != "" {
		verifier = authsvc.NewGoogleVerifier(cfg.GoogleClientID)
	} else {
		log.Warn().Msg("GOOGLE_CLIENT_ID not set, admin sign-in disabled")
	}

	invitations := &invsvc.Service{
		Store:         invStore,
		Policy:        policies.Policy{LockAfterResponse: cfg.LockAfterResponse},
		AllowedQuotas: cfg.AllowedQuotas,
		Publisher:     publisher,
		Mailer:        mailer,
		Metrics:       deps.Metrics,
		PublicBaseURL: cfg.PublicBaseURL,
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.NewErrorHandler(rdb),
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: []string{cfg.PublicBaseURL},
		AllowedSuffix:  cfg.FrontendURLEndsWith,
		DevPassword:    cfg.DevPassword,
	}))
	app.Use(middleware.Session(rdb))
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())
	app.Use(middleware.RequestMetrics(deps.Metrics))

	hh := &healthhandler.Handlers{
		Rdb:            rdb,
		DB:             &gormDBPinger{db: db},
		HealthAdminKey: cfg.HealthAdminKey,
	}
	if deps.Bus != nil {
		hh.Bus = deps.Bus
	}
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)
	app.Get("/health/reset", hh.Reset)
	app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))

	sessionCfg := middleware.SessionConfig{
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.IsProduction(),
	}
	ah := &authhandler.Handlers{
		Service: &authsvc.Service{Verifier: verifier, Admins: admins, Audit: invStore},
		Rdb:     rdb,
		Config:  sessionCfg,
	}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/login", rateLimit(authRateMax, authRateWindow), ah.Login)
	authGroup.Get("/me", middleware.RequireAuth(), ah.Me)
	authGroup.Delete("/logout", ah.Logout)

	ih := &invhandler.Handlers{Service: invitations}

	// Public RSVP page: no session, rate limited per client IP.
	pub := app.Group("/api/v1/invitations/public", rateLimit(rsvpRateMax, rsvpRateWindow))
	pub.Get("/view/:code", ih.PublicView)
	pub.Post("/rsvp", ih.PublicRsvp)
	pub.Get("/quota", ih.PublicQuota)

	adminOnly := middleware.RequireAdmin(admins)

	ig := app.Group("/api/v1/invitations", adminOnly)
	ig.Post("/create-invitation", ih.CreateInvitation)
	ig.Post("/bulk-import", ih.BulkImport)
	ig.Get("/view-invitations", ih.ViewInvitations)
	ig.Get("/view-invitation/:code", ih.ViewInvitation)
	ig.Patch("/update-invitation/:code", ih.UpdateInvitation)
	ig.Delete("/delete-invitation/:code", ih.DeleteInvitation)
	ig.Get("/export-csv", ih.ExportCSV)

	app.Get("/api/v1/logs/recent-activity", adminOnly, ih.RecentActivity)

	sh := &statshandler.Handlers{Service: &statssvc.Service{Store: invStore}}
	app.Get("/api/v1/stats/view-stats", adminOnly, sh.ViewStats)

	adh := &adminhandler.Handlers{Service: admins}
	adg := app.Group("/api/v1/admins", adminOnly)
	adg.Get("/view-admins", adh.ViewAdmins)
	adg.Post("/add-admin", adh.AddAdmin)
	adg.Delete("/remove-admin/:email", adh.RemoveAdmin)

	return app, nil
}
