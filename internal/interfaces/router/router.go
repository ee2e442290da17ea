package router

import (
	"context"
	"fmt"

	authsvc "homescout-backend/internal/application/auth"
	"homescout-backend/internal/application/catalog"
	emailsvc "homescout-backend/internal/application/emails"
	favsvc "homescout-backend/internal/application/favorites"
	healthsvc "homescout-backend/internal/application/health"
	kycsvc "homescout-backend/internal/application/kyc"
	listsvc "homescout-backend/internal/application/listings"
	msgsvc "homescout-backend/internal/application/messages"
	modsvc "homescout-backend/internal/application/moderation"
	nearbysvc "homescout-backend/internal/application/nearby"
	notifsvc "homescout-backend/internal/application/notifications"
	searchsvc "homescout-backend/internal/application/search"
	uploadsvc "homescout-backend/internal/application/uploads"
	usersvc "homescout-backend/internal/application/user"
	"homescout-backend/internal/config"
	"homescout-backend/internal/infrastructure/broker"
	"homescout-backend/internal/infrastructure/cache"
	"homescout-backend/internal/infrastructure/database"
	authhandler "homescout-backend/internal/interfaces/handlers/auth"
	favhandler "homescout-backend/internal/interfaces/handlers/favorites"
	healthhandler "homescout-backend/internal/interfaces/handlers/health"
	kychandler "homescout-backend/internal/interfaces/handlers/kyc"
	listhandler "homescout-backend/internal/interfaces/handlers/listings"
	msghandler "homescout-backend/internal/interfaces/handlers/messages"
	modhandler "homescout-backend/internal/interfaces/handlers/moderation"
	nearbyhandler "homescout-backend/internal/interfaces/handlers/nearby"
	notifhandler "homescout-backend/internal/interfaces/handlers/notifications"
	searchhandler "homescout-backend/internal/interfaces/handlers/search"
	uploadhandler "homescout-backend/internal/interfaces/handlers/uploads"
	userhandler "homescout-backend/internal/interfaces/handlers/user"
	"homescout-backend/internal/middleware"
	"homescout-backend/internal/pkg/constants"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const notificationWorkers = 4

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// App is the wired application. Close releases background workers and connections.
type App struct {
	Fiber   *fiber.App
	DB      *gorm.DB
	Rdb     *redis.Client
	closers []func()
}

// Close runs the registered shutdown steps in reverse order.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func (a *App) onClose(f func()) {
	a.closers = append(a.closers, f)
}

func CreateApp(cfg *config.Config) (*App, error) {
	rdb, err := middleware.NewRedisClient(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	a := &App{Rdb: rdb}
	a.onClose(func() { _ = rdb.Close() })

	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})
	a.Fiber = app

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))
	app.Use(middleware.SecurityHeaders())
	app.Use(middleware.Session(rdb))
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	collector := &healthsvc.Collector{Redis: rdb, External: map[string]healthsvc.ExternalPinger{}}
	hh := &healthhandler.Handlers{Rdb: rdb, Collector: collector, HealthAdminKey: cfg.HealthAdminKey}
	app.Get("/", hh.Dashboard)
	app.Get("/reset", hh.Reset)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)

	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.IsProduction(),
	}

	if cfg.DatabaseURL == "" {
		log.Warn().Msg("no database configured, serving health endpoints only")
		return a, nil
	}
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("database: %w", err)
	}
	a.DB = db
	collector.DB = &gormDBPinger{db: db}
	if cfg.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			a.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	// Shared cache tier for the approved listing snapshot.
	var remote cache.Remote = cache.NewRedisStore(rdb)
	if cfg.CacheBackend == "memcached" {
		mc := cache.NewMemcachedStore(cfg.MemcachedHost)
		remote = mc
		collector.External["memcached"] = mc
	}

	var publisher notifsvc.Publisher = notifsvc.NoopPublisher{}
	if cfg.RabbitMQURL != "" {
		p, err := broker.DialAMQP(cfg.RabbitMQURL, cfg.NotificationsQueue)
		if err != nil {
			a.Close()
			return nil, err
		}
		publisher = p
		a.onClose(func() { _ = p.Close() })
	}

	var emailSender emailsvc.Sender
	if cfg.SendinblueAPIKey != "" {
		emailSender = &emailsvc.BrevoClient{APIKey: cfg.SendinblueAPIKey, MailFrom: cfg.MailFrom}
	}

	notifications := notifsvc.NewService(db, publisher, emailSender, notificationWorkers)
	a.onClose(notifications.Close)

	listings := &listsvc.Service{DB: db}
	snapshot := catalog.New(listings.ListApproved, remote, cfg.ListingCacheTTL)
	listings.Cache = snapshot
	a.onClose(snapshot.Stop)

	overpass := &nearbysvc.OverpassClient{BaseURL: cfg.OverpassURL}
	uploads := &uploadsvc.Service{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
	}
	collector.External["overpass"] = overpass
	collector.External["cloudinary"] = uploads

	api := app.Group("/api/v1")
	auth := middleware.RequireAuth()

	// Auth and accounts
	ah := &authhandler.Handlers{UserFinder: &authsvc.GormUserFinder{DB: db}, Rdb: rdb, Config: sessionCfg}
	api.Post("/auth/login", ah.Login)
	api.Get("/auth/me", ah.Me)
	api.Delete("/auth/logout", ah.Logout)

	uh := &userhandler.Handlers{Service: &usersvc.Service{DB: db, Emails: emailSender}, Rdb: rdb, Config: sessionCfg}
	api.Post("/users/register", uh.Register)
	api.Get("/users/profile", auth, uh.Profile)
	api.Put("/users/profile", auth, uh.UpdateProfile)

	// Search
	sh := &searchhandler.Handlers{Service: &searchsvc.Service{DB: db, Catalog: snapshot}}
	sg := api.Group("/search", middleware.RateLimit("search", cfg.SearchRateLimit))
	sg.Get("/", sh.Search)
	sg.Post("/", sh.SearchBody)
	sg.Get("/history", auth, sh.History)
	sg.Delete("/history", auth, sh.ClearHistory)

	// Nearby places
	nh := &nearbyhandler.Handlers{Service: nearbysvc.NewService(overpass, cfg.NearbyTimeout, nearbysvc.NewCache(cfg.NearbyCacheTTL))}
	api.Get("/nearby", middleware.RateLimit("nearby", cfg.SearchRateLimit), nh.Nearby)

	// Listings
	lh := &listhandler.Handlers{Service: listings}
	mh := &msghandler.Handlers{Service: &msgsvc.Service{DB: db, Notifier: notifications}}
	lg := api.Group("/listings")
	lg.Post("/", auth, middleware.AuthorizePermission(constants.CreateListing), lh.Create)
	lg.Get("/mine", auth, lh.Mine)
	lg.Get("/:id", lh.Get)
	lg.Put("/:id", auth, middleware.AuthorizePermission(constants.EditListing), lh.Update)
	lg.Post("/:id/withdraw", auth, middleware.AuthorizePermission(constants.EditListing), lh.Withdraw)
	lg.Delete("/:id", auth, lh.Delete)
	lg.Get("/:id/events", auth, lh.Events)
	lg.Post("/:id/messages", auth, middleware.AuthorizePermission(constants.SendMessage), mh.Send)

	// Favorites
	fh := &favhandler.Handlers{Service: favsvc.NewService(db, favsvc.DefaultIDsTTL, nil)}
	fg := api.Group("/favorites", auth)
	fg.Get("/", fh.List)
	fg.Get("/ids", fh.IDs)
	fg.Post("/:listingId", fh.Toggle)

	// Conversations
	cg := api.Group("/conversations", auth)
	cg.Get("/", mh.Conversations)
	cg.Get("/unread-count", mh.UnreadCount)
	cg.Get("/:id/messages", mh.Messages)
	cg.Post("/:id/messages", middleware.AuthorizePermission(constants.SendMessage), mh.Reply)

	// Notifications
	noh := &notifhandler.Handlers{Service: notifications}
	ng := api.Group("/notifications", auth)
	ng.Get("/", noh.List)
	ng.Get("/unread-count", noh.UnreadCount)
	ng.Patch("/read-all", noh.MarkAllRead)
	ng.Patch("/:id/read", noh.MarkRead)

	// KYC
	kyc := &kycsvc.Service{DB: db, Notifier: notifications}
	kh := &kychandler.Handlers{Service: kyc}
	kg := api.Group("/kyc", auth)
	kg.Post("/", middleware.AuthorizePermission(constants.SubmitKYC), kh.Submit)
	kg.Get("/status", kh.Status)

	// Uploads
	uph := &uploadhandler.Handlers{Service: uploads}
	api.Post("/uploads/sign", auth, uph.Sign)

	// Admin
	modh := &modhandler.Handlers{Service: &modsvc.Service{DB: db, Cache: snapshot, Notifier: notifications}}
	adm := api.Group("/admin", auth)
	adm.Get("/listings/pending", middleware.AuthorizePermission(constants.ModerateListings), modh.Pending)
	adm.Post("/listings/:id/approve", middleware.AuthorizePermission(constants.ModerateListings), modh.Approve)
	adm.Post("/listings/:id/reject", middleware.AuthorizePermission(constants.ModerateListings), modh.Reject)
	adm.Get("/kyc/pending", middleware.AuthorizePermission(constants.ReviewKYC), kh.Pending)
	adm.Post("/kyc/:id/approve", middleware.AuthorizePermission(constants.ReviewKYC), kh.Approve)
	adm.Post("/kyc/:id/reject", middleware.AuthorizePermission(constants.ReviewKYC), kh.Reject)

	return a, nil
}

// Ping checks the database and Redis connections at startup.
func (a *App) Ping(ctx context.Context) error {
	if a.DB != nil {
		if err := (&gormDBPinger{db: a.DB}).Ping(); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
	}
	if err := a.Rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}
