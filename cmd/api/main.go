package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "tourism_booking/internal/adapters/http_server"
	"tourism_booking/internal/adapters/objectstore"
	"tourism_booking/internal/adapters/observability"
	redisad "tourism_booking/internal/adapters/redis"
	"tourism_booking/internal/adapters/s3store"
	"tourism_booking/internal/adapters/web"
	"tourism_booking/internal/app"
	"tourism_booking/internal/catalog"
	"tourism_booking/internal/domain"
	"tourism_booking/internal/security"
	"tourism_booking/internal/shared"
	mysqlrepo "tourism_booking/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve(cfg.MetricsAddr)

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	db.SetMaxOpenConns(20)
	db.SetConnMaxLifetime(5 * time.Minute)
	log.Info().Msg("database connection ok")

	// redis backs both the response cache and admin sessions
	rc := redisad.NewClient(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := rc.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("redis ping failed")
	}
	cache := redisad.New(rc)
	sessions := redisad.NewSessions(rc)

	store, err := objectStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StorageDriver).Msg("object store init failed")
	}

	// deps
	repo := mysqlrepo.New(db)
	media := app.NewMediaService(store, cfg.StorageBucket, cfg.MaxUploadBytes)
	catalogSvc := app.NewCatalogService(repo, repo, cache, cfg.CacheTTL, catalog.Default, store, cfg.SiteTZ)
	booking := app.NewBookingService(repo, repo, cache, cfg.SiteTZ, nil)
	listings := app.NewAdminCatalogService(repo, media, catalog.Default, catalogSvc)
	auth := app.NewAuthService(repo, security.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL), sessions)
	settings := app.NewSettingsService(repo, cache, cfg.CacheTTL)
	stats := app.NewStatsService(repo, cfg.SiteTZ)
	campaigns := app.NewContentService[domain.Campaign]("campaigns", mysqlrepo.NewCampaigns(db), cache, cfg.CacheTTL)
	blog := app.NewContentService[domain.BlogPost]("blog", mysqlrepo.NewBlogPosts(db), cache, cfg.CacheTTL)
	pages := app.NewContentService[domain.Page]("pages", mysqlrepo.NewPages(db), cache, cfg.CacheTTL)
	generalFaqs := app.NewContentService[domain.GeneralFaq]("general_faqs", mysqlrepo.NewGeneralFaqs(db), cache, cfg.CacheTTL)
	faqs := app.NewContentService[domain.Faq]("faqs", mysqlrepo.NewFaqs(db), cache, cfg.CacheTTL)
	limiter := server.NewIPLimiter(cfg.LoginRPS, cfg.LoginBurst)
	secure := !cfg.Dev()

	// http
	srv := server.New(server.WithTrustedProxy(cfg.TrustProxy))
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Catalog:      catalogSvc,
		Booking:      booking,
		Listings:     listings,
		Auth:         auth,
		Media:        media,
		Settings:     settings,
		Stats:        stats,
		Campaigns:    campaigns,
		Blog:         blog,
		Pages:        pages,
		GeneralFaqs:  generalFaqs,
		Faqs:         faqs,
		Limiter:      limiter,
		SecureCookie: secure,
	})

	site, err := web.New(web.Deps{
		Catalog:      catalogSvc,
		Booking:      booking,
		Listings:     listings,
		Auth:         auth,
		Settings:     settings,
		Stats:        stats,
		Campaigns:    campaigns,
		Blog:         blog,
		Pages:        pages,
		Faqs:         generalFaqs,
		Links:        web.Links{WhatsApp: cfg.WhatsAppURL, Instagram: cfg.InstagramURL, Maps: cfg.MapsURL},
		SecureCookie: secure,
		Limiter:      limiter,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("page templates failed to load")
	}
	site.Mount(srv.Router())

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	_ = rc.Close()
	_ = db.Close()
}

type mediaStore interface {
	domain.ObjectStore
	app.URLBuilder
}

func objectStore(ctx context.Context, cfg shared.Config) (mediaStore, error) {
	switch cfg.StorageDriver {
	case "s3":
		return s3store.New(ctx, s3store.Options{
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretKey,
			ForcePathStyle:  cfg.S3ForcePathStyle,
			PublicBaseURL:   cfg.StoragePublicURL,
		})
	default:
		return objectstore.New(cfg.StorageURL, cfg.StoragePublicURL, cfg.StorageServiceKey, cfg.StorageRPS)
	}
}
