package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"os/signal"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"tourism_booking/internal/adapters/objectstore"
	"tourism_booking/internal/adapters/observability"
	"tourism_booking/internal/adapters/s3store"
	"tourism_booking/internal/app"
	"tourism_booking/internal/shared"
	mysqlrepo "tourism_booking/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	cfg := shared.Load()

	dryRun := flag.Bool("dry-run", false, "log the changes without writing them")
	workers := flag.Int("workers", cfg.MigrateWorkers, "concurrent listing updates")
	flag.Parse()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("public_url", cfg.StoragePublicURL).
		Str("bucket", cfg.StorageBucket).
		Int("workers", *workers).
		Bool("dry_run", *dryRun).
		Msg("image migration starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	var urls app.URLBuilder
	if cfg.StorageDriver == "s3" {
		urls, err = s3store.New(ctx, s3store.Options{
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			PublicBaseURL: cfg.StoragePublicURL,
		})
	} else {
		urls, err = objectstore.New(cfg.StorageURL, cfg.StoragePublicURL, cfg.StorageServiceKey, cfg.StorageRPS)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize object store")
	}

	m := app.NewImageMigrator(mysqlrepo.New(db), urls, cfg.StorageBucket)
	rep, err := m.Run(ctx, *workers, *dryRun)
	if err != nil {
		log.Fatal().Err(err).Msg("image migration aborted")
	}
	log.Info().
		Int("scanned", rep.Scanned).
		Int("changed", rep.Changed).
		Int("moved", rep.Moved).
		Int("failures", rep.Failures).
		Msg("image migration completed")
	if rep.Failures > 0 {
		os.Exit(1)
	}
}
