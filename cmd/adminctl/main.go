// Command adminctl creates admin accounts directly in the database. The API
// only lets an existing super admin create others, so the first one comes from here.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"tourism_booking/internal/adapters/observability"
	"tourism_booking/internal/app"
	"tourism_booking/internal/domain"
	"tourism_booking/internal/shared"
	mysqlrepo "tourism_booking/internal/storage/mysql"
)

const usage = `usage: adminctl create -email EMAIL -password PASSWORD [-name NAME] [-role super_admin|admin|manager]`

func main() {
	if len(os.Args) < 2 || os.Args[1] != "create" {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	fs := flag.NewFlagSet("create", flag.ExitOnError)
	email := fs.String("email", "", "login email")
	password := fs.String("password", "", "initial password (min 8 chars)")
	name := fs.String("name", "", "full name")
	role := fs.String("role", string(domain.RoleSuperAdmin), "super_admin, admin or manager")
	_ = fs.Parse(os.Args[2:])

	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}

	// Bootstrap never touches sessions or tokens.
	auth := app.NewAuthService(mysqlrepo.New(db), nil, nil)
	a, err := auth.Bootstrap(ctx, app.NewAdminInput{
		Email:    *email,
		Password: *password,
		FullName: *name,
		Role:     domain.AdminRole(*role),
	})
	if err != nil {
		log.Fatal().Err(err).Str("email", *email).Msg("create admin failed")
	}
	log.Info().Int64("id", a.ID).Str("email", a.Email).Str("role", string(a.Role)).Msg("admin created")
}
