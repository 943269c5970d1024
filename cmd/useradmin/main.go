// Command useradmin creates accounts and manages role assignments directly
// against the service database. It reads the same configuration as the
// server (defaults, environment, config file and -d/-t/-l/-f flags).
package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/usermanagement/internal/admincli"
	"github.com/dmitrijs2005/usermanagement/internal/flagx"
	"github.com/dmitrijs2005/usermanagement/internal/logging"
	"github.com/dmitrijs2005/usermanagement/internal/server/auth"
	"github.com/dmitrijs2005/usermanagement/internal/server/config"
	"github.com/dmitrijs2005/usermanagement/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/usermanagement/internal/server/services"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()

	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("%v", err)
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager(logger)
	if err := rm.RunMigrations(ctx, db); err != nil {
		log.Fatalf("migrations error: %v", err)
	}

	accounts := services.NewAccountService(db, rm, cfg.TxTimeout, logger)
	app := admincli.NewApp(accounts, auth.NewHasher(auth.DefaultCost), os.Stdin, os.Stdout)

	if err := app.Run(ctx, flagx.ExcludeArgs(os.Args[1:], config.FlagNames)); err != nil {
		log.Printf("%v", err)
		if errors.Is(err, admincli.ErrUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
