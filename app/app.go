package app

import (
	"marketplace-matching-api/internal/controller"
	"marketplace-matching-api/internal/repo"
	"marketplace-matching-api/internal/repo/pgdb"
	"marketplace-matching-api/internal/service"
	"marketplace-matching-api/pkg/http_server"
	"marketplace-matching-api/pkg/logger"
	"marketplace-matching-api/pkg/postgres"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	"github.com/labstack/echo"
	"go.uber.org/zap"
)

func runMigrations(postgresDB *postgres.Postgres, databaseName string, log *zap.Logger) {
	driver, err := pgmigrate.WithInstance(postgresDB.Database, &pgmigrate.Config{DatabaseName: databaseName})
	if err != nil {
		log.Fatal("migration driver init failed", zap.Error(err))
	}

	migrations, err := migrate.NewWithDatabaseInstance("file://migrations", databaseName, driver)
	if err != nil {
		log.Fatal("migration setup failed", zap.Error(err))
	}

	if err := migrations.Up(); err != nil {
		if err == migrate.ErrNoChange {
			log.Info("no change made by migration scripts")
		} else {
			log.Fatal("migration failed", zap.Error(err))
		}
	}
}

func Run() {
	log := logger.Get()
	defer func() { _ = log.Sync() }()

	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, relying on process environment")
	}

	serverAddress := os.Getenv("SERVER_ADDRESS")
	dbConn := os.Getenv("POSTGRES_CONN")
	databaseName := os.Getenv("POSTGRES_DATABASE")

	log.Info("connecting database")
	postgresDB, err := postgres.NewDB(dbConn)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer postgresDB.Close()

	if err := postgresDB.Database.Ping(); err != nil {
		log.Fatal("database ping failed", zap.Error(err))
	}

	log.Info("running migrations")
	runMigrations(postgresDB, databaseName, log)

	repositories := repo.NewRepositories(postgresDB)
	services := service.NewServices(&service.Deps{
		Repos:     repositories,
		Providers: pgdb.NewProviderRepo(postgresDB),
		Notifier:  pgdb.NewNotificationRepo(postgresDB),
		Bookings:  pgdb.NewBookingRepo(postgresDB),
		Logger:    log,
	})
	handler := echo.New()

	log.Info("setup routes")
	controller.SetupRoutesHandlers(handler, services)

	log.Info("starting server", zap.String("address", serverAddress))
	httpServer := http_server.New(handler, serverAddress)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		log.Info("got signal", zap.String("signal", s.String()))
	case err = <-httpServer.Notify():
		log.Error("server stopped", zap.Error(err))
	}

	log.Info("shutting down")
	if err := httpServer.Shutdown(); err != nil {
		log.Error("shutdown error", zap.Error(err))
	} else {
		log.Info("successful shutdown")
	}
}
