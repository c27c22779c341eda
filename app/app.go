package app

import (
	"gig-marketplace-api/internal/controller"
	"gig-marketplace-api/internal/notify"
	"gig-marketplace-api/internal/repo"
	"gig-marketplace-api/internal/service"
	"gig-marketplace-api/pkg/http_server"
	"gig-marketplace-api/pkg/postgres"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	"github.com/labstack/echo"
)

func runMigrations(postgresDB *postgres.Postgres, migrationsUrl string) {
	driver, err := pgmigrate.WithInstance(postgresDB.Database, &pgmigrate.Config{})
	if err != nil {
		log.Fatal(err)
	}

	migrations, err := migrate.NewWithDatabaseInstance(migrationsUrl, "postgres", driver)
	if err != nil {
		log.Fatal(err)
	}

	if err := migrations.Up(); err != nil {
		if err == migrate.ErrNoChange {
			log.Println("no change made by migration scripts")
		} else {
			log.Fatal(err)
		}
	}
}

func Run() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on process environment")
	}

	serverAddressEnv := os.Getenv("SERVER_ADDRESS")
	dbConnEnv := os.Getenv("POSTGRES_CONN")
	jwtSecretEnv := os.Getenv("JWT_SECRET")
	migrationsUrlEnv := os.Getenv("MIGRATIONS_URL")

	if jwtSecretEnv == "" {
		log.Fatal("JWT_SECRET is not set")
	}
	if migrationsUrlEnv == "" {
		migrationsUrlEnv = "file://migrations"
	}

	log.Println("Connecting database...")
	postgresDB, err := postgres.NewDB(dbConnEnv)
	if err != nil {
		log.Fatal("Error occurred while connecting to db: ", err)
	}
	defer postgresDB.Close()

	log.Println("Running migrations...")
	runMigrations(postgresDB, migrationsUrlEnv)

	repositories := repo.NewRepositories(postgresDB)
	hub := notify.NewHub()
	services := service.NewServices(repositories, hub, []byte(jwtSecretEnv))
	handler := echo.New()

	log.Println("Setup routes...")
	controller.SetupRoutesHandlers(handler, services, hub, []byte(jwtSecretEnv))

	log.Println("Starting server...")
	httpServer := http_server.New(handler, serverAddressEnv)

	log.Println("Ready to process requests...")

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		log.Println("Got signal: " + s.String())
	case err = <-httpServer.Notify():
		log.Fatal("Notify error: ", err)
	}

	log.Println("Shutting down...")
	err = httpServer.Shutdown()
	if err != nil {
		log.Fatal("Shutdown error: ", err)
	} else {
		log.Println("Successful shutdown")
	}
}
