package main

import (
	"log"

	"github.com/7174Andy/gitcron/internal"
	"github.com/7174Andy/gitcron/internal/github"
	"github.com/7174Andy/gitcron/internal/handler"
	"github.com/7174Andy/gitcron/internal/security"
	"github.com/7174Andy/gitcron/internal/service"
	"github.com/7174Andy/gitcron/internal/settings"
	"github.com/7174Andy/gitcron/internal/store"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	_ "modernc.org/sqlite"
)

func main() {
	settings.ReadDotenv(internal.DotEnvPath)
	settings.Settings = settings.NewSettings()
	hashKey, blockKey := security.NewKeys()

	encryptionKey, err := settings.Settings.DecodeEncryptionKey()
	if err != nil {
		log.Fatal(err)
	}
	aesEncrypter, err := security.NewAESEncrypter(encryptionKey)
	if err != nil {
		log.Fatal(err)
	}

	rdb := store.InitDatabase(true)
	defer rdb.Close()
	rwdb := store.InitDatabase(false)
	defer rwdb.Close()
	store.RunMigrations(rwdb, internal.MigrationsDir)

	scheduleStore := store.NewScheduleSQLiteStore(rdb, rwdb)
	githubClient := github.NewClient(
		settings.Settings.GitHubAPIBase,
		settings.Settings.DispatchTimeout,
	)

	sessionSvc := service.NewSessionService(hashKey, blockKey)
	scheduleSvc := service.NewScheduleService(
		scheduleStore,
		aesEncrypter,
		service.NewUUIDGen(),
	)
	dispatcher := service.NewDispatcher(
		scheduleStore,
		aesEncrypter,
		githubClient,
		settings.Settings.DispatchWorkers,
		settings.Settings.DispatchTimeout,
	)

	// The external cron hitting /api/cron/execute is the intended trigger;
	// the in-process scheduler covers deployments without one.
	scheduler := service.NewScheduler()
	defer scheduler.Shutdown()
	service.ScheduleDispatchTicks(scheduler, dispatcher, settings.Settings.PollInterval)
	scheduler.Start()

	e := setupEcho()
	g := e.Group("", handler.SessionMiddleware(sessionSvc))
	handler.SetupScheduleRoutes(g, scheduleSvc)
	handler.SetupCatalogRoutes(g, githubClient)
	handler.SetupCronRoutes(e, dispatcher, settings.Settings.CronSecret)

	internal.GracefulShutdown(e, settings.Settings.Port)
}

func setupEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = handler.ErrorHandler
	e.Use(
		middleware.CORSWithConfig(internal.GetCORSConfig()),
		middleware.RateLimiterWithConfig(internal.GetRateLimiterConfig()),
	)
	return e
}
