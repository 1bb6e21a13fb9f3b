package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jessevdk/go-flags"
	"github.com/rs/cors"

	"dailydose/clients"
	discordclient "dailydose/clients/discord"
	slackclient "dailydose/clients/slack"
	"dailydose/config"
	"dailydose/db"
	"dailydose/db/migrate"
	"dailydose/handlers"
	"dailydose/middleware"
	"dailydose/scheduler"
	"dailydose/services/eligibility"
	"dailydose/services/notifications"
	"dailydose/services/responses"
	"dailydose/services/teams"
	"dailydose/services/txmanager"
	"dailydose/usecases/standups"
	"dailydose/utils"
)

type Options struct {
	Migrate bool `long:"migrate" description:"Apply database migrations before starting"`
	RunOnce bool `long:"run-once" description:"Run a single scheduling pass, report the result and exit"`
	NoLock  bool `long:"no-lock"  description:"Skip the host instance lock (only for running several schemas side by side)"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		log.Printf("❌ Fatal error: %v", err)
		os.Exit(1)
	}
}

func run(opts Options) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	alertMiddleware := middleware.NewErrorAlertMiddleware(middleware.SlackAlertConfig{
		WebhookURL:  cfg.SlackConfig.AlertWebhookURL,
		Environment: cfg.Environment,
		AppName:     "dailydose",
		LogsURL:     cfg.ServerLogsURL,
	})
	defer alertMiddleware.Wait()

	dbConn, err := db.NewConnection(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	if opts.Migrate {
		if err := migrate.Up(dbConn, cfg.DatabaseURL, cfg.DatabaseSchema); err != nil {
			return err
		}
	}

	if !opts.NoLock {
		lock, err := utils.NewInstanceLock(cfg.SchedulerConfig.InstanceLockDir, cfg.DatabaseSchema)
		if err != nil {
			return err
		}
		if err := lock.TryLock(); err != nil {
			return err
		}
		defer func() {
			if err := lock.Unlock(); err != nil {
				log.Printf("⚠️ Failed to release instance lock: %v", err)
			}
		}()
		log.Printf("🔒 Acquired instance lock %s", lock.Path())
	}

	transport, err := newTransport(cfg)
	if err != nil {
		return err
	}

	organizationsRepo := db.NewPostgresOrganizationsRepository(dbConn, cfg.DatabaseSchema)
	teamsRepo := db.NewPostgresTeamsRepository(dbConn, cfg.DatabaseSchema)
	usersRepo := db.NewPostgresUsersRepository(dbConn, cfg.DatabaseSchema)
	membershipsRepo := db.NewPostgresMembershipsRepository(dbConn, cfg.DatabaseSchema)
	leavesRepo := db.NewPostgresLeavesRepository(dbConn, cfg.DatabaseSchema)
	holidaysRepo := db.NewPostgresHolidaysRepository(dbConn, cfg.DatabaseSchema)
	responsesRepo := db.NewPostgresStandupResponsesRepository(dbConn, cfg.DatabaseSchema)
	postsRepo := db.NewPostgresStandupPostsRepository(dbConn, cfg.DatabaseSchema)

	notificationsService := notifications.NewNotificationsService(transport, cfg.DispatchWorkers)
	defer notificationsService.Stop()

	teamsService := teams.NewTeamsService(teamsRepo, organizationsRepo, usersRepo, membershipsRepo)
	eligibilityService := eligibility.NewEligibilityService(membershipsRepo, leavesRepo, holidaysRepo, organizationsRepo)
	responsesService := responses.NewResponsesService(responsesRepo, membershipsRepo, notificationsService, time.Now)
	txManager := txmanager.NewTransactionManager(dbConn)

	standupsUseCase := standups.NewStandupsUseCase(
		teamsService,
		eligibilityService,
		responsesService,
		notificationsService,
		txManager,
		postsRepo,
		transport,
		time.Now,
	)

	registry := scheduler.NewRegistry()
	teamScheduler := scheduler.NewTeamScheduler(
		registry,
		teamsService,
		standupsUseCase,
		alertMiddleware,
		cfg.SchedulerConfig.FollowupDelay,
		cfg.SchedulerConfig.JobTimeout,
		time.Now,
	)

	result, err := teamScheduler.ScheduleAll(context.Background())
	if err != nil {
		return err
	}
	if opts.RunOnce {
		log.Printf(
			"✅ Scheduling pass finished: %d scheduled, %d skipped, %d removed",
			result.Scheduled,
			result.Skipped,
			result.Removed,
		)
		return nil
	}

	if err := teamScheduler.InstallDailyRefresh(); err != nil {
		return err
	}
	registry.Start()

	router := mux.NewRouter()
	handlers.NewStandupsHTTPHandler(standupsUseCase, teamScheduler).SetupEndpoints(router)

	allowedOrigins := strings.Split(cfg.CORSAllowedOrigins, ",")
	for i, origin := range allowedOrigins {
		allowedOrigins[i] = strings.TrimSpace(origin)
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           alertMiddleware.HTTPMiddleware(c.Handler(router)),
		ReadHeaderTimeout: 30 * time.Second,
	}

	return handleGracefulShutdown(server, registry)
}

func newTransport(cfg *config.AppConfig) (clients.MessagingTransport, error) {
	switch cfg.MessagingPlatform {
	case config.MessagingPlatformDiscord:
		log.Printf("📋 Using Discord transport")
		return discordclient.NewDiscordClient(&http.Client{Timeout: 20 * time.Second}, cfg.DiscordConfig.BotToken)
	default:
		log.Printf("📋 Using Slack transport")
		return slackclient.NewSlackClient(cfg.SlackConfig.BotToken), nil
	}
}

func handleGracefulShutdown(server *http.Server, registry *scheduler.Registry) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("✅ Listening on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("❌ Server error: %v", err)
		}
	}()

	<-stop
	log.Printf("🛑 Shutdown signal received, cleaning up...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	registry.Stop(ctx)

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("❌ Server shutdown error: %v", err)
		return err
	}

	log.Printf("✅ Server stopped gracefully")
	return nil
}
