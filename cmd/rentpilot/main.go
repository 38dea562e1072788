package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/config"
	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/database"
	httpapi "github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/http"
	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/logger"
	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/realtime"
	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/repository"
	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/service"
	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/storage"
	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/store"
)

// expireSweepInterval is how often active leases past their end date are
// moved to expired.
const expireSweepInterval = time.Hour

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "rentpilot")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	var (
		kv          store.KV
		bus         realtime.Bus
		redisClient *redis.Client
	)
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		kv = store.NewRedisKV(redisClient)
		bus = realtime.NewRedisBus(redisClient, log)
		defer redisClient.Close()
	} else {
		log.Warn("redis disabled, using in-process denylist and event bus")
		kv = store.NewMemoryKV()
		bus = realtime.NewMemoryBus()
	}

	profiles := repository.NewPostgresProfilesRepository(db)
	properties := repository.NewPostgresPropertiesRepository(db)
	leases := repository.NewPostgresLeasesRepository(db)
	applications := repository.NewPostgresApplicationsRepository(db)
	messages := repository.NewPostgresMessagesRepository(db)
	notifications := repository.NewPostgresNotificationsRepository(db)
	documents := repository.NewPostgresDocumentsRepository(db)

	urlTTL := time.Duration(cfg.Storage.URLTTLSec) * time.Second
	objects := storage.NewURLCache(
		storage.NewHTTPObjectStore(cfg.Storage.BaseURL, cfg.Storage.Bucket, cfg.Storage.AccessKey, urlTTL, log),
		urlTTL,
	)

	tokenTTL := time.Duration(cfg.Auth.TokenTTLHrs) * time.Hour
	authSvc := service.NewAuthService(profiles, kv, cfg.Auth.JWTSecret, tokenTTL, log)
	propertySvc := service.NewPropertyService(properties, log)
	leaseSvc := service.NewLeaseService(leases, properties, log)
	applicationSvc := service.NewApplicationService(applications, properties, log)
	messageSvc := service.NewMessageService(messages, leases, profiles, bus, log)
	notificationSvc := service.NewNotificationService(notifications, bus, log)
	documentSvc := service.NewDocumentService(documents, objects, cfg.Upload.MaxBytes, log)
	rentRoll := service.NewRentRollExporter(leases, properties, log)

	middleware := httpapi.NewMiddleware(authSvc, log)
	router := httpapi.NewRouter(log)
	router.RegisterAuthRoutes(httpapi.NewAuthHandler(authSvc, log), middleware)
	router.RegisterPropertyRoutes(httpapi.NewPropertiesHandler(propertySvc, log), middleware)
	router.RegisterLeaseRoutes(
		httpapi.NewLeasesHandler(leaseSvc, rentRoll, log),
		httpapi.NewMessagesHandler(messageSvc, log),
		middleware,
	)
	router.RegisterApplicationRoutes(httpapi.NewApplicationsHandler(applicationSvc, log), middleware)
	router.RegisterNotificationRoutes(httpapi.NewNotificationsHandler(notificationSvc, log), middleware)
	router.RegisterDocumentRoutes(httpapi.NewDocumentsHandler(documentSvc, cfg.Upload.MaxBytes, log), middleware)

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go expireSweep(ctx, leaseSvc, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		cancel()
	case err := <-errCh:
		if err != nil {
			log.Error("server stopped", zap.Error(err))
		}
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
}

// expireSweep periodically flips active leases past their end date to
// expired. Runs once at startup, then on the interval.
func expireSweep(ctx context.Context, leaseSvc service.LeaseService, log *zap.Logger) {
	ticker := time.NewTicker(expireSweepInterval)
	defer ticker.Stop()

	sweep := func() {
		sweepCtx, sweepCancel := context.WithTimeout(ctx, time.Minute)
		defer sweepCancel()
		if _, err := leaseSvc.ExpireDue(sweepCtx); err != nil {
			log.Warn("lease expiry sweep failed", zap.Error(err))
		}
	}

	sweep()
	for {
		select {
		case <-ticker.C:
			sweep()
		case <-ctx.Done():
			return
		}
	}
}
