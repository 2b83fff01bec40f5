package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"courtwatch/internal/api"
	"courtwatch/internal/auth"
	"courtwatch/internal/availability"
	"courtwatch/internal/config"
	"courtwatch/internal/logger"
	"courtwatch/internal/repository"
	"courtwatch/internal/service"
	"courtwatch/internal/source"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.IsProduction())
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("failed to open DB", zap.Error(err))
	}
	if err := db.Ping(); err != nil {
		zlog.Fatal("failed to connect to DB", zap.Error(err))
	}

	loc, err := time.LoadLocation(cfg.FacilityTimezone)
	if err != nil {
		zlog.Fatal("invalid facility timezone", zap.String("tz", cfg.FacilityTimezone), zap.Error(err))
	}
	schedule, err := availability.NewSchedule(loc, cfg.WeekdayOpen, cfg.WeekdayClose, cfg.WeekendOpen, cfg.WeekendClose)
	if err != nil {
		zlog.Fatal("invalid facility schedule", zap.Error(err))
	}

	snapshotRepo := repository.NewSnapshotRepository(db)
	subscriberRepo := repository.NewSubscriberRepository(db)
	adminAuthRepo := repository.NewAdminAuthRepository(db)

	reservationSource := source.NewCourtReserveClient(source.CourtReserveConfig{
		BaseURL:     cfg.CourtReserveURL,
		OrgID:       cfg.OrgID,
		CostTypeID:  cfg.CostTypeID,
		SchedulerID: cfg.SchedulerID,
		Timezone:    cfg.FacilityTimezone,
		MinInterval: cfg.MinInterval,
	}, loc, zlog)

	availabilitySvc := service.NewAvailabilityService(
		reservationSource,
		schedule,
		snapshotRepo,
		cfg.CourtCount,
		cfg.MinSlotMinutes,
		time.Duration(cfg.CacheTTLMinutes)*time.Minute,
		zlog,
	)

	var notifiers []service.Notifier
	emailNotifier, err := service.NewEmailNotifier(service.EmailNotifierConfig{
		APIKey:       cfg.SendGridAPIKey,
		FromEmail:    cfg.SendGridFromEmail,
		FromName:     cfg.SendGridFromName,
		TemplatePath: cfg.EmailTemplatePath,
	}, zlog)
	if err != nil {
		zlog.Warn("email notifier disabled", zap.Error(err))
	} else {
		notifiers = append(notifiers, emailNotifier)
	}
	if cfg.AlertPhone != "" {
		smsNotifier, err := service.NewSMSNotifier(service.SMSNotifierConfig{
			AccountSID: cfg.TwilioAccountSID,
			AuthToken:  cfg.TwilioAuthToken,
			FromNumber: cfg.TwilioFromNumber,
			ToNumber:   cfg.AlertPhone,
		}, zlog)
		if err != nil {
			zlog.Warn("SMS notifier disabled", zap.Error(err))
		} else {
			notifiers = append(notifiers, smsNotifier)
		}
	}

	notifySvc := service.NewNotifyService(availabilitySvc, snapshotRepo, subscriberRepo, notifiers, schedule, cfg.DaysAhead, zlog)
	subscriberSvc := service.NewSubscriberService(subscriberRepo)
	adminAuthSvc := service.NewAdminAuthService(adminAuthRepo, cfg.JWTSecret)
	jobSvc := service.NewJobService(snapshotRepo, zlog)

	courtHandler := api.NewCourtHandler(availabilitySvc, notifySvc, zlog)
	adminHandler := api.NewAdminHandler(subscriberSvc, zlog)
	adminAuthHandler := api.NewAdminAuthHandler(adminAuthSvc)

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/courts", courtHandler.GetCourts).Methods("GET")
	r.HandleFunc("/api/check-courts-and-send-email", courtHandler.CheckCourtsAndSendEmail).Methods("POST")
	r.HandleFunc("/api/last-email-entries", courtHandler.LastEmailEntries).Methods("GET")
	r.HandleFunc("/admin/login", adminAuthHandler.Login).Methods("POST")

	// Admin endpoints (protected)
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.JWTAuthMiddleware(cfg.JWTSecret))
	admin.HandleFunc("/register", adminAuthHandler.Register).Methods("POST")
	admin.HandleFunc("/subscribers", adminHandler.ListSubscribers).Methods("GET")
	admin.HandleFunc("/subscribers", adminHandler.AddSubscriber).Methods("POST")
	admin.HandleFunc("/subscribers/{email}", adminHandler.RemoveSubscriber).Methods("DELETE")

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.CheckCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if _, err := notifySvc.CheckAndNotify(ctx); err != nil {
			zlog.Error("scheduled check cycle failed", zap.Error(err))
		}
	}); err != nil {
		zlog.Fatal("invalid check cron spec", zap.String("spec", cfg.CheckCron), zap.Error(err))
	}
	if _, err := scheduler.AddFunc("0 4 * * *", func() {
		if err := jobSvc.PurgeOldSnapshots(30 * 24 * time.Hour); err != nil {
			zlog.Error("scheduled purge failed", zap.Error(err))
		}
	}); err != nil {
		zlog.Fatal("invalid purge cron spec", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
	)

	zlog.Info("server running", zap.String("port", cfg.Port))
	if err := http.ListenAndServe(":"+cfg.Port, handlers.LoggingHandler(os.Stdout, cors(r))); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
