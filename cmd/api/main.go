package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/clinicore/clinic-api/internal/config"
	"github.com/clinicore/clinic-api/internal/handler"
	appointmentHandler "github.com/clinicore/clinic-api/internal/handler/appointment"
	doctorHandler "github.com/clinicore/clinic-api/internal/handler/doctor"
	patientHandler "github.com/clinicore/clinic-api/internal/handler/patient"
	slotHandler "github.com/clinicore/clinic-api/internal/handler/slot"
	specialtyHandler "github.com/clinicore/clinic-api/internal/handler/specialty"
	userHandler "github.com/clinicore/clinic-api/internal/handler/user"
	"github.com/clinicore/clinic-api/internal/notifier"
	"github.com/clinicore/clinic-api/internal/repository/postgres"
	"github.com/clinicore/clinic-api/internal/router"
	appointmentService "github.com/clinicore/clinic-api/internal/service/appointment"
	doctorService "github.com/clinicore/clinic-api/internal/service/doctor"
	patientService "github.com/clinicore/clinic-api/internal/service/patient"
	slotService "github.com/clinicore/clinic-api/internal/service/slot"
	specialtyService "github.com/clinicore/clinic-api/internal/service/specialty"
	userService "github.com/clinicore/clinic-api/internal/service/user"
	"github.com/clinicore/clinic-api/pkg/logger"
	"github.com/clinicore/clinic-api/pkg/messaging"
	redisbroker "github.com/clinicore/clinic-api/pkg/messaging/redis"
	"github.com/clinicore/clinic-api/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.Log.Level),
		TimeFormat: time.RFC3339,
		Pretty:     cfg.Log.Pretty,
	})
	zl := appLogger.Zerolog()
	log.Logger = *zl

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	specialtyRepo := postgres.NewSpecialtyRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	slotRepo := postgres.NewSlotRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	userRepo := postgres.NewUserRepository(db)

	var notif notifier.Notifier = notifier.Noop{}
	if cfg.Notifications.EmailEnabled {
		notif = notifier.NewEmailNotifier(cfg.SMTP, zl)
	}

	var broker messaging.Broker
	if cfg.Redis.Enabled {
		broker, err = redisbroker.NewRedisBroker(redisbroker.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   cfg.Redis.MaxRetries,
			RetryBackoff: cfg.Redis.RetryBackoff,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		}, zl)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer broker.Close()
	}

	m := metrics.NewMetrics("clinic", "scheduling")

	specialtySvc := specialtyService.NewService(specialtyRepo, zl)
	doctorSvc := doctorService.NewService(doctorRepo, specialtyRepo, zl)
	patientSvc := patientService.NewService(patientRepo, zl)
	slotSvc := slotService.NewService(slotRepo, doctorRepo, m, zl)
	appointmentSvc := appointmentService.NewService(
		appointmentRepo, slotRepo, doctorRepo, patientRepo, specialtyRepo,
		notif, broker, m, zl,
	)
	userSvc := userService.NewService(userRepo, zl)

	if err := handler.RegisterValidations(); err != nil {
		log.Fatal().Err(err).Msg("failed to register request validations")
	}

	routerCfg := router.DefaultConfig()
	routerCfg.RateLimitRPS = cfg.RateLimit.RPS
	routerCfg.RateLimitBurst = cfg.RateLimit.Burst
	routerCfg.Timeout = time.Duration(cfg.Server.TimeoutSeconds) * time.Second
	routerCfg.CacheEnabled = cfg.Cache.Enabled
	routerCfg.CacheTTL = cfg.Cache.TTL

	r := router.NewRouter(
		handler.NewHandler(db),
		routerCfg,
		specialtyHandler.NewHandler(specialtySvc),
		doctorHandler.NewHandler(doctorSvc),
		patientHandler.NewHandler(patientSvc),
		slotHandler.NewHandler(slotSvc),
		appointmentHandler.NewHandler(appointmentSvc),
		userHandler.NewHandler(userSvc),
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
