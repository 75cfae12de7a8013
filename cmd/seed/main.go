package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/clinicore/clinic-api/internal/config"
	"github.com/clinicore/clinic-api/internal/notifier"
	"github.com/clinicore/clinic-api/internal/repository/postgres"
	"github.com/clinicore/clinic-api/internal/seed"
	appointmentService "github.com/clinicore/clinic-api/internal/service/appointment"
	doctorService "github.com/clinicore/clinic-api/internal/service/doctor"
	patientService "github.com/clinicore/clinic-api/internal/service/patient"
	slotService "github.com/clinicore/clinic-api/internal/service/slot"
	specialtyService "github.com/clinicore/clinic-api/internal/service/specialty"
	userService "github.com/clinicore/clinic-api/internal/service/user"
	"github.com/clinicore/clinic-api/pkg/logger"
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

	m := metrics.NewMetrics("clinic", "seed")

	specialtySvc := specialtyService.NewService(specialtyRepo, zl)
	doctorSvc := doctorService.NewService(doctorRepo, specialtyRepo, zl)
	patientSvc := patientService.NewService(patientRepo, zl)
	slotSvc := slotService.NewService(slotRepo, doctorRepo, m, zl)
	appointmentSvc := appointmentService.NewService(
		appointmentRepo, slotRepo, doctorRepo, patientRepo, specialtyRepo,
		notifier.Noop{}, nil, m, zl,
	)
	userSvc := userService.NewService(userRepo, zl)

	seeder := seed.NewSeeder(specialtySvc, doctorSvc, patientSvc, slotSvc, appointmentSvc, userSvc, zl)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := seeder.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}
}
