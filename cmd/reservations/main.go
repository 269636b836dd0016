package main

import (
	appointmenthandler "tably/internal/appointments/handler"
	appointmentrepo "tably/internal/appointments/repository"
	appointmentservice "tably/internal/appointments/service"
	"tably/internal/appointments/validator"
	availabilityhandler "tably/internal/availability/handler"
	availabilityservice "tably/internal/availability/service"
	catalogrepo "tably/internal/catalog/repository"
	"tably/internal/notifications"
	"tably/pkg/app"
	"tably/pkg/config"
)

const ServiceName = "reservations"

func main() {
	cfg := config.Load(ServiceName)

	cfg.Log.Info("Starting Reservations service")
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	notifier := initNotifier(cfg, catalogrepo.NewMongoVenueRepository(cfg))
	defer func() {
		if err := notifier.Close(); err != nil {
			cfg.Log.Error("Failed to close reservation event producer", "error", err)
		}
	}()

	availabilitySvc, appointmentSvc := initServices(cfg, notifier)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg,
		availabilityhandler.NewAvailabilityHandler(availabilitySvc, cfg.Log),
		appointmenthandler.NewAppointmentHandler(appointmentSvc, cfg.Log),
	)
	serverApp.Run()
}

func initServices(cfg *config.Config, notifier notifications.Notifier) (availabilityservice.AvailabilityService, appointmentservice.AppointmentService) {
	slotRepo := catalogrepo.NewMongoTimeSlotRepository(cfg)
	tableRepo := catalogrepo.NewMongoTableRepository(cfg)
	blockedRepo := catalogrepo.NewMongoBlockedDateRepository(cfg)

	appointmentRepo := appointmentrepo.NewMongoAppointmentRepository(cfg)
	lockRepo := appointmentrepo.NewAppointmentLockRepository(cfg)

	availabilitySvc := availabilityservice.NewAvailabilityService(
		slotRepo,
		tableRepo,
		blockedRepo,
		appointmentRepo,
		cfg,
	)

	appointmentValidator := validator.NewAppointmentValidator(cfg.Log)
	appointmentSvc := appointmentservice.NewAppointmentService(
		appointmentRepo,
		lockRepo,
		availabilitySvc,
		appointmentValidator,
		notifier,
		cfg,
	)

	cfg.Log.Info("Reservation services initialized", "database", cfg.MongoDatabaseName)
	return availabilitySvc, appointmentSvc
}

func initNotifier(cfg *config.Config, venues catalogrepo.VenueRepository) notifications.Notifier {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Warn("No Kafka brokers configured, reservation events disabled")
		return notifications.NewNop()
	}

	notifier, err := notifications.NewKafkaNotifier(cfg, venues)
	if err != nil {
		cfg.Log.Error("Failed to initialize Kafka notifier, reservation events disabled", "error", err)
		return notifications.NewNop()
	}

	cfg.Log.Info("Kafka notifier initialized",
		"brokers", cfg.KafkaBrokers,
		"topic", cfg.NotificationTopic,
	)
	return notifier
}
