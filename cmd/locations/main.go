package main

import (
	"seatplan/internal/locations/handler"
	"seatplan/internal/locations/repository"
	"seatplan/internal/locations/service"
	"seatplan/internal/locations/validator"
	"seatplan/pkg/app"
	"seatplan/pkg/config"
)

const ServiceName = "locations"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Locations service")
	locationService := initServices(cfg)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewLocationHandler(locationService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.LocationService {
	locationService := service.NewLocationService(
		repository.NewMongoLocationRepository(cfg),
		validator.NewLocationValidator(cfg.Log),
		cfg,
	)

	cfg.Log.Info("Location service initialized", "database", cfg.MongoDatabaseName)
	return locationService
}
