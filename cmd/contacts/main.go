package main

import (
	"seatplan/internal/contacts/handler"
	"seatplan/internal/contacts/repository"
	"seatplan/internal/contacts/service"
	"seatplan/internal/contacts/validator"
	"seatplan/pkg/app"
	"seatplan/pkg/config"
)

const ServiceName = "contacts"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Contacts service")
	contactService := initServices(cfg)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewContactHandler(contactService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.ContactService {
	contactService := service.NewContactService(
		repository.NewMongoContactRepository(cfg),
		validator.NewContactValidator(cfg.Log),
		cfg,
	)

	cfg.Log.Info("Contact service initialized", "database", cfg.MongoDatabaseName)
	return contactService
}
