package main

import (
	"context"
	"time"

	"seatplan/internal/bookings/events"
	"seatplan/internal/bookings/handler"
	"seatplan/internal/bookings/refresh"
	"seatplan/internal/bookings/repository"
	"seatplan/internal/bookings/service"
	"seatplan/internal/bookings/validator"
	contactrepo "seatplan/internal/contacts/repository"
	locationrepo "seatplan/internal/locations/repository"
	locationservice "seatplan/internal/locations/service"
	locationvalidator "seatplan/internal/locations/validator"
	taghandler "seatplan/internal/tags/handler"
	tagrepo "seatplan/internal/tags/repository"
	tagservice "seatplan/internal/tags/service"
	tagvalidator "seatplan/internal/tags/validator"
	"seatplan/internal/timeline"
	"seatplan/pkg/app"
	"seatplan/pkg/config"
	"seatplan/pkg/contracts"
	"seatplan/pkg/kafka"
	kafka_config "seatplan/pkg/kafka/config"
	kafkamw "seatplan/pkg/kafka/middleware"
	"seatplan/pkg/sealer"

	"github.com/julienschmidt/httprouter"
)

const ServiceName = "bookings"

// handlers bundles every router surface this binary serves.
type handlers struct {
	bookings *handler.BookingHandler
	tags     *taghandler.TagHandler
	timeline *timeline.Handler
}

func (h handlers) RegisterRoutes(router *httprouter.Router) {
	h.bookings.RegisterRoutes(router)
	h.tags.RegisterRoutes(router)
	h.timeline.RegisterRoutes(router)
}

// ensureLongPollHeadroom raises the server write deadline and the request
// timeout middleware above the change poll window. The changes long-poll
// holds its response open for the full window, so both limits must outlast
// it or the poll gets cut mid-flight.
func ensureLongPollHeadroom(cfg *config.Config) {
	headroom := cfg.ChangePollTimeout + 5*time.Second
	if cfg.WriteTimeout <= cfg.ChangePollTimeout {
		cfg.Log.Info("Raising WriteTimeout above the change poll window",
			"write_timeout", cfg.WriteTimeout,
			"adjusted", headroom,
		)
		cfg.WriteTimeout = headroom
	}
	if cfg.RequestTimeout <= cfg.ChangePollTimeout {
		cfg.Log.Info("Raising RequestTimeout above the change poll window",
			"request_timeout", cfg.RequestTimeout,
			"adjusted", headroom,
		)
		cfg.RequestTimeout = headroom
	}
}

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Bookings service")

	ensureLongPollHeadroom(cfg)

	kafkaCfg := kafka_config.Load()
	if err := kafkaCfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.Log, cfg.BookingEventsTopic, cfg.BookingEventsDLQTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	defer producer.Close()
	producer.Use(kafkamw.LoggingProducerMiddleware(cfg.Log))
	producer.Use(kafkamw.MetricsProducerMiddleware())

	refresher := refresh.NewRefresher(cfg.CoalesceWindow, cfg.Log)
	defer refresher.Close()

	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		cfg.Log,
		cfg.BookingEventsTopic,
		cfg.ConsumerGroup,
		cfg.BookingEventsDLQTopic,
		refresher.Handler(),
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	consumer.Use(kafkamw.LoggingConsumerMiddleware(cfg.Log))
	consumer.Use(kafkamw.MetricsConsumerMiddleware())

	consumeCtx, stopConsuming := context.WithCancel(context.Background())
	go func() {
		if err := consumer.Start(consumeCtx); err != nil {
			cfg.Log.Error("Kafka consumer stopped", "error", err)
		}
	}()
	defer func() {
		stopConsuming()
		if err := consumer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka consumer", "error", err)
		}
	}()

	appHandler := initHandlers(cfg, events.NewPublisher(producer, cfg.Log), refresher)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, appHandler)
	serverApp.Run()
}

func initHandlers(cfg *config.Config, publisher *events.Publisher, refresher *refresh.Refresher) contracts.Handler {
	var tokenSealer *sealer.Sealer
	if cfg.ShareTokenKey != "" {
		s, err := sealer.New(cfg.ShareTokenKey)
		if err != nil {
			cfg.Log.Fatal("Invalid share token key", "error", err)
		}
		tokenSealer = s
	} else {
		cfg.Log.Warn("SHARE_TOKEN_KEY not set; share links disabled")
	}

	bookingService := service.NewBookingService(
		repository.NewMongoBookingRepository(cfg),
		contactrepo.NewMongoContactRepository(cfg),
		validator.NewBookingValidator(cfg.Log),
		publisher,
		tokenSealer,
		cfg,
	)

	locationService := locationservice.NewLocationService(
		locationrepo.NewMongoLocationRepository(cfg),
		locationvalidator.NewLocationValidator(cfg.Log),
		cfg,
	)

	tagService := tagservice.NewTagService(
		tagrepo.NewMongoTagRepository(cfg),
		tagvalidator.NewTagValidator(cfg.Log),
		cfg,
	)

	timelineService, err := timeline.NewTimelineService(bookingService, locationService, cfg)
	if err != nil {
		cfg.Log.Fatal("Invalid timeline configuration", "error", err)
	}

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return handlers{
		bookings: handler.NewBookingHandler(bookingService, refresher, cfg),
		tags:     taghandler.NewTagHandler(tagService, cfg.Log),
		timeline: timeline.NewHandler(timelineService, cfg.Log),
	}
}
