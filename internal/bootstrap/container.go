package bootstrap

import (
	"context"
	"log"

	"career-compass-be/internal/config"
	"career-compass-be/internal/controller"
	"career-compass-be/internal/handler"
	"career-compass-be/internal/pkg/logger"
	"career-compass-be/internal/repository/memory"
	"career-compass-be/internal/repository/unitofwork"
	"career-compass-be/internal/service"
	"career-compass-be/internal/websocket"
	"career-compass-be/pkg/assistant/factory"
	"career-compass-be/pkg/quota"
	"career-compass-be/pkg/storage"

	pktNats "career-compass-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController   controller.IChatController
	UploadController controller.IUploadController

	// Handlers
	UsageHandler *handler.UsageHandler

	// Background services (exposed for main.go to run)
	TitleConsumerService service.ITitleConsumerService
	CooldownWatcher      *service.CooldownWatcher

	// WebSockets
	WebSocketHub *websocket.Hub

	// Event bus connections (exposed for main.go to close)
	EventSubscriber *pktNats.Subscriber
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event bus (in-process jobs)
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Assistant provider
	provider, err := factory.NewProvider(cfg.Ai.Provider, cfg.Ai.Model, cfg.Ai.OllamaBaseURL)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize assistant provider: %v", err)
	}
	log.Printf("[INFO] Using assistant provider: %s (%s)", cfg.Ai.Provider, cfg.Ai.Model)

	// 4. Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS publisher: %v", err)
	}
	var natsSub *pktNats.Subscriber
	if natsPub != nil {
		natsSub, err = pktNats.NewSubscriber(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS subscriber: %v", err)
		}
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket hub with its own log file
	wsLogger := logger.NewIsolatedLogger("logs/usage_feed.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// Durable consumer on the events stream: every published domain event
	// lands in the usage feed log as an audit trail.
	if natsSub != nil {
		if err := natsSub.Subscribe("events.>", "usage-feed-audit", service.NewEventAuditor(wsLogger)); err != nil {
			log.Printf("[WARN] Failed to subscribe to events stream: %v", err)
		}
	}

	// 5. Domain services
	tracker := quota.NewTracker(quota.Policy{
		SessionMessageLimit: cfg.Quota.SessionMessageLimit,
		DailyTokenBudget:    cfg.Quota.DailyTokenBudget,
		Cooldown:            cfg.Quota.Cooldown,
		DailyPdfUploads:     cfg.Quota.DailyPdfUploads,
		DailyImageUploads:   cfg.Quota.DailyImageUploads,
	})
	transcripts := memory.NewTranscriptRepository()
	diskStorage := storage.NewDiskStorage(cfg.Uploads.BaseDir, cfg.App.BaseURL)

	publisherService := service.NewPublisherService(pubSub, cfg.App.TitleTopicName)
	titleConsumer := service.NewTitleConsumerService(
		pubSub,
		cfg.App.TitleTopicName,
		uowFactory,
		provider,
		sysLogger,
	)

	var eventBus service.IEventBus
	if natsPub != nil {
		eventBus = natsPub
	}

	chatService := service.NewChatService(
		uowFactory,
		transcripts,
		tracker,
		provider,
		eventBus,
		wsHub,
		publisherService,
		sysLogger,
	)
	uploadService := service.NewUploadService(uowFactory, tracker, diskStorage, eventBus, sysLogger)
	usageService := service.NewUsageService(uowFactory, tracker)

	cooldownWatcher := service.NewCooldownWatcher(uowFactory, tracker, wsHub, sysLogger, cfg.Quota.SweepInterval)

	// 6. Controllers and handlers
	return &Container{
		ChatController:       controller.NewChatController(chatService),
		UploadController:     controller.NewUploadController(uploadService),
		UsageHandler:         handler.NewUsageHandler(usageService, wsHub, sysLogger),
		TitleConsumerService: titleConsumer,
		CooldownWatcher:      cooldownWatcher,
		WebSocketHub:         wsHub,
		EventSubscriber:      natsSub,
	}
}
