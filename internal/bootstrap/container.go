package bootstrap

import (
	"context"
	"log"

	"wolfpack-be/internal/config"
	"wolfpack-be/internal/controller"
	"wolfpack-be/internal/handler"
	"wolfpack-be/internal/pkg/logger"
	"wolfpack-be/internal/pkg/mailer"
	"wolfpack-be/internal/repository/implementation"
	"wolfpack-be/internal/repository/unitofwork"
	"wolfpack-be/internal/service"
	syncpkg "wolfpack-be/internal/sync"
	"wolfpack-be/internal/websocket"
	"wolfpack-be/pkg/push"
	"wolfpack-be/pkg/storage"

	pktNats "wolfpack-be/pkg/nats"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	LocationController    controller.ILocationController
	PackController        controller.IPackController
	ChatController        controller.IChatController
	InteractionController controller.IInteractionController
	MediaController       controller.IMediaController

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub

	// Realtime core (Exposed for main.go lifecycle management)
	SyncManager *syncpkg.Manager
	Bridge      *syncpkg.Bridge
}

// spatialSink adapts the spatial view to the hub's inbound position messages.
type spatialSink struct {
	view *syncpkg.SpatialView
}

func (s spatialSink) SetOwnPosition(userId uuid.UUID, x, y float64) {
	s.view.SetOwnPosition(userId, syncpkg.Position{X: x, Y: y})
}

func (s spatialSink) Forget(userId uuid.UUID) {
	s.view.Forget(userId)
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.SMTP.SenderName,
	)

	// 2. Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
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

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/realtime.log")
	wsHub := websocket.NewHub(rdb, wsLogger)

	// FCM push (optional; degrades to nil when no credentials configured)
	var pushSender push.Sender
	if cfg.Push.CredentialsFile != "" {
		pushSender, err = push.NewFCMSender(context.Background(), cfg.Push.CredentialsFile)
		if err != nil {
			log.Printf("[WARN] Failed to initialize FCM sender: %v", err)
		}
	}

	// Supabase storage
	uploader := storage.NewSupabaseUploader(cfg.Storage.SupabaseURL, cfg.Storage.SupabaseKey, cfg.Storage.Bucket)

	// 3. Realtime Core
	feed := syncpkg.NewFeed()
	source := syncpkg.NewRepositorySource(uowFactory)
	syncManager := syncpkg.NewManager(feed, source, uowFactory, wsHub, sysLogger)

	wsHub.SetPositionSink(spatialSink{view: syncManager.Spatial()})
	go wsHub.Run()

	if err := syncManager.Start(context.Background()); err != nil {
		log.Printf("[WARN] Failed to start sync manager: %v", err)
	}

	var bridge *syncpkg.Bridge
	if natsSub != nil {
		bridge = syncpkg.NewBridge(natsSub, feed, uowFactory, sysLogger)
		if err := bridge.Start(uuid.NewString()); err != nil {
			log.Printf("[WARN] Failed to start sync bridge: %v", err)
		}
	}

	// 4. Services
	locationService := service.NewLocationService(uowFactory, cfg.Pack.DefaultRadiusMeters)
	membershipService := service.NewMembershipService(
		uowFactory,
		natsPub,
		feed,
		cfg.Pack.JoinRetryAttempts,
		cfg.Pack.DefaultRadiusMeters,
	)
	chatService := service.NewChatService(
		uowFactory,
		syncManager,
		feed,
		natsPub,
		cfg.Pack.ChatRatePerMinute,
		cfg.Pack.ChatBurst,
		cfg.Pack.JoinRetryAttempts,
	)
	interactionService := service.NewInteractionService(uowFactory, natsPub, feed, syncManager)
	mediaService := service.NewMediaService(uowFactory, uploader)

	// 5. Notification System
	notifRepo := implementation.NewNotificationRepository(db)
	notifService := service.NewNotificationService(notifRepo, uowFactory, natsSub, wsHub, pushSender, emailService, wsLogger)

	// Start Service (Worker)
	if natsSub != nil {
		go notifService.Start()
	}

	notifHandler := handler.NewNotificationHandler(notifService, natsPub, wsHub, wsLogger)

	// 6. Controllers
	return &Container{
		LocationController:    controller.NewLocationController(locationService),
		PackController:        controller.NewPackController(membershipService, chatService, syncManager),
		ChatController:        controller.NewChatController(chatService),
		InteractionController: controller.NewInteractionController(interactionService),
		MediaController:       controller.NewMediaController(mediaService),

		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,

		SyncManager: syncManager,
		Bridge:      bridge,
	}
}
