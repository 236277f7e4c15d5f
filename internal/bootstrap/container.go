package bootstrap

import (
	"context"
	"time"

	"techno-ai-be/internal/config"
	"techno-ai-be/internal/controller"
	"techno-ai-be/internal/pkg/logger"
	"techno-ai-be/internal/pkg/mailer"
	"techno-ai-be/internal/pkg/serverutils"
	"techno-ai-be/internal/repository/memory"
	"techno-ai-be/internal/repository/unitofwork"
	"techno-ai-be/internal/service"
	"techno-ai-be/internal/websocket"
	"techno-ai-be/pkg/events"
	"techno-ai-be/pkg/formatter"
	"techno-ai-be/pkg/llm/factory"
	pktNats "techno-ai-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const containerLogModule = "Container"

type Container struct {
	// Controllers
	HealthController    controller.IHealthController
	AuthController      controller.IAuthController
	OAuthController     controller.IOAuthController
	UserController      controller.IUserController
	MessageController   controller.IMessageController
	AiController        controller.IAiController
	ChatController      controller.IChatController
	WebsocketController controller.IWebsocketController

	// Background workers, started by Start
	PersistQueue     *service.PersistQueue
	ActivityConsumer *service.ActivityConsumer
	WebSocketHub     *websocket.Hub

	Logger logger.ILogger

	pubSub  *gochannel.GoChannel
	natsPub *pktNats.Publisher
	natsSub *pktNats.Subscriber
	rdb     *redis.Client
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	serverutils.ConfigureJwt(cfg.Auth.JwtSecret, cfg.Auth.TokenTTL)
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sessions := memory.NewSessionRepository(cfg.App.SessionTTL)
	renderer := formatter.NewCache(cfg.Ai.FormatCacheTTL, 10*time.Minute)

	// 2. Completion provider. A missing key leaves the service unconfigured
	// instead of stopping the server.
	apiKey := completionKey(cfg)
	llmProvider, err := factory.NewLLMProvider(cfg.Ai.LLMProvider, cfg.Ai.LLMModel, cfg.Ai.LLMBaseURL, apiKey)
	if err != nil {
		sysLogger.Warn(containerLogModule, "Completion provider not configured", map[string]interface{}{"error": err.Error()})
	} else {
		sysLogger.Info(containerLogModule, "Using LLM provider", map[string]interface{}{
			"provider": cfg.Ai.LLMProvider,
			"model":    cfg.Ai.LLMModel,
		})
	}
	completionService := service.NewCompletionService(llmProvider, cfg.Ai, apiKey, sysLogger)

	// 3. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		sysLogger.Warn(containerLogModule, "Failed to connect to NATS publisher", map[string]interface{}{"error": err.Error()})
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		sysLogger.Warn(containerLogModule, "Failed to connect to NATS subscriber", map[string]interface{}{"error": err.Error()})
	}

	var eventPublisher events.Publisher
	if natsPub != nil {
		eventPublisher = natsPub
	}

	rdb := connectRedis(cfg.App.RedisURL, sysLogger)

	wsLogger := logger.NewIsolatedLogger(cfg.App.WsLogFilePath)
	wsHub := websocket.NewHub(rdb, wsLogger)

	// 4. Event bus for asynchronous message persistence
	pubSub := service.NewPersistPubSub(watermill.NewStdLogger(false, false))
	persistQueue := service.NewPersistQueue(pubSub, cfg.App.PersistTopic, service.NewMessageStore(uowFactory), wsHub, sysLogger)

	var emailService mailer.IEmailService = mailer.NopEmailService{}
	if cfg.SMTP.Host != "" {
		emailService = mailer.NewEmailService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.Email,
			cfg.SMTP.SenderName,
			cfg.App.ClientURL,
		)
	}

	var activityConsumer *service.ActivityConsumer
	if natsSub != nil {
		activityLogger := logger.NewIsolatedLogger(cfg.App.ActivityLogPath)
		activityConsumer = service.NewActivityConsumer(natsSub, activityLogger, emailService, sysLogger)
	}

	// 5. Services
	authService := service.NewAuthService(uowFactory, eventPublisher, sysLogger)
	oauthService := service.NewOAuthService(cfg.Auth, uowFactory, authService, sysLogger)
	userService := service.NewUserService(uowFactory, sessions)
	messageService := service.NewMessageService(uowFactory, eventPublisher, sysLogger)
	chatService := service.NewChatService(uowFactory, sessions, completionService, persistQueue, renderer, wsHub, sysLogger, cfg.Ai)

	// 6. Controllers
	return &Container{
		HealthController:    controller.NewHealthController(),
		AuthController:      controller.NewAuthController(authService),
		OAuthController:     controller.NewOAuthController(oauthService, cfg.App.ClientURL, sysLogger),
		UserController:      controller.NewUserController(userService),
		MessageController:   controller.NewMessageController(messageService),
		AiController:        controller.NewAiController(completionService),
		ChatController:      controller.NewChatController(chatService),
		WebsocketController: controller.NewWebsocketController(wsHub, wsLogger),

		PersistQueue:     persistQueue,
		ActivityConsumer: activityConsumer,
		WebSocketHub:     wsHub,
		Logger:           sysLogger,

		pubSub:  pubSub,
		natsPub: natsPub,
		natsSub: natsSub,
		rdb:     rdb,
	}
}

// Start launches the background workers. They stop when ctx is cancelled.
func (c *Container) Start(ctx context.Context) error {
	go c.WebSocketHub.Run(ctx)

	if err := c.PersistQueue.Consume(ctx); err != nil {
		return err
	}

	if c.ActivityConsumer != nil {
		if err := c.ActivityConsumer.Start(); err != nil {
			c.Logger.Warn(containerLogModule, "Activity consumer not started", map[string]interface{}{"error": err.Error()})
		}
	}
	return nil
}

func (c *Container) Close() {
	if c.natsSub != nil {
		c.natsSub.Close()
	}
	if c.natsPub != nil {
		c.natsPub.Close()
	}
	if err := c.pubSub.Close(); err != nil {
		c.Logger.Warn(containerLogModule, "Failed to close event bus", map[string]interface{}{"error": err.Error()})
	}
	if c.rdb != nil {
		_ = c.rdb.Close()
	}
	_ = c.Logger.Sync()
}

func completionKey(cfg *config.Config) string {
	switch cfg.Ai.LLMProvider {
	case "huggingface":
		return cfg.Keys.HuggingFace
	case "ollama":
		return ""
	default:
		return cfg.Keys.GoogleGemini
	}
}

// connectRedis returns nil when redis is unreachable; the hub then only
// serves local connections.
func connectRedis(url string, log logger.ILogger) *redis.Client {
	if url == "" {
		return nil
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Warn(containerLogModule, "Failed to parse Redis URL, using direct Addr", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{Addr: url}
	}

	rdb := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn(containerLogModule, "Failed to connect to Redis", map[string]interface{}{"error": err.Error()})
		_ = rdb.Close()
		return nil
	}
	return rdb
}
