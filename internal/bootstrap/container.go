package bootstrap

import (
	"context"
	"log"

	"chatbot-be/internal/config"
	"chatbot-be/internal/controller"
	"chatbot-be/internal/pkg/logger"
	"chatbot-be/internal/repository/contract"
	"chatbot-be/internal/repository/memory"
	"chatbot-be/internal/repository/rediscache"
	"chatbot-be/internal/repository/unitofwork"
	"chatbot-be/internal/service"
	"chatbot-be/pkg/extraction"
	"chatbot-be/pkg/llm/openai"
	pktNats "chatbot-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	HealthController  controller.IHealthController
	AuthController    controller.IAuthController
	ChatController    controller.IChatController
	SessionController controller.ISessionController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	c := &Container{Logger: sysLogger}

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	var forwarder service.EventForwarder
	if cfg.Events.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.Events.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			forwarder = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	// 3. Providers
	chatProvider := openai.NewProvider(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.ChatModel, cfg.LLM.ChatTimeout)
	extractionProvider := openai.NewProvider(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.ExtractionModel, cfg.LLM.ExtractionTimeout)
	extractor := extraction.NewExtractor(extractionProvider, extraction.Config{Model: cfg.LLM.ExtractionModel})
	log.Printf("[INFO] Using LLM endpoint (azure=%t) chat=%s extraction=%s",
		chatProvider.IsAzure(), cfg.LLM.ChatModel, cfg.LLM.ExtractionModel)

	profileCache := newProfileCache(cfg, sysLogger, c)

	// 4. Services
	auditLogger := logger.NewIsolatedLogger("logs/events.log")
	publisherService := service.NewPublisherService(cfg.Events.Topic, pubSub)
	c.ConsumerService = service.NewConsumerService(pubSub, cfg.Events.Topic, forwarder, auditLogger)

	authService := service.NewAuthService(uowFactory, publisherService, sysLogger, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	sessionService := service.NewSessionService(
		uowFactory,
		extractor,
		profileCache,
		publisherService,
		sysLogger,
		cfg.Session.ActiveWindow,
	)
	chatService := service.NewChatService(
		chatProvider,
		extractor,
		profileCache,
		uowFactory,
		publisherService,
		sysLogger,
		service.ChatConfig{
			APIKey:         cfg.LLM.APIKey,
			Model:          cfg.LLM.ChatModel,
			Temperature:    cfg.LLM.ChatTemperature,
			MaxTokens:      cfg.LLM.ChatMaxTokens,
			PromptTemplate: cfg.LLM.PromptTemplate,
		},
	)

	// 5. Controllers
	c.HealthController = controller.NewHealthController("Chatbot API")
	c.AuthController = controller.NewAuthController(authService)
	c.ChatController = controller.NewChatController(chatService)
	c.SessionController = controller.NewSessionController(sessionService)

	return c
}

// newProfileCache falls back to the in-memory cache when Redis is unreachable.
func newProfileCache(cfg *config.Config, sysLogger logger.ILogger, c *Container) contract.ProfileCache {
	if cfg.Cache.Driver != "redis" {
		return memory.NewProfileCache(cfg.Cache.ProfileTTL)
	}

	opt, err := redis.ParseURL(cfg.Cache.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: cfg.Cache.RedisURL}
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Using in-memory profile cache", err)
		_ = rdb.Close()
		return memory.NewProfileCache(cfg.Cache.ProfileTTL)
	}

	c.closers = append(c.closers, func() { _ = rdb.Close() })
	return rediscache.NewProfileCache(rdb, cfg.Cache.ProfileTTL, sysLogger)
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
