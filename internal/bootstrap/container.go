package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"

	"github.com/487058267/agent-cross-discipline/internal/config"
	"github.com/487058267/agent-cross-discipline/internal/controller"
	"github.com/487058267/agent-cross-discipline/internal/pkg/logger"
	"github.com/487058267/agent-cross-discipline/internal/repository/memory"
	"github.com/487058267/agent-cross-discipline/internal/repository/redisstore"
	"github.com/487058267/agent-cross-discipline/internal/service"
	"github.com/487058267/agent-cross-discipline/pkg/artifact"
	"github.com/487058267/agent-cross-discipline/pkg/lesson/orchestrator"
	"github.com/487058267/agent-cross-discipline/pkg/llm"
	"github.com/487058267/agent-cross-discipline/pkg/llm/factory"
	"github.com/487058267/agent-cross-discipline/pkg/media"
	"github.com/487058267/agent-cross-discipline/pkg/session"
	"github.com/487058267/agent-cross-discipline/pkg/store"

	pktNats "github.com/487058267/agent-cross-discipline/pkg/nats"
)

const moduleName = "BOOTSTRAP"

type Container struct {
	// Controllers
	LessonController controller.ILessonController
	MediaController  controller.IMediaController
	HealthController controller.IHealthController

	// Background Services (Exposed for main.go to run). Either may be nil.
	ConsumerService   service.IConsumerService
	EventAuditService service.IEventAuditService

	Logger logger.ILogger

	closers []func()
}

// Overrides replaces outbound collaborators. Zero fields fall back to the
// configured implementations.
type Overrides struct {
	LLM    llm.LLMProvider
	Images media.ImageSearcher
	Videos media.VideoSearcher
	Logger logger.ILogger
}

func NewContainer(cfg *config.Config) (*Container, error) {
	return NewContainerWith(cfg, Overrides{})
}

func NewContainerWith(cfg *config.Config, o Overrides) (*Container, error) {
	c := &Container{}

	// 1. Logging
	sysLogger := o.Logger
	if sysLogger == nil {
		sysLogger = logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	}
	c.Logger = sysLogger

	// 2. Model backend
	provider := o.LLM
	if provider == nil {
		p, err := factory.NewLLMProvider(cfg.Ai.LLMProvider, cfg.Ai.LLMModel, cfg.Ai.LLMBaseURL, cfg.Ai.LLMApiKey, cfg.Ai.GenerateTimeout)
		if err != nil {
			return nil, fmt.Errorf("failed to init LLM provider: %w", err)
		}
		provider = p
	}
	sysLogger.Info(moduleName, "llm provider ready", map[string]interface{}{
		"provider": cfg.Ai.LLMProvider,
		"model":    cfg.Ai.LLMModel,
	})
	generator := orchestrator.New(provider, orchestrator.Config{
		GenerateTimeout: cfg.Ai.GenerateTimeout,
		KeywordTimeout:  cfg.Ai.KeywordTimeout,
	}, sysLogger)

	// 3. Sessions
	sessionStore, err := c.newSessionStore(cfg, sysLogger)
	if err != nil {
		return nil, err
	}
	sessions := session.NewManager(sessionStore)

	// 4. Artifact bus
	var artifactPublisher service.IPublisherService
	if cfg.App.ArtifactDir != "" {
		pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
		c.closers = append(c.closers, func() { _ = pubSub.Close() })

		artifactPublisher = service.NewPublisherService(cfg.App.ArtifactTopic, pubSub)
		c.ConsumerService = service.NewConsumerService(
			pubSub,
			cfg.App.ArtifactTopic,
			artifact.NewWriter(cfg.App.ArtifactDir),
			sysLogger,
		)
	}

	// 5. Event bus. Only assign the interface when the publisher exists.
	var eventPublisher service.EventPublisher
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn(moduleName, "event publishing disabled", map[string]interface{}{"error": err.Error()})
		} else {
			eventPublisher = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}

		natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn(moduleName, "event audit disabled", map[string]interface{}{"error": err.Error()})
		} else {
			auditLogger := logger.NewIsolatedLogger(filepath.Join(filepath.Dir(cfg.App.LogFilePath), "events.log"))
			c.EventAuditService = service.NewEventAuditService(natsSub, auditLogger)
			c.closers = append(c.closers, natsSub.Close)
		}
	}

	// 6. Media providers
	var images media.ImageSearcher = media.NewPexelsClient(cfg.Media.PexelsApiKey, "", cfg.Media.Timeout)
	if o.Images != nil {
		images = o.Images
	}
	var videos media.VideoSearcher = media.NewYouTubeClient(cfg.Media.YouTubeApiKey, cfg.Media.Timeout, media.WithYouTubeLogger(sysLogger))
	if o.Videos != nil {
		videos = o.Videos
	}

	// 7. Services
	lessonService := service.NewLessonService(generator, sessions, artifactPublisher, eventPublisher, sysLogger)
	mediaService := service.NewMediaService(images, videos, generator, sessions, artifactPublisher, eventPublisher, service.MediaOptions{
		Timeout:      cfg.Media.Timeout,
		DefaultCount: cfg.Media.DefaultCount,
		CacheTTL:     cfg.Media.ResultCacheTTL,
	}, sysLogger)

	// 8. Controllers
	c.LessonController = controller.NewLessonController(lessonService)
	c.MediaController = controller.NewMediaController(mediaService)
	c.HealthController = controller.NewHealthController()

	return c, nil
}

func (c *Container) newSessionStore(cfg *config.Config, log logger.ILogger) (store.SessionStore, error) {
	switch cfg.App.SessionBackend {
	case "", "memory":
		return memory.NewSessionRepository(), nil
	case "redis":
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Warn(moduleName, "invalid REDIS_URL, using it as an address", map[string]interface{}{"error": err.Error()})
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb := redis.NewClient(opt)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		c.closers = append(c.closers, func() { _ = rdb.Close() })
		log.Info(moduleName, "session backend: redis", nil)
		return redisstore.NewSessionRepository(rdb), nil
	default:
		return nil, fmt.Errorf("unsupported session backend: %s", cfg.App.SessionBackend)
	}
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
