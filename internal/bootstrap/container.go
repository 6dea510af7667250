package bootstrap

import (
	"context"
	"log"
	"time"

	"ai-coach-be/internal/config"
	"ai-coach-be/internal/controller"
	"ai-coach-be/internal/events"
	"ai-coach-be/internal/pkg/logger"
	"ai-coach-be/internal/repository/memory"
	"ai-coach-be/internal/repository/unitofwork"
	"ai-coach-be/internal/service"
	"ai-coach-be/internal/websocket"

	pktNats "ai-coach-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	PlanController      controller.IPlanController
	ActivityController  controller.IActivityController
	ReadinessController controller.IReadinessController
	MemoryController    controller.IMemoryController
	WebhookController   controller.IWebhookController
	WsController        controller.IWsController

	// Services reused by the CLI
	PlanService      service.IPlanService
	ActivityService  service.IActivityService
	ReadinessService service.IReadinessService
	MemoryService    service.IMemoryService

	// Background workers, started by main.go
	ConsumerService service.IConsumerService
	PlanAuditWorker service.IPlanAuditWorker
	PacketCache     *memory.PacketCache
	WebSocketHub    *websocket.Hub
	Logger          logger.ILogger

	closers []func()
}

// Close releases broker connections.
func (c *Container) Close() {
	for _, fn := range c.closers {
		fn()
	}
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	c := &Container{Logger: sysLogger}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Infrastructure. NATS and Redis are optional; without them the
	// process runs as a single instance.
	var natsPub *pktNats.Publisher
	var natsSub *pktNats.Subscriber
	if cfg.App.NatsURL != "" {
		pub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		}
		sub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		}
		// Forwarding only makes sense when this process also runs the audit consumer.
		if pub != nil && sub != nil {
			natsPub, natsSub = pub, sub
			c.closers = append(c.closers, pub.Close, sub.Close)
		} else {
			if pub != nil {
				pub.Close()
			}
			if sub != nil {
				sub.Close()
			}
		}
	}

	rdb := newRedisClient(cfg.App.RedisURL)
	if rdb != nil {
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	// 4. Realtime + caches
	wsLogger := logger.NewIsolatedLogger("logs/websocket.log")
	c.WebSocketHub = websocket.NewHub(rdb, wsLogger)
	ttl := time.Duration(cfg.Coach.PacketCacheTTLMinutes) * time.Minute
	c.PacketCache = memory.NewPacketCache(ttl, rdb, sysLogger)

	// 5. Services
	publisherService := service.NewPublisherService(events.PlanUpdatedTopic, pubSub)
	forwarder := events.NewNatsPublisher(natsPub, sysLogger)

	c.PlanAuditWorker = service.NewPlanAuditWorker(natsSub, uowFactory, sysLogger)
	c.ConsumerService = service.NewConsumerService(
		pubSub,
		events.PlanUpdatedTopic,
		c.PacketCache,
		c.WebSocketHub,
		forwarder,
		c.PlanAuditWorker,
		sysLogger,
	)

	c.PlanService = service.NewPlanService(uowFactory, publisherService, sysLogger)
	c.ActivityService = service.NewActivityService(uowFactory, cfg.Coach.DefaultFtpWatts, sysLogger)
	c.ReadinessService = service.NewReadinessService(uowFactory)
	c.MemoryService = service.NewMemoryService(uowFactory, nil, c.PacketCache, cfg.Coach.DefaultFtpWatts, sysLogger)

	// 6. Controllers
	c.PlanController = controller.NewPlanController(c.PlanService)
	c.ActivityController = controller.NewActivityController(c.ActivityService)
	c.ReadinessController = controller.NewReadinessController(c.ReadinessService)
	c.MemoryController = controller.NewMemoryController(c.MemoryService)
	c.WebhookController = controller.NewWebhookController(c.ActivityService, c.PlanService, cfg.Auth.WebhookSecret)
	c.WsController = controller.NewWsController(c.WebSocketHub)

	return c
}

// newRedisClient returns nil when Redis is unset or unreachable.
func newRedisClient(url string) *redis.Client {
	if url == "" {
		return nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v (running single-instance)", err)
		_ = rdb.Close()
		return nil
	}
	return rdb
}
