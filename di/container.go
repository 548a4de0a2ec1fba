package di

import (
	"context"

	"anchor-status/api"
	hoursapi "anchor-status/api/hours"
	"anchor-status/config"
	"anchor-status/dao/redis"
	"anchor-status/db"
	"anchor-status/server"
	"anchor-status/server/handlers"
	"anchor-status/server/ws"
	services "anchor-status/service"

	goredis "github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// Container holds all application dependencies.
type Container struct {
	Config           *config.Config
	RedisClient      db.RedisClient
	RedisHoursDao    *redis.RedisHoursDAO
	HoursAPI         hoursapi.HoursAPI
	StatusEngine     *services.StatusEngine
	StatusPoller     *services.StatusPoller
	StatusService    *services.StatusService
	Hub              *ws.Hub
	StatusHandler    *handlers.StatusHandler
	HoursHandler     *handlers.HoursHandler
	MuxRouter        *mux.Router
	Router           *server.Router
	StatusHttpServer *server.StatusHttpServer

	closers []func() error
}

// NewContainer initializes and wires up all dependencies.
func NewContainer(ctx context.Context, cfg *config.Config) *Container {
	log.Info().Str("env", cfg.Env).Msg("[Container] Initializing container")
	c := &Container{Config: cfg}

	c.RedisClient = c.newRedisClient(ctx)
	c.RedisHoursDao = redis.NewRedisHoursDAO(c.RedisClient, cfg.SnapshotTTL)

	if cfg.IsProd() {
		log.Info().Str("base_url", cfg.HoursAPIBaseURL).Msg("[Container] Using prod hours api")
		c.HoursAPI = hoursapi.NewHoursApiClient(api.NewHTTPClient(cfg.HoursAPIBaseURL), cfg.APIKey)
	} else {
		path := config.GetResourcePath(config.BUSINESS_HOURS_RESOURCE)
		log.Info().Str("path", path).Msg("[Container] Using mock hours api")
		c.HoursAPI = hoursapi.NewHoursApiClientMock(path)
	}

	c.StatusEngine = services.NewStatusEngine(cfg.Location)
	c.StatusPoller = services.NewStatusPoller(c.HoursAPI, c.RedisHoursDao, c.StatusEngine.NextBoundaryAt, services.PollerConfig{
		Interval:         cfg.PollInterval,
		StaleAfter:       cfg.StaleAfter,
		RateLimitBackoff: cfg.RateLimitBackoff,
	})
	c.StatusService = services.NewStatusService(c.StatusPoller, c.StatusEngine)

	c.Hub = ws.NewHub()
	c.StatusHandler = handlers.NewStatusHandler(c.StatusService, c.Hub)
	c.HoursHandler = handlers.NewHoursHandler(c.StatusService, cfg.Location)
	c.StatusPoller.Subscribe(c.StatusHandler.Publish)

	if cfg.PausePollerWhenIdle {
		// nobody is watching until the first WebSocket client connects
		_ = c.StatusPoller.SetVisible(ctx, false)
		wake := make(chan struct{}, 1)
		c.Hub.OnAudienceChange(func(int) {
			select {
			case wake <- struct{}{}:
			default:
			}
		})
		go c.followAudience(ctx, wake)
	}

	c.MuxRouter = mux.NewRouter()
	c.Router = server.NewRouter(c.StatusHandler, c.HoursHandler, c.MuxRouter)
	c.StatusHttpServer = server.NewStatusHttpServer(c.Router, c.MuxRouter, cfg.ServerAddress)

	return c
}

// followAudience keeps poller visibility in line with the WebSocket audience.
// It runs apart from the hub so a connect never waits on an upstream fetch, and
// it reads the latest count on every wake so coalesced changes are not lost.
func (c *Container) followAudience(ctx context.Context, wake <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-wake:
			if err := c.StatusPoller.SetVisible(ctx, c.Hub.Count() > 0); err != nil {
				log.Warn().Err(err).Msg("[Container] Refetch on visibility change failed")
			}
		}
	}
}

// newRedisClient connects to Redis in prod. The mirror is only a cache, so an
// unreachable Redis degrades to the in-memory client.
func (c *Container) newRedisClient(ctx context.Context) db.RedisClient {
	if !c.Config.IsProd() {
		return db.NewMockRedisClient(ctx)
	}

	internal := goredis.NewClient(&goredis.Options{
		Addr:     c.Config.RedisAddress,
		Password: c.Config.RedisPassword,
		DB:       c.Config.RedisDB,
	})
	client, err := db.NewGoRedisClient(ctx, internal)
	if err != nil {
		log.Warn().Err(err).Msg("[Container] Redis unavailable, snapshots kept in memory only")
		_ = internal.Close()
		return db.NewMockRedisClient(ctx)
	}
	c.closers = append(c.closers, client.Close)
	return client
}

// Close releases external connections.
func (c *Container) Close() {
	for _, closeFn := range c.closers {
		if err := closeFn(); err != nil {
			log.Warn().Err(err).Msg("[Container] Close failed")
		}
	}
}
