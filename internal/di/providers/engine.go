package providers

import (
	"github.com/redis/go-redis/v9"
	"github.com/samber/do/v2"

	"github.com/openlodging/mediasync/internal/config"
	"github.com/openlodging/mediasync/internal/dedupe"
	"github.com/openlodging/mediasync/internal/events"
	"github.com/openlodging/mediasync/internal/logger"
	"github.com/openlodging/mediasync/internal/ratelimit"
	"github.com/openlodging/mediasync/internal/reconcile"
	"github.com/openlodging/mediasync/internal/validation"
)

// ProvideHeroReconciler provides the hero reconciliation engine.
func ProvideHeroReconciler(i do.Injector) (*reconcile.HeroReconciler, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	docs := do.MustInvoke[*MediaDBHandle](i)
	cat := do.MustInvoke[*CatalogHandle](i)

	return reconcile.NewHeroReconciler(
		docs.Store,
		cat.Store,
		cfg.CatalogLocation(),
		cfg.Media.Domain,
		cfg.Catalog.SystemTag,
		log.Logger,
	), nil
}

// DedupeHandle wraps the event dedupe cache and, when Redis backs it, the
// client connection for shutdown.
type DedupeHandle struct {
	dedupe.Cache
	client *redis.Client
}

// Shutdown implements do.Shutdownable.
func (h *DedupeHandle) Shutdown() error {
	if h.client == nil {
		return nil
	}
	return h.client.Close()
}

// ProvideDedupeCache provides the event idempotency cache: Redis when
// configured, in-memory otherwise.
func ProvideDedupeCache(i do.Injector) (*DedupeHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		log.Info("Event dedupe using Redis", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TTL)
		return &DedupeHandle{
			Cache:  dedupe.NewRedisCache(client, cfg.Redis.TTL),
			client: client,
		}, nil
	}

	log.Info("Event dedupe using in-memory cache", "ttl", cfg.Redis.TTL)
	return &DedupeHandle{Cache: dedupe.NewMemoryCache(cfg.Redis.TTL)}, nil
}

// PublisherHandle wraps the media-updated publisher with shutdown capability.
type PublisherHandle struct {
	events.Publisher
	kafka *events.KafkaPublisher
}

// Shutdown implements do.Shutdownable.
func (h *PublisherHandle) Shutdown() error {
	if h.kafka == nil {
		return nil
	}
	return h.kafka.Close()
}

// ProvidePublisher provides the media-updated notification publisher: Kafka
// when configured, a no-op otherwise.
func ProvidePublisher(i do.Injector) (*PublisherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Kafka.Enabled {
		kp := events.NewKafkaPublisher(cfg.Kafka.Broker, cfg.Kafka.Topic, log.Logger)
		log.Info("Media-updated publishing enabled",
			"broker", cfg.Kafka.Broker,
			"topic", cfg.Kafka.Topic,
		)
		return &PublisherHandle{Publisher: kp, kafka: kp}, nil
	}

	return &PublisherHandle{Publisher: events.NoopPublisher{}}, nil
}

// ProvideValidator provides the request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// RateLimiterHandle wraps the keyed rate limiter with shutdown capability.
type RateLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *RateLimiterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideRateLimiter provides the per-property ingest rate limiter.
func ProvideRateLimiter(i do.Injector) (*RateLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)

	return &RateLimiterHandle{
		KeyedRateLimiter: ratelimit.New(cfg.Ingest.RateRPS, cfg.Ingest.RateBurst),
	}, nil
}
