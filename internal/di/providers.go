package di

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	domrepo "FinSeason/internal/domain/repository"
	"FinSeason/internal/handler/api"
	internalrepo "FinSeason/internal/repository"
	icache "FinSeason/internal/service/cache"
	"FinSeason/internal/service/ratelimit"
	"FinSeason/internal/services/calendar"
	"FinSeason/internal/services/eod"
	"FinSeason/internal/usecase"
	"FinSeason/pkg/cache"
	pkgch "FinSeason/pkg/clickhouse"
	"FinSeason/pkg/config"
	xhttp "FinSeason/pkg/http"
	pkgkafka "FinSeason/pkg/kafka"
	applogger "FinSeason/pkg/logger"
	"FinSeason/pkg/metrics"
	"FinSeason/pkg/queue"
	"FinSeason/pkg/server"
)

// Backend bundles the configured price and dividend source.
type Backend struct {
	Prices    domrepo.PriceHistoryProvider
	Dividends domrepo.DividendProvider
	closer    io.Closer
}

func (b *Backend) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer.Close()
}

// ProvideLogger builds the application logger from the log section.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() *metrics.Recorder {
	return metrics.New()
}

// ProvideCache returns the in-process cache, or Redis fronted by a small
// in-process layer when redis is enabled.
func ProvideCache(cfg *config.Config, l *applogger.Logger) (cache.Service, error) {
	if !cfg.Redis.Enabled {
		return cache.NewMemoryCache(), nil
	}
	rc, err := cache.NewRedisCache(
		cache.WithRedisAddr(cfg.Redis.Addr),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
		cache.WithRedisPool(cfg.Redis.PoolSize, 2, 5*time.Second),
		cache.WithRedisPrefix("finseason"),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	l.Info("redis cache connected", applogger.String("addr", cfg.Redis.Addr))
	return cache.NewLayeredCache(rc,
		cache.WithLayeredMemorySize(1000),
		cache.WithLayeredMemoryTTL(5*time.Minute),
	), nil
}

// ProvideClickHouseClient connects and creates the schema. extra options are
// applied after the configured ones.
func ProvideClickHouseClient(cfg *config.Config, extra ...pkgch.ClientOption) (*pkgch.Client, error) {
	opts := append([]pkgch.ClientOption{
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsyncInsert),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	}, extra...)
	client, err := pkgch.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, pkgch.Schema(cfg.ClickHouse.Database)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideEODClient creates the EOD HTTP provider.
func ProvideEODClient(cfg *config.Config, l *applogger.Logger) *eod.Client {
	return eod.NewClient(cfg.EOD.APIKey,
		eod.WithBaseURL(cfg.EOD.BaseURL),
		eod.WithTimeout(cfg.EOD.Timeout),
		eod.WithRateLimit(cfg.EOD.RateLimit, cfg.EOD.Burst),
		eod.WithBreaker(cfg.EOD.BreakerFails, cfg.EOD.BreakerTimeout),
		eod.WithLogger(l.With(applogger.String("component", "eod"))),
	)
}

// ProvideBackend selects the provider by backend.type and puts the dividend
// lookups behind a TTL cache.
func ProvideBackend(cfg *config.Config, l *applogger.Logger) (*Backend, error) {
	b := &Backend{}
	switch cfg.Backend.Type {
	case "clickhouse":
		ch, err := ProvideClickHouseClient(cfg)
		if err != nil {
			return nil, err
		}
		store := internalrepo.NewCHPriceStore(ch)
		store.SetLogger(l)
		b.Prices, b.Dividends, b.closer = store, store, ch
	default:
		c := ProvideEODClient(cfg, l)
		b.Prices, b.Dividends = c, c
	}
	b.Dividends = icache.NewCachedDividends(b.Dividends, icache.NewTTLCache(), cfg.Analysis.DividendTTL, l)
	l.Info("price backend ready", applogger.String("backend", cfg.Backend.Type))
	return b, nil
}

// ProvideCalendarConfig maps the calendar section.
func ProvideCalendarConfig(cfg *config.Config) calendar.Config {
	return calendar.Config{
		StartYear:           cfg.Calendar.StartYear,
		EndYear:             cfg.Calendar.EndYear,
		RateDecisionDates:   cfg.Calendar.RateDecisionDates,
		CustomEvents:        cfg.Calendar.CustomEvents,
		DetectOptionsExpiry: cfg.Calendar.DetectOptionsExpiry,
		EarningsMonths:      cfg.Calendar.EarningsMonths,
	}
}

// ProvideCalendar builds the shared calendar and runs the staleness check once.
func ProvideCalendar(calCfg calendar.Config, l *applogger.Logger) (*calendar.Calendar, error) {
	cal, err := calendar.New(calCfg, calendar.WithLogger(l))
	if err != nil {
		return nil, fmt.Errorf("calendar: %w", err)
	}
	cal.CheckStaleness()
	return cal, nil
}

// ProvidePublisher returns the Kafka snapshot publisher when kafka is enabled.
func ProvidePublisher(cfg *config.Config, l *applogger.Logger) (domrepo.SnapshotPublisher, error) {
	if !cfg.Kafka.Enabled {
		return internalrepo.NopSnapshotPublisher{}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatching(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.BatchBytes, cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithProducerLogger(l),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaSnapshotPublisher(producer, cfg.Kafka.Topic), nil
}

// ProvideSeasonalUseCase creates the analysis use case.
func ProvideSeasonalUseCase(
	cfg *config.Config,
	backend *Backend,
	c cache.Service,
	pub domrepo.SnapshotPublisher,
	m *metrics.Recorder,
	calCfg calendar.Config,
	l *applogger.Logger,
) *usecase.SeasonalAnalysisUseCase {
	return usecase.NewSeasonalAnalysisUseCase(backend.Prices, calCfg,
		usecase.WithDividends(backend.Dividends),
		usecase.WithCache(c, cfg.Analysis.CacheTTL),
		usecase.WithLocking(cfg.Analysis.LockTTL, cfg.Analysis.LockWait),
		usecase.WithPublisher(pub),
		usecase.WithMetrics(m),
		usecase.WithLogger(l),
		usecase.WithDefaults(cfg.Analysis.DefaultYears, cfg.Analysis.IncludeEvents, cfg.Analysis.MaxConcurrency),
	)
}

func ProvideCalendarUseCase(cal *calendar.Calendar, backend *Backend) *usecase.CalendarUseCase {
	return usecase.NewCalendarUseCase(cal, backend.Prices)
}

// ProvideHandler registers the API routes, rate limited per client when enabled.
func ProvideHandler(cfg *config.Config, l *applogger.Logger, s *usecase.SeasonalAnalysisUseCase, c *usecase.CalendarUseCase) xhttp.Handler {
	h := api.NewSeasonalEchoHandler(l, s, c)
	if cfg.Server.RateLimit.Enabled {
		h.WithRateLimit(ratelimit.New(cfg.Server.RateLimit.RPS, cfg.Server.RateLimit.Burst).Middleware())
	}
	return h
}

func ProvideHTTPServer(cfg *config.Config, l *applogger.Logger, h xhttp.Handler) *xhttp.Server {
	opts := []xhttp.ServerOption{
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithLogger(l),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithMetrics(cfg.Metrics.Path, prometheus.DefaultRegisterer, prometheus.DefaultGatherer))
	} else {
		opts = append(opts, xhttp.WithMetrics("", nil, nil))
	}
	return xhttp.NewServer(h, opts...)
}

// ProvideWarmer returns nil when the warmer is disabled.
func ProvideWarmer(cfg *config.Config, s *usecase.SeasonalAnalysisUseCase, cal *calendar.Calendar, l *applogger.Logger) *usecase.Warmer {
	if !cfg.Warmer.Enabled {
		return nil
	}
	return usecase.NewWarmer(s, cal, cfg.Warmer.Schedule, cfg.Warmer.Watchlist, cfg.Warmer.Years,
		l.With(applogger.String("component", "warmer")))
}

// ProvideWarmConsumer returns nil when the warm-request consumer is disabled.
func ProvideWarmConsumer(cfg *config.Config, s *usecase.SeasonalAnalysisUseCase, m *metrics.Recorder, l *applogger.Logger) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Consumer.Enabled {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
		pkgkafka.WithConsumerLogger(l),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.RegisterHandler(usecase.NewWarmRequestHandler(s, cfg.Kafka.Consumer.Topic, l))
	consumer.WithConsumerHook(pkgkafka.HookFuncs{
		Err: func(_ context.Context, _ string, _ []byte, _ error) {
			m.RecordError("warm_request")
		},
	})
	return consumer, nil
}

// ProvideRedisClient returns a dedicated client for the job queue, nil when the queue is disabled.
func ProvideRedisClient(cfg *config.Config) *redis.Client {
	if !cfg.Redis.Enabled || !cfg.Redis.Queue.Enabled {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.Queue.Workers + 2,
	})
}

// ProvideWarmQueue returns the Redis warm-request queue, nil when disabled.
func ProvideWarmQueue(cfg *config.Config, client *redis.Client, s *usecase.SeasonalAnalysisUseCase, l *applogger.Logger) *queue.RedisQueue {
	if client == nil {
		return nil
	}
	q := queue.NewRedisQueue(client, queue.Config{
		Workers:    cfg.Redis.Queue.Workers,
		RetryLimit: cfg.Redis.Queue.RetryLimit,
		RetryDelay: cfg.Redis.Queue.RetryDelay,
		KeyPrefix:  "finseason:queue",
	}, l.With(applogger.String("component", "queue")))
	q.RegisterJob(usecase.NewWarmRequestHandler(s, cfg.Kafka.Consumer.Topic, l))
	return q
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	srv *xhttp.Server,
	warmer *usecase.Warmer,
	consumer *pkgkafka.Consumer,
	warmQueue *queue.RedisQueue,
	redisClient *redis.Client,
	backend *Backend,
	c cache.Service,
	pub domrepo.SnapshotPublisher,
) *server.App {
	opts := []server.AppOption{
		server.WithShutdownTimeout(cfg.Server.ShutdownTimeout + 5*time.Second),
		server.WithCloser("backend", backend),
		server.WithCloser("cache", c),
		server.WithCloser("publisher", pub),
	}
	if warmer != nil {
		opts = append(opts, server.WithScheduler(warmer))
	}
	if consumer != nil {
		opts = append(opts, server.WithRunner("kafka consumer", consumer))
	}
	if warmQueue != nil {
		opts = append(opts, server.WithRunner("warm queue", warmQueue), server.WithCloser("redis queue client", redisClient))
	}
	return server.New(l, srv, opts...)
}

// Toolkit is the use-case graph without transports, used by one-shot CLI commands.
type Toolkit struct {
	Seasonal  *usecase.SeasonalAnalysisUseCase
	Calendar  *usecase.CalendarUseCase
	backend   *Backend
	cache     cache.Service
	publisher domrepo.SnapshotPublisher
}

func ProvideToolkit(
	s *usecase.SeasonalAnalysisUseCase,
	c *usecase.CalendarUseCase,
	backend *Backend,
	ch cache.Service,
	pub domrepo.SnapshotPublisher,
) *Toolkit {
	return &Toolkit{Seasonal: s, Calendar: c, backend: backend, cache: ch, publisher: pub}
}

// Close releases the publisher, cache and backend.
func (t *Toolkit) Close() error {
	var errs []error
	for _, c := range []io.Closer{t.publisher, t.cache, t.backend} {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
