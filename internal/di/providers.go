package di

import (
	"context"
	"fmt"
	"time"

	domrepo "EdgePull/internal/domain/repository"
	domsvc "EdgePull/internal/domain/service"
	"EdgePull/internal/handler/api"
	internalrepo "EdgePull/internal/repository"
	"EdgePull/internal/services/events"
	"EdgePull/internal/services/risk"
	"EdgePull/internal/services/sizing"
	"EdgePull/internal/services/strategy"
	"EdgePull/internal/usecase"
	pkgch "EdgePull/pkg/clickhouse"
	"EdgePull/pkg/config"
	xhttp "EdgePull/pkg/http"
	pkgkafka "EdgePull/pkg/kafka"
	"EdgePull/pkg/logger"
	"EdgePull/pkg/metrics"
	"EdgePull/pkg/server"

	"github.com/redis/go-redis/v9"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	out := cfg.Logging.Dir
	if out == "" {
		out = "stdout"
	}
	l, err := logger.New(&logger.Config{
		Level:    cfg.Logging.Level,
		Format:   cfg.Logging.Format,
		Output:   out,
		RotateMB: cfg.Logging.RotateMB,
		Keep:     cfg.Logging.Keep,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideScorer creates the mean-reversion signal scorer.
func ProvideScorer() domsvc.SignalScorer {
	return strategy.NewMeanReversionScorer()
}

// ProvideGuard builds the risk guard from static limits.
func ProvideGuard(cfg *config.Config) domsvc.RiskGuard {
	return risk.NewGuard(risk.Limits{
		MaxDailyLossPct:   cfg.Risk.MaxDailyLossPct,
		MaxSpreadPoints:   cfg.Risk.MaxSpreadPoints,
		MaxSlippagePoints: cfg.Risk.MaxSlippagePoints,
		MaxExposurePct:    cfg.Execution.MaxExposurePerSymbolPct,
		MaxOpenPositions:  cfg.Risk.MaxOpenPositions,
		MaxTradesPerHour:  cfg.Risk.MaxTradesPerHour,
		Cooldown:          time.Duration(cfg.Risk.CooldownSeconds) * time.Second,
	})
}

// ProvideSizer creates the ATR position sizer.
func ProvideSizer(cfg *config.Config) domsvc.PositionSizer {
	return sizing.NewATRSizer(cfg.Risk.PerTradeRiskPct, cfg.Execution.MinLot, cfg.Execution.VolumeStep)
}

// ProvideHub creates the WebSocket event hub.
func ProvideHub(l *logger.Logger) *events.Hub {
	return events.NewHub(l)
}

// ProvideEventSink builds the configured sink backend, tees it with the
// WebSocket hub, and wraps everything in the async drop-on-full stage so the
// decide path never blocks on storage.
func ProvideEventSink(cfg *config.Config, hub *events.Hub, m domrepo.Metrics, l *logger.Logger) (*internalrepo.AsyncSink, error) {
	backend, err := buildBackend(cfg)
	if err != nil {
		return nil, err
	}

	var opts []internalrepo.AsyncSinkOption
	if cfg.Sink.BufferSize > 0 {
		opts = append(opts, internalrepo.WithBufferSize(cfg.Sink.BufferSize))
	}
	if cfg.Sink.AppendTimeout > 0 {
		opts = append(opts, internalrepo.WithAppendTimeout(cfg.Sink.AppendTimeout))
	}

	sink := internalrepo.NewAsyncSink(
		internalrepo.NewMultiSink(backend, hub),
		cfg.Sink.Backend,
		m, l, opts...,
	)
	sink.Start()
	return sink, nil
}

func buildBackend(cfg *config.Config) (domrepo.EventSink, error) {
	switch cfg.Sink.Backend {
	case config.SinkFile:
		return internalrepo.NewFileSink(cfg.Sink.Dir, cfg.Logging.RotateMB, cfg.Logging.Keep)

	case config.SinkClickHouse:
		client, err := pkgch.NewClient(
			pkgch.WithHost(cfg.ClickHouse.Host),
			pkgch.WithPort(cfg.ClickHouse.Port),
			pkgch.WithDatabase(cfg.ClickHouse.Database),
			pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
			pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
			pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
			pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		)
		if err != nil {
			return nil, fmt.Errorf("clickhouse client: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		table := cfg.ClickHouse.Database + "." + cfg.ClickHouse.Table
		if err := client.InitSchema(ctx, internalrepo.SchemaStatements(cfg.ClickHouse.Database, table)); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("clickhouse schema: %w", err)
		}
		return internalrepo.NewClickHouseSink(client.DB(), table), nil

	case config.SinkKafka:
		producer, err := pkgkafka.NewProducer(
			pkgkafka.WithBrokers(cfg.Kafka.Brokers),
			pkgkafka.WithCompression(cfg.Kafka.Compression),
			pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
			pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
			pkgkafka.WithBatchSize(cfg.Kafka.BatchSize),
			pkgkafka.WithBatchTimeout(cfg.Kafka.BatchTimeout),
			pkgkafka.WithWriteTimeout(cfg.Kafka.WriteTimeout),
			pkgkafka.WithAsync(cfg.Kafka.Async),
			pkgkafka.WithHashByKey(true),
		)
		if err != nil {
			return nil, fmt.Errorf("kafka producer: %w", err)
		}
		return internalrepo.NewKafkaSink(producer, cfg.Kafka.Topic), nil

	case config.SinkRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		return internalrepo.NewRedisSink(client, cfg.Redis.Stream, cfg.Redis.MaxLen), nil
	}

	return nil, fmt.Errorf("unknown sink backend %q", cfg.Sink.Backend)
}

// ProvideEngine creates the decision engine use case.
func ProvideEngine(
	scorer domsvc.SignalScorer,
	guard domsvc.RiskGuard,
	sizer domsvc.PositionSizer,
	sink *internalrepo.AsyncSink,
	m domrepo.Metrics,
	l *logger.Logger,
	cfg *config.Config,
) *usecase.DecisionEngine {
	return usecase.NewDecisionEngine(scorer, guard, sizer, sink, m, l,
		cfg.Edges, cfg.Execution.MaxExposurePerSymbolPct)
}

// ProvideDecideHandler creates the HTTP handler.
func ProvideDecideHandler(l *logger.Logger, engine *usecase.DecisionEngine, hub *events.Hub) xhttp.Handler {
	return api.NewDecideEchoHandler(l, engine, hub)
}

// ProvideApp creates the application server.
func ProvideApp(cfg *config.Config, l *logger.Logger, handler xhttp.Handler, sink *internalrepo.AsyncSink) *server.App {
	return server.New(cfg, l, handler, sink)
}
