package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"verifi/internal/access"
	"verifi/internal/alias"
	"verifi/internal/document"
	jwttoken "verifi/internal/jwt_token"
	"verifi/internal/ledger"
	"verifi/internal/ledger/relay"
	"verifi/internal/platform/config"
	"verifi/internal/platform/httpserver"
	"verifi/internal/platform/logger"
	"verifi/internal/platform/metrics"
	"verifi/internal/platform/postgres"
	redisclient "verifi/internal/platform/redis"
	"verifi/internal/projection"
	"verifi/internal/registry"
	"verifi/internal/roles"
	httptransport "verifi/internal/transport/http"
	"verifi/pkg/domain"
)

// main wires dependencies and keeps the process lifecycle small. Business
// logic lives in internal/registry; main only decides which backends to plug
// in and when to shut them down.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err.Error())
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bootstrapAdmin, err := domain.ParsePrincipal(cfg.BootstrapAdmin)
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	addressing := registry.AddressingMode(cfg.Addressing)
	if addressing != registry.AddressingExplicit && addressing != registry.AddressingContent {
		return fmt.Errorf("unknown addressing mode %q", cfg.Addressing)
	}

	stores, cleanup, err := buildStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	service, err := registry.New(
		stores.roles,
		stores.aliases,
		stores.documents,
		stores.access,
		stores.events,
		bootstrapAdmin,
		registry.WithLogger(log),
		registry.WithMetrics(m),
		registry.WithAddressing(addressing),
	)
	if err != nil {
		return fmt.Errorf("build registry: %w", err)
	}

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)
	handler := httptransport.NewHandler(service, log, m, jwttoken.NewMiddlewareAdapter(jwtService))
	srv := httpserver.New(cfg.Addr, httptransport.NewRouter(handler, reg))

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr, "storage", cfg.Storage)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("shutting down http server")
		return srv.Shutdown(shutdownCtx)
	})

	if len(cfg.Kafka.Brokers) > 0 {
		publisher, err := relay.NewKafkaPublisher(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return fmt.Errorf("kafka publisher: %w", err)
		}
		defer publisher.Close()

		// Publish only events appended after this boot; the log itself keeps
		// the full history for consumers that need a replay.
		lastSeq, err := stores.events.LastSeq(ctx)
		if err != nil {
			return fmt.Errorf("event log cursor: %w", err)
		}
		eventRelay := relay.New(stores.events, publisher, cfg.Kafka.PollInterval,
			relay.WithLogger(log),
			relay.WithCursor(lastSeq),
		)
		group.Go(func() error {
			log.Info("starting event relay", "topic", cfg.Kafka.Topic, "cursor", lastSeq)
			if err := eventRelay.Run(ctx); !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	if cfg.Redis.URL != "" {
		redisClient, err := redisclient.New(cfg.Redis)
		if err != nil {
			return fmt.Errorf("redis client: %w", err)
		}
		defer redisClient.Close()

		grants := projection.NewRedisCache(redisClient.Client)
		worker := projection.New(stores.events, grants, cfg.Kafka.PollInterval,
			projection.WithLogger(log),
		)
		group.Go(func() error {
			log.Info("starting grant projection")
			if err := worker.Run(ctx); !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	return group.Wait()
}

type storeSet struct {
	roles     registry.RoleStore
	aliases   registry.AliasStore
	documents registry.DocumentStore
	access    registry.AccessStore
	events    ledger.Store
}

func buildStores(ctx context.Context, cfg config.Server, log *slog.Logger) (storeSet, func(), error) {
	switch cfg.Storage {
	case "postgres":
		db, err := postgres.Open(ctx, cfg.Postgres)
		if err != nil {
			return storeSet{}, nil, fmt.Errorf("open postgres: %w", err)
		}
		log.Info("using postgres storage")
		return storeSet{
			roles:     roles.NewPostgres(db),
			aliases:   alias.NewPostgres(db),
			documents: document.NewPostgres(db),
			access:    access.NewPostgres(db),
			events:    ledger.NewPostgres(db),
		}, func() { _ = db.Close() }, nil
	case "memory":
		log.Info("using in-memory storage")
		return storeSet{
			roles:     roles.NewInMemory(),
			aliases:   alias.NewInMemory(),
			documents: document.NewInMemory(),
			access:    access.NewInMemory(),
			events:    ledger.NewInMemory(),
		}, func() {}, nil
	default:
		return storeSet{}, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
}
