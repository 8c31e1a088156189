package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"treasury/internal/audit"
	"treasury/internal/distribution/handler"
	distmetrics "treasury/internal/distribution/metrics"
	"treasury/internal/distribution/models"
	"treasury/internal/distribution/service"
	"treasury/internal/distribution/store/idempotency"
	"treasury/internal/distribution/store/ledger"
	"treasury/internal/distribution/store/state"
	"treasury/internal/distribution/transfer"
	httpapi "treasury/internal/http"
	"treasury/internal/jwttoken"
	"treasury/internal/passthrough"
	"treasury/internal/platform/config"
	"treasury/internal/platform/httpserver"
	"treasury/internal/platform/kafka"
	"treasury/internal/platform/logger"
	platformmetrics "treasury/internal/platform/metrics"
	"treasury/internal/platform/redis"
	id "treasury/pkg/domain"
	"treasury/pkg/platform/sentinel"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal service packages. Every backend is
// optional: absent postgres/redis/kafka the server runs on in-memory stores,
// which is how the test and dev environments use it.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage selection.
	var (
		db        *sql.DB
		stateSt   service.StateStore
		ledgerSt  service.LedgerStore
		auditSt   audit.Store
		refSt     service.ReferenceStore
		passLedgr passthrough.LedgerStore
	)
	if cfg.PostgresURL != "" {
		var err error
		db, err = sql.Open("postgres", cfg.PostgresURL)
		if err != nil {
			log.Error("open postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Error("ping postgres", "error", err)
			os.Exit(1)
		}
		stateSt = state.NewPostgres(db)
		ledgerSt = ledger.NewPostgres(db, cfg.Account)
		passLedgr = ledger.NewPostgres(db, "passthrough")
		auditSt = audit.NewPostgresStore(db)
	} else {
		stateSt = state.NewInMemory()
		ledgerSt = ledger.NewInMemory()
		passLedgr = ledger.NewInMemory()
		auditSt = audit.NewInMemoryStore()
	}

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		refSt = idempotency.NewRedisStore(redisClient.Client)
	} else {
		refSt = idempotency.NewInMemoryStore(idempotency.DefaultTTL)
	}

	publisher := audit.NewPublisher(auditSt, log)

	// Bootstrap governance state. A second start sees the conflict and
	// keeps the persisted state.
	if err := bootstrapState(ctx, cfg, stateSt); err != nil {
		log.Error("bootstrap state", "error", err)
		os.Exit(1)
	}

	gateway := transfer.NewInMemoryGateway()
	svc := service.New(stateSt, ledgerSt, gateway,
		service.WithLogger(log),
		service.WithMetrics(distmetrics.New()),
		service.WithAuditPublisher(publisher),
		service.WithReferenceStore(refSt),
	)

	httpMetrics := platformmetrics.New()
	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer)
	validator := jwttoken.NewJWTServiceAdapter(jwtService)

	registrars := []httpapi.Registrar{
		handler.New(svc, log, httpMetrics, validator),
	}

	if cfg.PassthroughDest != "" {
		passSvc, err := passthrough.New(models.Destination(cfg.PassthroughDest), passLedgr, gateway,
			passthrough.WithLogger(log),
			passthrough.WithAuditPublisher(publisher),
		)
		if err != nil {
			log.Error("configure passthrough router", "error", err)
			os.Exit(1)
		}
		registrars = append(registrars, passthrough.NewHandler(passSvc, log, httpMetrics))
	}

	health := func() error {
		if db != nil {
			if err := db.Ping(); err != nil {
				return err
			}
		}
		if redisClient != nil {
			return redisClient.Health(context.Background())
		}
		return nil
	}

	srv := httpserver.New(cfg.Addr, httpapi.NewRouter(health, registrars...))

	group, groupCtx := errgroup.WithContext(ctx)

	// Audit forwarding to kafka is best-effort; without brokers the outbox
	// drains into the persistent store only.
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafka.NewProducer(cfg.Kafka.Brokers)
		if err != nil {
			log.Error("connect kafka", "error", err)
			os.Exit(1)
		}
		defer producer.Close()
		if err := producer.EnsureTopics(ctx, 1, audit.Topics()...); err != nil {
			log.Error("ensure audit topics", "error", err)
			os.Exit(1)
		}
		forwarder := audit.NewForwarder(producer, publisher.Outbox(), log)
		group.Go(func() error {
			forwarder.Run(groupCtx)
			return nil
		})
	}

	group.Go(func() error {
		log.Info("starting treasury server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("treasury server stopped")
}

// bootstrapState seeds the router state on first start. The addresses come
// from the environment; an already-initialized store wins.
func bootstrapState(ctx context.Context, cfg config.Server, st service.StateStore) error {
	init, ok := st.(interface {
		Init(ctx context.Context, state *models.RouterState) error
	})
	if !ok {
		return nil
	}

	dest, err := models.NewDestinations(cfg.FounderDest, cfg.DaoDest, cfg.CharityDest)
	if err != nil {
		return err
	}
	admin, err := id.ParsePrincipalID(cfg.InitialAdmin)
	if err != nil {
		return err
	}
	governor, err := id.ParsePrincipalID(cfg.InitialGovernor)
	if err != nil {
		return err
	}
	initial, err := models.NewRouterState(dest, admin, governor, time.Now())
	if err != nil {
		return err
	}

	if err := init.Init(ctx, initial); err != nil && !errors.Is(err, sentinel.ErrConflict) {
		return err
	}
	return nil
}
