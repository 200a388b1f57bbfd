package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"fairtrace/internal/audit"
	"fairtrace/internal/authority"
	"fairtrace/internal/compliance"
	"fairtrace/internal/consumer"
	"fairtrace/internal/jwttoken"
	"fairtrace/internal/labor"
	"fairtrace/internal/ledger"
	"fairtrace/internal/material"
	"fairtrace/internal/platform/config"
	"fairtrace/internal/platform/httpserver"
	"fairtrace/internal/platform/logger"
	"fairtrace/internal/platform/metrics"
	platformredis "fairtrace/internal/platform/redis"
	"fairtrace/internal/registry"
	"fairtrace/internal/supplier"
	httptransport "fairtrace/internal/transport/http"
	"fairtrace/pkg/domain"
)

// main wires process-level dependencies and the server lifecycle. Domain
// logic lives in the internal services; storage backends are optional and
// fall back to in-memory stores when not configured.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	chain := ledger.NewCounter(cfg.GenesisHeight)

	// One gate per store: transferring one store's admin must not move the
	// others, so the instances are never shared.
	supplierGate := authority.NewGate(domain.Identity(cfg.SupplierAdmin))
	laborGate := authority.NewGate(domain.Identity(cfg.LaborAdmin))
	materialGate := authority.NewGate(domain.Identity(cfg.MaterialAdmin))
	consumerGate := authority.NewGate(domain.Identity(cfg.ConsumerAdmin))
	hostGate := authority.NewGate(domain.Identity(cfg.Host))

	// Audit trail: postgres when configured, in-memory otherwise.
	var auditStore audit.Store = audit.NewInMemoryStore()
	if cfg.PostgresURL != "" {
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			log.Error("postgres connect failed", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		pgStore := audit.NewPostgresStore(pool)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			log.Error("postgres schema setup failed", "error", err)
			os.Exit(1)
		}
		auditStore = pgStore
		log.Info("audit trail backed by postgres")
	}
	recorder := audit.NewRecorder(auditStore, log)

	// Reviews: redis when configured, in-memory otherwise.
	var reviews consumer.ReviewStore = consumer.NewInMemoryReviewStore()
	rdb, err := platformredis.New(cfg)
	if err != nil {
		log.Error("redis connect failed", "error", err)
		os.Exit(1)
	}
	if rdb != nil {
		defer rdb.Close()
		reviews = consumer.NewRedisReviewStore(rdb.Client)
		log.Info("reviews backed by redis")
	}

	suppliers := supplier.NewService(supplierGate, chain,
		registry.NewInMemory[string, supplier.Supplier](),
		registry.NewInMemory[string, supplier.Standard](),
		compliance.NewLedger(), recorder)
	laborSvc := labor.NewService(laborGate, chain,
		registry.NewInMemory[string, labor.Certification](),
		registry.NewInMemory[string, labor.Standard](),
		compliance.NewLedger(), recorder)
	materials := material.NewService(materialGate, chain,
		registry.NewInMemory[string, material.Batch](), recorder)
	consumers := consumer.NewService(consumerGate, chain,
		registry.NewInMemory[string, consumer.ProductVerification](),
		registry.NewInMemory[string, consumer.VerificationRequest](),
		reviews, recorder)

	tokens := jwttoken.NewService(cfg.JWTSigningKey, "fairtrace")
	handler := httptransport.NewHandler(log, m, suppliers, laborSvc, materials, consumers, recorder, chain, hostGate)
	router := httptransport.NewRouter(handler, tokens)

	srv := httpserver.New(cfg.Addr, router)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting fairtrace", "addr", cfg.Addr, "genesis_height", cfg.GenesisHeight)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
