// README: Entry point; loads config, wires stores, services and the HTTP server, and shuts down on signal.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"ridehail/internal/config"
	"ridehail/internal/docstore"
	"ridehail/internal/events"
	httptransport "ridehail/internal/http"
	"ridehail/internal/infra"
	"ridehail/internal/lock"
	"ridehail/internal/modules/booth"
	"ridehail/internal/modules/driver"
	"ridehail/internal/modules/matching"
	"ridehail/internal/modules/pricing"
	"ridehail/internal/modules/ride"
	"ridehail/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	log := infra.NewLogger(os.Stdout, "ride-api", cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("ride-api stopped", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	var docs docstore.Store
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		pool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			return err
		}
		defer pool.Close()
		docs = docstore.NewPostgresStore(pool)
	default:
		docs = docstore.NewMemoryStore()
	}

	var locker lock.Locker
	switch cfg.Lock.Backend {
	case config.BackendRedis:
		client, err := infra.NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			return err
		}
		defer client.Close()
		locker = lock.NewRedisLocker(client, cfg.Lock.TTL)
	default:
		locker = lock.NewMemoryLocker()
	}

	hub := ws.NewHub(log)
	publishers := events.Multi{hub}
	if cfg.Events.AMQPURL != "" {
		amqpPub, err := events.DialAMQP(cfg.Events.AMQPURL, cfg.Events.Exchange)
		if err != nil {
			return err
		}
		defer amqpPub.Close()
		publishers = append(publishers, amqpPub)
	}

	pricingSvc := pricing.NewService(cfg.Dispatch.AvgSpeedKmh)
	driverSvc := driver.NewService(driver.NewStore(docs), log)
	boothSvc := booth.NewService(booth.NewStore(docs), log)
	rideSvc := ride.NewService(ride.Deps{
		Store:      ride.NewStore(docs),
		Locker:     locker,
		Fares:      pricingSvc,
		Drivers:    driverSvc,
		Events:     publishers,
		Log:        log,
		RouteSteps: cfg.Dispatch.RouteSteps,
	})
	matchingSvc := matching.NewService(rideSvc, driverSvc, log)

	handler := httptransport.NewServer(httptransport.ServerDeps{
		Docs:     docs,
		Pricing:  pricingSvc,
		Drivers:  driverSvc,
		Rides:    rideSvc,
		Matching: matchingSvc,
		Booths:   boothSvc,
		Hub:      hub,
		Log:      log,
	})
	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler.Routes()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", "addr", cfg.HTTP.Addr, "store", cfg.Store.Backend, "lock", cfg.Lock.Backend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
