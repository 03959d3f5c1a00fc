package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/zander-storefront/internal/blob"
	"github.com/ariefcatur/zander-storefront/internal/config"
	"github.com/ariefcatur/zander-storefront/internal/httpx"
	"github.com/ariefcatur/zander-storefront/internal/idgen"
	kafkax "github.com/ariefcatur/zander-storefront/internal/kafka"
	"github.com/ariefcatur/zander-storefront/internal/logx"
	"github.com/ariefcatur/zander-storefront/internal/postgres"
	"github.com/ariefcatur/zander-storefront/internal/redisx"
	"github.com/ariefcatur/zander-storefront/internal/storefront"
	"github.com/ariefcatur/zander-storefront/internal/whatsapp"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := logx.New(cfg.LogLevel, cfg.ServiceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	// prices go out as JSON numbers, like the browser blobs hold them
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("blob store", zap.String("backend", cfg.BlobBackend), zap.Error(err))
	}
	defer closeStore()

	loc, err := time.LoadLocation(cfg.StoreTimezone)
	if err != nil {
		log.Warn("unknown store timezone, using local", zap.String("tz", cfg.StoreTimezone), zap.Error(err))
		loc = time.Local
	}

	catalog := storefront.NewCatalog(idgen.New(), log)
	if cfg.SeedCatalog {
		if err := storefront.Seed(catalog); err != nil {
			log.Fatal("seed catalog", zap.Error(err))
		}
	}

	h := &httpx.StoreHandler{
		Catalog:  catalog,
		Store:    store,
		WhatsApp: whatsapp.NewFormatter(cfg.WhatsAppPhone, loc),
		Limiter:  httpx.NewRateLimiter(cfg.CheckoutRatePerMin, cfg.CheckoutBurst),
		Service:  cfg.ServiceName,
		Location: loc,
		Log:      log,
	}

	var producers []*kafkax.Producer
	if cfg.EventsEnabled {
		catalogProd := kafkax.NewProducer(cfg.KafkaBrokers, storefront.TopicCatalog, 1024, log)
		checkoutProd := kafkax.NewProducer(cfg.KafkaBrokers, storefront.TopicCheckout, 1024, log)
		catalogProd.Start(ctx)
		checkoutProd.Start(ctx)
		h.CatalogEvents = catalogProd
		h.CheckoutEvents = checkoutProd
		producers = append(producers, catalogProd, checkoutProd)
	}

	router := httpx.NewRouter(log, cfg.CORSOrigins)
	h.Register(router)
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 5 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http listening", zap.String("addr", cfg.HTTPAddr), zap.String("blob_backend", cfg.BlobBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exit", zap.Error(err))
	}

	// close inbox -> flush & close writer
	for _, p := range producers {
		p.Close()
	}
	for _, p := range producers {
		p.WaitClosed()
	}
}

// openStore picks the blob backend for carts, favorites and reviews.
func openStore(ctx context.Context, cfg config.Config, log *zap.Logger) (blob.Store, func(), error) {
	switch cfg.BlobBackend {
	case "memory":
		return blob.NewMemory(), func() {}, nil
	case "redis":
		rdb := redisx.New(cfg.RedisAddr)
		if err := redisx.Ping(ctx, rdb); err != nil {
			_ = rdb.Close()
			return nil, nil, err
		}
		return &redisx.Store{RDB: rdb}, func() { _ = rdb.Close() }, nil
	case "postgres":
		db, err := postgres.Connect(ctx, cfg.PostgresDSN, cfg.PostgresMaxConns)
		if err != nil {
			return nil, nil, err
		}
		s := &postgres.Store{DB: db}
		if err := s.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Info("postgres blob store ready")
		return s, db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown blob backend %q", cfg.BlobBackend)
	}
}
