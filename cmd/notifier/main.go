package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ariefcatur/zander-storefront/internal/config"
	kafkax "github.com/ariefcatur/zander-storefront/internal/kafka"
	"github.com/ariefcatur/zander-storefront/internal/logx"
	"github.com/ariefcatur/zander-storefront/internal/notify"
	"github.com/ariefcatur/zander-storefront/internal/redisx"
	"github.com/ariefcatur/zander-storefront/internal/storefront"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := logx.New(cfg.LogLevel, cfg.ServiceName+"-notifier")
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()
	if err := redisx.Ping(ctx, rdb); err != nil {
		log.Fatal("redis", zap.Error(err))
	}

	svc := &notify.Service{
		Dedup: &redisx.Deduper{RDB: rdb, Service: cfg.NotifierGroup},
		Sink:  notify.LogSink(log),
		Log:   log,
	}

	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.NotifierGroup, storefront.TopicCheckout, cfg.NotifierWorkers, log)
	log.Info("notifier consumer started",
		zap.String("group", cfg.NotifierGroup),
		zap.String("topic", storefront.TopicCheckout),
		zap.Int("workers", cfg.NotifierWorkers))

	if err := cons.Start(ctx, svc.HandleCheckout); err != nil {
		log.Error("consumer exit", zap.Error(err))
		return
	}
	log.Info("notifier stopped")
}
