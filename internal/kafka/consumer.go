package kafka

import (
	"context"
	"sync"
	"time"

	"github.com/ariefcatur/zander-storefront/internal/logx"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Handler returns nil only when the message is done and its offset may be committed.
type Handler func(ctx context.Context, m kafka.Message) error

type Consumer struct {
	r       *kafka.Reader
	workers int
	log     *zap.Logger
}

func NewConsumer(brokers []string, group, topic string, workers int, log *zap.Logger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        group,
		Topic:          topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0, // commit per message
	})
	if workers <= 0 {
		workers = 1
	}
	return &Consumer{
		r:       r,
		workers: workers,
		log:     logx.OrNop(log).With(zap.String("topic", topic), zap.String("group", group)),
	}
}

// Start dispatches messages to the worker pool until ctx ends. A cancelled context is a clean
// shutdown and returns nil; workers finish their current message first.
func (c *Consumer) Start(ctx context.Context, h Handler) error {
	defer c.r.Close()

	jobs := make(chan kafka.Message, 1024)
	errs := make(chan error, c.workers)

	var wg sync.WaitGroup
	for i := 0; i < c.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for m := range jobs {
				if err := h(ctx, m); err != nil {
					c.report(errs, err)
					continue
				}
				if err := c.r.CommitMessages(ctx, m); err != nil {
					c.report(errs, err)
				}
			}
		}()
	}
	defer wg.Wait()
	defer close(jobs)

	for {
		m, err := c.r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		select {
		case jobs <- m:
		case <-ctx.Done():
			return nil
		}

		select {
		case e := <-errs:
			c.log.Warn("worker error", zap.Error(e))
			time.Sleep(200 * time.Millisecond)
		default:
		}
	}
}

// report hands err to the dispatcher for backoff, logging it directly when the dispatcher is behind.
func (c *Consumer) report(errs chan<- error, err error) {
	select {
	case errs <- err:
	default:
		c.log.Warn("worker error", zap.Error(err))
	}
}
