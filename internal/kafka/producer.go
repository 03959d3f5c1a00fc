package kafka

import (
	"context"
	"sync"
	"time"

	"github.com/ariefcatur/zander-storefront/internal/logx"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Producer is a fire-and-forget publisher for one topic. Publish never blocks the caller:
// messages go through a buffered inbox and are dropped (and logged) when it is full.
type Producer struct {
	w       *kafka.Writer
	topic   string
	log     *zap.Logger
	mu      sync.Mutex
	closed  bool
	inbox   chan kafka.Message
	closeCh chan struct{}
}

func NewProducer(brokers []string, topic string, buf int, log *zap.Logger) *Producer {
	log = logx.OrNop(log).With(zap.String("topic", topic))
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        true,
			Completion: func(msgs []kafka.Message, err error) {
				if err != nil {
					log.Warn("kafka write failed", zap.Int("messages", len(msgs)), zap.Error(err))
				}
			},
		},
		topic:   topic,
		log:     log,
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
	}
}

// Start runs the writer loop until Close; remaining messages are flushed before the writer closes.
func (p *Producer) Start(ctx context.Context) {
	go func() {
		defer close(p.closeCh)
		wctx := context.WithoutCancel(ctx)
		for m := range p.inbox {
			if err := p.w.WriteMessages(wctx, m); err != nil {
				p.log.Warn("kafka enqueue failed", zap.ByteString("key", m.Key), zap.Error(err))
			}
		}
		if err := p.w.Close(); err != nil {
			p.log.Warn("kafka writer close", zap.Error(err))
		}
	}()
}

func (p *Producer) Publish(key, value []byte, headers ...kafka.Header) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		p.log.Warn("publish after close dropped", zap.ByteString("key", key))
		return
	}
	select {
	case p.inbox <- kafka.Message{Key: key, Value: value, Time: time.Now(), Headers: headers}:
	default:
		p.log.Warn("producer inbox full, event dropped", zap.ByteString("key", key))
	}
}

// Close stops accepting messages; the loop flushes what is queued and exits. Safe to call twice.
func (p *Producer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.inbox)
	}
}

// WaitClosed blocks until the loop has flushed and closed the writer.
func (p *Producer) WaitClosed() { <-p.closeCh }
