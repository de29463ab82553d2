package rabbitmq

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	berr "github.com/next-trace/scg-component-bus/contract/errors"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Concrete AMQP connection-backed constructor and publisher wrapper with auto-reconnect.

const (
	integrationExchange   = "integration"
	integrationExchangeTy = "topic"
)

type Config struct {
	URL         string
	ConnTimeout time.Duration
}

type reconnectingPublisher struct {
	cfg    Config
	mu     sync.RWMutex
	conn   *amqp.Connection
	ch     *amqp.Channel
	closed chan struct{}
	ready  chan struct{} // closed while a channel is available
}

func newReconnectingPublisher(cfg Config) (*reconnectingPublisher, func()) {
	rp := &reconnectingPublisher{
		cfg:    cfg,
		closed: make(chan struct{}),
		ready:  make(chan struct{}),
	}
	go rp.run()

	cleanup := func() { rp.close() }

	return rp, cleanup
}

func (rp *reconnectingPublisher) channel(ctx context.Context) (*amqp.Channel, error) {
	rp.mu.RLock()
	ch, ready := rp.ch, rp.ready
	rp.mu.RUnlock()

	if ch != nil {
		return ch, nil
	}

	select {
	case <-ready:
	case <-rp.closed:
		return nil, fmt.Errorf("%w: rabbitmq publisher closed", berr.ErrExportFailed)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	rp.mu.RLock()
	ch = rp.ch
	rp.mu.RUnlock()

	if ch == nil {
		return nil, fmt.Errorf("%w: rabbitmq not connected", berr.ErrExportFailed)
	}

	return ch, nil
}

func (rp *reconnectingPublisher) Publish(ctx context.Context, m PubMsg) error {
	ch, err := rp.channel(ctx)
	if err != nil {
		return err
	}

	return ch.PublishWithContext(
		ctx,
		m.Exchange,
		m.RoutingKey,
		false,
		false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			Headers:      toTable(m.Headers),
			ContentType:  "application/json",
			Body:         m.Body,
		},
	)
}

func (rp *reconnectingPublisher) dial() (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.DialConfig(rp.cfg.URL, amqp.Config{
		Locale:     "en_US",
		Properties: amqp.Table{"product": "scg-component-bus"},
		Dial:       amqp.DefaultDial(rp.cfg.ConnTimeout),
	})
	if err != nil {
		return nil, nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()

		return nil, nil, err
	}

	if err := ch.ExchangeDeclare(
		integrationExchange,
		integrationExchangeTy,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()

		return nil, nil, err
	}

	return conn, ch, nil
}

func (rp *reconnectingPublisher) run() {
	backoff := time.Second

	const maxBackoff = 30 * time.Second
	// #nosec G404 -- non-crypto RNG is acceptable for backoff jitter
	rng := rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // non-crypto RNG is acceptable for backoff jitter

	for {
		select {
		case <-rp.closed:
			return
		default:
		}

		conn, ch, err := rp.dial()
		if err != nil {
			// exponential backoff with jitter
			jitter := time.Duration(rng.Int63n(int64(backoff / 2)))

			sleep := min(backoff+jitter/2, maxBackoff)

			t := time.NewTimer(sleep)
			select {
			case <-rp.closed:
				t.Stop()

				return
			case <-t.C:
			}

			backoff = min(backoff*2, maxBackoff)

			continue
		}

		backoff = time.Second

		rp.mu.Lock()
		select {
		case <-rp.closed:
			rp.mu.Unlock()

			_ = ch.Close()
			_ = conn.Close()

			return
		default:
		}

		rp.conn = conn
		rp.ch = ch
		close(rp.ready)
		rp.mu.Unlock()

		// Block on connection close notifications to trigger reconnect
		notify := conn.NotifyClose(make(chan *amqp.Error, 1))
		select {
		case <-rp.closed:
			return
		case <-notify:
		}

		rp.mu.Lock()
		rp.ch = nil
		rp.conn = nil
		rp.ready = make(chan struct{})
		rp.mu.Unlock()

		_ = ch.Close()
		_ = conn.Close()
	}
}

func (rp *reconnectingPublisher) close() {
	rp.mu.Lock()
	defer rp.mu.Unlock()

	select {
	case <-rp.closed:
		return
	default:
		close(rp.closed)
	}

	if rp.ch != nil {
		_ = rp.ch.Close()
		rp.ch = nil
	}

	if rp.conn != nil {
		_ = rp.conn.Close()
		rp.conn = nil
	}
}

// NewWithAMQPConn dials RabbitMQ with auto-reconnect, ensures the integration exchange,
// and returns an Adapter publishing to it together with a cleanup.
func NewWithAMQPConn(cfg Config) (*Adapter, func(), error) {
	if cfg.URL == "" {
		return nil, nil, fmt.Errorf("%w: rabbitmq url required", berr.ErrExporterNotConfigured)
	}

	pub, cleanup := newReconnectingPublisher(cfg)
	ad := New(pub)
	ad.Exchange = integrationExchange

	return ad, cleanup, nil
}
