package nats

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	berr "github.com/next-trace/scg-component-bus/contract/errors"
)

// Concrete NATS connection-backed Client and constructor.

type Config struct {
	URL           string
	Name          string
	Token         string
	ConnTimeout   time.Duration
	ReconnectWait time.Duration
	MaxReconnects int
	// Logger receives connection state changes. Nil discards them.
	Logger *slog.Logger
}

type natsClient struct{ nc *nats.Conn }

func (c natsClient) Publish(subject string, data []byte, headers map[string]string) error {
	msg := nats.NewMsg(subject)
	msg.Data = data

	for k, v := range headers {
		msg.Header.Set(k, v)
	}

	if err := c.nc.PublishMsg(msg); err != nil {
		return err
	}

	return c.nc.Flush()
}

func connOptions(cfg Config) []nats.Option {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	opts := []nats.Option{
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats disconnected", "url", cfg.URL, "err", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", "url", nc.ConnectedUrlRedacted())
		}),
	}

	if cfg.Name != "" {
		opts = append(opts, nats.Name(cfg.Name))
	}

	if cfg.Token != "" {
		opts = append(opts, nats.Token(cfg.Token))
	}

	if cfg.ConnTimeout > 0 {
		opts = append(opts, nats.Timeout(cfg.ConnTimeout))
	}

	if cfg.ReconnectWait > 0 {
		opts = append(opts, nats.ReconnectWait(cfg.ReconnectWait))
	}

	if cfg.MaxReconnects != 0 {
		opts = append(opts, nats.MaxReconnects(cfg.MaxReconnects))
	}

	return opts
}

// NewWithNATS connects to NATS and returns an Adapter and a cleanup that drains the connection.
func NewWithNATS(cfg Config) (*Adapter, func(), error) {
	if cfg.URL == "" {
		return nil, nil, fmt.Errorf("%w: nats url required", berr.ErrExporterNotConfigured)
	}

	nc, err := nats.Connect(cfg.URL, connOptions(cfg)...)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: nats connect: %w", berr.ErrExportFailed, err)
	}

	cleanup := func() {
		if !nc.IsClosed() {
			_ = nc.Drain() //nolint:errcheck // best-effort shutdown; cannot return error here
		}
	}

	return New(natsClient{nc: nc}), cleanup, nil
}
