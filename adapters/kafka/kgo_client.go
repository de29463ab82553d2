package kafka

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	berr "github.com/next-trace/scg-component-bus/contract/errors"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/sasl"
	"github.com/twmb/franz-go/pkg/sasl/plain"
	"github.com/twmb/franz-go/pkg/sasl/scram"
)

// Concrete franz-go based constructor and writer wrapper.

type SASLConfig struct {
	Mechanism string // PLAIN, SCRAM-SHA-256 or SCRAM-SHA-512
	Username  string
	Password  string
}

type Config struct {
	Brokers     []string
	TLS         *tls.Config
	SASL        *SASLConfig
	Acks        string // all, leader or none; empty keeps the client default
	Idempotent  bool
	ClientID    string
	Compression string // gzip, snappy, lz4, zstd or none
}

type kgoWriter struct{ cl *kgo.Client }

func (w kgoWriter) Write(ctx context.Context, topic string, key, value []byte, headers map[string]string) error {
	rec := &kgo.Record{Topic: topic, Key: key, Value: value}
	if len(headers) > 0 {
		rec.Headers = make([]kgo.RecordHeader, 0, len(headers))
		for k, v := range headers {
			rec.Headers = append(rec.Headers, kgo.RecordHeader{Key: k, Value: []byte(v)})
		}
	}

	return w.cl.ProduceSync(ctx, rec).FirstErr()
}

// NewWithKgo builds a franz-go client based Adapter. The returned cleanup should be called to close the client.
func NewWithKgo(cfg Config) (*Adapter, func(), error) {
	opts, err := kgoOptions(cfg)
	if err != nil {
		return nil, nil, err
	}

	cl, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: kafka client init: %w", berr.ErrExportFailed, err)
	}

	ad := New(kgoWriter{cl: cl})
	cleanup := func() { cl.Close() }

	return ad, cleanup, nil
}

func kgoOptions(cfg Config) ([]kgo.Opt, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("%w: kafka brokers required", berr.ErrExporterNotConfigured)
	}

	opts := []kgo.Opt{kgo.SeedBrokers(cfg.Brokers...)}
	if cfg.ClientID != "" {
		opts = append(opts, kgo.ClientID(cfg.ClientID))
	}

	if cfg.TLS != nil {
		opts = append(opts, kgo.DialTLSConfig(cfg.TLS))
	}

	acks, err := parseAcks(cfg.Acks)
	if err != nil {
		return nil, err
	}

	if acks != nil {
		opts = append(opts, kgo.RequiredAcks(*acks))
	}

	// idempotent writes require acks=all
	if !cfg.Idempotent {
		opts = append(opts, kgo.DisableIdempotentWrite())
	}

	if cfg.Compression != "" {
		codec, err := parseCompression(cfg.Compression)
		if err != nil {
			return nil, err
		}

		opts = append(opts, kgo.ProducerBatchCompression(codec))
	}

	if cfg.SASL != nil && cfg.SASL.Mechanism != "" {
		mech, err := saslMechanism(*cfg.SASL)
		if err != nil {
			return nil, err
		}

		opts = append(opts, kgo.SASL(mech))
	}

	return opts, nil
}

func parseAcks(s string) (*kgo.Acks, error) {
	var a kgo.Acks

	switch strings.ToLower(s) {
	case "":
		return nil, nil
	case "all":
		a = kgo.AllISRAcks()
	case "leader":
		a = kgo.LeaderAck()
	case "none":
		a = kgo.NoAck()
	default:
		return nil, fmt.Errorf("%w: unknown kafka acks %q", berr.ErrExporterNotConfigured, s)
	}

	return &a, nil
}

func parseCompression(s string) (kgo.CompressionCodec, error) {
	switch strings.ToLower(s) {
	case "none":
		return kgo.NoCompression(), nil
	case "gzip":
		return kgo.GzipCompression(), nil
	case "snappy":
		return kgo.SnappyCompression(), nil
	case "lz4":
		return kgo.Lz4Compression(), nil
	case "zstd":
		return kgo.ZstdCompression(), nil
	default:
		return kgo.CompressionCodec{}, fmt.Errorf("%w: unknown kafka compression %q", berr.ErrExporterNotConfigured, s)
	}
}

func saslMechanism(c SASLConfig) (sasl.Mechanism, error) {
	switch strings.ToUpper(c.Mechanism) {
	case "PLAIN":
		return plain.Auth{User: c.Username, Pass: c.Password}.AsMechanism(), nil
	case "SCRAM-SHA-256":
		return scram.Auth{User: c.Username, Pass: c.Password}.AsSha256Mechanism(), nil
	case "SCRAM-SHA-512":
		return scram.Auth{User: c.Username, Pass: c.Password}.AsSha512Mechanism(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported SASL mechanism %q", berr.ErrExporterNotConfigured, c.Mechanism)
	}
}
