package kafka_test

import (
	"errors"
	"testing"

	"github.com/next-trace/scg-component-bus/adapters/kafka"
	berr "github.com/next-trace/scg-component-bus/contract/errors"
)

func TestNewWithKgo_ConfigValidation(t *testing.T) {
	cases := []struct {
		name string
		cfg  kafka.Config
	}{
		{"no brokers", kafka.Config{}},
		{"bad acks", kafka.Config{Brokers: []string{"127.0.0.1:1"}, Acks: "some"}},
		{"bad compression", kafka.Config{Brokers: []string{"127.0.0.1:1"}, Compression: "brotli"}},
		{"bad sasl", kafka.Config{Brokers: []string{"127.0.0.1:1"}, SASL: &kafka.SASLConfig{Mechanism: "GSSAPI"}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := kafka.NewWithKgo(tc.cfg)
			if !errors.Is(err, berr.ErrExporterNotConfigured) {
				t.Fatalf("want ErrExporterNotConfigured, got %v", err)
			}
		})
	}
}

func TestNewWithKgo_BuildsLazily(t *testing.T) {
	// franz-go does not dial on construction
	ad, cleanup, err := kafka.NewWithKgo(kafka.Config{
		Brokers:     []string{"127.0.0.1:1"},
		ClientID:    "componentbus-test",
		Acks:        "all",
		Idempotent:  true,
		Compression: "zstd",
		SASL:        &kafka.SASLConfig{Mechanism: "SCRAM-SHA-256", Username: "u", Password: "p"},
	})
	if err != nil {
		t.Fatalf("constructor: %v", err)
	}

	defer cleanup()

	if ad.Writer == nil {
		t.Fatalf("writer not set")
	}
}
