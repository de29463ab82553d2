package nats_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/next-trace/scg-component-bus/adapters/nats"
	cbus "github.com/next-trace/scg-component-bus/contract/bus"
	berr "github.com/next-trace/scg-component-bus/contract/errors"
)

type call struct {
	subject string
	data    []byte
	headers map[string]string
}

type fakeClient struct {
	calls []call
	err   error
}

func (f *fakeClient) Publish(subject string, data []byte, headers map[string]string) error {
	f.calls = append(f.calls, call{subject, data, headers})

	return f.err
}

type note struct{ ID string }

type topical struct{ T string }

func (t topical) Topic() string { return t.T }

func TestNATS_Export(t *testing.T) {
	fc := &fakeClient{}
	ad := nats.New(fc)

	opts := cbus.ExportOptions{Topic: "notes", Key: "k", Headers: map[string]string{"h1": "v1"}}
	if err := ad.Export(t.Context(), note{ID: "1"}, opts); err != nil {
		t.Fatalf("export: %v", err)
	}

	if len(fc.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(fc.calls))
	}

	c := fc.calls[0]
	if c.subject != "notes" {
		t.Fatalf("subject mismatch: %s", c.subject)
	}

	var got note
	if err := json.Unmarshal(c.data, &got); err != nil || got.ID != "1" {
		t.Fatalf("body: %v %+v", err, got)
	}

	if c.headers["h1"] != "v1" || c.headers["key"] != "k" {
		t.Fatalf("headers missing or wrong: %+v", c.headers)
	}

	// caller headers must not be mutated
	if _, ok := opts.Headers["key"]; ok {
		t.Fatalf("caller headers mutated")
	}
}

func TestNATS_SubjectFallbacks(t *testing.T) {
	fc := &fakeClient{}
	ad := nats.New(fc)

	_ = ad.Export(t.Context(), topical{T: "custom.topic"}, cbus.ExportOptions{})
	_ = ad.Export(t.Context(), &note{}, cbus.ExportOptions{})

	if fc.calls[0].subject != "custom.topic" {
		t.Fatalf("topical subject=%s", fc.calls[0].subject)
	}

	if fc.calls[1].subject != "bus.note" {
		t.Fatalf("default subject=%s", fc.calls[1].subject)
	}
}

func TestNATS_NilClientError(t *testing.T) {
	ad := nats.New(nil)

	err := ad.Export(t.Context(), note{}, cbus.ExportOptions{})
	if !errors.Is(err, berr.ErrExporterNotConfigured) {
		t.Fatalf("want ErrExporterNotConfigured, got %v", err)
	}
}

func TestNATS_ErrorWrapping_And_ContextCancel(t *testing.T) {
	boom := errors.New("boom")
	ad := nats.New(&fakeClient{err: boom})

	err := ad.Export(t.Context(), note{}, cbus.ExportOptions{})
	if !errors.Is(err, berr.ErrExportFailed) || !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}

	// client returns context.Canceled -> propagate as-is
	ad2 := nats.New(&fakeClient{err: context.Canceled})

	err = ad2.Export(t.Context(), note{}, cbus.ExportOptions{})
	if !errors.Is(err, context.Canceled) || errors.Is(err, berr.ErrExportFailed) {
		t.Fatalf("want bare context.Canceled, got %v", err)
	}

	// unserializable payload
	err = nats.New(&fakeClient{}).Export(t.Context(), make(chan int), cbus.ExportOptions{})
	if !errors.Is(err, berr.ErrSerializationFailed) {
		t.Fatalf("want ErrSerializationFailed, got %v", err)
	}
}
