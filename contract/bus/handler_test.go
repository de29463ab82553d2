package bus_test

import (
	"context"
	"errors"
	"testing"

	cbus "github.com/next-trace/scg-component-bus/contract/bus"
	berr "github.com/next-trace/scg-component-bus/contract/errors"
)

type note struct{ Text string }

type stringer interface{ String() string }

func TestEnvelope_MessageAs(t *testing.T) {
	env := cbus.NewEnvelope(note{Text: "hi"})

	if env.Message() != (note{Text: "hi"}) {
		t.Fatalf("message=%v", env.Message())
	}

	n, err := cbus.MessageAs[note](env)
	if err != nil || n.Text != "hi" {
		t.Fatalf("as note: %v %+v", err, n)
	}

	_, err = cbus.MessageAs[int](env)
	if !errors.Is(err, berr.ErrHandlerTypeMismatch) {
		t.Fatalf("want ErrHandlerTypeMismatch, got %v", err)
	}

	s, err := cbus.MessageAs[stringer](cbus.NewEnvelope(nil))
	if err != nil || s != nil {
		t.Fatalf("nil message: %v %v", err, s)
	}
}

func TestHandler_Shapes(t *testing.T) {
	var got []string

	tests := []struct {
		h     *cbus.Handler
		shape cbus.Shape
	}{
		{cbus.NewHandler(func(cbus.Envelope) error { got = append(got, "env"); return nil }), cbus.ShapeEnvelope},
		{cbus.NewAsyncHandler(func(context.Context, cbus.Envelope) error {
			got = append(got, "env_async")
			return nil
		}), cbus.ShapeEnvelopeAsync},
		{cbus.NewReceiver[note](func(note) error { got = append(got, "msg"); return nil }).Handler(), cbus.ShapeMessage},
		{cbus.NewAsyncReceiver[note](func(context.Context, note) error {
			got = append(got, "msg_async")
			return nil
		}).Handler(), cbus.ShapeMessageAsync},
	}

	for _, tc := range tests {
		if tc.h.Shape() != tc.shape {
			t.Fatalf("shape=%s want %s", tc.h.Shape(), tc.shape)
		}

		if tc.shape.Async() != (tc.shape == cbus.ShapeEnvelopeAsync || tc.shape == cbus.ShapeMessageAsync) {
			t.Fatalf("async flag wrong for %s", tc.shape)
		}

		if err := tc.h.Invoke(t.Context(), cbus.NewEnvelope(note{})); err != nil {
			t.Fatalf("invoke %s: %v", tc.shape, err)
		}
	}

	if len(got) != 4 {
		t.Fatalf("got=%v", got)
	}
}

func TestReceiver_TypeMismatch(t *testing.T) {
	called := false
	r := cbus.NewReceiver[note](func(note) error { called = true; return nil })

	err := r.Handler().Invoke(t.Context(), cbus.NewEnvelope(42))
	if !errors.Is(err, berr.ErrHandlerTypeMismatch) || called {
		t.Fatalf("err=%v called=%v", err, called)
	}
}

func TestReceiver_StableIdentity(t *testing.T) {
	r := cbus.NewReceiver[note](func(note) error { return nil })
	if r.Handler() != r.Handler() {
		t.Fatalf("receiver handler must be stable")
	}

	other := cbus.NewReceiver[note](func(note) error { return nil })
	if other.Handler() == r.Handler() {
		t.Fatalf("distinct receivers must not share identity")
	}

	var nilR *cbus.Receiver[note]
	if nilR.Handler() != nil {
		t.Fatalf("nil receiver must yield nil handler")
	}
}

func TestAsyncHandlerReceivesContext(t *testing.T) {
	type key struct{}

	ctx := context.WithValue(t.Context(), key{}, "v")

	h := cbus.NewAsyncHandler(func(ctx context.Context, _ cbus.Envelope) error {
		if ctx.Value(key{}) != "v" {
			return errors.New("context not forwarded")
		}

		return nil
	})

	if err := h.Invoke(ctx, cbus.NewEnvelope(nil)); err != nil {
		t.Fatalf("invoke: %v", err)
	}
}

func TestShapeString(t *testing.T) {
	if cbus.Shape(0).String() != "unknown" || cbus.ShapeMessage.String() != "message" {
		t.Fatalf("unexpected shape names")
	}
}
