package adapters_test

import (
	"errors"
	"testing"

	"github.com/corewire-labs/evreactor/adapters"
	"github.com/corewire-labs/evreactor/api"
)

func TestMiddlewareHandlerChainOrder(t *testing.T) {
	var order []string
	base := api.HandlerFunc(func(*api.Event) error {
		order = append(order, "base")
		return nil
	})

	mark := func(name string) func(api.Handler) api.Handler {
		return func(next api.Handler) api.Handler {
			return api.HandlerFunc(func(ev *api.Event) error {
				order = append(order, name)
				return next.Dispatch(ev)
			})
		}
	}

	mh := adapters.NewMiddlewareHandler(base).Use(mark("outer")).Use(mark("inner"))
	if err := mh.Dispatch(&api.Event{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"outer", "inner", "base"}
	if len(order) != len(want) {
		t.Fatalf("expected order %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, order)
		}
	}
}

func TestRecoveryMiddlewareSwallowsPanic(t *testing.T) {
	h := adapters.RecoveryMiddleware(api.HandlerFunc(func(*api.Event) error {
		panic("boom")
	}))
	if err := h.Dispatch(&api.Event{}); err != nil {
		t.Fatalf("expected recovered panic to surface as nil error, got %v", err)
	}
}

func TestLoggingMiddlewarePassesThroughError(t *testing.T) {
	wantErr := errors.New("dispatch failed")
	h := adapters.LoggingMiddleware(api.HandlerFunc(func(*api.Event) error {
		return wantErr
	}))
	if err := h.Dispatch(&api.Event{}); err != wantErr {
		t.Fatalf("expected error to pass through unchanged, got %v", err)
	}
}

func TestMetricsMiddlewareCounts(t *testing.T) {
	ctrl := adapters.NewControlAdapter()
	base := api.HandlerFunc(func(*api.Event) error { return nil })
	h := adapters.MetricsMiddleware(ctrl)(base)

	ev := &api.Event{Type: api.EventReactorInit}
	for i := 0; i < 3; i++ {
		if err := h.Dispatch(ev); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	state := ctrl.DumpState()
	if state["handler.dispatched"] != int64(3) {
		t.Fatalf("expected handler.dispatched=3, got %v", state["handler.dispatched"])
	}
	if state["handler.REACTOR_INIT"] != int64(3) {
		t.Fatalf("expected handler.REACTOR_INIT=3, got %v", state["handler.REACTOR_INIT"])
	}
}
