package module

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/dshills/flowline/internal/event"
)

func echoFunc(ctx context.Context, req *event.Request) (event.Response, error) {
	return event.SuccessWithPayload(req.Payload), nil
}

func TestModule_Handle(t *testing.T) {
	m := New("net").
		HandleFunc("net.connect", echoFunc).
		HandleFunc("net.close", echoFunc)

	want := []string{"net.close", "net.connect"}
	if got := m.Events(); !reflect.DeepEqual(got, want) {
		t.Errorf("Events() = %v, want %v", got, want)
	}
}

func TestModule_RegistrationErrors(t *testing.T) {
	tests := []struct {
		name    string
		build   func() *Module
		wantErr error
	}{
		{
			name: "duplicate key in module",
			build: func() *Module {
				return New("m").HandleFunc("ping", echoFunc).HandleFunc("ping", echoFunc)
			},
			wantErr: ErrDuplicateEvent,
		},
		{
			name: "empty event key",
			build: func() *Module {
				return New("m").HandleFunc("", echoFunc)
			},
			wantErr: ErrEmptyEventKey,
		},
		{
			name: "nil factory",
			build: func() *Module {
				return New("m").Handle("ping", nil)
			},
			wantErr: ErrNilFactory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.build())
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Build() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuild_CrossModuleDuplicate(t *testing.T) {
	a := New("a").HandleFunc("ping", echoFunc)
	b := New("b").HandleFunc("ping", echoFunc)

	_, err := Build(a, b)
	if !errors.Is(err, ErrDuplicateEvent) {
		t.Errorf("Build() error = %v, want ErrDuplicateEvent", err)
	}
}

func TestRegistry_Lookup(t *testing.T) {
	net := New("net").HandleFunc("net.connect", echoFunc)
	fs := New("fs").HandleFunc("fs.read", echoFunc)

	reg, err := Build(net, fs, nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if reg.Count() != 2 {
		t.Errorf("Count() = %d, want 2", reg.Count())
	}
	if !reg.Has("net.connect") {
		t.Error("Has(net.connect) = false, want true")
	}
	if reg.Has("net.missing") {
		t.Error("Has(net.missing) = true, want false")
	}

	if _, ok := reg.Get("fs.read"); !ok {
		t.Error("Get(fs.read) not found")
	}
	if _, ok := reg.Get("fs.write"); ok {
		t.Error("Get(fs.write) unexpectedly found")
	}

	if owner, _ := reg.Owner("fs.read"); owner != "fs" {
		t.Errorf("Owner(fs.read) = %q, want %q", owner, "fs")
	}

	want := []string{"fs.read", "net.connect"}
	if got := reg.Events(); !reflect.DeepEqual(got, want) {
		t.Errorf("Events() = %v, want %v", got, want)
	}
}

func TestRegistry_TwoPhaseInvocation(t *testing.T) {
	var factoryID string
	factory := FactoryFunc(func(ctx context.Context, id string) (Handler, error) {
		factoryID = id
		return HandlerFunc(echoFunc), nil
	})

	reg, err := Build(New("m").Handle("ping", factory))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	f, ok := reg.Get("ping")
	if !ok {
		t.Fatal("Get(ping) not found")
	}

	req := event.NewRequest("ping").WithID("req-1").WithPayload(event.Payload(`{"n":1}`))
	h, err := f.NewHandler(context.Background(), req.ID)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	if factoryID != "req-1" {
		t.Errorf("factory saw id %q, want %q", factoryID, "req-1")
	}

	resp, err := h.Call(context.Background(), req)
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if !resp.IsOK() || resp.Payload.Get("n").Int() != 1 {
		t.Errorf("Call() = %+v, want echoed payload", resp)
	}
}

func TestStaticFactory(t *testing.T) {
	h := HandlerFunc(echoFunc)
	f := StaticFactory(h)

	got1, err := f.NewHandler(context.Background(), "a")
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	got2, err := f.NewHandler(context.Background(), "b")
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	if reflect.ValueOf(got1).Pointer() != reflect.ValueOf(got2).Pointer() {
		t.Error("StaticFactory should return the same handler every time")
	}
}
