package recording

import (
	"strings"
	"testing"
)

type mockBackend struct {
	name string
	cfg  BackendConfig
}

func (b *mockBackend) Name() string                        { return b.name }
func (b *mockBackend) Capability() Capability              { return CapabilityAvailable }
func (b *mockBackend) Submit(*Submission) (*Output, error) { return &Output{}, nil }
func (b *mockBackend) Resolve(o Object) (string, error)    { return o.String(), nil }
func (b *mockBackend) Release() error                      { return nil }

func TestRegisterAndNewBackend(t *testing.T) {
	Register("mock-a", func(cfg BackendConfig) (Backend, error) {
		return &mockBackend{name: "mock-a", cfg: cfg}, nil
	})
	t.Cleanup(func() { Unregister("mock-a") })

	b, err := NewBackend("mock-a", BackendConfig{SurfaceID: "s1", Width: 10, Height: 20})
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	mb := b.(*mockBackend)
	if mb.cfg.SurfaceID != "s1" || mb.cfg.Width != 10 {
		t.Errorf("factory received %+v", mb.cfg)
	}
	if !IsRegistered("mock-a") {
		t.Error("IsRegistered(mock-a) = false")
	}
	found := false
	for _, n := range Backends() {
		found = found || n == "mock-a"
	}
	if !found {
		t.Errorf("Backends() = %v, missing mock-a", Backends())
	}
}

func TestNewBackendUnknown(t *testing.T) {
	_, err := NewBackend("no-such-backend", BackendConfig{})
	if err == nil || !strings.Contains(err.Error(), "forgotten import") {
		t.Errorf("err = %v, want forgotten import hint", err)
	}
}

func TestRegisterPanics(t *testing.T) {
	t.Run("nil factory", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("no panic for nil factory")
			}
		}()
		Register("mock-nil", nil)
	})
	t.Run("duplicate", func(t *testing.T) {
		f := func(BackendConfig) (Backend, error) { return &mockBackend{}, nil }
		Register("mock-dup", f)
		t.Cleanup(func() { Unregister("mock-dup") })
		defer func() {
			if recover() == nil {
				t.Error("no panic for duplicate registration")
			}
		}()
		Register("mock-dup", f)
	})
}

func TestBackendConfigURL(t *testing.T) {
	cfg := BackendConfig{ResourceURL: func(h string) string { return "/res/" + h }}
	if got := cfg.URL(ResourceRef{Handle: "r3"}); got != "/res/r3" {
		t.Errorf("URL(handle) = %q", got)
	}
	if got := cfg.URL(ResourceRef{Handle: "r3", URL: "http://x/y"}); got != "http://x/y" {
		t.Errorf("URL(external) = %q", got)
	}
}
