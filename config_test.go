package glsurface

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const sampleConfig = `
width = 800
height = 600
device = "opengl"

[render]
client = false
server = true
antialias = false
error_checks = true

[resources]
inline_limit = 128
url_prefix = "/blobs"

[server]
addr = "127.0.0.1:9000"
`

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(sampleConfig))
	if err != nil {
		t.Fatalf("ParseConfig() = %v", err)
	}
	want := Config{
		Width:     800,
		Height:    600,
		Device:    "opengl",
		Render:    RenderConfig{Server: true, ErrorChecks: true},
		Resources: ResourceConfig{InlineLimit: 128, URLPrefix: "/blobs"},
		Server:    ServerConfig{Addr: "127.0.0.1:9000"},
	}
	if cfg != want {
		t.Errorf("ParseConfig() = %+v, want %+v", cfg, want)
	}
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("width = 100\n"))
	if err != nil {
		t.Fatalf("ParseConfig() = %v", err)
	}
	want := DefaultConfig()
	want.Width = 100
	if cfg != want {
		t.Errorf("ParseConfig() = %+v, want %+v", cfg, want)
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", "width = = 3"},
		{"unknown key", "colour = 3"},
		{"wrong type", `width = "wide"`},
		{"zero size", "width = 0"},
		{"no backend", "[render]\nclient = false\nserver = false"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.data))
			if !errors.Is(err, ErrConfiguration) {
				t.Errorf("ParseConfig() = %v, want ErrConfiguration", err)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glsurface.toml")
	if err := os.WriteFile(path, []byte(sampleConfig), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() = %v", err)
	}
	if cfg.Width != 800 || cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("LoadConfig() = %+v", cfg)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadConfig(missing) = %v, want ErrNotExist", err)
	}
}

func TestConfigEncodeRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Device = "software"
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode() = %v", err)
	}
	got, err := ParseConfig(data)
	if err != nil {
		t.Fatalf("ParseConfig(Encode()) = %v\n%s", err, data)
	}
	if got != cfg {
		t.Errorf("round trip = %+v, want %+v", got, cfg)
	}
}

func TestConfigOptions(t *testing.T) {
	cfg, err := ParseConfig([]byte(sampleConfig))
	if err != nil {
		t.Fatal(err)
	}
	o := defaultOptions()
	for _, opt := range cfg.Options() {
		opt(&o)
	}
	if o.width != 800 || o.height != 600 {
		t.Errorf("size = %dx%d, want 800x600", o.width, o.height)
	}
	if o.render != (RenderOptions{AllowServer: true}) {
		t.Errorf("render = %+v", o.render)
	}
	if o.device != "opengl" || o.inlineLimit != 128 {
		t.Errorf("device/inlineLimit = %q/%d", o.device, o.inlineLimit)
	}
	if !o.errorChecks {
		t.Error("errorChecks = false, want true")
	}
	if got := o.url("r1"); got != "/blobs/"+o.id+"/r1" {
		t.Errorf("url = %q", got)
	}
}
