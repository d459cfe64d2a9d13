package glsurface

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is the file form of the surface options, for servers configured
// from TOML:
//
//	width = 640
//	height = 480
//	device = "software"
//
//	[render]
//	client = true
//	server = true
//	antialias = true
//	error_checks = false
//
//	[resources]
//	inline_limit = 4096
//	url_prefix = "/resources"
//
//	[server]
//	addr = ":8080"
type Config struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Device string `toml:"device,omitempty"`

	Render    RenderConfig   `toml:"render"`
	Resources ResourceConfig `toml:"resources"`
	Server    ServerConfig   `toml:"server"`
}

// RenderConfig is the [render] table.
type RenderConfig struct {
	Client    bool `toml:"client"`
	Server    bool `toml:"server"`
	AntiAlias bool `toml:"antialias"`

	// ErrorChecks enables client WebGL error checks for debugging.
	ErrorChecks bool `toml:"error_checks,omitempty"`
}

// ResourceConfig is the [resources] table.
type ResourceConfig struct {
	// InlineLimit is the largest array, in elements, written into the
	// script text. Longer uploads become binary resources.
	InlineLimit int `toml:"inline_limit"`

	// URLPrefix is where the host serves binary resources.
	URLPrefix string `toml:"url_prefix"`
}

// ServerConfig is the [server] table read by hosts.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// DefaultConfig returns the configuration a missing key falls back to.
func DefaultConfig() Config {
	return Config{
		Width:  640,
		Height: 480,
		Render: RenderConfig{Client: true, Server: true, AntiAlias: true},
		Resources: ResourceConfig{
			InlineLimit: 4096,
			URLPrefix:   "/resources",
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// ParseConfig decodes TOML over DefaultConfig. Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return Config{}, fmt.Errorf("%w: line %d column %d: %s", ErrConfiguration, row, col, derr.Error())
		}
		return Config{}, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a TOML file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("glsurface: load config: %w", err)
	}
	return ParseConfig(data)
}

// Validate reports the errors New would report for these settings.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: size %dx%d", ErrConfiguration, c.Width, c.Height)
	case !c.Render.Client && !c.Render.Server:
		return fmt.Errorf("%w: render options allow no backend", ErrConfiguration)
	}
	return nil
}

// Encode returns the TOML form of c.
func (c Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}

// Options converts the configuration to surface options.
func (c Config) Options() []Option {
	opts := []Option{
		WithSize(c.Width, c.Height),
		WithRenderOptions(RenderOptions{
			AllowClient: c.Render.Client,
			AllowServer: c.Render.Server,
			AntiAlias:   c.Render.AntiAlias,
		}),
		WithInlineLimit(c.Resources.InlineLimit),
		WithClientErrorChecks(c.Render.ErrorChecks),
	}
	if c.Device != "" {
		opts = append(opts, WithDevice(c.Device))
	}
	if c.Resources.URLPrefix != "" {
		opts = append(opts, WithResourcePrefix(c.Resources.URLPrefix))
	}
	return opts
}
