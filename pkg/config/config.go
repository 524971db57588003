// Package config loads the a9s TOML configuration.
//
// The file lives at $XDG_CONFIG_HOME/a9s/config.toml (or
// ~/.config/a9s/config.toml). Every field has a default, so a missing file
// is not an error:
//
//	[image]
//	width = 1920
//	height = 1080
//	unit = "pixel"
//
//	[store]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
//	read_timeout = "10s"
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/a9s/pkg/errors"
)

const appName = "a9s"

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendNone   = "none"
)

// Drawing modes.
const (
	ModeDrag  = "drag"
	ModeClick = "click"
)

// Config is the full configuration file.
type Config struct {
	Image  Image  `toml:"image"`
	Store  Store  `toml:"store"`
	Server Server `toml:"server"`
	Style  Style  `toml:"style"`
	Draw   Draw   `toml:"draw"`
	Cache  Cache  `toml:"cache"`
}

// Image is the default image context for selector serialization.
type Image struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
	Unit   string  `toml:"unit"`
}

// Store selects and configures the annotation store.
type Store struct {
	Backend         string   `toml:"backend"`
	Path            string   `toml:"path"`
	RedisAddr       string   `toml:"redis_addr"`
	RedisPassword   string   `toml:"redis_password"`
	RedisDB         int      `toml:"redis_db"`
	MongoURI        string   `toml:"mongo_uri"`
	MongoDatabase   string   `toml:"mongo_database"`
	MongoCollection string   `toml:"mongo_collection"`
	ConnectTimeout  Duration `toml:"connect_timeout"`
	ConnectRetries  int      `toml:"connect_retries"`
}

// Server configures the HTTP API.
type Server struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	RenderTTL    Duration `toml:"render_ttl"`
}

// Style is the default drawing style.
type Style struct {
	Fill         string  `toml:"fill"`
	FillOpacity  float64 `toml:"fill_opacity"`
	SelectedFill string  `toml:"selected_fill"`
}

// Draw configures the interactive drawing defaults.
type Draw struct {
	Tool         string  `toml:"tool"`
	Mode         string  `toml:"mode"`
	HandleRadius float64 `toml:"handle_radius"`
}

// Cache configures the render cache.
type Cache struct {
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"`
}

// Duration is a time.Duration written as a Go duration string ("1.5s").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Image: Image{Unit: "pixel"},
		Store: Store{
			Backend:         BackendMemory,
			RedisAddr:       "localhost:6379",
			MongoURI:        "mongodb://localhost:27017",
			MongoDatabase:   appName,
			MongoCollection: "annotations",
			ConnectTimeout:  Duration{5 * time.Second},
			ConnectRetries:  3,
		},
		Server: Server{
			Addr:         ":8080",
			ReadTimeout:  Duration{10 * time.Second},
			WriteTimeout: Duration{30 * time.Second},
			RenderTTL:    Duration{time.Hour},
		},
		Style: Style{
			Fill:         "#1a73e8",
			FillOpacity:  0.25,
			SelectedFill: "#f9ab00",
		},
		Draw: Draw{
			Tool:         "rectangle",
			Mode:         ModeDrag,
			HandleRadius: 6,
		},
		Cache: Cache{Backend: BackendFile},
	}
}

// Load reads path on top of the defaults. A missing file yields the
// defaults. An empty path means [Path].
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "unknown key %s in %s", undecoded[0], path)
	}
	return cfg, cfg.Validate()
}

// Parse decodes TOML text on top of the defaults.
func Parse(data string) (Config, error) {
	cfg := Default()
	if _, err := toml.Decode(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	return cfg, cfg.Validate()
}

// Encode renders cfg as TOML.
func Encode(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode config")
	}
	return buf.Bytes(), nil
}

// Validate checks enumerations and ranges.
func (c Config) Validate() error {
	if c.Image.Width < 0 || c.Image.Height < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "image size must not be negative")
	}
	if !slices.Contains([]string{"", "pixel", "percent"}, c.Image.Unit) {
		return errors.New(errors.ErrCodeInvalidConfig, "image.unit must be pixel or percent, got %q", c.Image.Unit)
	}
	if !slices.Contains([]string{BackendMemory, BackendFile, BackendRedis, BackendMongo}, c.Store.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q", c.Store.Backend)
	}
	if c.Store.ConnectRetries < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "store.connect_retries must not be negative")
	}
	for key, v := range map[string]string{"style.fill": c.Style.Fill, "style.selected_fill": c.Style.SelectedFill} {
		if v == "" {
			continue
		}
		if _, err := colorful.Hex(v); err != nil {
			return errors.New(errors.ErrCodeInvalidConfig, "%s must be a #rrggbb color, got %q", key, v)
		}
	}
	if c.Style.FillOpacity < 0 || c.Style.FillOpacity > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "style.fill_opacity must be within [0, 1]")
	}
	if !slices.Contains([]string{ModeDrag, ModeClick}, c.Draw.Mode) {
		return errors.New(errors.ErrCodeInvalidConfig, "draw.mode must be drag or click, got %q", c.Draw.Mode)
	}
	if c.Draw.HandleRadius <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "draw.handle_radius must be positive")
	}
	if !slices.Contains([]string{BackendNone, BackendFile, BackendRedis}, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	return nil
}

// =============================================================================
// Paths
// =============================================================================

// Path returns the config file location using the XDG standard.
func Path() (string, error) {
	dir, err := xdgDir("XDG_CONFIG_HOME", ".config")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// CacheDir returns the cache directory (~/.cache/a9s/).
func CacheDir() (string, error) {
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

// DataDir returns the data directory used by the file store
// (~/.local/share/a9s/).
func DataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func xdgDir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, appName), nil
}
