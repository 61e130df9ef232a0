// Package config loads blockfall settings from a TOML file, a .env file and
// the environment, in that order of precedence from lowest to highest.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/plus3/blockfall/engine"
	"github.com/plus3/blockfall/input"
	"github.com/plus3/blockfall/leaderboard"
	"github.com/plus3/blockfall/loop"
)

// ErrInvalid is wrapped by every validation and parse failure.
var ErrInvalid = errors.New("invalid config")

// Duration is a time.Duration written as a string such as "75ms" in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config is the full set of settings.
type Config struct {
	Board       Board               `toml:"board"`
	Pacing      Pacing              `toml:"pacing"`
	Keys        map[string][]string `toml:"keys"`
	Leaderboard Leaderboard         `toml:"leaderboard"`
	Server      Server              `toml:"server"`
	Log         Log                 `toml:"log"`
}

type Board struct {
	Rows    int `toml:"rows"`
	Cols    int `toml:"cols"`
	Preview int `toml:"preview"`
	// Seed fixes the piece sequence; zero picks a random one.
	Seed uint64 `toml:"seed"`
}

type Pacing struct {
	Base        Duration `toml:"base"`
	Min         Duration `toml:"min"`
	Step        Duration `toml:"step"`
	Frame       Duration `toml:"frame"`
	RepeatDelay Duration `toml:"repeat_delay"`
	RepeatRate  Duration `toml:"repeat_rate"`
}

type Leaderboard struct {
	// URL is the service root, e.g. "http://localhost:8080/api". Empty
	// disables score submission.
	URL      string   `toml:"url"`
	Nickname string   `toml:"nickname"`
	Timeout  Duration `toml:"timeout"`
	Show     int      `toml:"show"`
}

type Server struct {
	Addr       string `toml:"addr"`
	Store      string `toml:"store"`
	SQLitePath string `toml:"sqlite_path"`
	RedisAddr  string `toml:"redis_addr"`
	RedisKey   string `toml:"redis_key"`
	MongoURI   string `toml:"mongo_uri"`
	MongoDB    string `toml:"mongo_db"`
}

type Log struct {
	Level string `toml:"level"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	descent := loop.DefaultDescentPolicy()
	repeat := input.DefaultRepeat()
	return Config{
		Board: Board{
			Rows:    engine.DefaultVisibleRows,
			Cols:    engine.DefaultCols,
			Preview: 3,
		},
		Pacing: Pacing{
			Base:        Duration{descent.Base},
			Min:         Duration{descent.Min},
			Step:        Duration{descent.Step},
			Frame:       Duration{time.Second / 60},
			RepeatDelay: Duration{repeat.Delay},
			RepeatRate:  Duration{repeat.Rate},
		},
		Leaderboard: Leaderboard{
			Nickname: "player",
			Timeout:  Duration{5 * time.Second},
			Show:     10,
		},
		Server: Server{
			Addr:       ":8080",
			Store:      leaderboard.BackendMemory,
			SQLitePath: "blockfall.db",
			RedisKey:   leaderboard.DefaultRedisKey,
			MongoDB:    leaderboard.DefaultMongoDB,
		},
		Log: Log{Level: "info"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/blockfall/config.toml or the platform
// equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "blockfall.toml"
	}
	return filepath.Join(dir, "blockfall", "config.toml")
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.decodeFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes TOML text over the defaults without consulting the
// environment.
func Parse(data string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := checkUndecoded(md); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) decodeFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
	}
	return checkUndecoded(md)
}

func checkUndecoded(md toml.MetaData) error {
	if keys := md.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		return fmt.Errorf("%w: unknown keys %s", ErrInvalid, strings.Join(names, ", "))
	}
	return nil
}

// LoadDotEnv loads variables from the given .env files (default ".env")
// without overriding ones already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides settings from environment variables read via getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("BLOCKFALL_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: BLOCKFALL_SEED=%q", ErrInvalid, v)
		}
		c.Board.Seed = seed
	}

	overrides := []struct {
		env string
		dst *string
	}{
		{"BLOCKFALL_NICKNAME", &c.Leaderboard.Nickname},
		{"BLOCKFALL_LEADERBOARD_URL", &c.Leaderboard.URL},
		{"BLOCKFALL_ADDR", &c.Server.Addr},
		{"BLOCKFALL_STORE", &c.Server.Store},
		{"REDIS_ADDR", &c.Server.RedisAddr},
		{"SQLITE_PATH", &c.Server.SQLitePath},
		{"MONGO_URI", &c.Server.MongoURI},
		{"LOG_LEVEL", &c.Log.Level},
	}
	for _, o := range overrides {
		if v := getenv(o.env); v != "" {
			*o.dst = v
		}
	}
	return nil
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	switch {
	case c.Board.Rows < 4 || c.Board.Cols < 4:
		return fmt.Errorf("%w: board %dx%d is smaller than 4x4", ErrInvalid, c.Board.Rows, c.Board.Cols)
	case c.Board.Preview < 1:
		return fmt.Errorf("%w: preview must be at least 1", ErrInvalid)
	case c.Pacing.Min.Duration <= 0:
		return fmt.Errorf("%w: pacing.min must be positive", ErrInvalid)
	case c.Pacing.Base.Duration < c.Pacing.Min.Duration:
		return fmt.Errorf("%w: pacing.base %s is below pacing.min %s", ErrInvalid, c.Pacing.Base, c.Pacing.Min)
	case c.Pacing.Step.Duration < 0:
		return fmt.Errorf("%w: pacing.step is negative", ErrInvalid)
	case c.Pacing.Frame.Duration <= 0:
		return fmt.Errorf("%w: pacing.frame must be positive", ErrInvalid)
	case c.Pacing.RepeatDelay.Duration < 0 || c.Pacing.RepeatRate.Duration <= 0:
		return fmt.Errorf("%w: key repeat needs delay >= 0 and rate > 0", ErrInvalid)
	case c.Leaderboard.Timeout.Duration <= 0:
		return fmt.Errorf("%w: leaderboard.timeout must be positive", ErrInvalid)
	case c.Leaderboard.Show < 1 || c.Leaderboard.Show > leaderboard.MaxLimit:
		return fmt.Errorf("%w: leaderboard.show must be in 1..%d", ErrInvalid, leaderboard.MaxLimit)
	}

	if c.Leaderboard.URL != "" {
		if err := (leaderboard.Record{Nickname: c.Leaderboard.Nickname}).Validate(); err != nil {
			return fmt.Errorf("%w: nickname: %v", ErrInvalid, err)
		}
	}

	switch c.Server.Store {
	case leaderboard.BackendMemory, leaderboard.BackendSQLite, leaderboard.BackendRedis, leaderboard.BackendMongo:
	default:
		return fmt.Errorf("%w: unknown store %q", ErrInvalid, c.Server.Store)
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalid, c.Log.Level)
	}
	if _, err := c.Keymap(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// GameOptions translates the board settings for engine.New.
func (c Config) GameOptions() []engine.Option {
	opts := []engine.Option{
		engine.WithSize(c.Board.Rows, c.Board.Cols),
		engine.WithPreview(c.Board.Preview),
	}
	if c.Board.Seed != 0 {
		opts = append(opts, engine.WithSeed(c.Board.Seed))
	}
	return opts
}

// Descent returns the pacing policy for loop.GravitySystem.
func (c Config) Descent() loop.DescentPolicy {
	return loop.DescentPolicy{
		Base: c.Pacing.Base.Duration,
		Min:  c.Pacing.Min.Duration,
		Step: c.Pacing.Step.Duration,
	}
}

// Repeat returns the held-key repeat settings.
func (c Config) Repeat() input.Repeat {
	return input.Repeat{Delay: c.Pacing.RepeatDelay.Duration, Rate: c.Pacing.RepeatRate.Duration}
}

// Keymap builds the key bindings, defaults overridden by the [keys] table.
func (c Config) Keymap() (*input.Keymap, error) {
	return input.NewKeymap(c.Keys)
}

// Store returns the backend selection for leaderboard.Open.
func (c Config) Store() leaderboard.StoreConfig {
	return leaderboard.StoreConfig{
		Backend:    c.Server.Store,
		SQLitePath: c.Server.SQLitePath,
		RedisAddr:  c.Server.RedisAddr,
		RedisKey:   c.Server.RedisKey,
		MongoURI:   c.Server.MongoURI,
		MongoDB:    c.Server.MongoDB,
	}
}

// LogLevel parses the configured level. Validate has already checked it.
func (c Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
