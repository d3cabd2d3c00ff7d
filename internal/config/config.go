package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. FANTASY_SERVER_WEBSOCKET_ADDRESS.
const EnvPrefix = "FANTASY"

// Catalog sources.
const (
	CatalogBuiltin  = "builtin"
	CatalogFile     = "file"
	CatalogPostgres = "postgres"
)

// Config is the complete server configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Match    MatchConfig    `mapstructure:"match"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Database DatabaseConfig `mapstructure:"database"`
}

type ServerConfig struct {
	WebSocket WebSocketConfig `mapstructure:"websocket"`
	GRPC      GRPCConfig      `mapstructure:"grpc"`
	// ShutdownTimeout bounds graceful shutdown of the listeners.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type WebSocketConfig struct {
	Address      string        `mapstructure:"address"`
	Path         string        `mapstructure:"path"`
	ReadLimit    int64         `mapstructure:"read_limit"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// TickInterval is how often open connections poll their match's turn timer.
	TickInterval time.Duration `mapstructure:"tick_interval"`
}

type GRPCConfig struct {
	Address              string `mapstructure:"address"`
	MaxConcurrentStreams int    `mapstructure:"max_concurrent_streams"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MatchConfig struct {
	TurnTimeLimit time.Duration `mapstructure:"turn_time_limit"`
	DeckSize      int           `mapstructure:"deck_size"`
	Difficulty    string        `mapstructure:"difficulty"`
	// Seed fixes deck shuffles for every match; 0 picks a fresh seed per match.
	Seed uint64 `mapstructure:"seed"`
}

type CatalogConfig struct {
	Source string `mapstructure:"source"`
	Path   string `mapstructure:"path"`
}

type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.websocket.address", ":8080")
	v.SetDefault("server.websocket.path", "/ws")
	v.SetDefault("server.websocket.read_limit", 64*1024)
	v.SetDefault("server.websocket.write_timeout", 10*time.Second)
	v.SetDefault("server.websocket.tick_interval", time.Second)
	v.SetDefault("server.grpc.address", ":9090")
	v.SetDefault("server.grpc.max_concurrent_streams", 100)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("match.turn_time_limit", 60*time.Second)
	v.SetDefault("match.deck_size", 20)
	v.SetDefault("match.difficulty", "easy")
	v.SetDefault("match.seed", 0)

	v.SetDefault("catalog.source", CatalogBuiltin)
	v.SetDefault("catalog.path", "")

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.max_conn_lifetime", time.Hour)
	v.SetDefault("database.connect_timeout", 5*time.Second)
}

// Load reads the YAML file at path, applies defaults and FANTASY_* environment
// overrides, and validates the result. A missing file leaves the defaults in place.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Validate checks values that defaults cannot repair.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q must be debug, info, warn or error", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format %q must be json or console", c.Logging.Format)
	}

	if c.Match.TurnTimeLimit < time.Second {
		return fmt.Errorf("match.turn_time_limit must be at least 1s, got %s", c.Match.TurnTimeLimit)
	}
	if c.Match.DeckSize <= 0 {
		return fmt.Errorf("match.deck_size must be positive, got %d", c.Match.DeckSize)
	}
	if c.Server.WebSocket.TickInterval <= 0 {
		return errors.New("server.websocket.tick_interval must be positive")
	}

	switch c.Catalog.Source {
	case CatalogBuiltin:
	case CatalogFile:
		if c.Catalog.Path == "" {
			return errors.New("catalog.path is required when catalog.source is file")
		}
	case CatalogPostgres:
		if c.Database.URL == "" {
			return errors.New("database.url is required when catalog.source is postgres")
		}
	default:
		return fmt.Errorf("catalog.source %q must be builtin, file or postgres", c.Catalog.Source)
	}
	return nil
}
