package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"FinSeason/internal/domain/models"
	"FinSeason/pkg/util"
)

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"required"`
	Log         struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
		Format string `yaml:"format" default:"json" validate:"oneof=json console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`
	Server struct {
		Port            int           `yaml:"port" default:"8080" validate:"gte=1,lte=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		RateLimit       struct {
			Enabled bool    `yaml:"enabled" default:"true"`
			RPS     float64 `yaml:"rps" default:"5"`
			Burst   int     `yaml:"burst" default:"10"`
		} `yaml:"rate_limit"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Backend struct {
		// Type selects the price/dividend provider: eod (HTTP API) or clickhouse.
		Type string `yaml:"type" default:"eod" validate:"oneof=eod clickhouse"`
	} `yaml:"backend"`
	EOD struct {
		BaseURL        string        `yaml:"base_url" default:"https://eodhd.com/api"`
		APIKey         string        `yaml:"api_key"`
		Timeout        time.Duration `yaml:"timeout" default:"15s"`
		RateLimit      float64       `yaml:"rate_limit" default:"5"`
		Burst          int           `yaml:"burst" default:"5"`
		BreakerFails   uint32        `yaml:"breaker_failures" default:"5"`
		BreakerTimeout time.Duration `yaml:"breaker_timeout" default:"30s"`
	} `yaml:"eod"`
	ClickHouse struct {
		Host             string        `yaml:"host" default:"localhost"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"finseason"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout     time.Duration `yaml:"write_timeout" default:"30s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"60s"`
		// Backfill always inserts asynchronously; these govern the server.
		AsyncInsert        bool `yaml:"async_insert"`
		WaitForAsyncInsert bool `yaml:"wait_for_async_insert" default:"true"`
	} `yaml:"clickhouse"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"addr" default:"localhost:6379"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		PoolSize int    `yaml:"pool_size" default:"10"`
		// Queue carries warm requests over a Redis list when Kafka is not deployed.
		Queue struct {
			Enabled    bool          `yaml:"enabled"`
			Workers    int           `yaml:"workers" default:"2" validate:"gte=1"`
			RetryLimit int           `yaml:"retry_limit" default:"3"`
			RetryDelay time.Duration `yaml:"retry_delay" default:"30s"`
		} `yaml:"queue"`
	} `yaml:"redis"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers" default:"[\"localhost:9092\"]"`
		Topic        string   `yaml:"topic" default:"seasonal.snapshots"`
		RequiredAcks int      `yaml:"required_acks" default:"1"`
		Compression  string   `yaml:"compression" default:"snappy" validate:"oneof=none gzip snappy lz4 zstd"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			Linger       time.Duration `yaml:"linger" default:"50ms"`
			BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
			ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		Consumer struct {
			Enabled    bool          `yaml:"enabled"`
			Topic      string        `yaml:"topic" default:"seasonal.warm-requests"`
			GroupID    string        `yaml:"group_id" default:"finseason-warmer"`
			Workers    int           `yaml:"workers" default:"2" validate:"gte=1"`
			RetryMax   int           `yaml:"retry_max" default:"3"`
			BackoffMin time.Duration `yaml:"backoff_min" default:"200ms"`
			BackoffMax time.Duration `yaml:"backoff_max" default:"5s"`
			MinBytes   int           `yaml:"min_bytes" default:"1"`
			MaxBytes   int           `yaml:"max_bytes" default:"1048576"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	Calendar struct {
		StartYear           int                        `yaml:"start_year" default:"1995" validate:"gte=1900"`
		EndYear             int                        `yaml:"end_year" default:"2027" validate:"gtefield=StartYear"`
		RateDecisionDates   []string                   `yaml:"rate_decision_dates"`
		CustomEvents        []models.CustomEventConfig `yaml:"custom_events"`
		DetectOptionsExpiry bool                       `yaml:"detect_options_expiry" default:"true"`
		EarningsMonths      []int                      `yaml:"earnings_months" default:"[1,4,7,10]" validate:"dive,gte=1,lte=12"`
	} `yaml:"calendar"`
	Analysis struct {
		DefaultYears   int           `yaml:"default_years" default:"5" validate:"gte=1,lte=30"`
		CacheTTL       time.Duration `yaml:"cache_ttl" default:"24h"`
		DividendTTL    time.Duration `yaml:"dividend_ttl" default:"24h"`
		LockTTL        time.Duration `yaml:"lock_ttl" default:"2m"`
		LockWait       time.Duration `yaml:"lock_wait" default:"30s"`
		MaxConcurrency int           `yaml:"max_concurrency" default:"4" validate:"gte=1"`
		IncludeEvents  bool          `yaml:"include_events" default:"true"`
	} `yaml:"analysis"`
	Warmer struct {
		Enabled   bool     `yaml:"enabled"`
		Schedule  string   `yaml:"schedule" default:"0 6 * * 1-5"`
		Watchlist []string `yaml:"watchlist"`
		Years     []int    `yaml:"years" default:"[5]"`
	} `yaml:"warmer"`
}

var validate = validator.New()

// Default returns a config with every default applied, used when no file is given.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	return &c, nil
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML, applies defaults and validates.
func Parse(b []byte) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	var (
		c   *Config
		err error
	)
	if path == "" {
		c, err = Default()
	} else {
		c, err = Load(path)
	}
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("EOD_API_KEY"); v != "" {
		c.EOD.APIKey = v
	}
	if v := os.Getenv("BACKEND"); v != "" {
		c.Backend.Type = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	// Malformed numbers keep the file value.
	c.Server.Port = util.ParseIntDefault(os.Getenv("PORT"), c.Server.Port)
	c.Redis.DB = util.ParseIntDefault(os.Getenv("REDIS_DB"), c.Redis.DB)
	c.ClickHouse.Port = util.ParseIntDefault(os.Getenv("CLICKHOUSE_PORT"), c.ClickHouse.Port)
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
		c.Redis.Enabled = true
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("WATCHLIST"); v != "" {
		c.Warmer.Watchlist = strings.Split(v, ",")
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Backend.Type == "eod" && c.EOD.APIKey == "" {
		return fmt.Errorf("eod.api_key is required when backend.type is 'eod'")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.Redis.Queue.Enabled && !c.Redis.Enabled {
		return fmt.Errorf("redis.queue requires redis.enabled")
	}
	if c.Warmer.Enabled && len(c.Warmer.Watchlist) == 0 {
		return fmt.Errorf("warmer.watchlist cannot be empty when the warmer is enabled")
	}
	return nil
}
