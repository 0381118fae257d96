package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/dlir2404/intel-money-backend-sub000/pkg/cache"
	"github.com/dlir2404/intel-money-backend-sub000/pkg/mq"
	"github.com/dlir2404/intel-money-backend-sub000/pkg/mysql"
	"github.com/spf13/viper"
)

const envPrefix = "LEDGER"

const (
	DispatchInline = "inline"
	DispatchQueue  = "queue"
)

type Config struct {
	API       API          `mapstructure:"api"`
	Database  mysql.Config `mapstructure:"database"`
	Redis     cache.Config `mapstructure:"redis"`
	RabbitMQ  mq.Config    `mapstructure:"rabbitmq"`
	Ledger    Ledger       `mapstructure:"ledger"`
	Statistic Statistic    `mapstructure:"statistic"`
	Sync      Sync         `mapstructure:"sync"`
}

type API struct {
	Port string `mapstructure:"port"`
}

type Ledger struct {
	OperationTimeout time.Duration `mapstructure:"operation_timeout"`
	DeadlockRetries  int           `mapstructure:"deadlock_retries"`
}

// Statistic.Dispatch selects whether cache updates run in the request path or through the queue
// consumed by the statistic worker.
type Statistic struct {
	Dispatch string `mapstructure:"dispatch"`
	Queue    string `mapstructure:"queue"`
	Timezone string `mapstructure:"timezone"`
}

type Sync struct {
	LockTTL time.Duration `mapstructure:"lock_ttl"`
}

func Load() (cfg *Config, err error) {
	return load(viper.New(), "./config")
}

func load(v *viper.Viper, paths ...string) (*Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yml")
	for _, path := range paths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", ":8080")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("rabbitmq.prefetch", 10)
	v.SetDefault("ledger.operation_timeout", 10*time.Second)
	v.SetDefault("ledger.deadlock_retries", 3)
	v.SetDefault("statistic.dispatch", DispatchInline)
	v.SetDefault("statistic.queue", "ledger.statistic")
	v.SetDefault("statistic.timezone", "UTC")
	v.SetDefault("sync.lock_ttl", 30*time.Second)
}

func (c *Config) validate() error {
	switch c.Statistic.Dispatch {
	case DispatchInline, DispatchQueue:
	default:
		return fmt.Errorf("invalid statistic.dispatch %q", c.Statistic.Dispatch)
	}

	if _, err := time.LoadLocation(c.Statistic.Timezone); err != nil {
		return fmt.Errorf("invalid statistic.timezone %q: %w", c.Statistic.Timezone, err)
	}

	return nil
}

// Location is the zone statistic periods are cut in.
func (s Statistic) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
