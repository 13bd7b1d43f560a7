// Package conf provides configuration management using Viper.
// It supports loading configuration from YAML files and environment variables,
// with CLI flag overrides.
package conf

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"google.golang.org/protobuf/types/known/durationpb"
)

// NewBootstrap creates and initializes a Bootstrap configuration.
// It loads configuration from the specified config file path, applies
// defaults, and allows overrides from environment variables prefixed with
// RENTALHUB_.
//
// Configuration priority: CLI flags > Environment variables > Config file > Defaults
//
// Required environment variables:
//   - MYSQL_DSN or RENTALHUB_DATA_DATABASE_SOURCE: MySQL connection string
//   - PROPERTY_SERVICE_URL or RENTALHUB_PROPERTY_BASE_URL: property service base URL
func NewBootstrap(configPath string) (*Bootstrap, error) {
	v := viper.New()

	setDefaults(v)

	// Enable environment variable support with RENTALHUB_ prefix
	v.SetEnvPrefix("RENTALHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Allow direct environment variable names (without RENTALHUB_ prefix)
	// for compatibility with deployment tooling
	_ = v.BindEnv("data.database.source", "MYSQL_DSN", "RENTALHUB_DATA_DATABASE_SOURCE")
	_ = v.BindEnv("data.redis.addr", "RENTALHUB_DATA_REDIS_ADDR")
	_ = v.BindEnv("property.base_url", "PROPERTY_SERVICE_URL", "RENTALHUB_PROPERTY_BASE_URL")
	_ = v.BindEnv("scoring.base_url", "SCORING_SERVICE_URL", "RENTALHUB_SCORING_BASE_URL")
	_ = v.BindEnv("notify.webhook_url", "NOTIFY_WEBHOOK_URL", "RENTALHUB_NOTIFY_WEBHOOK_URL")

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	bc := &Bootstrap{
		Server: &Server{
			Http: &Server_HTTP{
				Network: v.GetString("server.http.network"),
				Addr:    v.GetString("server.http.addr"),
				Timeout: durationpb.New(v.GetDuration("server.http.timeout")),
			},
		},
		Data: &Data{
			Database: &Data_Database{
				Driver: v.GetString("data.database.driver"),
				Source: v.GetString("data.database.source"),
			},
			Redis: &Data_Redis{
				Network:      v.GetString("data.redis.network"),
				Addr:         v.GetString("data.redis.addr"),
				ReadTimeout:  durationpb.New(v.GetDuration("data.redis.read_timeout")),
				WriteTimeout: durationpb.New(v.GetDuration("data.redis.write_timeout")),
			},
		},
		Property: &Property{
			BaseUrl:  v.GetString("property.base_url"),
			Timeout:  durationpb.New(v.GetDuration("property.timeout")),
			CacheTtl: durationpb.New(v.GetDuration("property.cache_ttl")),
		},
		Scoring: &Scoring{
			BaseUrl: v.GetString("scoring.base_url"),
			Timeout: durationpb.New(v.GetDuration("scoring.timeout")),
		},
		Notify: &Notify{
			WebhookUrl: v.GetString("notify.webhook_url"),
			QueueSize:  v.GetInt32("notify.queue_size"),
			Workers:    v.GetInt32("notify.workers"),
			Timeout:    durationpb.New(v.GetDuration("notify.timeout")),
		},
		Resilience: &Resilience{
			WindowSize:       v.GetInt32("resilience.window_size"),
			MinimumCalls:     v.GetInt32("resilience.minimum_calls"),
			FailureThreshold: v.GetFloat64("resilience.failure_threshold"),
			WaitDuration:     durationpb.New(v.GetDuration("resilience.wait_duration")),
			HalfOpenPermits:  v.GetInt32("resilience.half_open_permits"),
		},
		Jobs: &Jobs{
			RetentionMaxAge: durationpb.New(v.GetDuration("jobs.retention_max_age")),
		},
		Log: &Log{
			Level:      v.GetString("log.level"),
			Format:     v.GetString("log.format"),
			Env:        v.GetString("log.env"),
			OutputFile: v.GetString("log.output_file"),
		},
	}

	if err := Validate(bc); err != nil {
		return nil, err
	}

	return bc, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.http.network", "tcp")
	v.SetDefault("server.http.addr", ":8080")
	v.SetDefault("server.http.timeout", 30*time.Second)

	// Data defaults
	v.SetDefault("data.database.driver", "mysql")
	// Note: data.database.source (MYSQL_DSN) is required from environment

	v.SetDefault("data.redis.network", "tcp")
	v.SetDefault("data.redis.addr", "127.0.0.1:6379")
	v.SetDefault("data.redis.read_timeout", 200*time.Millisecond)
	v.SetDefault("data.redis.write_timeout", 200*time.Millisecond)

	// Remote dependency defaults
	// Note: property.base_url (PROPERTY_SERVICE_URL) is required
	v.SetDefault("property.timeout", 3*time.Second)
	v.SetDefault("property.cache_ttl", 30*time.Second)
	v.SetDefault("scoring.timeout", 5*time.Second)

	// Notification dispatcher defaults
	v.SetDefault("notify.queue_size", 1000)
	v.SetDefault("notify.workers", 4)
	v.SetDefault("notify.timeout", 5*time.Second)

	// Circuit breaker defaults: window of 10 outcomes, evaluated after 5
	// calls, 50% failure threshold, 5s open interval, 3 half-open permits
	v.SetDefault("resilience.window_size", 10)
	v.SetDefault("resilience.minimum_calls", 5)
	v.SetDefault("resilience.failure_threshold", 0.5)
	v.SetDefault("resilience.wait_duration", 5*time.Second)
	v.SetDefault("resilience.half_open_permits", 3)

	// Jobs defaults
	v.SetDefault("jobs.retention_max_age", 90*24*time.Hour)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Validate checks that all required configuration fields are present and
// valid. It returns an error listing all missing required fields.
func Validate(bc *Bootstrap) error {
	var missingFields []string

	if bc.Data == nil || bc.Data.Database == nil || bc.Data.Database.Source == "" {
		missingFields = append(missingFields, "data.database.source (MYSQL_DSN)")
	}

	if bc.Property == nil || bc.Property.BaseUrl == "" {
		missingFields = append(missingFields, "property.base_url (PROPERTY_SERVICE_URL)")
	}

	if len(missingFields) > 0 {
		return fmt.Errorf("missing required configuration fields: %s", strings.Join(missingFields, ", "))
	}

	return nil
}
