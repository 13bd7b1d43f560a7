package conf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBootstrap_Defaults(t *testing.T) {
	// Create a minimal valid config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `server:
  http:
    addr: :8080
data:
  database:
    driver: mysql
  redis:
    addr: 127.0.0.1:6379
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	// Set required environment variables
	t.Setenv("MYSQL_DSN", "user:pass@tcp(localhost:3306)/testdb")
	t.Setenv("PROPERTY_SERVICE_URL", "http://property-service:8080")

	bc, err := NewBootstrap(configPath)
	require.NoError(t, err)
	require.NotNil(t, bc)

	// Verify server defaults
	assert.Equal(t, ":8080", bc.Server.Http.Addr)
	assert.Equal(t, "tcp", bc.Server.Http.Network)
	assert.Equal(t, 30*time.Second, bc.Server.Http.Timeout.AsDuration())

	// Verify data defaults
	assert.Equal(t, "mysql", bc.Data.Database.Driver)
	assert.Equal(t, "user:pass@tcp(localhost:3306)/testdb", bc.Data.Database.Source)

	assert.Equal(t, "127.0.0.1:6379", bc.Data.Redis.Addr)
	assert.Equal(t, "tcp", bc.Data.Redis.Network)
	assert.Equal(t, 200*time.Millisecond, bc.Data.Redis.ReadTimeout.AsDuration())
	assert.Equal(t, 200*time.Millisecond, bc.Data.Redis.WriteTimeout.AsDuration())

	// Verify remote dependency values
	assert.Equal(t, "http://property-service:8080", bc.Property.BaseUrl)
	assert.Equal(t, 3*time.Second, bc.Property.Timeout.AsDuration())
	assert.Equal(t, 30*time.Second, bc.Property.CacheTtl.AsDuration())
	assert.Equal(t, 5*time.Second, bc.Scoring.Timeout.AsDuration())

	// Verify dispatcher defaults
	assert.Equal(t, int32(1000), bc.Notify.QueueSize)
	assert.Equal(t, int32(4), bc.Notify.Workers)

	// Verify breaker defaults
	assert.Equal(t, int32(10), bc.Resilience.WindowSize)
	assert.Equal(t, int32(5), bc.Resilience.MinimumCalls)
	assert.Equal(t, 0.5, bc.Resilience.FailureThreshold)
	assert.Equal(t, 5*time.Second, bc.Resilience.WaitDuration.AsDuration())
	assert.Equal(t, int32(3), bc.Resilience.HalfOpenPermits)

	// Verify jobs defaults
	assert.Equal(t, 90*24*time.Hour, bc.Jobs.RetentionMaxAge.AsDuration())

	// Verify log defaults
	assert.Equal(t, "info", bc.Log.Level)
	assert.Equal(t, "json", bc.Log.Format)
}

func TestNewBootstrap_EnvOverrides(t *testing.T) {
	tests := []struct {
		name        string
		envVars     map[string]string
		expectedVal func(*Bootstrap) bool
		description string
	}{
		{
			name: "override_http_addr",
			envVars: map[string]string{
				"RENTALHUB_SERVER_HTTP_ADDR": ":9999",
				"MYSQL_DSN":                  "user:pass@tcp(localhost:3306)/testdb",
				"PROPERTY_SERVICE_URL":       "http://property-service:8080",
			},
			expectedVal: func(bc *Bootstrap) bool {
				return bc.Server.Http.Addr == ":9999"
			},
			description: "RENTALHUB_SERVER_HTTP_ADDR should override default :8080",
		},
		{
			name: "override_redis_addr",
			envVars: map[string]string{
				"RENTALHUB_DATA_REDIS_ADDR": "redis.example.com:6379",
				"MYSQL_DSN":                 "user:pass@tcp(localhost:3306)/testdb",
				"PROPERTY_SERVICE_URL":      "http://property-service:8080",
			},
			expectedVal: func(bc *Bootstrap) bool {
				return bc.Data.Redis.Addr == "redis.example.com:6379"
			},
			description: "RENTALHUB_DATA_REDIS_ADDR should override default",
		},
		{
			name: "override_log_level",
			envVars: map[string]string{
				"RENTALHUB_LOG_LEVEL":  "debug",
				"MYSQL_DSN":            "user:pass@tcp(localhost:3306)/testdb",
				"PROPERTY_SERVICE_URL": "http://property-service:8080",
			},
			expectedVal: func(bc *Bootstrap) bool {
				return bc.Log.Level == "debug"
			},
			description: "RENTALHUB_LOG_LEVEL should override default info",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			configPath := filepath.Join(tmpDir, "config.yaml")

			configContent := `server:
  http:
    addr: :8080
data:
  redis:
    addr: 127.0.0.1:6379
`
			err := os.WriteFile(configPath, []byte(configContent), 0644)
			require.NoError(t, err)

			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			bc, err := NewBootstrap(configPath)
			require.NoError(t, err, tt.description)
			require.NotNil(t, bc)

			assert.True(t, tt.expectedVal(bc), tt.description)
		})
	}
}

func TestNewBootstrap_MissingRequired(t *testing.T) {
	tests := []struct {
		name          string
		envVars       map[string]string
		expectedError string
	}{
		{
			name: "missing_mysql_dsn",
			envVars: map[string]string{
				"PROPERTY_SERVICE_URL": "http://property-service:8080",
			},
			expectedError: "data.database.source (MYSQL_DSN)",
		},
		{
			name: "missing_property_url",
			envVars: map[string]string{
				"MYSQL_DSN": "user:pass@tcp(localhost:3306)/testdb",
			},
			expectedError: "property.base_url (PROPERTY_SERVICE_URL)",
		},
		{
			name:          "missing_all_required",
			envVars:       map[string]string{},
			expectedError: "missing required configuration fields",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			configPath := filepath.Join(tmpDir, "config.yaml")

			configContent := `server:
  http:
    addr: :8080
`
			err := os.WriteFile(configPath, []byte(configContent), 0644)
			require.NoError(t, err)

			// Clear all relevant environment variables first to ensure isolation
			os.Unsetenv("MYSQL_DSN")
			os.Unsetenv("RENTALHUB_DATA_DATABASE_SOURCE")
			os.Unsetenv("PROPERTY_SERVICE_URL")
			os.Unsetenv("RENTALHUB_PROPERTY_BASE_URL")

			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			bc, err := NewBootstrap(configPath)
			assert.Error(t, err, "Expected error for missing required fields")
			assert.Nil(t, bc, "Bootstrap should be nil when validation fails")
			assert.Contains(t, err.Error(), tt.expectedError)
		})
	}
}

func TestNewBootstrap_ConfigFileNotFound(t *testing.T) {
	t.Setenv("MYSQL_DSN", "user:pass@tcp(localhost:3306)/testdb")
	t.Setenv("PROPERTY_SERVICE_URL", "http://property-service:8080")

	bc, err := NewBootstrap("/non/existent/config.yaml")
	assert.Error(t, err)
	assert.Nil(t, bc)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestNewBootstrap_EmptyConfigPath(t *testing.T) {
	t.Setenv("MYSQL_DSN", "user:pass@tcp(localhost:3306)/testdb")
	t.Setenv("PROPERTY_SERVICE_URL", "http://property-service:8080")

	// Load with empty config path (should use defaults + env vars)
	bc, err := NewBootstrap("")
	require.NoError(t, err)
	require.NotNil(t, bc)

	assert.Equal(t, ":8080", bc.Server.Http.Addr)
	assert.Equal(t, "user:pass@tcp(localhost:3306)/testdb", bc.Data.Database.Source)
	assert.Equal(t, "http://property-service:8080", bc.Property.BaseUrl)
}

func TestValidate_AllFieldsPresent(t *testing.T) {
	bc := &Bootstrap{
		Server: &Server{
			Http: &Server_HTTP{Addr: ":8080"},
		},
		Data: &Data{
			Database: &Data_Database{
				Driver: "mysql",
				Source: "user:pass@tcp(localhost:3306)/testdb",
			},
			Redis: &Data_Redis{Addr: "127.0.0.1:6379"},
		},
		Property: &Property{BaseUrl: "http://property-service:8080"},
		Log: &Log{
			Level:  "info",
			Format: "json",
		},
	}

	err := Validate(bc)
	assert.NoError(t, err)
}

func TestValidate_NilBootstrap(t *testing.T) {
	err := Validate(&Bootstrap{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "missing required configuration fields")
}
