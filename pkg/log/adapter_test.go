package log

import (
	"path/filepath"
	"testing"

	"RentalHub/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKratosAdapter(t *testing.T) {
	cfg := &conf.Log{
		Level:  "info",
		Format: "json",
		Env:    "production",
	}

	zapLog, err := NewZapLogger(cfg)
	require.NoError(t, err)

	adapter := NewKratosAdapter(zapLog)
	require.NotNil(t, adapter)

	var _ log.Logger = adapter
}

func TestKratosAdapter_Log_EmptyKeyvals(t *testing.T) {
	cfg := &conf.Log{
		Level:  "info",
		Format: "json",
		Env:    "production",
	}

	zapLog, err := NewZapLogger(cfg)
	require.NoError(t, err)

	adapter := NewKratosAdapter(zapLog)

	err = adapter.Log(log.LevelInfo)
	assert.NoError(t, err)
}

func TestKratosAdapter_LogLevels(t *testing.T) {
	tests := []struct {
		name  string
		level log.Level
	}{
		{"debug level", log.LevelDebug},
		{"info level", log.LevelInfo},
		{"warn level", log.LevelWarn},
		{"error level", log.LevelError},
		// Note: Fatal level not tested as it calls os.Exit
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			logFile := filepath.Join(tempDir, "adapter_test.log")

			cfg := &conf.Log{
				Level:      "debug", // Enable all levels
				Format:     "json",
				OutputFile: logFile,
				Env:        "production",
			}

			zapLog, err := NewZapLogger(cfg)
			require.NoError(t, err)

			adapter := NewKratosAdapter(zapLog)

			err = adapter.Log(tt.level, "msg", "test message", "key", "value")
			require.NoError(t, err)

			zapLog.Sync()
		})
	}
}

func TestKratosAdapter_OddKeyvals(t *testing.T) {
	cfg := &conf.Log{
		Level:  "info",
		Format: "json",
		Env:    "production",
	}

	zapLog, err := NewZapLogger(cfg)
	require.NoError(t, err)

	adapter := NewKratosAdapter(zapLog)

	// Log with odd number of keyvals (missing value for last key)
	err = adapter.Log(log.LevelInfo,
		"msg", "test message",
		"key1", "value1",
		"key2", // missing value
	)

	assert.NoError(t, err)
}

func TestKratosAdapter_NonStringValues(t *testing.T) {
	tempDir := t.TempDir()
	logFile := filepath.Join(tempDir, "types_test.log")

	cfg := &conf.Log{
		Level:      "info",
		Format:     "json",
		OutputFile: logFile,
		Env:        "production",
	}

	zapLog, err := NewZapLogger(cfg)
	require.NoError(t, err)

	adapter := NewKratosAdapter(zapLog)

	err = adapter.Log(log.LevelInfo,
		"msg", "test types",
		"int_val", 123,
		"bool_val", true,
		"float_val", 3.14,
		"nil_val", nil,
		"struct_val", struct{ Name string }{Name: "test"},
	)
	require.NoError(t, err)

	zapLog.Sync()
}

func TestKratosAdapter_WithHelper(t *testing.T) {
	tempDir := t.TempDir()
	logFile := filepath.Join(tempDir, "helper_test.log")

	cfg := &conf.Log{
		Level:      "info",
		Format:     "json",
		OutputFile: logFile,
		Env:        "production",
	}

	zapLog, err := NewZapLogger(cfg)
	require.NoError(t, err)

	adapter := NewKratosAdapter(zapLog)

	helper := log.NewHelper(adapter)
	helper.Info("test message from helper")
	helper.Infow("msg", "test with fields", "key", "value")
	helper.Debug("debug message")
	helper.Warn("warn message")
	helper.Error("error message")

	zapLog.Sync()
}

func TestKratosAdapter_IntegrationWithKratos(t *testing.T) {
	cfg := &conf.Log{
		Level:  "info",
		Format: "json",
		Env:    "production",
	}

	zapLog, err := NewZapLogger(cfg)
	require.NoError(t, err)

	adapter := NewKratosAdapter(zapLog)

	logger := log.With(adapter,
		"service.id", "test-service",
		"trace.id", "abc-123",
	)

	logger = log.NewFilter(logger, log.FilterLevel(log.LevelInfo))

	helper := log.NewHelper(logger)
	helper.Info("integration test message")
}
