package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/liskl/lixshare/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"debug", zapcore.DebugLevel, false},
		{"", zapcore.InfoLevel, false},
		{"INFO", zapcore.InfoLevel, false},
		{"warn", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"verbose", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_WritesToRollingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "lixshare.log")

	log, err := New(config.LogConfig{Level: "info", Path: path})
	require.NoError(t, err)

	log.Info("document created", zap.String("doc_id", "aB3dE5gH7j"))
	log.Debug("filtered out")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"document created"`)
	assert.Contains(t, string(data), `"doc_id":"aB3dE5gH7j"`)
	assert.NotContains(t, string(data), "filtered out")
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "loud"})
	assert.Error(t, err)
}

func TestRollingFile_Defaults(t *testing.T) {
	lj := RollingFile(config.LogConfig{Path: "x.log"})
	assert.Equal(t, 100, lj.MaxSize)
	assert.Equal(t, 3, lj.MaxBackups)
	assert.Equal(t, 7, lj.MaxAge)
}
