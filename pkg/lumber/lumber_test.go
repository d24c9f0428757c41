package lumber

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name     string
		instance int
		wantErr  bool
	}{
		{name: "zap", instance: InstanceZapLogger},
		{name: "logrus", instance: InstanceLogrusLogger},
		{name: "unknown", instance: 42, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &LoggingConfig{
				EnableFile:   true,
				FileLevel:    Info,
				ConsoleLevel: Info,
				FileLocation: filepath.Join(dir, tt.name+".log"),
			}
			logger, err := NewLogger(cfg, false, tt.instance)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			logger.WithFields(Fields{"job": "demo"}).Infof("hello %s", "world")
		})
	}
}

func TestNewLoggerVerboseForcesDebug(t *testing.T) {
	cfg := &LoggingConfig{ConsoleLevel: Error, FileLevel: Error}
	_, err := NewLogger(cfg, true, InstanceZapLogger)
	require.NoError(t, err)
	assert.Equal(t, Debug, cfg.ConsoleLevel)
	assert.Equal(t, Debug, cfg.FileLevel)
}
