package logging_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"scaffale/internal/logging"
)

func TestLog(t *testing.T) {
	buff := bytes.NewBuffer([]byte{})
	logger, err := logging.New().FromWriter(buff).Make()
	require.NoError(t, err)
	require.NotNil(t, logger)

	require.Equal(t, 0, buff.Len())
	logger.Info().Str("location", "Study").Msg("renamed")
	require.Contains(t, buff.String(), "renamed")
	require.Contains(t, buff.String(), `"location":"Study"`)
}

func TestLevelFiltersDebug(t *testing.T) {
	buff := bytes.NewBuffer([]byte{})
	logger, err := logging.New().FromWriter(buff).Level("warn").Make()
	require.NoError(t, err)

	logger.Info().Msg("hidden")
	require.Equal(t, 0, buff.Len())

	logger.Warn().Msg("shown")
	require.Contains(t, buff.String(), "shown")
}

func TestFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scaffale.log")
	logger, err := logging.New().FromPath(path).Make()
	require.NoError(t, err)

	logger.Error().Msg("to file")
	require.NoError(t, logger.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(content), "to file")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{" WARN ", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"nonsense", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, logging.ParseLevel(tt.name))
		})
	}
}
