package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/permgate/permgate/internal/logger"
)

func TestInitValidation(t *testing.T) {
	require.Error(t, logger.Init(logger.Log{LogLevel: "loud", AppName: "a", ServiceName: "s"}))
	require.ErrorIs(t, logger.Init(logger.Log{LogLevel: "info", AppName: "a"}), logger.ErrServiceNameIsEmpty)
	require.ErrorIs(t, logger.Init(logger.Log{LogLevel: "info", ServiceName: "s"}), logger.ErrAppNameIsEmpty)
}

func TestLogger(t *testing.T) {
	testCases := []struct {
		name             string
		cfg              logger.Log
		shouldHaveOutPut bool
		outPutIsJSON     bool
	}{
		{
			name:             "no logger enabled",
			cfg:              logger.Log{LogLevel: "", ServiceName: "test", AppName: "test"},
			shouldHaveOutPut: false,
		},
		{
			name: "console writer",
			cfg: logger.Log{
				LogLevel:    "info",
				ServiceName: "test",
				AppName:     "test",
				Console:     logger.Console{Enabled: true, UseConsoleWriter: true},
			},
			shouldHaveOutPut: true,
		},
		{
			name: "console json",
			cfg: logger.Log{
				LogLevel:    "info",
				ServiceName: "test",
				AppName:     "test",
				Console:     logger.Console{Enabled: true},
			},
			shouldHaveOutPut: true,
			outPutIsJSON:     true,
		},
		{
			name: "console json trace with caller",
			cfg: logger.Log{
				LogLevel:     "trace",
				ServiceName:  "test",
				AppName:      "test",
				ReportCaller: true,
				Console:      logger.Console{Enabled: true},
			},
			shouldHaveOutPut: true,
			outPutIsJSON:     true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := testLoggerConfig(t, tc.cfg)

			if !tc.shouldHaveOutPut {
				assert.Empty(t, out)
				return
			}

			require.NotEmpty(t, out)

			if !tc.outPutIsJSON {
				return
			}

			for _, line := range strings.Split(out, "\n") {
				if line == "" {
					continue
				}

				var entry struct {
					Level   string `json:"level"`
					App     string `json:"app"`
					Message string `json:"message"`
				}

				require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
				assert.Equal(t, "test", entry.App)
			}
		})
	}
}

func TestFileLogger(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, logger.Init(logger.Log{
		LogLevel:    "info",
		ServiceName: "test",
		AppName:     "test",
		File: logger.LogFile{
			Enabled: true,
			Path:    dir,
			Info:    logger.Rotation{File: "info.log", MaxSize: 1},
			Error:   logger.Rotation{File: "error.log", MaxSize: 1},
			Warn:    logger.Rotation{File: "warn.log", MaxSize: 1},
			Trace:   logger.Rotation{File: "trace.log", MaxSize: 1},
		},
	}))

	log.Info().Msg("to info")
	log.Error().Msg("to error")

	info, err := os.ReadFile(filepath.Join(dir, "info.log"))
	require.NoError(t, err)
	assert.Contains(t, string(info), "to info")
	assert.NotContains(t, string(info), "to error")

	errLog, err := os.ReadFile(filepath.Join(dir, "error.log"))
	require.NoError(t, err)
	assert.Contains(t, string(errLog), "to error")
}

func testLoggerConfig(t *testing.T, cfg logger.Log) string {
	t.Helper()

	stdout := os.Stdout
	stderr := os.Stderr

	r, w, err := os.Pipe()
	require.NoError(t, err)

	os.Stdout = w
	os.Stderr = w

	require.NoError(t, logger.Init(cfg))

	log.Info().Msg("this info message should be seen...")
	log.Error().Err(errors.New("a test error")).Msg("this err message should be seen...") //nolint:goerr113

	outC := make(chan string)

	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	_ = w.Close()
	os.Stdout = stdout
	os.Stderr = stderr

	return <-outC
}
