package fiber_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/permgate/permgate/internal/logger"
	adapter "github.com/permgate/permgate/internal/logger/adapter/fiber"
)

// expectedLoggerJSONFormat implements loggers default json format.
type expectedLoggerJSONFormat struct {
	IP     net.IP `json:"IP"`
	Status int    `json:"status"`
	URI    string `json:"URI"`
	Method string `json:"method"`
	Host   string `json:"host"`
	User   string `json:"user"`
}

var consoleConfig = logger.Log{ //nolint:gochecknoglobals
	EnableAccessLogToConsole: true,
	Console:                  logger.Console{Enabled: true},
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		config     adapter.Config
		targetPath string
		want       *expectedLoggerJSONFormat
	}{
		{
			name:       "empty no output at all",
			targetPath: "/",
		},
		{
			name:       "access log disabled on console",
			targetPath: "/",
			config:     adapter.Config{Config: logger.Log{Console: logger.Console{Enabled: true}}},
		},
		{
			name:       "get / log to console json",
			targetPath: "/",
			config:     adapter.Config{Config: consoleConfig},
			want: &expectedLoggerJSONFormat{
				IP: net.ParseIP("0.0.0.0"), Status: fiber.StatusOK, URI: "/", Method: fiber.MethodGet, Host: "example.com",
			},
		},
		{
			name:       "get log with params",
			targetPath: "/?test=123",
			config:     adapter.Config{Config: consoleConfig},
			want: &expectedLoggerJSONFormat{
				IP: net.ParseIP("0.0.0.0"), Status: fiber.StatusOK, URI: "/?test=123", Method: fiber.MethodGet, Host: "example.com",
			},
		},
		{
			name:       "unknown route",
			targetPath: "/no_path?test=123",
			config:     adapter.Config{Config: consoleConfig},
			want: &expectedLoggerJSONFormat{
				IP: net.ParseIP("0.0.0.0"), Status: fiber.StatusNotFound, URI: "/no_path?test=123", Method: fiber.MethodGet, Host: "example.com",
			},
		},
		{
			name:       "subject is logged",
			targetPath: "/",
			config: adapter.Config{
				Config:  consoleConfig,
				Subject: func(*fiber.Ctx) string { return "42" },
			},
			want: &expectedLoggerJSONFormat{
				IP: net.ParseIP("0.0.0.0"), Status: fiber.StatusOK, URI: "/", Method: fiber.MethodGet, Host: "example.com", User: "42",
			},
		},
		{
			name:       "check alive is skipped",
			targetPath: "/checkalive",
			config: adapter.Config{
				Config: logger.Log{
					EnableAccessLogToConsole: true,
					DisableCheckAlive:        true,
					Console:                  logger.Console{Enabled: true},
				},
				CheckAliveURI: "/checkalive",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := testMiddlewareHelper(t, tt.targetPath, tt.config)
			require.NoError(t, err)

			if tt.want == nil {
				assert.Empty(t, output)
				return
			}

			require.NotEmpty(t, output)

			var decoded expectedLoggerJSONFormat
			require.NoError(t, json.Unmarshal([]byte(output), &decoded))

			assert.Equal(t, tt.want.Host, decoded.Host)
			assert.Equal(t, tt.want.Method, decoded.Method)
			assert.Equal(t, tt.want.Status, decoded.Status)
			assert.Equal(t, tt.want.IP, decoded.IP)
			assert.Equal(t, tt.want.URI, decoded.URI)
			assert.Equal(t, tt.want.User, decoded.User)
		})
	}
}

func testMiddlewareHelper(t *testing.T, targetPath string, adapterConfig adapter.Config) (string, error) {
	t.Helper()

	stdout := os.Stdout

	r, w, err := os.Pipe()
	require.NoError(t, err)

	os.Stdout = w

	app := fiber.New(fiber.Config{
		CaseSensitive: true,
		Immutable:     true,
	})

	app.Use(adapter.New(adapterConfig))

	app.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.SendString("hello test")
	})
	app.Get("/checkalive", func(ctx *fiber.Ctx) error {
		return ctx.SendStatus(fiber.StatusOK)
	})

	_, err = app.Test(httptest.NewRequest(fiber.MethodGet, targetPath, nil), -1)

	outC := make(chan string)

	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	_ = w.Close()
	os.Stdout = stdout

	return <-outC, err
}
