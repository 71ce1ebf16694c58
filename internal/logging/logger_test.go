package logging_test

import (
	"bytes"
	"context"
	"testing"

	"parts-desk/internal/logging"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	testCases := map[string]zerolog.Level{
		"debug":    zerolog.DebugLevel,
		"INFO":     zerolog.InfoLevel,
		"warning":  zerolog.WarnLevel,
		"error":    zerolog.ErrorLevel,
		"disabled": zerolog.Disabled,
		"bogus":    zerolog.InfoLevel,
		"":         zerolog.InfoLevel,
	}
	for in, want := range testCases {
		assert.Equal(t, want, logging.ParseLevel(in), "level %q", in)
	}
}

func TestInit_JSONFormatWritesStructuredLines(t *testing.T) {
	var buf bytes.Buffer
	logging.Init(logging.Config{Level: "info", Format: "json", Output: &buf})
	t.Cleanup(func() { logging.Init(logging.Config{Level: "info"}) })

	logging.Info().Str("source", "a.csv").Int("added", 2).Msg("merged")
	logging.Debug().Msg("hidden")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "merged", line["message"])
	assert.Equal(t, "a.csv", line["source"])
	assert.Equal(t, float64(2), line["added"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestInit_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logging.Init(logging.Config{Level: "debug", Format: "console", Output: &buf})
	t.Cleanup(func() { logging.Init(logging.Config{Level: "info"}) })

	logging.Warn().Str("row", "3").Msg("skipped")

	assert.Contains(t, buf.String(), "skipped")
	assert.Contains(t, buf.String(), "row=")
}

func TestCtx_AddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logging.SetLogger(logging.NewTestLogger(&buf))
	t.Cleanup(func() { logging.Init(logging.Config{Level: "info"}) })

	ctx := logging.ContextWithRequestID(context.Background(), "req-123")
	logging.Ctx(ctx).Info().Msg("handled")

	assert.Contains(t, buf.String(), `"request_id":"req-123"`)
	assert.Equal(t, "req-123", logging.RequestIDFromContext(ctx))
	assert.Equal(t, "", logging.RequestIDFromContext(context.Background()))
}

func TestGenerateRequestID_Unique(t *testing.T) {
	a := logging.GenerateRequestID()
	b := logging.GenerateRequestID()
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)
}
