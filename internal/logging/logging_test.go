package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, opts Options) (*slog.Logger, *bytes.Buffer) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	return Setup(&buf, opts), &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	buf.Reset()
	return rec
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARNING"))
	assert.Equal(t, slog.LevelError, ParseLevel("Error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestSetup_StackOnError(t *testing.T) {
	logger, buf := setup(t, Options{Level: "info"})

	logger.Debug("hidden")
	assert.Zero(t, buf.Len())

	logger.Info("fine")
	assert.NotContains(t, decodeLine(t, buf), "stack")

	logger.Error("boom", "form", "contact")
	rec := decodeLine(t, buf)
	assert.Equal(t, "boom", rec["msg"])
	assert.Equal(t, "contact", rec["form"])

	stack, ok := rec["stack"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, stack)
	assert.Contains(t, stack[0], "TestSetup_StackOnError")
	for _, f := range stack {
		assert.NotContains(t, f, "log/slog.")
	}
}

func TestSetup_MasksContactDetails(t *testing.T) {
	logger, buf := setup(t, Options{})

	logger.Info("delivered", slog.Group("fields",
		slog.String("name", "Jo"),
		slog.String("email", "jo@example.com"),
		slog.String("message", "Hello there"),
	))
	rec := decodeLine(t, buf)
	fields := rec["fields"].(map[string]any)
	assert.Equal(t, "Jo", fields["name"])
	assert.Equal(t, "j***@example.com", fields["email"])
	assert.Equal(t, "[11 chars]", fields["message"])
}

func TestSetup_TextFormat(t *testing.T) {
	logger, buf := setup(t, Options{Format: "TEXT"})

	logger.Info("listening", "addr", ":8080")
	assert.True(t, strings.Contains(buf.String(), "msg=listening"), buf.String())
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "a***@b.com", MaskEmail("ab@b.com"))
	assert.Equal(t, "***", MaskEmail("not-an-email"))
	assert.Equal(t, "***", MaskEmail("@b.com"))
}
