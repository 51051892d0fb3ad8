package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadrportal/media/pkg/logger"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("json format", func(t *testing.T) {
		t.Parallel()
		buf := new(bytes.Buffer)
		log := logger.New(logger.Config{Level: "info", Format: logger.FormatJSON}, logger.WithOutput(buf))

		log.Info("upload accepted", slog.String("id", "abc.jpg"))

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "upload accepted", record["msg"])
		assert.Equal(t, "abc.jpg", record["id"])
	})

	t.Run("text format", func(t *testing.T) {
		t.Parallel()
		buf := new(bytes.Buffer)
		log := logger.New(logger.Config{Level: "info", Format: logger.FormatText}, logger.WithOutput(buf))

		log.Info("hello")
		assert.Contains(t, buf.String(), "msg=hello")
	})

	t.Run("level filtering", func(t *testing.T) {
		t.Parallel()
		buf := new(bytes.Buffer)
		log := logger.New(logger.Config{Level: "warn", Format: logger.FormatJSON}, logger.WithOutput(buf))

		log.Info("dropped")
		log.Warn("kept")

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 1)
		assert.Contains(t, lines[0], "kept")
	})

	t.Run("static attributes", func(t *testing.T) {
		t.Parallel()
		buf := new(bytes.Buffer)
		log := logger.New(logger.Config{Format: logger.FormatJSON},
			logger.WithOutput(buf), logger.WithAttr(slog.String("app", "media")))

		log.Info("x")
		assert.Contains(t, buf.String(), `"app":"media"`)
	})

	t.Run("unknown values fall back", func(t *testing.T) {
		t.Parallel()
		buf := new(bytes.Buffer)
		log := logger.New(logger.Config{Level: "loud", Format: "xml"}, logger.WithOutput(buf))

		log.Info("still logged")
		assert.Contains(t, buf.String(), `"msg":"still logged"`)
	})
}
