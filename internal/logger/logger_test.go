package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestDefaultIsSilent(t *testing.T) {
	Set(nil)
	if Get().Enabled(t.Context(), slog.LevelError) {
		t.Error("default logger should not be enabled at any level")
	}
}

func TestSetRoutesRecords(t *testing.T) {
	var buf bytes.Buffer
	Set(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { Set(nil) })

	Get().Debug("phase finalized", "phase", "Paint")
	if !strings.Contains(buf.String(), "phase=Paint") {
		t.Errorf("log output = %q, want phase=Paint attribute", buf.String())
	}
}
