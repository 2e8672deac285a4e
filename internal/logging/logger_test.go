package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_JSONFormat(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := New(Config{Level: "info", Format: "json", Output: &buf})

	logger.Info("run started", "workspace", "/tmp/ws")

	out := buf.String()
	if !strings.Contains(out, `"msg":"run started"`) {
		t.Errorf("expected JSON message, got: %s", out)
	}
	if !strings.Contains(out, `"workspace":"/tmp/ws"`) {
		t.Errorf("expected workspace attr, got: %s", out)
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := New(Config{Level: "warn", Format: "text", Output: &buf})

	logger.Info("hidden")
	logger.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("expected info to be filtered, got: %s", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("expected warn to pass, got: %s", out)
	}
}

func TestNew_AutoFallsBackToJSON(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	// A bytes.Buffer is not a terminal, so auto resolves to JSON.
	logger := New(Config{Level: "info", Format: "auto", Output: &buf})

	logger.Info("hello")
	if !strings.Contains(buf.String(), `"msg":"hello"`) {
		t.Errorf("expected JSON output, got: %s", buf.String())
	}
}

func TestLogger_WithHelpers(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := New(Config{Level: "info", Format: "json", Output: &buf})

	logger.WithWorkspace("/ws").WithCheck("structure").Info("done")

	out := buf.String()
	if !strings.Contains(out, `"workspace":"/ws"`) || !strings.Contains(out, `"check":"structure"`) {
		t.Errorf("expected contextual attrs, got: %s", out)
	}
}

func TestPrettyHandler_Format(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	handler := NewPrettyHandler(&buf, slog.LevelDebug)
	logger := slog.New(handler)

	logger.Info("checking", "file", "final_report.md")

	out := buf.String()
	if !strings.Contains(out, "INF") {
		t.Errorf("expected level tag, got: %s", out)
	}
	if !strings.Contains(out, "checking") || !strings.Contains(out, "final_report.md") {
		t.Errorf("expected message and attr, got: %s", out)
	}
}

func TestNewNop_Discards(t *testing.T) {
	t.Parallel()
	// Must not panic and must not write anywhere visible.
	NewNop().Error("ignored")
}
