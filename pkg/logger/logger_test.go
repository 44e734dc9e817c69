package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level     string
		debugSeen bool
		infoSeen  bool
		warnSeen  bool
	}{
		{"debug", true, true, true},
		{"info", false, true, true},
		{"WARN", false, false, true},
		{"error", false, false, false},
		{"invalid", false, true, true},
		{"", false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(&Config{Level: tt.level, Format: "text"}, &buf)

			l.Debug("debug line")
			l.Info("info line")
			l.Warn("warn line")

			out := buf.String()
			if got := strings.Contains(out, "debug line"); got != tt.debugSeen {
				t.Errorf("Expected debug visible=%v, got %v", tt.debugSeen, got)
			}
			if got := strings.Contains(out, "info line"); got != tt.infoSeen {
				t.Errorf("Expected info visible=%v, got %v", tt.infoSeen, got)
			}
			if got := strings.Contains(out, "warn line"); got != tt.warnSeen {
				t.Errorf("Expected warn visible=%v, got %v", tt.warnSeen, got)
			}
		})
	}
}

func TestNewFormat(t *testing.T) {
	var buf bytes.Buffer
	New(&Config{Level: "info", Format: "json"}, &buf).Info("pdf rendered", "bytes", 2048)

	if !strings.HasPrefix(buf.String(), "{") || !strings.Contains(buf.String(), `"bytes":2048`) {
		t.Errorf("Expected JSON output, got %s", buf.String())
	}
}

func TestRedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	l := New(&Config{Level: "info", Format: "text"}, &buf)

	l.Info("login attempt", "email", "ana@example.com", "password", "secret1", "Token", "abc.def")

	out := buf.String()
	if strings.Contains(out, "secret1") || strings.Contains(out, "abc.def") {
		t.Errorf("Expected secrets to be redacted, got %s", out)
	}
	if !strings.Contains(out, "ana@example.com") {
		t.Errorf("Expected email to be kept, got %s", out)
	}
}

func TestWithContextAttributes(t *testing.T) {
	var buf bytes.Buffer
	slog.SetDefault(New(&Config{Level: "info", Format: "json"}, &buf))

	ctx := WithRequestID(context.Background(), "req-9")
	ctx = WithUserID(ctx, "user-42")
	ctx = WithContractID(ctx, "c-1")
	Info(ctx, "contract rendered")

	out := buf.String()
	for _, want := range []string{`"request_id":"req-9"`, `"user_id":"user-42"`, `"contract_id":"c-1"`} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %s in log, got %s", want, out)
		}
	}
}

func TestWithContextEmpty(t *testing.T) {
	var buf bytes.Buffer
	slog.SetDefault(New(&Config{Level: "info", Format: "text"}, &buf))

	Info(context.Background(), "startup")
	if strings.Contains(buf.String(), "request_id") {
		t.Errorf("Expected no context attributes, got %s", buf.String())
	}
}

func TestLogFunctions(t *testing.T) {
	var buf bytes.Buffer
	slog.SetDefault(New(&Config{Level: "debug", Format: "text"}, &buf))

	ctx := WithRequestID(context.Background(), "req-123")

	tests := []struct {
		log   func(context.Context, string, ...any)
		msg   string
		level string
	}{
		{Info, "info message", "INFO"},
		{Debug, "debug message", "DEBUG"},
		{Warn, "warn message", "WARN"},
		{Error, "error message", "ERROR"},
	}

	for _, tt := range tests {
		buf.Reset()
		tt.log(ctx, tt.msg)
		out := buf.String()
		if !strings.Contains(out, tt.msg) || !strings.Contains(out, "level="+tt.level) {
			t.Errorf("Expected %s at %s, got %s", tt.msg, tt.level, out)
		}
		if !strings.Contains(out, "request_id=req-123") {
			t.Errorf("Expected request id, got %s", out)
		}
	}
}
