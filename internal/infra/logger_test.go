package infra

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNewLoggerProductionEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger("production", &buf)

	logger.Debug().Msg("hidden")
	logger.Info().Str("user_id", "u1").Msg("visible")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected single JSON line, got %q: %v", buf.String(), err)
	}
	if entry["message"] != "visible" {
		t.Fatalf("unexpected message: %v", entry["message"])
	}
	if entry["service"] != "bannercraft" {
		t.Fatalf("missing service field: %v", entry)
	}
	if entry["user_id"] != "u1" {
		t.Fatalf("missing user_id field: %v", entry)
	}
}

func TestDiscardLoggerIsSilent(t *testing.T) {
	logger := DiscardLogger()
	logger.Error().Msg("nothing")
}

func TestZeroLoggerIsSilent(t *testing.T) {
	var logger Logger
	if e := logger.Info(); e != nil {
		t.Fatalf("zero-value logger must not emit events")
	}
}
