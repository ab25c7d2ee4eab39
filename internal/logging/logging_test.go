package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/wordbias/internal/model"
)

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wordbias.log")

	logger, err := New(model.LogConfig{Level: "info", Format: "json", Output: path})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Info("chunk processed")
	logger.Debug("hidden below info")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"message":"chunk processed"`) {
		t.Errorf("expected JSON message in log, got %q", out)
	}
	if strings.Contains(out, "hidden below info") {
		t.Error("debug entry should be filtered at info level")
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New(model.LogConfig{Level: "loud", Format: "console", Output: "stderr"}); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestNew_InvalidFormat(t *testing.T) {
	if _, err := New(model.LogConfig{Level: "info", Format: "xml", Output: "stderr"}); err == nil {
		t.Error("expected error for unknown format")
	}
}
