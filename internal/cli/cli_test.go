package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/wordbias/internal/model"
)

func TestApplyFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	addTokenizeFlags(cmd)
	addEstimateFlags(cmd)

	if err := cmd.ParseFlags([]string{
		"--stopwords", "stop.txt",
		"--limit", "25",
		"--tagger", "prose",
		"--no-cache",
		"--min-count", "3",
		"--output", "out.csv",
	}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	cfg := model.DefaultConfig()
	cfg.Tagger.BaseURL = "http://from-config:8700"
	if err := applyFlags(cmd, cfg); err != nil {
		t.Fatalf("applyFlags: %v", err)
	}

	if cfg.StopwordPath != "stop.txt" || cfg.RecordLimit != 25 || cfg.MinWordCount != 3 || cfg.OutputPath != "out.csv" {
		t.Errorf("flags not applied: %+v", cfg)
	}
	if cfg.Tagger.Provider != "prose" || cfg.Tagger.CacheEnabled {
		t.Errorf("tagger flags not applied: %+v", cfg.Tagger)
	}
	// unset flags leave config values alone
	if cfg.Tagger.BaseURL != "http://from-config:8700" {
		t.Errorf("unset flag overrode config: %s", cfg.Tagger.BaseURL)
	}
	if cfg.ChunkSize != 1000 {
		t.Errorf("ChunkSize = %d, want default 1000", cfg.ChunkSize)
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".wordbias", "config.yaml")

	if err := writeDefaultConfig(path); err != nil {
		t.Fatalf("writeDefaultConfig: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var cfg model.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("written config is not valid YAML: %v", err)
	}
	if cfg.MinWordCount != 10 || cfg.Tagger.Provider != "remote" {
		t.Errorf("unexpected config: %+v", cfg)
	}

	err = writeDefaultConfig(path)
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("expected refusal to overwrite, got %v", err)
	}
}

func TestRenderConfig_MasksAPIKey(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Tagger.APIKey = "sk-secret"

	var buf bytes.Buffer
	if err := renderConfig(&buf, cfg, ""); err != nil {
		t.Fatalf("renderConfig: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "sk-secret") {
		t.Error("API key leaked into output")
	}
	if !strings.Contains(out, "none (defaults)") || !strings.Contains(out, "min_word_count: 10") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if cfg.Tagger.APIKey != "sk-secret" {
		t.Error("renderConfig must not modify the caller's config")
	}
}
