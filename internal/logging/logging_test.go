package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chanakya/internal/config"

	"github.com/sirupsen/logrus"
)

func TestConfigureWritesToRotatingFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	cfg.Paths.StateDir = dir
	cfg.Paths.LogPath = filepath.Join(dir, "logs", "chanakya.log")
	cfg.Paths.HistoryPath = filepath.Join(dir, "history.tsv")
	cfg.Logging.Level = "warn"
	cfg.Logging.Format = "json"

	logger, err := Configure(cfg, nil)
	if err != nil {
		t.Fatalf("configure: %v", err)
	}
	if logger.GetLevel() != logrus.WarnLevel {
		t.Fatalf("level not applied: %v", logger.GetLevel())
	}
	logger.Info("hidden")
	logger.Warn("visible")

	data, err := os.ReadFile(cfg.Paths.LogPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered: %s", out)
	}
	if !strings.Contains(out, `"msg":"visible"`) {
		t.Fatalf("expected json warn line, got %s", out)
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	cfg.Paths.StateDir = dir
	cfg.Paths.LogPath = filepath.Join(dir, "chanakya.log")
	cfg.Paths.HistoryPath = filepath.Join(dir, "history.tsv")
	return cfg
}

func TestConsoleMirrorOnlyWhenEnabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Logging.Console = true

	var console bytes.Buffer
	logger, err := Configure(cfg, &console)
	if err != nil {
		t.Fatalf("configure: %v", err)
	}
	logger.Info("execute queued")
	if !strings.Contains(console.String(), "execute queued") {
		t.Fatalf("console should mirror log lines, got %q", console.String())
	}

	cfg.Logging.Console = false
	console.Reset()
	logger, err = Configure(cfg, &console)
	if err != nil {
		t.Fatalf("configure: %v", err)
	}
	logger.Info("file only")
	if console.Len() != 0 {
		t.Fatalf("console disabled but got %q", console.String())
	}
}

func TestNilConsoleKeepsWidgetScreenClean(t *testing.T) {
	cfg := testConfig(t)
	cfg.Logging.Console = true

	logger, err := Configure(cfg, nil)
	if err != nil {
		t.Fatalf("configure: %v", err)
	}
	logger.Warn("listen failed")

	data, err := os.ReadFile(cfg.Paths.LogPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "listen failed") {
		t.Fatalf("file should still receive entries, got %q", data)
	}
}
