package speak

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"chanakya/internal/config"
	"chanakya/internal/logging"
)

func TestShouldRunCooldown(t *testing.T) {
	r, err := NewRunner(config.SpeakConfig{Command: "/bin/echo", CooldownSec: 0.5}, logging.NewTestLogger())
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	if !r.ShouldRun() {
		t.Fatalf("first call should run")
	}
	if err := r.Run(context.Background(), Job{Text: "test", Timestamp: time.Now()}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if r.ShouldRun() {
		t.Fatalf("cooldown should block immediate subsequent run")
	}
	time.Sleep(520 * time.Millisecond)
	if !r.ShouldRun() {
		t.Fatalf("should run after cooldown")
	}
}

func TestRunPassesTextAndEnv(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "spoken.txt")
	cfg := config.SpeakConfig{
		Command:  "/bin/sh",
		ArgsLine: `-c 'printf "%s|%s|%s" "$1" "$CHANAKYA_ACTION" "$VOICE" > "$OUT"' speak`,
		Env:      map[string]string{"OUT": out, "VOICE": "en"},
	}
	r, err := NewRunner(cfg, logging.NewTestLogger())
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.Run(ctx, Job{Text: "It is 3 PM", Action: "time"}); err != nil {
		t.Fatalf("run: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "It is 3 PM|time|en" {
		t.Fatalf("unexpected output %q", data)
	}
}

func TestRunRequiresCommand(t *testing.T) {
	r, _ := NewRunner(config.SpeakConfig{}, logging.NewTestLogger())
	if err := r.Run(context.Background(), Job{Text: "hi"}); err == nil {
		t.Fatalf("expected error without command")
	}
}

func TestEnqueueDropsWhenFull(t *testing.T) {
	r, _ := NewRunner(config.SpeakConfig{Command: "/bin/true", QueueSize: 1}, logging.NewTestLogger())
	if !r.Enqueue(Job{Text: "one"}) {
		t.Fatalf("first job should fit")
	}
	if r.Enqueue(Job{Text: "two"}) {
		t.Fatalf("second job should be dropped")
	}
	if !r.Enqueue(Job{Text: "   "}) {
		t.Fatalf("blank text is a no-op, not a drop")
	}
}

func TestParseArgs(t *testing.T) {
	args, err := ParseArgs(`-v en-us -s 160 "two words"`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if strings.Join(args, ",") != "-v,en-us,-s,160,two words" {
		t.Fatalf("unexpected args %q", args)
	}
	if args, _ := ParseArgs("   "); len(args) != 0 {
		t.Fatalf("expected empty args")
	}
}

func TestRedactPII(t *testing.T) {
	got := redactPII("mail bob@example.com or call +1 555 123 4567")
	if strings.Contains(got, "bob@example.com") || strings.Contains(got, "555") {
		t.Fatalf("pii not redacted: %q", got)
	}
}
