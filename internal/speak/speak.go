// Package speak reads assistant responses aloud through an external TTS command.
package speak

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"time"

	"chanakya/internal/config"

	"github.com/google/shlex"
	"github.com/sirupsen/logrus"
)

// Job is one response to speak.
type Job struct {
	Text      string
	Action    string
	Timestamp time.Time
}

// Runner executes the speak command with cooldown handling.
type Runner struct {
	cfg     config.SpeakConfig
	args    []string
	logger  *logrus.Logger
	queue   chan Job
	lastRun time.Time
	mu      sync.Mutex
}

// NewRunner validates cfg and returns a Runner with a bounded queue.
func NewRunner(cfg config.SpeakConfig, logger *logrus.Logger) (*Runner, error) {
	args := append([]string{}, cfg.Args...)
	if len(args) == 0 && cfg.ArgsLine != "" {
		parsed, err := ParseArgs(cfg.ArgsLine)
		if err != nil {
			return nil, fmt.Errorf("speak.args_line: %w", err)
		}
		args = parsed
	}
	size := cfg.QueueSize
	if size < 1 {
		size = 1
	}
	return &Runner{
		cfg:    cfg,
		args:   args,
		logger: logger,
		queue:  make(chan Job, size),
	}, nil
}

// ShouldRun returns whether cooldown allows a new run.
func (r *Runner) ShouldRun() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cfg.CooldownSec <= 0 {
		return true
	}
	return time.Since(r.lastRun).Seconds() >= r.cfg.CooldownSec
}

// Enqueue hands job to the worker; it reports false when the queue is full or the
// cooldown has not elapsed.
func (r *Runner) Enqueue(job Job) bool {
	if strings.TrimSpace(job.Text) == "" {
		return true
	}
	if !r.ShouldRun() {
		r.logger.Debug("speak skipped (cooldown)")
		return false
	}
	select {
	case r.queue <- job:
		return true
	default:
		r.logger.Warn("speak queue full, dropping response")
		return false
	}
}

// Worker drains the queue until ctx is done.
func (r *Runner) Worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-r.queue:
			if err := r.Run(ctx, job); err != nil {
				r.logger.Errorf("speak: %v", err)
			}
		}
	}
}

// Run executes the configured command with the response text as last argument.
func (r *Runner) Run(ctx context.Context, job Job) error {
	r.mu.Lock()
	r.lastRun = time.Now()
	r.mu.Unlock()

	cmdStr := r.cfg.Command
	if cmdStr == "" {
		return fmt.Errorf("no speak.command configured")
	}
	text := job.Text
	if r.cfg.RedactPII {
		text = redactPII(text)
	}
	args := append(append([]string{}, r.args...), text)

	runCtx := ctx
	var cancel context.CancelFunc
	if r.cfg.TimeoutSec > 0 {
		runCtx, cancel = context.WithTimeout(ctx, time.Duration(float64(time.Second)*r.cfg.TimeoutSec))
		defer cancel()
	}
	cmd := exec.CommandContext(runCtx, cmdStr, args...)
	cmd.Env = os.Environ()
	for k, v := range r.cfg.Env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
	}
	cmd.Env = append(cmd.Env, fmt.Sprintf("CHANAKYA_RESPONSE=%s", text))
	cmd.Env = append(cmd.Env, fmt.Sprintf("CHANAKYA_ACTION=%s", job.Action))

	out, err := cmd.CombinedOutput()
	if len(out) > 0 {
		r.logger.Debugf("speak output: %s", strings.TrimSpace(string(out)))
	}
	if err != nil {
		return fmt.Errorf("speak failed: %w", err)
	}
	return nil
}

// ParseArgs splits a shell-style argument string.
func ParseArgs(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return []string{}, nil
	}
	return shlex.Split(raw)
}

var (
	emailRE = regexp.MustCompile(`[\w.+-]+@[\w.-]+\.[A-Za-z]{2,}`)
	phoneRE = regexp.MustCompile(`\+?\d[\d\s\-\(\)]{6,}\d`)
)

func redactPII(s string) string {
	s = emailRE.ReplaceAllString(s, "[redacted-email]")
	s = phoneRE.ReplaceAllString(s, "[redacted-phone]")
	return s
}
