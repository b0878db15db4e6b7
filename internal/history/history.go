// Package history keeps a log of assistant interactions.
package history

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Source says how a command reached the assistant.
type Source string

const (
	SourceVoice Source = "voice"
	SourceText  Source = "text"
)

// Entry is one completed interaction.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Source    Source    `json:"source"`
	Action    string    `json:"action,omitempty"`
	Command   string    `json:"command"`
	Response  string    `json:"response"`
}

// Recorder appends entries to a TSV file and keeps the last few in memory.
type Recorder struct {
	path string
	tail int

	mu      sync.Mutex
	entries []Entry
}

func NewRecorder(path string, tail int) *Recorder {
	if tail <= 0 {
		tail = 10
	}
	return &Recorder{path: path, tail: tail, entries: make([]Entry, 0, tail)}
}

// Record stores e; file errors are returned but the in-memory tail is always updated.
func (r *Recorder) Record(e Entry) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	if len(r.entries) > r.tail {
		r.entries = r.entries[len(r.entries)-r.tail:]
	}
	if r.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = fmt.Fprintln(f, formatLine(e))
	return err
}

// Recent returns a copy of the in-memory tail, oldest first.
func (r *Recorder) Recent() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Tail reads the last n entries from the file at path. A missing file is empty.
func Tail(path string, n int) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var out []Entry
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	for sc.Scan() {
		e, ok := parseLine(sc.Text())
		if !ok {
			continue
		}
		out = append(out, e)
		if n > 0 && len(out) > n {
			out = out[1:]
		}
	}
	return out, sc.Err()
}

func formatLine(e Entry) string {
	return strings.Join([]string{
		e.Timestamp.Format(time.RFC3339),
		string(e.Source),
		field(e.Action),
		field(e.Command),
		field(e.Response),
	}, "\t")
}

func parseLine(line string) (Entry, bool) {
	parts := strings.SplitN(line, "\t", 5)
	if len(parts) != 5 {
		return Entry{}, false
	}
	ts, err := time.Parse(time.RFC3339, parts[0])
	if err != nil {
		return Entry{}, false
	}
	return Entry{
		Timestamp: ts,
		Source:    Source(parts[1]),
		Action:    unfield(parts[2]),
		Command:   unfield(parts[3]),
		Response:  unfield(parts[4]),
	}, true
}

// field keeps one entry on one line.
func field(s string) string {
	if s == "" {
		return "-"
	}
	return strings.NewReplacer("\t", " ", "\n", " ", "\r", " ").Replace(s)
}

func unfield(s string) string {
	if s == "-" {
		return ""
	}
	return s
}
