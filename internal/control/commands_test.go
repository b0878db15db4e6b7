package control

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"chanakya/internal/assistant"
	"chanakya/internal/controller"
	"chanakya/internal/history"
	"chanakya/internal/logging"
	"chanakya/internal/tui"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// isolate points HOME at a temp dir so config templates and logs stay out of the real one.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	for _, k := range []string{"CHANAKYA_ASSISTANT_URL", "CHANAKYA_SPEAK_ENABLED", "CHANAKYA_HISTORY_ENABLED", "CHANAKYA_METRICS_ADDR"} {
		t.Setenv(k, "")
	}
	return filepath.Join(dir, "config.toml")
}

type recordingServer struct {
	mu       sync.Mutex
	commands []string
}

func (s *recordingServer) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/execute", func(w http.ResponseWriter, r *http.Request) {
		var req assistant.ExecuteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		s.mu.Lock()
		s.commands = append(s.commands, req.Command)
		s.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]string{
			"command":  req.Command,
			"action":   "open_app",
			"response": "Done: " + req.Command,
			"status":   "success",
		})
	})
	mux.HandleFunc("/listen", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"command":"what time is it","action":"time","response":"It is noon"}`))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

type stubAssistant struct{}

func (stubAssistant) Listen(ctx context.Context) (assistant.Result, error) {
	return assistant.Result{}, nil
}

func (stubAssistant) Execute(ctx context.Context, command string) (assistant.Result, error) {
	return assistant.Result{Response: command}, nil
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestAskPrintsResult(t *testing.T) {
	cfgPath := isolate(t)
	srv := &recordingServer{}
	ts := httptest.NewServer(srv.handler(t))
	defer ts.Close()

	out, err := execute(t, NewAskCmd(&cfgPath), "--url", ts.URL, "open", "notepad")
	require.NoError(t, err)
	require.Equal(t, "You: \"open notepad\"\n📱 Done: open notepad\n", out)
	require.Equal(t, []string{"open notepad"}, srv.commands)
}

func TestAskReportsFailure(t *testing.T) {
	cfgPath := isolate(t)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	out, err := execute(t, NewAskCmd(&cfgPath), "--url", ts.URL, "open notepad")
	require.Error(t, err)
	require.Contains(t, out, "❌ Error executing command. Please try again.")
}

func TestListenPrintsTranscript(t *testing.T) {
	cfgPath := isolate(t)
	ts := httptest.NewServer((&recordingServer{}).handler(t))
	defer ts.Close()

	out, err := execute(t, NewListenCmd(&cfgPath), "--url", ts.URL)
	require.NoError(t, err)
	require.Equal(t, "You: \"what time is it\"\n⏰ It is noon\n", out)
}

func TestHealth(t *testing.T) {
	cfgPath := isolate(t)
	ts := httptest.NewServer((&recordingServer{}).handler(t))
	defer ts.Close()

	out, err := execute(t, NewHealthCmd(&cfgPath), "--url", ts.URL)
	require.NoError(t, err)
	require.Equal(t, "ok "+ts.URL+"\n", out)
}

func TestAskRecordsHistory(t *testing.T) {
	cfgPath := isolate(t)
	ts := httptest.NewServer((&recordingServer{}).handler(t))
	defer ts.Close()

	_, err := execute(t, NewAskCmd(&cfgPath), "--url", ts.URL, "open calculator")
	require.NoError(t, err)

	out, err := execute(t, NewHistoryCmd(&cfgPath))
	require.NoError(t, err)
	require.Contains(t, out, "open calculator -> Done: open calculator")
	require.Contains(t, out, "text")
}

func TestReadLinesRunsInOrder(t *testing.T) {
	srv := &recordingServer{}
	ts := httptest.NewServer(srv.handler(t))
	defer ts.Close()

	var out bytes.Buffer
	client := assistant.New(ts.URL, logging.NewTestLogger())
	ctl := controller.New(client, tui.NewLineSurface(&out, true), controller.WithLogger(logging.NewTestLogger()))

	in := strings.NewReader("first\n\n  second  \n/voice\nthird\n")
	require.NoError(t, readLines(context.Background(), in, ctl))
	require.Equal(t, []string{"first", "  second  ", "third"}, srv.commands)
	require.Contains(t, out.String(), "⏰ It is noon")
}

func TestReadLinesStopsOnCancelWithoutInput(t *testing.T) {
	ctl := controller.New(&stubAssistant{}, tui.NewLineSurface(nil, true), controller.WithLogger(logging.NewTestLogger()))
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- readLines(ctx, pr, ctl) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("readLines did not return after cancel with no pending input")
	}
}

func TestPrintHistory(t *testing.T) {
	ts := time.Date(2026, 1, 2, 15, 4, 5, 0, time.Local)
	entries := []history.Entry{{Timestamp: ts, Source: history.SourceVoice, Command: "tell me a joke", Response: "Why..."}}

	var buf bytes.Buffer
	require.NoError(t, printHistory(&buf, entries, false))
	require.Equal(t, "15:04:05  voice -            tell me a joke -> Why...\n", buf.String())

	buf.Reset()
	require.NoError(t, printHistory(&buf, entries, true))
	require.Contains(t, buf.String(), `"command":"tell me a joke"`)
}

func TestTailFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log")
	require.NoError(t, os.WriteFile(path, []byte("a\nb\n\nc\nd\n"), 0o600))

	var buf bytes.Buffer
	require.NoError(t, tailFile(&buf, path, 3))
	require.Equal(t, "c\nd\n", buf.String())

	require.Error(t, tailFile(&buf, filepath.Join(t.TempDir(), "missing"), 3))
}
