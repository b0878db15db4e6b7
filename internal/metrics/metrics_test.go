package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandlerReportsCounters(t *testing.T) {
	m := New()
	m.IncListen()
	m.IncListen()
	m.IncListenFailed()
	m.IncExecute()
	m.IncSpeakDropped()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	out := string(body)

	for _, want := range []string{
		"chanakya_listen_total 2\n",
		"chanakya_listen_failed_total 1\n",
		"chanakya_execute_total 1\n",
		"chanakya_execute_failed_total 0\n",
		"chanakya_speak_dropped_total 1\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestSnapshot(t *testing.T) {
	m := New()
	m.IncExecute()
	m.IncExecuteFailed()
	s := m.Snapshot()
	if s.Execute != 1 || s.ExecuteFailed != 1 || s.Listen != 0 {
		t.Fatalf("unexpected snapshot: %+v", s)
	}
}
