package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

// Counters tracks assistant round trips. Safe for concurrent use.
type Counters struct {
	listen        atomic.Int64
	listenFailed  atomic.Int64
	execute       atomic.Int64
	executeFailed atomic.Int64
	speakDropped  atomic.Int64
	started       time.Time
}

func New() *Counters {
	return &Counters{started: time.Now()}
}

func (m *Counters) IncListen()        { m.listen.Add(1) }
func (m *Counters) IncListenFailed()  { m.listenFailed.Add(1) }
func (m *Counters) IncExecute()       { m.execute.Add(1) }
func (m *Counters) IncExecuteFailed() { m.executeFailed.Add(1) }
func (m *Counters) IncSpeakDropped()  { m.speakDropped.Add(1) }

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Listen        int64
	ListenFailed  int64
	Execute       int64
	ExecuteFailed int64
	SpeakDropped  int64
	UptimeSec     float64
}

func (m *Counters) Snapshot() Snapshot {
	return Snapshot{
		Listen:        m.listen.Load(),
		ListenFailed:  m.listenFailed.Load(),
		Execute:       m.execute.Load(),
		ExecuteFailed: m.executeFailed.Load(),
		SpeakDropped:  m.speakDropped.Load(),
		UptimeSec:     time.Since(m.started).Seconds(),
	}
}

// Handler serves the counters in Prometheus text format.
func (m *Counters) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := m.Snapshot()
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		fmt.Fprintf(w, "chanakya_listen_total %d\n", s.Listen)
		fmt.Fprintf(w, "chanakya_listen_failed_total %d\n", s.ListenFailed)
		fmt.Fprintf(w, "chanakya_execute_total %d\n", s.Execute)
		fmt.Fprintf(w, "chanakya_execute_failed_total %d\n", s.ExecuteFailed)
		fmt.Fprintf(w, "chanakya_speak_dropped_total %d\n", s.SpeakDropped)
		fmt.Fprintf(w, "chanakya_uptime_seconds %.0f\n", s.UptimeSec)
	})
}

// Serve exposes /metrics on addr until done is closed.
func (m *Counters) Serve(done <-chan struct{}, addr string, logger interface {
	Infof(string, ...any)
	Warnf(string, ...any)
}) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-done
		_ = server.Close()
	}()
	logger.Infof("metrics listening on http://%s/metrics", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Warnf("metrics server: %v", err)
	}
}
