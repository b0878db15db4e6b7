// Package controller translates UI events into Assistant Service calls and service
// results into surface updates.
package controller

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"chanakya/internal/assistant"
	"chanakya/internal/history"
	"chanakya/internal/metrics"
	"chanakya/internal/render"
	"chanakya/internal/speak"

	"github.com/sirupsen/logrus"
)

var (
	// ErrBusy is returned when a voice capture is already in flight.
	ErrBusy = errors.New("voice capture already in progress")
	// ErrEmptyCommand is returned for blank text submissions.
	ErrEmptyCommand = errors.New("empty command")
	// ErrQueueFull is returned when too many text commands are pending.
	ErrQueueFull = errors.New("execute queue full")
)

// Assistant is the remote service.
type Assistant interface {
	Listen(ctx context.Context) (assistant.Result, error)
	Execute(ctx context.Context, command string) (assistant.Result, error)
}

// Surface is the UI the controller paints. Calls are serialized by the controller.
type Surface interface {
	// SetListening toggles the voice button, status indicator, avatar and sound waves.
	SetListening(on bool)
	// ShowView replaces the response area.
	ShowView(v render.View)
	// ClearInput empties the text input.
	ClearInput()
	// SetRotation moves the idle avatar animation.
	SetRotation(deg float64)
}

// Speaker receives responses to read aloud.
type Speaker interface {
	Enqueue(job speak.Job) bool
}

// Recorder stores completed interactions.
type Recorder interface {
	Record(e history.Entry) error
}

// Controller owns the widget state: the listening flag and the animation angle.
type Controller struct {
	assistant Assistant
	surface   Surface
	logger    *logrus.Logger
	metrics   *metrics.Counters
	speaker   Speaker
	history   Recorder

	greetingDelay   time.Duration
	animationPeriod time.Duration
	rotationStep    float64

	listening atomic.Bool

	rotMu    sync.Mutex
	rotation float64

	uiMu sync.Mutex

	execCh chan string
}

// Option customizes a Controller.
type Option func(*Controller)

func WithLogger(l *logrus.Logger) Option       { return func(c *Controller) { c.logger = l } }
func WithMetrics(m *metrics.Counters) Option   { return func(c *Controller) { c.metrics = m } }
func WithSpeaker(s Speaker) Option             { return func(c *Controller) { c.speaker = s } }
func WithHistory(r Recorder) Option            { return func(c *Controller) { c.history = r } }
func WithGreetingDelay(d time.Duration) Option { return func(c *Controller) { c.greetingDelay = d } }
func WithExecuteQueue(n int) Option {
	return func(c *Controller) { c.execCh = make(chan string, max(1, n)) }
}
func WithAnimation(period time.Duration, step float64) Option {
	return func(c *Controller) {
		c.animationPeriod = period
		c.rotationStep = step
	}
}

// New returns an idle controller.
func New(a Assistant, s Surface, opts ...Option) *Controller {
	c := &Controller{
		assistant:       a,
		surface:         s,
		logger:          logrus.StandardLogger(),
		greetingDelay:   500 * time.Millisecond,
		animationPeriod: 50 * time.Millisecond,
		rotationStep:    0.5,
		execCh:          make(chan string, 8),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.metrics == nil {
		c.metrics = metrics.New()
	}
	return c
}

// Listening reports whether a voice capture is in flight.
func (c *Controller) Listening() bool { return c.listening.Load() }

// Rotation returns the current avatar angle in degrees.
func (c *Controller) Rotation() float64 {
	c.rotMu.Lock()
	defer c.rotMu.Unlock()
	return c.rotation
}

// Run shows the startup greeting, drives the idle animation and executes queued text
// commands in submission order. It blocks until ctx is done.
func (c *Controller) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		c.executeWorker(ctx)
	}()
	go func() {
		defer wg.Done()
		c.animate(ctx)
	}()

	greet := time.NewTimer(c.greetingDelay)
	defer greet.Stop()
	select {
	case <-greet.C:
		c.paint(func(s Surface) { s.ShowView(render.Greeting()) })
		<-ctx.Done()
	case <-ctx.Done():
	}
	wg.Wait()
	return nil
}

// TriggerVoiceCapture runs one /listen round trip. It returns ErrBusy without touching
// the network when a capture is already in flight. Failures are rendered and returned.
func (c *Controller) TriggerVoiceCapture(ctx context.Context) error {
	if !c.listening.CompareAndSwap(false, true) {
		return ErrBusy
	}
	c.metrics.IncListen()
	c.paint(func(s Surface) {
		s.SetListening(true)
		s.ShowView(render.Listening())
	})

	res, err := c.assistant.Listen(ctx)

	c.listening.Store(false)
	c.paint(func(s Surface) {
		s.SetListening(false)
		if err != nil {
			s.ShowView(render.Error(render.VoiceFailure))
			return
		}
		s.ShowView(render.Result(res))
	})
	if err != nil {
		c.metrics.IncListenFailed()
		c.logger.Warnf("voice capture: %v", err)
		return err
	}
	c.delivered(history.SourceVoice, res)
	return nil
}

// SubmitTextCommand clears the input, shows the processing placeholder and queues the
// command for /execute. Blank commands are ignored and leave the input untouched.
func (c *Controller) SubmitTextCommand(ctx context.Context, command string) error {
	if !c.begin(command) {
		return ErrEmptyCommand
	}
	// The worker stops with ctx; a command queued after that would never resolve.
	if err := ctx.Err(); err != nil {
		c.rejected()
		return err
	}
	select {
	case c.execCh <- command:
		return nil
	default:
		c.logger.Warn("execute queue full, dropping command")
		c.rejected()
		return ErrQueueFull
	}
}

// rejected accounts for a command that never reached the worker.
func (c *Controller) rejected() {
	c.metrics.IncExecute()
	c.metrics.IncExecuteFailed()
	c.RenderError(render.ExecuteFailure)
}

// ExecuteCommand is the synchronous form of SubmitTextCommand; it returns once the
// result or error has been rendered.
func (c *Controller) ExecuteCommand(ctx context.Context, command string) error {
	if !c.begin(command) {
		return ErrEmptyCommand
	}
	return c.execute(ctx, command)
}

// RenderResult shows res in the response area.
func (c *Controller) RenderResult(res assistant.Result) {
	c.paint(func(s Surface) { s.ShowView(render.Result(res)) })
}

// RenderError shows a single error line in the response area.
func (c *Controller) RenderError(message string) {
	c.paint(func(s Surface) { s.ShowView(render.Error(message)) })
}

func (c *Controller) begin(command string) bool {
	if strings.TrimSpace(command) == "" {
		return false
	}
	c.paint(func(s Surface) {
		s.ClearInput()
		s.ShowView(render.Processing(command))
	})
	return true
}

func (c *Controller) executeWorker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case command := <-c.execCh:
			_ = c.execute(ctx, command)
		}
	}
}

func (c *Controller) execute(ctx context.Context, command string) error {
	c.metrics.IncExecute()
	res, err := c.assistant.Execute(ctx, command)
	if err != nil {
		c.metrics.IncExecuteFailed()
		c.logger.Warnf("execute %q: %v", command, err)
		c.RenderError(render.ExecuteFailure)
		return err
	}
	c.RenderResult(res)
	c.delivered(history.SourceText, res)
	return nil
}

// delivered runs the side effects of a rendered result.
func (c *Controller) delivered(src history.Source, res assistant.Result) {
	if res.Status != "" && res.Status != assistant.StatusSuccess {
		c.logger.Infof("assistant status %s: %s", res.Status, res.Response)
	}
	if c.history != nil {
		err := c.history.Record(history.Entry{
			Timestamp: time.Now(),
			Source:    src,
			Action:    string(res.Action),
			Command:   res.Command,
			Response:  res.Response,
		})
		if err != nil {
			c.logger.Warnf("record history: %v", err)
		}
	}
	if c.speaker != nil {
		if !c.speaker.Enqueue(speak.Job{Text: res.Response, Action: string(res.Action), Timestamp: time.Now()}) {
			c.metrics.IncSpeakDropped()
		}
	}
}

func (c *Controller) animate(ctx context.Context) {
	if c.animationPeriod <= 0 {
		return
	}
	ticker := time.NewTicker(c.animationPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if c.listening.Load() {
				continue
			}
			c.rotMu.Lock()
			c.rotation += c.rotationStep
			deg := c.rotation
			c.rotMu.Unlock()
			c.paint(func(s Surface) { s.SetRotation(deg) })
		}
	}
}

func (c *Controller) paint(fn func(Surface)) {
	c.uiMu.Lock()
	defer c.uiMu.Unlock()
	fn(c.surface)
}
