package control

import (
	"context"
	"fmt"
	"io"
	"time"

	"chanakya/internal/assistant"
	"chanakya/internal/config"
	"chanakya/internal/controller"
	"chanakya/internal/history"
	"chanakya/internal/logging"
	"chanakya/internal/metrics"
	"chanakya/internal/speak"

	"github.com/sirupsen/logrus"
)

// session bundles what every assistant-facing command needs.
type session struct {
	cfg     *config.Config
	logger  *logrus.Logger
	client  *assistant.Client
	metrics *metrics.Counters
}

// openSession loads config and logging. console receives mirrored log lines when
// logging.console is set; nil keeps logs in the file only.
func openSession(cfgPath, urlOverride string, console io.Writer) (*session, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if urlOverride != "" {
		cfg.Assistant.BaseURL = urlOverride
	}
	logger, err := logging.Configure(cfg, console)
	if err != nil {
		return nil, err
	}
	return &session{
		cfg:     cfg,
		logger:  logger,
		client:  assistant.NewFromConfig(cfg, logger),
		metrics: metrics.New(),
	}, nil
}

// controllerOptions builds controller options from config. A speak worker, when
// enabled, runs until ctx is done.
func (s *session) controllerOptions(ctx context.Context) ([]controller.Option, error) {
	opts := []controller.Option{
		controller.WithLogger(s.logger),
		controller.WithMetrics(s.metrics),
		controller.WithExecuteQueue(s.cfg.UI.ExecuteQueue),
		controller.WithGreetingDelay(ms(s.cfg.UI.GreetingDelayMS)),
		controller.WithAnimation(ms(s.cfg.UI.AnimationMS), s.cfg.UI.RotationStep),
	}
	if s.cfg.History.Enabled {
		opts = append(opts, controller.WithHistory(history.NewRecorder(s.cfg.Paths.HistoryPath, s.cfg.UI.HistoryTail)))
	}
	if s.cfg.Speak.Enabled {
		runner, err := speak.NewRunner(s.cfg.Speak, s.logger)
		if err != nil {
			return nil, fmt.Errorf("speak: %w", err)
		}
		go runner.Worker(ctx)
		opts = append(opts, controller.WithSpeaker(runner))
	}
	return opts, nil
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }
