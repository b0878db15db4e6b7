package control

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"chanakya/internal/controller"
	"chanakya/internal/tui"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// voiceLine triggers a capture when typed in line mode.
const voiceLine = "/voice"

// NewUICmd runs the interactive assistant widget.
func NewUICmd(cfgPath *string) *cobra.Command {
	var (
		baseURL     string
		metricsAddr string
		lineMode    bool
	)
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the assistant widget",
		RunE: func(cmd *cobra.Command, args []string) error {
			plain := lineMode || !term.IsTerminal(int(os.Stdin.Fd()))
			var console io.Writer
			if plain {
				console = cmd.ErrOrStderr()
			}
			sess, err := openSession(*cfgPath, baseURL, console)
			if err != nil {
				return err
			}
			if metricsAddr != "" {
				sess.cfg.Metrics.Enabled = true
				sess.cfg.Metrics.Addr = metricsAddr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			opts, err := sess.controllerOptions(ctx)
			if err != nil {
				return err
			}
			if sess.cfg.Metrics.Enabled {
				go sess.metrics.Serve(ctx.Done(), sess.cfg.Metrics.Addr, sess.logger)
			}
			sess.logger.Infof("assistant service %s", sess.client.BaseURL())

			if plain {
				surface := tui.NewLineSurface(cmd.OutOrStdout(), false)
				ctl := controller.New(sess.client, surface, opts...)
				return runController(ctx, cancel, ctl, func() error {
					return readLines(ctx, cmd.InOrStdin(), ctl)
				})
			}

			surface := tui.NewSurface()
			ctl := controller.New(sess.client, surface, opts...)
			return runController(ctx, cancel, ctl, func() error {
				return tui.Run(ctx, ctl, surface)
			})
		},
	}
	cmd.Flags().StringVar(&baseURL, "url", "", "Assistant service base URL (overrides config)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Enable /metrics on this address")
	cmd.Flags().BoolVar(&lineMode, "line", false, "Plain line mode instead of the full-screen widget")
	return cmd
}

// runController runs ctl in the background for the lifetime of front.
func runController(ctx context.Context, cancel context.CancelFunc, ctl *controller.Controller, front func() error) error {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = ctl.Run(ctx)
	}()
	err := front()
	cancel()
	wg.Wait()
	return err
}

// readLines executes each stdin line in order; "/voice" runs a capture instead.
// It returns as soon as ctx is done, even while a read is pending.
func readLines(ctx context.Context, in io.Reader, ctl *controller.Controller) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		var line string
		var ok bool
		select {
		case <-ctx.Done():
			return nil
		case line, ok = <-lines:
		}
		if !ok {
			select {
			case err := <-scanErr:
				return err
			default:
				return nil
			}
		}
		var err error
		switch strings.TrimSpace(line) {
		case "":
			continue
		case voiceLine:
			err = ctl.TriggerVoiceCapture(ctx)
		default:
			err = ctl.ExecuteCommand(ctx, line)
		}
		if errors.Is(err, context.Canceled) {
			return nil
		}
	}
}
