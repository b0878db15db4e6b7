package control

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"chanakya/internal/config"
	"chanakya/internal/controller"
	"chanakya/internal/doctor"
	"chanakya/internal/history"
	"chanakya/internal/tui"

	"github.com/spf13/cobra"
)

// NewAskCmd sends one text command and prints the rendered result.
func NewAskCmd(cfgPath *string) *cobra.Command {
	var baseURL string
	cmd := &cobra.Command{
		Use:   "ask \"command\"",
		Short: "Send a text command to the assistant",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, err := oneShot(cmd, *cfgPath, baseURL)
			if err != nil {
				return err
			}
			if err := ctl.ExecuteCommand(cmd.Context(), strings.Join(args, " ")); err != nil {
				return fmt.Errorf("execute: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&baseURL, "url", "", "Assistant service base URL (overrides config)")
	return cmd
}

// NewListenCmd asks the service to capture one spoken command.
func NewListenCmd(cfgPath *string) *cobra.Command {
	var baseURL string
	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Capture one voice command via the service",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, err := oneShot(cmd, *cfgPath, baseURL)
			if err != nil {
				return err
			}
			if err := ctl.TriggerVoiceCapture(cmd.Context()); err != nil {
				return fmt.Errorf("listen: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&baseURL, "url", "", "Assistant service base URL (overrides config)")
	return cmd
}

// oneShot wires a controller that prints final views only. The process exits
// right after the result, so the speak hook is off.
func oneShot(cmd *cobra.Command, cfgPath, baseURL string) (*controller.Controller, error) {
	sess, err := openSession(cfgPath, baseURL, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	sess.cfg.Speak.Enabled = false
	opts, err := sess.controllerOptions(cmd.Context())
	if err != nil {
		return nil, err
	}
	cmd.SilenceUsage = true
	return controller.New(sess.client, tui.NewLineSurface(cmd.OutOrStdout(), true), opts...), nil
}

// NewHealthCmd pings the assistant service.
func NewHealthCmd(cfgPath *string) *cobra.Command {
	var baseURL string
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check the assistant service is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(*cfgPath, baseURL, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if err := sess.client.Ping(cmd.Context()); err != nil {
				return fmt.Errorf("assistant unreachable: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "ok %s\n", sess.client.BaseURL())
			return nil
		},
	}
	cmd.Flags().StringVar(&baseURL, "url", "", "Assistant service base URL (overrides config)")
	return cmd
}

// NewDoctorCmd runs environment checks.
func NewDoctorCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check config, state dir, service and speak command",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(*cfgPath, "", cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			results := doctor.Run(cmd.Context(), sess.cfg, sess.client)
			failed := false
			for _, r := range results {
				status := "ok"
				if !r.Pass {
					status = "fail"
					failed = true
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-14s %-4s %s\n", r.Name, status, r.Detail)
			}
			if failed {
				return fmt.Errorf("doctor found issues")
			}
			return nil
		},
	}
}

// NewHistoryCmd prints recent interactions.
func NewHistoryCmd(cfgPath *string) *cobra.Command {
	var (
		n       int
		jsonOut bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent commands and responses",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			if n <= 0 {
				n = cfg.UI.HistoryTail
			}
			entries, err := history.Tail(cfg.Paths.HistoryPath, n)
			if err != nil {
				return err
			}
			return printHistory(cmd.OutOrStdout(), entries, jsonOut)
		},
	}
	cmd.Flags().IntVarP(&n, "lines", "n", 0, "number of entries (default ui.history_tail)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output JSON")
	return cmd
}

func printHistory(w io.Writer, entries []history.Entry, jsonOut bool) error {
	if jsonOut {
		return json.NewEncoder(w).Encode(entries)
	}
	for _, e := range entries {
		action := e.Action
		if action == "" {
			action = "-"
		}
		_, _ = fmt.Fprintf(w, "%s  %-5s %-12s %s -> %s\n",
			e.Timestamp.Local().Format("15:04:05"), e.Source, action, e.Command, e.Response)
	}
	return nil
}

// NewTailLogCmd tails the main log file (simple last N lines).
func NewTailLogCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tail-log",
		Short: "Show last 50 log lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			return tailFile(cmd.OutOrStdout(), cfg.Paths.LogPath, 50)
		},
	}
}

func tailFile(w io.Writer, path string, n int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	lines := strings.Split(string(data), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			_, _ = fmt.Fprintln(w, l)
		}
	}
	return nil
}
