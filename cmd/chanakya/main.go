package main

import (
	"fmt"
	"os"

	"chanakya/internal/control"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	root := &cobra.Command{
		Use:   "chanakya",
		Short: "Chanakya, terminal front end for the voice assistant service",
		Long: `Chanakya talks to a local voice assistant service over HTTP. Press a key to have the
service capture a spoken command, or type a command; the transcript and the assistant's reply
are shown in an animated terminal widget.

Key commands:
  ui [--url --line]         Interactive widget (line mode when stdin is not a TTY)
  ask "text"                Send one text command
  listen                    Capture one voice command
  health|doctor             Service ping, environment checks
  history|tail-log          Recent interactions, log tail

Notable flags/env:
  --metrics-addr <addr>     Enable /metrics (Prometheus text)
  Env overrides: CHANAKYA_ASSISTANT_URL, CHANAKYA_TIMEOUT_SEC, CHANAKYA_METRICS_ADDR,
                 CHANAKYA_LOG_LEVEL/FORMAT/CONSOLE, CHANAKYA_SPEAK_ENABLED, CHANAKYA_HISTORY_ENABLED`,
		Example: `  chanakya ui
  chanakya ui --url http://localhost:5000 --metrics-addr 127.0.0.1:9318
  echo "what time is it" | chanakya ui --line
  chanakya ask "open notepad"
  chanakya history -n 5`,
		DisableFlagsInUseLine: true,
		SilenceUsage:          true,
		SilenceErrors:         true,
	}

	root.Version = version
	root.SetVersionTemplate("Chanakya v{{.Version}}\n")

	cfgPath := root.PersistentFlags().StringP("config", "c", "", "Path to config file (TOML). Defaults to ~/.config/chanakya/config.toml")
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(control.NewUICmd(cfgPath))
	root.AddCommand(control.NewAskCmd(cfgPath))
	root.AddCommand(control.NewListenCmd(cfgPath))
	root.AddCommand(control.NewHealthCmd(cfgPath))
	root.AddCommand(control.NewDoctorCmd(cfgPath))
	root.AddCommand(control.NewHistoryCmd(cfgPath))
	root.AddCommand(control.NewTailLogCmd(cfgPath))

	applyColorHelp(root)

	return root.Execute()
}

func applyColorHelp(root *cobra.Command) {
	const (
		boldBlue = "\033[1;34m"
		green    = "\033[32m"
		bold     = "\033[1m"
		dim      = "\033[2m"
		reset    = "\033[0m"
	)
	root.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != root {
			// Subcommands keep cobra's flag listing.
			_, _ = fmt.Fprint(cmd.OutOrStdout(), cmd.UsageString())
			return
		}
		out := cmd.OutOrStdout()
		write := func(format string, args ...any) { _, _ = fmt.Fprintf(out, format, args...) }
		writeln := func(line string) { _, _ = fmt.Fprintln(out, line) }

		write("%sChanakya%s terminal voice assistant client %s(v%s)%s\n", boldBlue, reset, dim, version, reset)
		write("%sTalks to the assistant service, renders transcripts and replies, optionally speaks them.%s\n\n", dim, reset)

		write("%sUsage%s\n", bold, reset)
		write("  chanakya [command] [flags]\n\n")

		write("%sKeys in the widget%s\n", bold, reset)
		writeln("  enter                       send typed command")
		writeln("  ctrl+t / f2                 capture a voice command")
		writeln("  esc / ctrl+c                quit")
		writeln("")

		write("%sNotable flags & env%s\n", bold, reset)
		writeln("  --url <base>            assistant service (default http://localhost:5000)")
		writeln("  --metrics-addr <addr>   enable /metrics (Prometheus)")
		writeln("  --line                  plain line mode; type /voice to capture")
		writeln("  -c, --config <path>     config file (default ~/.config/chanakya/config.toml)")
		writeln("  Env: CHANAKYA_ASSISTANT_URL=url, CHANAKYA_TIMEOUT_SEC=30,")
		writeln("       CHANAKYA_METRICS_ADDR=host:port, CHANAKYA_LOG_LEVEL=debug,")
		writeln("       CHANAKYA_LOG_FORMAT=json, CHANAKYA_SPEAK_ENABLED=1,")
		writeln("       CHANAKYA_LOG_CONSOLE=1, CHANAKYA_HISTORY_ENABLED=0")
		writeln("")

		write("%sExamples%s\n", bold, reset)
		writeln("  chanakya ui")
		writeln("  echo \"tell me a joke\" | chanakya ui --line")
		writeln("  chanakya ask \"open notepad\"")
		writeln("  chanakya listen")
		writeln("  chanakya doctor")
		writeln("")

		write("%sCommands%s\n", bold, reset)
		for _, c := range cmd.Commands() {
			if c.Hidden {
				continue
			}
			write("  %s%-15s%s %s\n", green, c.Name(), reset, c.Short)
		}
	})
}
