// Package render turns assistant results into the text shown in the response area.
// Everything here is pure; surfaces decide how a View is painted.
package render

import (
	"strings"
	"unicode"

	"chanakya/internal/assistant"

	"github.com/charmbracelet/x/ansi"
)

// Fixed user-facing texts.
const (
	VoiceFailure   = "Error connecting to assistant. Please try again."
	ExecuteFailure = "Error executing command. Please try again."
	GreetingText   = `✨ Voice Assistant Ready! Say "Hello" to begin.`
	ListeningText  = "🎤 Listening to your command..."
	ProcessingText = "🤖 Processing..."
	DefaultIcon    = "🤖"
	ErrorIcon      = "❌"

	fallbackCommand = "Command"
)

// Kind identifies what the response area is showing.
type Kind int

const (
	KindGreeting Kind = iota
	KindListening
	KindProcessing
	KindResult
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindGreeting:
		return "greeting"
	case KindListening:
		return "listening"
	case KindProcessing:
		return "processing"
	case KindResult:
		return "result"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Line classes, used by surfaces for styling.
const (
	ClassGreeting = "greeting"
	ClassCommand  = "command"
	ClassResponse = "response"
)

// Line is one paragraph of the response area.
type Line struct {
	Class string
	Text  string
}

// View is the full content of the response area.
type View struct {
	Kind  Kind
	Lines []Line
}

// Text joins the lines with newlines.
func (v View) Text() string {
	parts := make([]string, len(v.Lines))
	for i, l := range v.Lines {
		parts[i] = l.Text
	}
	return strings.Join(parts, "\n")
}

var icons = map[assistant.Action]string{
	assistant.ActionTime:         "⏰",
	assistant.ActionDate:         "📅",
	assistant.ActionOpenApp:      "📱",
	assistant.ActionCloseApp:     "❌",
	assistant.ActionVolumeUp:     "🔊",
	assistant.ActionVolumeDown:   "🔊",
	assistant.ActionScreenshot:   "📸",
	assistant.ActionJoke:         "😄",
	assistant.ActionGoogleSearch: "🔍",
	assistant.ActionGreeting:     "👋",
}

// Icon returns the icon for an action tag, DefaultIcon for anything unmapped.
func Icon(a assistant.Action) string {
	if icon, ok := icons[a]; ok {
		return icon
	}
	return DefaultIcon
}

// Result renders the echoed command and the icon-prefixed response.
func Result(res assistant.Result) View {
	command := res.Command
	if command == "" {
		command = fallbackCommand
	}
	return View{
		Kind: KindResult,
		Lines: []Line{
			{Class: ClassCommand, Text: youSaid(command)},
			{Class: ClassResponse, Text: Icon(res.Action) + " " + Sanitize(res.Response)},
		},
	}
}

// Error renders a single error line.
func Error(message string) View {
	return View{
		Kind:  KindError,
		Lines: []Line{{Class: ClassResponse, Text: ErrorIcon + " " + Sanitize(message)}},
	}
}

// Processing renders the placeholder shown while /execute is in flight.
func Processing(command string) View {
	return View{
		Kind: KindProcessing,
		Lines: []Line{
			{Class: ClassCommand, Text: youSaid(command)},
			{Class: ClassResponse, Text: ProcessingText},
		},
	}
}

// Listening renders the placeholder shown while /listen is in flight.
func Listening() View {
	return View{Kind: KindListening, Lines: []Line{{Class: ClassGreeting, Text: ListeningText}}}
}

// Greeting renders the one-time startup line.
func Greeting() View {
	return View{Kind: KindGreeting, Lines: []Line{{Class: ClassGreeting, Text: GreetingText}}}
}

func youSaid(command string) string {
	return `You: "` + Sanitize(command) + `"`
}

// Sanitize strips terminal escape sequences and control characters from text that
// came from the service or the user, keeping newlines.
func Sanitize(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n':
			return r
		case r == '\t':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
}
