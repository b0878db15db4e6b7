package render

import (
	"testing"

	"chanakya/internal/assistant"

	"github.com/stretchr/testify/require"
)

func TestIconTable(t *testing.T) {
	want := map[assistant.Action]string{
		"time":          "⏰",
		"date":          "📅",
		"open_app":      "📱",
		"close_app":     "❌",
		"volume_up":     "🔊",
		"volume_down":   "🔊",
		"screenshot":    "📸",
		"joke":          "😄",
		"google_search": "🔍",
		"greeting":      "👋",
	}
	for action, icon := range want {
		require.Equal(t, icon, Icon(action), "action %q", action)
	}
	for _, other := range []assistant.Action{"", "unknown", "mute", "wikipedia", "TIME", "list_windows"} {
		require.Equal(t, DefaultIcon, Icon(other), "action %q", other)
	}
}

func TestResultView(t *testing.T) {
	v := Result(assistant.Result{Action: "time", Response: "It is 3 PM", Command: "what time is it"})
	require.Equal(t, KindResult, v.Kind)
	require.Equal(t, "You: \"what time is it\"\n⏰ It is 3 PM", v.Text())
	require.Equal(t, ClassCommand, v.Lines[0].Class)
	require.Equal(t, ClassResponse, v.Lines[1].Class)
}

func TestResultFallsBackToCommand(t *testing.T) {
	v := Result(assistant.Result{Response: "I didn't hear anything."})
	require.Equal(t, `You: "Command"`, v.Lines[0].Text)
	require.Equal(t, "🤖 I didn't hear anything.", v.Lines[1].Text)
}

func TestErrorView(t *testing.T) {
	require.Equal(t, "❌ Error connecting to assistant. Please try again.", Error(VoiceFailure).Text())
	require.Equal(t, "❌ Error executing command. Please try again.", Error(ExecuteFailure).Text())
	require.Len(t, Error("x").Lines, 1)
}

func TestPlaceholders(t *testing.T) {
	require.Equal(t, "You: \"open notepad\"\n🤖 Processing...", Processing("open notepad").Text())
	require.Equal(t, ListeningText, Listening().Text())
	require.Equal(t, `✨ Voice Assistant Ready! Say "Hello" to begin.`, Greeting().Text())
}

func TestSanitizeStripsEscapes(t *testing.T) {
	require.Equal(t, "red text", Sanitize("\x1b[31mred\x1b[0m text"))
	require.Equal(t, "a b\nc", Sanitize("a\tb\nc\r\a"))
	v := Result(assistant.Result{Response: "\x1b]0;pwned\x07hello", Command: "hi\x1b[2J"})
	require.Equal(t, "You: \"hi\"\n🤖 hello", v.Text())
}
