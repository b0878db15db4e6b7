// Package assistant talks to the Assistant Service that performs speech capture and
// command interpretation on behalf of the terminal widget.
package assistant

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Action classifies a command result for icon selection.
type Action string

const (
	ActionTime         Action = "time"
	ActionDate         Action = "date"
	ActionOpenApp      Action = "open_app"
	ActionCloseApp     Action = "close_app"
	ActionVolumeUp     Action = "volume_up"
	ActionVolumeDown   Action = "volume_down"
	ActionScreenshot   Action = "screenshot"
	ActionJoke         Action = "joke"
	ActionGoogleSearch Action = "google_search"
	ActionGreeting     Action = "greeting"
)

// Status values the service reports alongside a result. Informational only.
const (
	StatusSuccess   = "success"
	StatusNoCommand = "no_command"
	StatusError     = "error"
)

// Result is the body returned by both /listen and /execute.
type Result struct {
	Command  string `json:"command,omitempty"`
	Action   Action `json:"action,omitempty"`
	Response string `json:"response"`
	Status   string `json:"status,omitempty"`
}

// ExecuteRequest is the /execute request body.
type ExecuteRequest struct {
	Command string `json:"command"`
}

var (
	// ErrTransport covers network failures and unreadable bodies.
	ErrTransport = errors.New("assistant unreachable")
	// ErrStatus is returned for non-2xx responses.
	ErrStatus = errors.New("assistant error status")
	// ErrMalformed is returned when the body does not match the Result schema.
	ErrMalformed = errors.New("malformed assistant response")
)

// Decode validates a response body against the Result schema. The body must be a
// JSON object with a string "response"; command, action and status must be strings
// when present. Null optional fields count as absent.
func Decode(data []byte) (Result, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if fields == nil {
		return Result{}, fmt.Errorf("%w: body is not an object", ErrMalformed)
	}

	var res Result
	raw, ok := fields["response"]
	if !ok || isNull(raw) {
		return Result{}, fmt.Errorf("%w: missing response", ErrMalformed)
	}
	if err := json.Unmarshal(raw, &res.Response); err != nil {
		return Result{}, fmt.Errorf("%w: response: %v", ErrMalformed, err)
	}

	optional := map[string]*string{
		"command": &res.Command,
		"status":  &res.Status,
	}
	var action string
	optional["action"] = &action
	for name, dst := range optional {
		raw, ok := fields[name]
		if !ok || isNull(raw) {
			continue
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return Result{}, fmt.Errorf("%w: %s: %v", ErrMalformed, name, err)
		}
	}
	res.Action = Action(action)
	return res, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
