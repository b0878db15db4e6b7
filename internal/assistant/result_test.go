package assistant

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		want    Result
		wantErr bool
	}{
		{
			name: "full",
			body: `{"action":"joke","response":"Too many bugs","command":"tell me a joke","status":"success"}`,
			want: Result{Action: ActionJoke, Response: "Too many bugs", Command: "tell me a joke", Status: "success"},
		},
		{
			name: "null optionals are absent",
			body: `{"response":"hi","command":null,"action":null}`,
			want: Result{Response: "hi"},
		},
		{
			name: "unknown fields ignored",
			body: `{"response":"hi","extra":42}`,
			want: Result{Response: "hi"},
		},
		{name: "array", body: `[1,2]`, wantErr: true},
		{name: "null body", body: `null`, wantErr: true},
		{name: "missing response", body: `{"action":"time"}`, wantErr: true},
		{name: "null response", body: `{"response":null}`, wantErr: true},
		{name: "numeric response", body: `{"response":3}`, wantErr: true},
		{name: "numeric action", body: `{"response":"x","action":7}`, wantErr: true},
		{name: "not json", body: `Internal Server Error`, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Decode([]byte(tc.body))
			if tc.wantErr {
				require.ErrorIs(t, err, ErrMalformed)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}
