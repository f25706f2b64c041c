package webview

import (
	"io"
	"strings"
	"testing"

	"github.com/desertthunder/shellauth/internal/shared"
)

type recordingEvaluator struct {
	scripts []string
}

func (r *recordingEvaluator) EvaluateJavaScript(script string) {
	r.scripts = append(r.scripts, script)
}

func TestMessageEventScript(t *testing.T) {
	tc := []struct {
		name string
		data string
		want string
	}{
		{
			name: "token payload",
			data: "access_token:abc123",
			want: `window.dispatchEvent(new MessageEvent('message', {data: "access_token:abc123"}));`,
		},
		{
			name: "payload with quotes is escaped for script embedding",
			data: `access_token:a"b`,
			want: `window.dispatchEvent(new MessageEvent('message', {data: "access_token:a\"b"}));`,
		},
		{
			name: "empty payload",
			data: "",
			want: `window.dispatchEvent(new MessageEvent('message', {data: ""}));`,
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := MessageEventScript(tt.data); got != tt.want {
				t.Errorf("MessageEventScript(%q) = %s, want %s", tt.data, got, tt.want)
			}
		})
	}
}

func TestView(t *testing.T) {
	t.Run("PostMessage evaluates a message event script", func(t *testing.T) {
		eval := &recordingEvaluator{}
		view := NewView(eval, shared.NewLogger(io.Discard))

		view.PostMessage("access_token:tok1")

		if len(eval.scripts) != 1 {
			t.Fatalf("expected 1 evaluated script, got %d", len(eval.scripts))
		}
		if !strings.Contains(eval.scripts[0], `"access_token:tok1"`) {
			t.Errorf("script does not carry the payload: %s", eval.scripts[0])
		}
	})

	t.Run("nil logger defaults", func(t *testing.T) {
		view := NewView(&recordingEvaluator{}, nil)
		if view.logger == nil {
			t.Error("expected default logger to be set")
		}
	})
}
