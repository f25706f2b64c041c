// Package webview delivers messages to the shell's embedded web content.
package webview

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/shellauth/internal/shared"
)

// Notifier delivers data to in-page script listening for message events.
type Notifier interface {
	// PostMessage dispatches a message event carrying data into the embedded
	// web content. Fire-and-forget: completion is never awaited or checked.
	PostMessage(data string)
}

// Evaluator is the shell webview's script-evaluation channel.
type Evaluator interface {
	EvaluateJavaScript(script string)
}

// View wraps an [Evaluator] and implements [Notifier] by dispatching a
// synthetic message event so in-page listeners receive the payload verbatim.
type View struct {
	eval   Evaluator
	logger *log.Logger
}

// NewView creates a View over the given script-evaluation channel.
func NewView(eval Evaluator, logger *log.Logger) *View {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &View{eval: eval, logger: logger}
}

// PostMessage dispatches a message event with data as its payload.
func (v *View) PostMessage(data string) {
	v.logger.Debug("posting message to web content", "bytes", len(data))
	v.eval.EvaluateJavaScript(MessageEventScript(data))
}

// MessageEventScript returns the script that dispatches a message event with
// the given payload. The payload is quoted for script embedding but otherwise
// passed through unmodified.
func MessageEventScript(data string) string {
	return fmt.Sprintf("window.dispatchEvent(new MessageEvent('message', {data: %s}));", strconv.Quote(data))
}
