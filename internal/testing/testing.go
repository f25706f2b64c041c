// package testing contains shared testing utilities
package testing

import (
	"errors"
	"sync"
)

// MockAuthenticator is a test double for [session.WebAuthenticator]. It
// captures the presented endpoint and completion callback so tests can drive
// the mechanism's native completion themselves.
type MockAuthenticator struct {
	Endpoint  string
	Scheme    string
	Done      func(redirect string, err error)
	Dismissed int
}

func (m *MockAuthenticator) Authenticate(endpoint, callbackScheme string, done func(redirect string, err error)) {
	m.Endpoint = endpoint
	m.Scheme = callbackScheme
	m.Done = done
}

func (m *MockAuthenticator) Dismiss() { m.Dismissed++ }

// MockBrowser is a test double for [session.EmbeddedBrowser].
type MockBrowser struct {
	Presented string
	Dismissed int
	OnDismiss func()
}

func (m *MockBrowser) Present(endpoint string)     { m.Presented = endpoint }
func (m *MockBrowser) Dismiss()                    { m.Dismissed++ }
func (m *MockBrowser) SetDismissHandler(fn func()) { m.OnDismiss = fn }

// MockNotifier is a test double for [webview.Notifier], recording every
// posted payload.
type MockNotifier struct {
	mu       sync.Mutex
	Messages []string
}

func (m *MockNotifier) PostMessage(data string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, data)
}

// Posted returns a copy of the payloads posted so far.
func (m *MockNotifier) Posted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Messages))
	copy(out, m.Messages)
	return out
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRecorder is a test double for [flow.Recorder].
type MockRecorder struct {
	Starts   []string
	Outcomes map[string]string
	Fail     bool
}

func (m *MockRecorder) RecordStart(flowID, endpointHost, variant string) error {
	if m.Fail {
		return errors.New("record failed")
	}
	m.Starts = append(m.Starts, flowID)
	return nil
}

func (m *MockRecorder) RecordOutcome(flowID, outcome string) error {
	if m.Fail {
		return errors.New("record failed")
	}
	if m.Outcomes == nil {
		m.Outcomes = make(map[string]string)
	}
	m.Outcomes[flowID] = outcome
	return nil
}
