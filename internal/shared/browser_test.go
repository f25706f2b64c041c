package shared

import "testing"

func TestOpenBrowser(t *testing.T) {
	t.Run("unsupported platform returns an error", func(t *testing.T) {
		original := getRuntime
		getRuntime = func() string { return "plan9" }
		defer func() { getRuntime = original }()

		if err := OpenBrowser("https://idp.example/authorize"); err == nil {
			t.Error("expected error for unsupported platform")
		}
	})
}
