package shared

import "testing"

func TestGenerateState(t *testing.T) {
	t.Run("produces unique opaque tokens", func(t *testing.T) {
		a, b := GenerateState(), GenerateState()

		if a == "" || b == "" {
			t.Fatal("expected non-empty state tokens")
		}
		if a == b {
			t.Error("expected successive tokens to differ")
		}
		if len(a) != len(GenerateID()) {
			t.Error("expected state tokens in the shared ID format")
		}
	})
}
