package store

import (
	"testing"

	"github.com/desertthunder/shellauth/internal/shared"
)

func newTestAudit(t *testing.T) *Audit {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return NewAudit(db)
}

func TestAudit(t *testing.T) {
	t.Run("records start as pending", func(t *testing.T) {
		audit := newTestAudit(t)

		if err := audit.RecordStart("flow-1", "idp.example", "web_auth_session"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		flows, err := audit.Recent(10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(flows) != 1 {
			t.Fatalf("expected 1 flow, got %d", len(flows))
		}

		f := flows[0]
		if f.ID != "flow-1" || f.EndpointHost != "idp.example" || f.Variant != "web_auth_session" {
			t.Errorf("unexpected flow record: %+v", f)
		}
		if f.Outcome != "pending" {
			t.Errorf("expected pending outcome, got %q", f.Outcome)
		}
		if f.CompletedAt != nil {
			t.Error("expected no completion time for a pending flow")
		}
	})

	t.Run("records outcome with completion time", func(t *testing.T) {
		audit := newTestAudit(t)

		if err := audit.RecordStart("flow-1", "idp.example", "external_browser"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := audit.RecordOutcome("flow-1", "token_delivered"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		flows, err := audit.Recent(10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if flows[0].Outcome != "token_delivered" {
			t.Errorf("expected token_delivered, got %q", flows[0].Outcome)
		}
		if flows[0].CompletedAt == nil {
			t.Error("expected a completion time")
		}
	})

	t.Run("recent respects the limit", func(t *testing.T) {
		audit := newTestAudit(t)

		for _, id := range []string{"flow-1", "flow-2", "flow-3"} {
			if err := audit.RecordStart(id, "idp.example", "embedded_view"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}

		flows, err := audit.Recent(2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(flows) != 2 {
			t.Errorf("expected 2 flows, got %d", len(flows))
		}
	})

	t.Run("outcome for unknown flow is a silent no-op", func(t *testing.T) {
		audit := newTestAudit(t)

		if err := audit.RecordOutcome("missing", "no_token"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}
