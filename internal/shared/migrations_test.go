package shared

import "testing"

func TestMigrations(t *testing.T) {
	t.Run("RunMigrations creates the flows table", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var name string
		err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='flows'").Scan(&name)
		if err != nil {
			t.Fatalf("flows table missing: %v", err)
		}
	})

	t.Run("RunMigrations is idempotent", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := RunMigrations(db); err != nil {
			t.Fatalf("second run should be a no-op: %v", err)
		}
	})

	t.Run("RollbackMigration drops the flows table", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := RollbackMigration(db); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var name string
		err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='flows'").Scan(&name)
		if err == nil {
			t.Error("expected flows table to be dropped")
		}
	})

	t.Run("rollback with no applied migrations fails", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if err := createMigrationsTable(db); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := RollbackMigration(db); err == nil {
			t.Error("expected error with nothing to roll back")
		}
	})
}
