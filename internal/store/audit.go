// Package store persists the authorization flow audit trail.
//
// Only flow lifecycle metadata is recorded: identifiers, endpoint hosts,
// variants, and outcomes. Tokens are never written to storage.
package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Flow is one recorded authorization flow.
type Flow struct {
	ID           string
	EndpointHost string
	Variant      string
	Outcome      string
	StartedAt    time.Time
	CompletedAt  *time.Time
}

// Audit records authorization flow lifecycles in SQLite.
// Implements the flow.Recorder interface.
type Audit struct {
	db *sql.DB
}

// NewAudit creates an Audit over an open database. The flows table must exist
// (see shared.RunMigrations).
func NewAudit(db *sql.DB) *Audit {
	return &Audit{db: db}
}

// RecordStart inserts a pending flow record.
func (a *Audit) RecordStart(flowID, endpointHost, variant string) error {
	_, err := a.db.Exec(
		"INSERT INTO flows (id, endpoint_host, variant) VALUES (?, ?, ?)",
		flowID, endpointHost, variant,
	)
	if err != nil {
		return fmt.Errorf("failed to record flow start: %w", err)
	}
	return nil
}

// RecordOutcome marks a flow as completed with the given outcome.
func (a *Audit) RecordOutcome(flowID, outcome string) error {
	_, err := a.db.Exec(
		"UPDATE flows SET outcome = ?, completed_at = CURRENT_TIMESTAMP WHERE id = ?",
		outcome, flowID,
	)
	if err != nil {
		return fmt.Errorf("failed to record flow outcome: %w", err)
	}
	return nil
}

// Recent returns the most recently started flows, newest first.
func (a *Audit) Recent(limit int) ([]Flow, error) {
	rows, err := a.db.Query(
		"SELECT id, endpoint_host, variant, outcome, started_at, completed_at FROM flows ORDER BY started_at DESC, id LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query flows: %w", err)
	}
	defer rows.Close()

	var flows []Flow
	for rows.Next() {
		var f Flow
		var completed sql.NullTime
		if err := rows.Scan(&f.ID, &f.EndpointHost, &f.Variant, &f.Outcome, &f.StartedAt, &completed); err != nil {
			return nil, fmt.Errorf("failed to scan flow: %w", err)
		}
		if completed.Valid {
			t := completed.Time
			f.CompletedAt = &t
		}
		flows = append(flows, f)
	}

	return flows, rows.Err()
}
