package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

type DB struct {
	sql *sql.DB
}

// Entry is the stored form of one normalized flag record. Identity is
// (workspace_id, flag_name); everything else is tracked detail whose change
// produces an "updated" event.
type Entry struct {
	WorkspaceID   string
	WorkspaceName string
	FlagName      string
	Status        string
	Owner         string
	Description   string
	Tags          string
	Created       string
}

// Change is one recorded inventory change.
type Change struct {
	OccurredAt    time.Time
	WorkspaceID   string
	WorkspaceName string
	FlagName      string
	ChangeType    string
	Detail        string
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS flag_entries (
  id              INTEGER PRIMARY KEY,
  workspace_id    TEXT NOT NULL,
  workspace_name  TEXT NOT NULL,
  flag_name       TEXT NOT NULL,
  status          TEXT NOT NULL,
  owner           TEXT,
  description     TEXT,
  tags            TEXT,
  created_display TEXT,
  run_id          INTEGER NOT NULL DEFAULT 0,
  first_seen_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  last_seen_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(workspace_id, flag_name)
);
CREATE INDEX IF NOT EXISTS idx_entries_workspace ON flag_entries(workspace_id);
CREATE TABLE IF NOT EXISTS flag_changes (
  id             INTEGER PRIMARY KEY,
  occurred_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  workspace_id   TEXT NOT NULL,
  workspace_name TEXT NOT NULL,
  flag_name      TEXT NOT NULL,
  change_type    TEXT NOT NULL CHECK (change_type IN ('added','updated','removed')),
  detail         TEXT
);
CREATE INDEX IF NOT EXISTS idx_changes_time ON flag_changes(occurred_at);
CREATE INDEX IF NOT EXISTS idx_changes_workspace ON flag_changes(workspace_id, occurred_at);
    `); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// UpsertWorkspaceEntries reconciles one workspace's current flag inventory
// against the stored state. New flags are recorded as "added", flags whose
// tracked details changed as "updated", and previously stored flags missing
// from this run as "removed" (swept by run id).
func (d *DB) UpsertWorkspaceEntries(ctx context.Context, workspaceID, workspaceName string, entries []Entry) ([]Change, error) {
	now := time.Now().UTC()
	runID := time.Now().Unix()

	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	rows, err := tx.QueryContext(ctx, "SELECT flag_name, status, owner, description, tags, created_display FROM flag_entries WHERE workspace_id = ?", workspaceID)
	if err != nil {
		return nil, err
	}

	type existing struct{ Status, Owner, Desc, Tags, Created string }
	existingMap := make(map[string]existing)
	for rows.Next() {
		var (
			name, status               string
			owner, desc, tags, created sql.NullString
		)
		if err = rows.Scan(&name, &status, &owner, &desc, &tags, &created); err != nil {
			rows.Close()
			return nil, err
		}
		existingMap[name] = existing{Status: status, Owner: owner.String, Desc: desc.String, Tags: tags.String, Created: created.String}
	}
	if err = rows.Close(); err != nil {
		return nil, err
	}

	var changes []Change
	for _, e := range entries {
		ex, existed := existingMap[e.FlagName]

		if !existed {
			_, err = tx.ExecContext(ctx, `INSERT INTO flag_entries(workspace_id, workspace_name, flag_name, status, owner, description, tags, created_display, run_id, first_seen_at, last_seen_at) VALUES(?,?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP,CURRENT_TIMESTAMP)`,
				e.WorkspaceID, e.WorkspaceName, e.FlagName, e.Status, nullIfEmpty(e.Owner), nullIfEmpty(e.Description), nullIfEmpty(e.Tags), nullIfEmpty(e.Created), runID)
			if err != nil {
				return nil, err
			}
			if _, err = tx.ExecContext(ctx, `INSERT INTO flag_changes(occurred_at, workspace_id, workspace_name, flag_name, change_type, detail) VALUES(CURRENT_TIMESTAMP, ?, ?, ?, 'added', ?)`, workspaceID, workspaceName, e.FlagName, e.Status); err != nil {
				return nil, err
			}
			changes = append(changes, Change{OccurredAt: now, WorkspaceID: workspaceID, WorkspaceName: workspaceName, FlagName: e.FlagName, ChangeType: "added", Detail: e.Status})
			existingMap[e.FlagName] = existing{Status: e.Status, Owner: e.Owner, Desc: e.Description, Tags: e.Tags, Created: e.Created} // Track the new entry
			continue
		}

		if ex.Status != e.Status || ex.Owner != e.Owner || ex.Desc != e.Description || ex.Tags != e.Tags || ex.Created != e.Created {
			_, err = tx.ExecContext(ctx, `UPDATE flag_entries SET workspace_name = ?, status = ?, owner = ?, description = ?, tags = ?, created_display = ?, run_id = ?, last_seen_at = CURRENT_TIMESTAMP WHERE workspace_id = ? AND flag_name = ?`,
				e.WorkspaceName, e.Status, nullIfEmpty(e.Owner), nullIfEmpty(e.Description), nullIfEmpty(e.Tags), nullIfEmpty(e.Created), runID, e.WorkspaceID, e.FlagName)
			if err != nil {
				return nil, err
			}
			detail := changeDetail(ex.Status, e.Status)
			if _, err = tx.ExecContext(ctx, `INSERT INTO flag_changes(occurred_at, workspace_id, workspace_name, flag_name, change_type, detail) VALUES(CURRENT_TIMESTAMP, ?, ?, ?, 'updated', ?)`, workspaceID, workspaceName, e.FlagName, detail); err != nil {
				return nil, err
			}
			changes = append(changes, Change{OccurredAt: now, WorkspaceID: workspaceID, WorkspaceName: workspaceName, FlagName: e.FlagName, ChangeType: "updated", Detail: detail})
		} else {
			_, err = tx.ExecContext(ctx, `UPDATE flag_entries SET run_id = ?, last_seen_at = CURRENT_TIMESTAMP WHERE workspace_id = ? AND flag_name = ?`, runID, e.WorkspaceID, e.FlagName)
			if err != nil {
				return nil, err
			}
		}
	}

	// Sweep: flags not touched in this run are gone from the workspace.
	staleRows, err := tx.QueryContext(ctx, "SELECT flag_name, status FROM flag_entries WHERE workspace_id = ? AND run_id != ?", workspaceID, runID)
	if err != nil {
		return nil, err
	}

	type staleEntry struct{ Name, Status string }
	var toRemove []staleEntry
	for staleRows.Next() {
		var s staleEntry
		if err = staleRows.Scan(&s.Name, &s.Status); err != nil {
			staleRows.Close()
			return nil, err
		}
		toRemove = append(toRemove, s)
	}
	if err = staleRows.Close(); err != nil {
		return nil, err
	}

	if len(toRemove) > 0 {
		_, err = tx.ExecContext(ctx, `DELETE FROM flag_entries WHERE workspace_id = ? AND run_id != ?`, workspaceID, runID)
		if err != nil {
			return nil, err
		}
		for _, s := range toRemove {
			if _, err = tx.ExecContext(ctx, `INSERT INTO flag_changes(occurred_at, workspace_id, workspace_name, flag_name, change_type, detail) VALUES(CURRENT_TIMESTAMP, ?, ?, ?, 'removed', ?)`, workspaceID, workspaceName, s.Name, s.Status); err != nil {
				return nil, err
			}
			changes = append(changes, Change{OccurredAt: now, WorkspaceID: workspaceID, WorkspaceName: workspaceName, FlagName: s.Name, ChangeType: "removed", Detail: s.Status})
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return changes, nil
}

// ListRecentChanges returns the most recent N changes across all workspaces.
func (d *DB) ListRecentChanges(ctx context.Context, limit int) ([]Change, error) {
	if limit <= 0 {
		limit = 50
	}
	q := "SELECT occurred_at, workspace_id, workspace_name, flag_name, change_type, detail FROM flag_changes ORDER BY occurred_at DESC, id DESC LIMIT ?"
	rows, err := d.sql.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	changes := []Change{}
	for rows.Next() {
		var c Change
		var occurredAtStr string
		var detail sql.NullString
		if err := rows.Scan(&occurredAtStr, &c.WorkspaceID, &c.WorkspaceName, &c.FlagName, &c.ChangeType, &detail); err != nil {
			return nil, err
		}
		// Parse SQLite CURRENT_TIMESTAMP format
		// Try "2006-01-02 15:04:05" then RFC3339
		if t, perr := time.Parse("2006-01-02 15:04:05", occurredAtStr); perr == nil {
			c.OccurredAt = t
		} else if t2, perr2 := time.Parse(time.RFC3339, occurredAtStr); perr2 == nil {
			c.OccurredAt = t2
		} else {
			c.OccurredAt = time.Time{}
		}
		c.Detail = detail.String
		changes = append(changes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return changes, nil
}

type WorkspaceStats struct {
	WorkspaceName string
	FlagCount     int
}

func (d *DB) GetStats(ctx context.Context) ([]WorkspaceStats, error) {
	query := `
		SELECT
			workspace_name,
			COUNT(flag_name)
		FROM
			flag_entries
		GROUP BY
			workspace_name
		ORDER BY
			workspace_name;
	`
	rows, err := d.sql.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []WorkspaceStats
	for rows.Next() {
		var s WorkspaceStats
		if err := rows.Scan(&s.WorkspaceName, &s.FlagCount); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

func changeDetail(oldStatus, newStatus string) string {
	if oldStatus != newStatus {
		return fmt.Sprintf("%s -> %s", oldStatus, newStatus)
	}
	return newStatus
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
