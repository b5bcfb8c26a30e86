package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// ReplaceData is a full dataset for a wholesale rewrite.
type ReplaceData struct {
	Tasks    []TaskRow
	Records  []RecordRow
	Pacts    []PactRow
	Notes    []NoteRow
	Settings map[string]string
	Unlocks  []UnlockRow
}

// ReplaceAll wipes every relation and writes the dataset in one
// transaction. Archive restore is all-or-nothing on the remote side too.
func ReplaceAll(ctx context.Context, db *sql.DB, data ReplaceData) error {
	return WithTx(ctx, db, func(tx *sql.Tx) error {
		for _, table := range []string{"records", "tasks", "pacts", "notes", "settings", "unlocks"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
				return fmt.Errorf("replace wipe %s: %w", table, err)
			}
		}
		for _, t := range data.Tasks {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO tasks (id, name, color, is_archived, metric_unit, metric_phases, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, t.ID, t.Name, t.Color, boolToInt(t.IsArchived), t.MetricUnit, t.MetricPhases, t.CreatedAt); err != nil {
				return fmt.Errorf("replace task: %w", err)
			}
		}
		for _, r := range data.Records {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO records (id, task_id, date, intensity, value, logged_at)
				VALUES (?, ?, ?, ?, ?, ?)
			`, r.ID, r.TaskID, r.Date, r.Intensity, r.Value, r.LoggedAt); err != nil {
				return fmt.Errorf("replace record: %w", err)
			}
		}
		for _, p := range data.Pacts {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO pacts (id, title, partner, created_at) VALUES (?, ?, ?, ?)
			`, p.ID, p.Title, p.Partner, p.CreatedAt); err != nil {
				return fmt.Errorf("replace pact: %w", err)
			}
		}
		for _, n := range data.Notes {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO notes (id, date, body) VALUES (?, ?, ?)
			`, n.ID, n.Date, n.Body); err != nil {
				return fmt.Errorf("replace note: %w", err)
			}
		}
		for k, v := range data.Settings {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO settings (key, value) VALUES (?, ?)
			`, k, v); err != nil {
				return fmt.Errorf("replace setting: %w", err)
			}
		}
		for _, u := range data.Unlocks {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO unlocks (artifact_id, unlocked_at) VALUES (?, ?)
			`, u.ArtifactID, u.UnlockedAt); err != nil {
				return fmt.Errorf("replace unlock: %w", err)
			}
		}
		return nil
	})
}
