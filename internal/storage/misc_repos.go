package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type PactRepo struct {
	db *sql.DB
}

func NewPactRepo(db *sql.DB) *PactRepo { return &PactRepo{db: db} }

func (r *PactRepo) Upsert(ctx context.Context, row PactRow) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pacts (id, title, partner, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title = excluded.title, partner = excluded.partner
	`, row.ID, row.Title, row.Partner, row.CreatedAt)
	if err != nil {
		return fmt.Errorf("pact upsert: %w", err)
	}
	return nil
}

func (r *PactRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM pacts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("pact delete: %w", err)
	}
	return nil
}

func (r *PactRepo) ListAll(ctx context.Context) ([]PactRow, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, partner, created_at FROM pacts ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("pact list: %w", err)
	}
	defer rows.Close()

	var out []PactRow
	for rows.Next() {
		var (
			p       PactRow
			partner sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Title, &partner, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("pact scan: %w", err)
		}
		if partner.Valid {
			v := partner.String
			p.Partner = &v
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pact rows: %w", err)
	}
	return out, nil
}

type NoteRepo struct {
	db *sql.DB
}

func NewNoteRepo(db *sql.DB) *NoteRepo { return &NoteRepo{db: db} }

func (r *NoteRepo) Upsert(ctx context.Context, row NoteRow) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notes (id, date, body) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET date = excluded.date, body = excluded.body
	`, row.ID, row.Date, row.Body)
	if err != nil {
		return fmt.Errorf("note upsert: %w", err)
	}
	return nil
}

func (r *NoteRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("note delete: %w", err)
	}
	return nil
}

func (r *NoteRepo) ListAll(ctx context.Context) ([]NoteRow, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, date, body FROM notes ORDER BY date ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("note list: %w", err)
	}
	defer rows.Close()

	var out []NoteRow
	for rows.Next() {
		var n NoteRow
		if err := rows.Scan(&n.ID, &n.Date, &n.Body); err != nil {
			return nil, fmt.Errorf("note scan: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("note rows: %w", err)
	}
	return out, nil
}

// SettingsRepo is a key-value relation; preferences live under one key as
// a JSON blob.
type SettingsRepo struct {
	db *sql.DB
}

func NewSettingsRepo(db *sql.DB) *SettingsRepo { return &SettingsRepo{db: db} }

func (r *SettingsRepo) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("setting set: %w", err)
	}
	return nil
}

func (r *SettingsRepo) Get(ctx context.Context, key string) (string, bool, error) {
	row := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key)
	var v string
	if err := row.Scan(&v); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("setting get: %w", err)
	}
	return v, true, nil
}

type UnlockRepo struct {
	db *sql.DB
}

func NewUnlockRepo(db *sql.DB) *UnlockRepo { return &UnlockRepo{db: db} }

// Insert records an unlock once; replays are ignored, matching the
// monotonic unlock set.
func (r *UnlockRepo) Insert(ctx context.Context, artifactID string, unlockedAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO unlocks (artifact_id, unlocked_at) VALUES (?, ?)
	`, artifactID, unlockedAt)
	if err != nil {
		return fmt.Errorf("unlock insert: %w", err)
	}
	return nil
}

func (r *UnlockRepo) ListAll(ctx context.Context) ([]UnlockRow, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT artifact_id, unlocked_at FROM unlocks`)
	if err != nil {
		return nil, fmt.Errorf("unlock list: %w", err)
	}
	defer rows.Close()

	var out []UnlockRow
	for rows.Next() {
		var u UnlockRow
		if err := rows.Scan(&u.ArtifactID, &u.UnlockedAt); err != nil {
			return nil, fmt.Errorf("unlock scan: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unlock rows: %w", err)
	}
	return out, nil
}
