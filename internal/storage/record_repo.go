package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type RecordRepo struct {
	db *sql.DB
}

func NewRecordRepo(db *sql.DB) *RecordRepo {
	return &RecordRepo{db: db}
}

// Insert writes one completion row. Callers upsert by deleting the
// (date, task_id) key first; the unique index backs the invariant up.
func (r *RecordRepo) Insert(ctx context.Context, row RecordRow) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO records (id, task_id, date, intensity, value, logged_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, row.ID, row.TaskID, row.Date, row.Intensity, row.Value, row.LoggedAt)
	if err != nil {
		return fmt.Errorf("record insert: %w", err)
	}
	return nil
}

// DeleteByDay removes the record for (date, taskID), if any.
func (r *RecordRepo) DeleteByDay(ctx context.Context, date, taskID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE date = ? AND task_id = ?`, date, taskID)
	if err != nil {
		return fmt.Errorf("record delete: %w", err)
	}
	return nil
}

func (r *RecordRepo) ListAll(ctx context.Context) ([]RecordRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, task_id, date, intensity, value, logged_at
		FROM records ORDER BY date ASC, task_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("record list: %w", err)
	}
	defer rows.Close()

	var out []RecordRow
	for rows.Next() {
		var (
			rec       RecordRow
			intensity sql.NullInt64
			value     sql.NullFloat64
			loggedAt  sql.NullTime
		)
		if err := rows.Scan(&rec.ID, &rec.TaskID, &rec.Date, &intensity, &value, &loggedAt); err != nil {
			return nil, fmt.Errorf("record scan: %w", err)
		}
		if intensity.Valid {
			v := int(intensity.Int64)
			rec.Intensity = &v
		}
		if value.Valid {
			v := value.Float64
			rec.Value = &v
		}
		if loggedAt.Valid {
			v := loggedAt.Time
			rec.LoggedAt = &v
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("record list rows: %w", err)
	}
	return out, nil
}

// CountByDay reports how many rows exist for (date, taskID). Used by tests
// to pin the one-row-per-key invariant.
func (r *RecordRepo) CountByDay(ctx context.Context, date, taskID string) (int, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM records WHERE date = ? AND task_id = ?
	`, date, taskID)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("record count: %w", err)
	}
	return n, nil
}
