package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type TaskRepo struct {
	db *sql.DB
}

func NewTaskRepo(db *sql.DB) *TaskRepo {
	return &TaskRepo{db: db}
}

// Upsert writes the full task row, inserting or replacing on id.
func (r *TaskRepo) Upsert(ctx context.Context, row TaskRow) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, name, color, is_archived, metric_unit, metric_phases, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			color = excluded.color,
			is_archived = excluded.is_archived,
			metric_unit = excluded.metric_unit,
			metric_phases = excluded.metric_phases
	`, row.ID, row.Name, row.Color, boolToInt(row.IsArchived), row.MetricUnit, row.MetricPhases, row.CreatedAt)
	if err != nil {
		return fmt.Errorf("task upsert: %w", err)
	}
	return nil
}

func (r *TaskRepo) Get(ctx context.Context, id string) (*TaskRow, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, color, is_archived, metric_unit, metric_phases, created_at
		FROM tasks WHERE id = ?
	`, id)
	return scanTaskRow(row)
}

func (r *TaskRepo) ListAll(ctx context.Context) ([]TaskRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, color, is_archived, metric_unit, metric_phases, created_at
		FROM tasks ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("task list: %w", err)
	}
	defer rows.Close()

	var out []TaskRow
	for rows.Next() {
		t, err := scanTaskRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("task list rows: %w", err)
	}
	return out, nil
}

// DeleteCascade removes the task and every record referencing it within
// one transaction, so a delete never strands orphan records remotely.
func (r *TaskRepo) DeleteCascade(ctx context.Context, id string) error {
	return WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE task_id = ?`, id); err != nil {
			return fmt.Errorf("task cascade records: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id); err != nil {
			return fmt.Errorf("task delete: %w", err)
		}
		return nil
	})
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTaskRow(row scanner) (*TaskRow, error) {
	var (
		t        TaskRow
		color    sql.NullString
		archived int
		unit     sql.NullString
		phases   sql.NullString
	)
	if err := row.Scan(&t.ID, &t.Name, &color, &archived, &unit, &phases, &t.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("task scan: %w", err)
	}
	if color.Valid {
		v := color.String
		t.Color = &v
	}
	t.IsArchived = archived != 0
	if unit.Valid {
		v := unit.String
		t.MetricUnit = &v
	}
	if phases.Valid {
		v := phases.String
		t.MetricPhases = &v
	}
	return &t, nil
}
