package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/wisync/internal/db"
	"github.com/alexanderramin/wisync/internal/domain"
)

// SQLiteJournalRepo implements JournalRepo using a SQLite database.
type SQLiteJournalRepo struct {
	db db.DBTX
}

// NewSQLiteJournalRepo creates a new SQLiteJournalRepo.
func NewSQLiteJournalRepo(conn db.DBTX) *SQLiteJournalRepo {
	return &SQLiteJournalRepo{db: conn}
}

func (r *SQLiteJournalRepo) CreateRun(ctx context.Context, run *domain.CreateRun) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO create_runs (id, kind, title, status, error, epic_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		run.ID,
		string(run.Kind),
		run.Title,
		string(run.Status),
		run.Error,
		nullableIntToValue(run.EpicID),
		run.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting create run: %w", err)
	}
	return nil
}

func (r *SQLiteJournalRepo) AddItems(ctx context.Context, runID string, items []domain.JournalItem) error {
	query := `INSERT INTO created_items (run_id, seq, remote_id, type, title, parent_remote_id, web_url)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	for _, it := range items {
		_, err := r.db.ExecContext(ctx, query,
			runID,
			it.Seq,
			it.RemoteID,
			string(it.Type),
			it.Title,
			it.ParentID,
			it.WebURL,
		)
		if err != nil {
			return fmt.Errorf("inserting created item %d: %w", it.RemoteID, err)
		}
	}
	return nil
}

func (r *SQLiteJournalRepo) ListRuns(ctx context.Context, limit int) ([]domain.CreateRun, error) {
	query := `SELECT r.id, r.kind, r.title, r.status, r.error, r.epic_id, r.created_at,
		(SELECT COUNT(*) FROM created_items i WHERE i.run_id = r.id)
		FROM create_runs r ORDER BY r.created_at DESC, r.rowid DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing create runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.CreateRun
	var count int
	for rows.Next() {
		run, err := scanRun(rows, &count)
		if err != nil {
			return nil, err
		}
		run.ItemCount = count
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating create runs: %w", err)
	}
	return runs, nil
}

func (r *SQLiteJournalRepo) GetRun(ctx context.Context, id string) (*domain.CreateRun, error) {
	query := `SELECT id, kind, title, status, error, epic_id, created_at
		FROM create_runs WHERE id = ?`
	run, err := scanRun(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("create run: %w", ErrNotFound)
		}
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT seq, remote_id, type, title, parent_remote_id, web_url
		FROM created_items WHERE run_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("listing created items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it domain.JournalItem
		var typ string
		if err := rows.Scan(&it.Seq, &it.RemoteID, &typ, &it.Title, &it.ParentID, &it.WebURL); err != nil {
			return nil, fmt.Errorf("scanning created item: %w", err)
		}
		it.Type = domain.WorkItemType(typ)
		run.Items = append(run.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating created items: %w", err)
	}
	run.ItemCount = len(run.Items)
	return run, nil
}

func (r *SQLiteJournalRepo) ForgetItems(ctx context.Context, remoteIDs []int) (int, error) {
	if len(remoteIDs) == 0 {
		return 0, nil
	}
	placeholders := make([]string, len(remoteIDs))
	args := make([]any, len(remoteIDs))
	for i, id := range remoteIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := `DELETE FROM created_items WHERE remote_id IN (` + strings.Join(placeholders, ",") + `)`
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("forgetting created items: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("forgetting created items: %w", err)
	}
	return int(n), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner, extra ...any) (*domain.CreateRun, error) {
	var (
		run           domain.CreateRun
		kind, status  string
		epicID        sql.NullInt64
		createdAtText string
	)
	dest := append([]any{&run.ID, &kind, &run.Title, &status, &run.Error, &epicID, &createdAtText}, extra...)
	if err := s.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning create run: %w", err)
	}
	run.Kind = domain.RunKind(kind)
	run.Status = domain.RunStatus(status)
	run.EpicID = nullableInt(epicID)
	run.CreatedAt = parseTime(createdAtText)
	return &run, nil
}
