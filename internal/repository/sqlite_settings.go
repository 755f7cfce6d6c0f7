package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/wisync/internal/db"
	"github.com/alexanderramin/wisync/internal/domain"
)

// SQLiteSettingsRepo implements SettingsRepo on the single-row settings table.
type SQLiteSettingsRepo struct {
	db db.DBTX
}

func NewSQLiteSettingsRepo(conn db.DBTX) *SQLiteSettingsRepo {
	return &SQLiteSettingsRepo{db: conn}
}

func (r *SQLiteSettingsRepo) Get(ctx context.Context) (domain.Config, error) {
	query := `SELECT org_url, project, assigned_to, area_path, iteration_path, auth_helper_path
		FROM settings WHERE id = 1`

	var c domain.Config
	err := r.db.QueryRowContext(ctx, query).Scan(
		&c.OrgURL,
		&c.Project,
		&c.AssignedTo,
		&c.AreaPath,
		&c.IterationPath,
		&c.AuthHelperPath,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Config{}, fmt.Errorf("settings: %w", ErrNotFound)
		}
		return domain.Config{}, fmt.Errorf("scanning settings: %w", err)
	}
	return c, nil
}

func (r *SQLiteSettingsRepo) Save(ctx context.Context, c domain.Config) error {
	query := `INSERT INTO settings (id, org_url, project, assigned_to, area_path, iteration_path,
		auth_helper_path, updated_at) VALUES (1, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			org_url = excluded.org_url,
			project = excluded.project,
			assigned_to = excluded.assigned_to,
			area_path = excluded.area_path,
			iteration_path = excluded.iteration_path,
			auth_helper_path = excluded.auth_helper_path,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		c.OrgURL,
		c.Project,
		c.AssignedTo,
		c.AreaPath,
		c.IterationPath,
		c.AuthHelperPath,
		nowUTC(),
	)
	if err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}
