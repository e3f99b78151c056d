package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"confighub-core/internal/database"
	"confighub-core/internal/domain/environment"
)

const environmentColumns = `name, description, created_at, updated_at`

// EnvironmentRepositoryImpl implements the environment.Repository interface on PostgreSQL
type EnvironmentRepositoryImpl struct {
	db     *database.DB
	logger *slog.Logger
}

// NewEnvironmentRepository creates a new environment repository
func NewEnvironmentRepository(db *database.DB, logger *slog.Logger) environment.Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &EnvironmentRepositoryImpl{db: db, logger: logger}
}

// Create inserts a new environment. The primary key decides concurrent creates.
func (r *EnvironmentRepositoryImpl) Create(ctx context.Context, env *environment.Environment) error {
	query := `INSERT INTO environments (` + environmentColumns + `) VALUES ($1, $2, $3, $4)`

	_, err := r.db.GetConnection().ExecContext(ctx, query,
		env.Name().String(),
		nullableString(env.Description().Ptr()),
		env.CreatedAt(),
		env.UpdatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return environment.ErrEnvironmentAlreadyExists(env.Name().String())
		}
		return fmt.Errorf("failed to create environment: %w", err)
	}

	return nil
}

// FindByName retrieves an environment by its name
func (r *EnvironmentRepositoryImpl) FindByName(ctx context.Context, name environment.Name) (*environment.Environment, error) {
	query := `SELECT ` + environmentColumns + ` FROM environments WHERE name = $1`

	env, err := scanEnvironment(r.db.GetConnection().QueryRowContext(ctx, query, name.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, environment.ErrEnvironmentNotFound(name.String())
		}
		return nil, fmt.Errorf("failed to get environment: %w", err)
	}

	return env, nil
}

// List retrieves environments newest first
func (r *EnvironmentRepositoryImpl) List(ctx context.Context, limit, offset int64) ([]*environment.Environment, error) {
	query := `SELECT ` + environmentColumns + ` FROM environments
		ORDER BY created_at DESC, name ASC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.GetConnection().QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list environments: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.Warn("failed to close database rows",
				slog.String("operation", "ListEnvironments"),
				slog.Any("error", err))
		}
	}()

	envs := make([]*environment.Environment, 0, limit)
	for rows.Next() {
		env, err := scanEnvironment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan environment: %w", err)
		}
		envs = append(envs, env)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate environments: %w", err)
	}

	return envs, nil
}

// Count returns the total number of environments
func (r *EnvironmentRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetConnection().QueryRowContext(ctx, `SELECT COUNT(*) FROM environments`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count environments: %w", err)
	}
	return count, nil
}

// Update rewrites the row stored as currentName. A rename reaches the
// variables through the ON UPDATE CASCADE foreign key.
func (r *EnvironmentRepositoryImpl) Update(ctx context.Context, currentName environment.Name, env *environment.Environment) error {
	query := `UPDATE environments SET name = $2, description = $3, updated_at = $4 WHERE name = $1`

	result, err := r.db.GetConnection().ExecContext(ctx, query,
		currentName.String(),
		env.Name().String(),
		nullableString(env.Description().Ptr()),
		env.UpdatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return environment.ErrEnvironmentAlreadyExists(env.Name().String())
		}
		return fmt.Errorf("failed to update environment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return environment.ErrEnvironmentNotFound(currentName.String())
	}

	return nil
}

// Delete removes the environment's variables and then the environment in one transaction
func (r *EnvironmentRepositoryImpl) Delete(ctx context.Context, name environment.Name) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM variables WHERE environment_name = $1`, name.String()); err != nil {
			return fmt.Errorf("failed to delete variables: %w", err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM environments WHERE name = $1`, name.String())
		if err != nil {
			return fmt.Errorf("failed to delete environment: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}
		if rowsAffected == 0 {
			return environment.ErrEnvironmentNotFound(name.String())
		}
		return nil
	})
}

// ExistsByName checks if an environment with the given name exists
func (r *EnvironmentRepositoryImpl) ExistsByName(ctx context.Context, name environment.Name) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM environments WHERE name = $1)`
	if err := r.db.GetConnection().QueryRowContext(ctx, query, name.String()).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check environment existence: %w", err)
	}
	return exists, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEnvironment(row rowScanner) (*environment.Environment, error) {
	var (
		name        string
		description sql.NullString
		createdAt   time.Time
		updatedAt   time.Time
	)
	if err := row.Scan(&name, &description, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	return environment.Reconstitute(name, stringPtr(description), createdAt.UTC(), updatedAt.UTC())
}
