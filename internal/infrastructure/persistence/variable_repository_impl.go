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
	"confighub-core/internal/domain/variable"
)

const variableColumns = `environment_name, name, value, description, is_sensitive, created_at, updated_at`

// VariableRepositoryImpl implements the variable.Repository interface on PostgreSQL
type VariableRepositoryImpl struct {
	db     *database.DB
	logger *slog.Logger
}

// NewVariableRepository creates a new variable repository
func NewVariableRepository(db *database.DB, logger *slog.Logger) variable.Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &VariableRepositoryImpl{db: db, logger: logger}
}

// Create inserts a new variable. The composite primary key decides concurrent creates.
func (r *VariableRepositoryImpl) Create(ctx context.Context, v *variable.Variable) error {
	query := `INSERT INTO variables (` + variableColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.GetConnection().ExecContext(ctx, query,
		v.EnvironmentName().String(),
		v.Name().String(),
		v.Value().String(),
		nullableString(v.Description().Ptr()),
		v.IsSensitive(),
		v.CreatedAt(),
		v.UpdatedAt(),
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return variable.ErrVariableAlreadyExists(v.EnvironmentName().String(), v.Name().String())
		case isForeignKeyViolation(err):
			// the environment was deleted between lookup and insert
			return environment.ErrEnvironmentNotFound(v.EnvironmentName().String())
		}
		return fmt.Errorf("failed to create variable: %w", err)
	}

	return nil
}

// FindByName retrieves a variable by environment and name
func (r *VariableRepositoryImpl) FindByName(
	ctx context.Context,
	envName environment.Name,
	name variable.Name,
) (*variable.Variable, error) {
	query := `SELECT ` + variableColumns + ` FROM variables WHERE environment_name = $1 AND name = $2`

	v, err := scanVariable(r.db.GetConnection().QueryRowContext(ctx, query, envName.String(), name.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, variable.ErrVariableNotFound(envName.String(), name.String())
		}
		return nil, fmt.Errorf("failed to get variable: %w", err)
	}

	return v, nil
}

// ListByEnvironment retrieves a page of variables newest first
func (r *VariableRepositoryImpl) ListByEnvironment(
	ctx context.Context,
	envName environment.Name,
	limit, offset int64,
) ([]*variable.Variable, error) {
	query := `SELECT ` + variableColumns + ` FROM variables
		WHERE environment_name = $1
		ORDER BY created_at DESC, name ASC
		LIMIT $2 OFFSET $3`

	return r.query(ctx, "ListVariables", query, envName.String(), limit, offset)
}

// FindAllByEnvironment retrieves every variable of an environment in creation order
func (r *VariableRepositoryImpl) FindAllByEnvironment(
	ctx context.Context,
	envName environment.Name,
) ([]*variable.Variable, error) {
	query := `SELECT ` + variableColumns + ` FROM variables
		WHERE environment_name = $1
		ORDER BY created_at ASC, name ASC`

	return r.query(ctx, "ExportVariables", query, envName.String())
}

// CountByEnvironment returns the number of variables in an environment
func (r *VariableRepositoryImpl) CountByEnvironment(ctx context.Context, envName environment.Name) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM variables WHERE environment_name = $1`
	if err := r.db.GetConnection().QueryRowContext(ctx, query, envName.String()).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count variables: %w", err)
	}
	return count, nil
}

// Update rewrites the row stored as currentName inside the variable's environment
func (r *VariableRepositoryImpl) Update(ctx context.Context, currentName variable.Name, v *variable.Variable) error {
	query := `UPDATE variables
		SET name = $3, value = $4, description = $5, is_sensitive = $6, updated_at = $7
		WHERE environment_name = $1 AND name = $2`

	result, err := r.db.GetConnection().ExecContext(ctx, query,
		v.EnvironmentName().String(),
		currentName.String(),
		v.Name().String(),
		v.Value().String(),
		nullableString(v.Description().Ptr()),
		v.IsSensitive(),
		v.UpdatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return variable.ErrVariableAlreadyExists(v.EnvironmentName().String(), v.Name().String())
		}
		return fmt.Errorf("failed to update variable: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return variable.ErrVariableNotFound(v.EnvironmentName().String(), currentName.String())
	}

	return nil
}

// Delete removes a variable
func (r *VariableRepositoryImpl) Delete(ctx context.Context, envName environment.Name, name variable.Name) error {
	query := `DELETE FROM variables WHERE environment_name = $1 AND name = $2`

	result, err := r.db.GetConnection().ExecContext(ctx, query, envName.String(), name.String())
	if err != nil {
		return fmt.Errorf("failed to delete variable: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return variable.ErrVariableNotFound(envName.String(), name.String())
	}

	return nil
}

func (r *VariableRepositoryImpl) query(ctx context.Context, operation, query string, args ...any) ([]*variable.Variable, error) {
	rows, err := r.db.GetConnection().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query variables: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.Warn("failed to close database rows",
				slog.String("operation", operation),
				slog.Any("error", err))
		}
	}()

	vars := []*variable.Variable{}
	for rows.Next() {
		v, err := scanVariable(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan variable: %w", err)
		}
		vars = append(vars, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate variables: %w", err)
	}

	return vars, nil
}

func scanVariable(row rowScanner) (*variable.Variable, error) {
	var (
		envName     string
		name        string
		value       string
		description sql.NullString
		isSensitive bool
		createdAt   time.Time
		updatedAt   time.Time
	)
	if err := row.Scan(&envName, &name, &value, &description, &isSensitive, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	return variable.Reconstitute(envName, name, value, stringPtr(description), isSensitive, createdAt.UTC(), updatedAt.UTC())
}
