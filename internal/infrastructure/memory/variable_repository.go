package memory

import (
	"context"

	"confighub-core/internal/domain/environment"
	"confighub-core/internal/domain/variable"
)

// VariableRepository implements variable.Repository on a Store
type VariableRepository struct {
	store *Store
}

// Create inserts a variable. The parent environment must exist.
func (r *VariableRepository) Create(ctx context.Context, v *variable.Variable) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	envKey, key := v.EnvironmentName().String(), v.Name().String()
	if _, ok := s.envs[envKey]; !ok {
		return environment.ErrEnvironmentNotFound(envKey)
	}

	bucket, ok := s.vars[envKey]
	if !ok {
		bucket = make(map[string]*varRecord)
		s.vars[envKey] = bucket
	}
	if _, exists := bucket[key]; exists {
		return variable.ErrVariableAlreadyExists(envKey, key)
	}

	bucket[key] = &varRecord{v: v.Clone(), seq: s.nextSeq()}
	return nil
}

// FindByName retrieves a variable by environment and name
func (r *VariableRepository) FindByName(
	ctx context.Context,
	envName environment.Name,
	name variable.Name,
) (*variable.Variable, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.vars[envName.String()][name.String()]
	if !ok {
		return nil, variable.ErrVariableNotFound(envName.String(), name.String())
	}
	return rec.v.Clone(), nil
}

// ListByEnvironment retrieves a page of variables newest first
func (r *VariableRepository) ListByEnvironment(
	ctx context.Context,
	envName environment.Name,
	limit, offset int64,
) ([]*variable.Variable, error) {
	return r.sorted(envName, true, limit, offset), nil
}

// FindAllByEnvironment retrieves every variable of an environment in creation order
func (r *VariableRepository) FindAllByEnvironment(
	ctx context.Context,
	envName environment.Name,
) ([]*variable.Variable, error) {
	return r.sorted(envName, false, -1, 0), nil
}

// CountByEnvironment returns the number of variables in an environment
func (r *VariableRepository) CountByEnvironment(ctx context.Context, envName environment.Name) (int64, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.vars[envName.String()])), nil
}

// Update replaces the variable stored as currentName
func (r *VariableRepository) Update(ctx context.Context, currentName variable.Name, v *variable.Variable) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	envKey := v.EnvironmentName().String()
	oldKey, newKey := currentName.String(), v.Name().String()

	bucket := s.vars[envKey]
	rec, ok := bucket[oldKey]
	if !ok {
		return variable.ErrVariableNotFound(envKey, oldKey)
	}

	if oldKey != newKey {
		if _, taken := bucket[newKey]; taken {
			return variable.ErrVariableAlreadyExists(envKey, newKey)
		}
		delete(bucket, oldKey)
	}
	bucket[newKey] = &varRecord{v: v.Clone(), seq: rec.seq}
	return nil
}

// Delete removes a variable
func (r *VariableRepository) Delete(ctx context.Context, envName environment.Name, name variable.Name) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket := s.vars[envName.String()]
	if _, ok := bucket[name.String()]; !ok {
		return variable.ErrVariableNotFound(envName.String(), name.String())
	}
	delete(bucket, name.String())
	return nil
}

func (r *VariableRepository) sorted(envName environment.Name, newest bool, limit, offset int64) []*variable.Variable {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	bucket := s.vars[envName.String()]
	records := make([]*varRecord, 0, len(bucket))
	for _, rec := range bucket {
		records = append(records, rec)
	}
	sortVarRecords(records, newest)

	selected := page(records, limit, offset)
	vars := make([]*variable.Variable, len(selected))
	for i, rec := range selected {
		vars[i] = rec.v.Clone()
	}
	return vars
}
