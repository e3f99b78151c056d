package memory

import (
	"context"
	"sort"

	"confighub-core/internal/domain/environment"
	"confighub-core/internal/domain/variable"
)

// EnvironmentRepository implements environment.Repository on a Store
type EnvironmentRepository struct {
	store *Store
}

// Create inserts a new environment
func (r *EnvironmentRepository) Create(ctx context.Context, env *environment.Environment) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	name := env.Name().String()
	if _, exists := s.envs[name]; exists {
		return environment.ErrEnvironmentAlreadyExists(name)
	}

	s.envs[name] = &envRecord{env: env.Clone(), seq: s.nextSeq()}
	return nil
}

// FindByName retrieves an environment by its name
func (r *EnvironmentRepository) FindByName(ctx context.Context, name environment.Name) (*environment.Environment, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.envs[name.String()]
	if !ok {
		return nil, environment.ErrEnvironmentNotFound(name.String())
	}
	return rec.env.Clone(), nil
}

// List retrieves environments newest first
func (r *EnvironmentRepository) List(ctx context.Context, limit, offset int64) ([]*environment.Environment, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*envRecord, 0, len(s.envs))
	for _, rec := range s.envs {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return newestFirst(records[i].env.CreatedAt(), records[j].env.CreatedAt(), records[i].seq, records[j].seq)
	})

	selected := page(records, limit, offset)
	envs := make([]*environment.Environment, len(selected))
	for i, rec := range selected {
		envs[i] = rec.env.Clone()
	}
	return envs, nil
}

// Count returns the total number of environments
func (r *EnvironmentRepository) Count(ctx context.Context) (int64, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.envs)), nil
}

// Update replaces the environment stored as currentName. On rename the
// variables move to the new name under the same lock.
func (r *EnvironmentRepository) Update(ctx context.Context, currentName environment.Name, env *environment.Environment) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	oldKey, newKey := currentName.String(), env.Name().String()
	rec, ok := s.envs[oldKey]
	if !ok {
		return environment.ErrEnvironmentNotFound(oldKey)
	}

	if oldKey == newKey {
		rec.env = env.Clone()
		return nil
	}

	if _, taken := s.envs[newKey]; taken {
		return environment.ErrEnvironmentAlreadyExists(newKey)
	}

	moved := make(map[string]*varRecord, len(s.vars[oldKey]))
	for key, vr := range s.vars[oldKey] {
		v, err := variable.Reconstitute(
			newKey,
			vr.v.Name().String(),
			vr.v.Value().String(),
			vr.v.Description().Ptr(),
			vr.v.IsSensitive(),
			vr.v.CreatedAt(),
			vr.v.UpdatedAt(),
		)
		if err != nil {
			return err
		}
		moved[key] = &varRecord{v: v, seq: vr.seq}
	}

	delete(s.envs, oldKey)
	delete(s.vars, oldKey)
	s.envs[newKey] = &envRecord{env: env.Clone(), seq: rec.seq}
	if len(moved) > 0 {
		s.vars[newKey] = moved
	}
	return nil
}

// Delete removes an environment and its variables atomically
func (r *EnvironmentRepository) Delete(ctx context.Context, name environment.Name) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	key := name.String()
	if _, ok := s.envs[key]; !ok {
		return environment.ErrEnvironmentNotFound(key)
	}
	delete(s.vars, key)
	delete(s.envs, key)
	return nil
}

// ExistsByName checks if an environment with the given name exists
func (r *EnvironmentRepository) ExistsByName(ctx context.Context, name environment.Name) (bool, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.envs[name.String()]
	return ok, nil
}
