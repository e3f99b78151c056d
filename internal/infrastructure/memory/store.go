// Package memory provides in-process implementations of the environment and
// variable repositories. Both share one Store so that cascades and renames
// are atomic with respect to every reader.
package memory

import (
	"sort"
	"sync"
	"time"

	"confighub-core/internal/domain/environment"
	"confighub-core/internal/domain/variable"
)

type envRecord struct {
	env *environment.Environment
	seq uint64
}

type varRecord struct {
	v   *variable.Variable
	seq uint64
}

// Store holds every environment and variable behind a single lock
type Store struct {
	mu   sync.RWMutex
	seq  uint64
	envs map[string]*envRecord
	vars map[string]map[string]*varRecord
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		envs: make(map[string]*envRecord),
		vars: make(map[string]map[string]*varRecord),
	}
}

// Environments returns the environment repository view of the store
func (s *Store) Environments() environment.Repository {
	return &EnvironmentRepository{store: s}
}

// Variables returns the variable repository view of the store
func (s *Store) Variables() variable.Repository {
	return &VariableRepository{store: s}
}

// nextSeq must be called with mu held
func (s *Store) nextSeq() uint64 {
	s.seq++
	return s.seq
}

// newestFirst orders by created_at descending; insertion order breaks ties
func newestFirst(aCreated, bCreated time.Time, aSeq, bSeq uint64) bool {
	if !aCreated.Equal(bCreated) {
		return aCreated.After(bCreated)
	}
	return aSeq > bSeq
}

// page slices items[offset:offset+limit]; a negative limit means no limit
func page[T any](items []T, limit, offset int64) []T {
	n := int64(len(items))
	if offset < 0 || offset >= n {
		return []T{}
	}
	end := n
	if limit >= 0 && limit < n-offset {
		end = offset + limit
	}
	return items[offset:end]
}

func sortVarRecords(records []*varRecord, newest bool) {
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if newest {
			return newestFirst(a.v.CreatedAt(), b.v.CreatedAt(), a.seq, b.seq)
		}
		return newestFirst(b.v.CreatedAt(), a.v.CreatedAt(), b.seq, a.seq)
	})
}
