package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"confighub-core/internal/application/dto"
	"confighub-core/internal/domain/environment"
	"confighub-core/internal/domain/events"
	"confighub-core/internal/domain/shared"
	"confighub-core/internal/domain/variable"
)

// ExportCache stores rendered bulk exports per environment. Entries are
// scoped to a generation that Invalidate advances, so an export rendered
// under an older generation is never served after an invalidation.
type ExportCache interface {
	Generation(ctx context.Context, envName string) (int64, error)
	Get(ctx context.Context, envName string, generation int64) (*dto.FlatVariables, bool, error)
	Set(ctx context.Context, envName string, generation int64, vars *dto.FlatVariables) error
	Invalidate(ctx context.Context, envNames ...string) error
}

// ExportService flattens an environment's variables into NAME -> value
type ExportService struct {
	varRepo      variable.Repository
	environments EnvironmentLookup
	cache        ExportCache
	logger       *slog.Logger
}

// NewExportService creates a new export service. cache may be nil.
func NewExportService(
	varRepo variable.Repository,
	environments EnvironmentLookup,
	cache ExportCache,
	logger *slog.Logger,
) *ExportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportService{
		varRepo:      varRepo,
		environments: environments,
		cache:        cache,
		logger:       logger.With(slog.String("component", "export_service")),
	}
}

// ExportEnvironment returns every variable of the environment as a flat,
// creation-ordered mapping. Only values are included.
func (s *ExportService) ExportEnvironment(ctx context.Context, envName string) (*dto.FlatVariables, error) {
	// the existence check always hits the store so a cached export of a
	// deleted environment is never served
	env, err := s.environments.FindEnvironment(ctx, envName)
	if err != nil {
		return nil, err
	}
	name := env.Name().String()

	// the generation is read before the store so an invalidation racing
	// with this export leaves the write under a key nobody reads
	useCache := s.cache != nil
	var gen int64
	if useCache {
		gen, err = s.cache.Generation(ctx, name)
		if err != nil {
			s.logger.Warn("export cache generation read failed", slog.String("environment", name), slog.Any("error", err))
			useCache = false
		}
	}

	if useCache {
		cached, ok, err := s.cache.Get(ctx, name, gen)
		if err != nil {
			s.logger.Warn("export cache read failed", slog.String("environment", name), slog.Any("error", err))
		} else if ok {
			return cached, nil
		}
	}

	vars, err := s.varRepo.FindAllByEnvironment(ctx, env.Name())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch variables: %w", err)
	}

	flat := Flatten(vars)

	if useCache {
		if err := s.cache.Set(ctx, name, gen, flat); err != nil {
			s.logger.Warn("export cache write failed", slog.String("environment", name), slog.Any("error", err))
		}
	}

	return flat, nil
}

// Flatten folds variables into an ordered NAME -> value mapping
func Flatten(vars []*variable.Variable) *dto.FlatVariables {
	flat := dto.NewFlatVariables()
	for _, v := range vars {
		flat.Set(v.Name().String(), v.Value().String())
	}
	return flat
}

// RegisterExportCacheInvalidation retires cached exports whenever an
// environment or one of its variables changes
func RegisterExportCacheInvalidation(dispatcher *events.Dispatcher, cache ExportCache) {
	if cache == nil {
		return
	}

	dispatcher.Register(func(ctx context.Context, event events.DomainEvent) error {
		switch e := event.(type) {
		case *variable.VariableChangedEvent:
			return cache.Invalidate(ctx, e.EnvironmentName)
		case *environment.EnvironmentUpdatedEvent:
			return cache.Invalidate(ctx, e.PreviousName, e.Name)
		case *environment.EnvironmentDeletedEvent:
			return cache.Invalidate(ctx, e.Name)
		case *environment.EnvironmentCreatedEvent:
			return cache.Invalidate(ctx, e.Name)
		}
		return nil
	}, AllEventTypes()...)
}

// AllEventTypes lists the environment and variable event types
func AllEventTypes() []string {
	types := make([]string, 0, len(environment.EventTypes)+len(variable.EventTypes))
	types = append(types, environment.EventTypes...)
	return append(types, variable.EventTypes...)
}

func isNotFound(err error) bool {
	return errors.Is(err, shared.ErrNotFound)
}
