package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"confighub-core/internal/application/dto"
	"confighub-core/internal/domain/environment"
	"confighub-core/internal/domain/events"
	"confighub-core/internal/pagination"
)

// EnvironmentLookup is the capability variable and export use cases need from
// the environment side: resolve a name or fail with ErrEnvironmentNotFound.
type EnvironmentLookup interface {
	FindEnvironment(ctx context.Context, name string) (*environment.Environment, error)
}

// EnvironmentService handles environment use cases
type EnvironmentService struct {
	envRepo   environment.Repository
	publisher events.Publisher
	basePath  string
	logger    *slog.Logger
}

// NewEnvironmentService creates a new environment service.
// basePath is the API prefix used to build pagination links, e.g. /api/v1.
func NewEnvironmentService(
	envRepo environment.Repository,
	publisher events.Publisher,
	basePath string,
	logger *slog.Logger,
) *EnvironmentService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EnvironmentService{
		envRepo:   envRepo,
		publisher: publisher,
		basePath:  basePath,
		logger:    logger.With(slog.String("component", "environment_service")),
	}
}

// CreateEnvironment creates a new environment.
// Uniqueness is left to the repository so two concurrent creates cannot both win.
func (s *EnvironmentService) CreateEnvironment(
	ctx context.Context,
	req *dto.CreateEnvironmentRequest,
) (*dto.EnvironmentResponse, error) {
	env, err := environment.NewEnvironment(req.Name, req.Description)
	if err != nil {
		return nil, err
	}

	if err := s.envRepo.Create(ctx, env); err != nil {
		return nil, err
	}

	s.logger.Info("environment created", slog.String("environment", env.Name().String()))
	s.publish(ctx, environment.NewEnvironmentCreatedEvent(env.Name().String()))

	return toEnvironmentDTO(env), nil
}

// GetEnvironment retrieves an environment by name
func (s *EnvironmentService) GetEnvironment(ctx context.Context, name string) (*dto.EnvironmentResponse, error) {
	env, err := s.FindEnvironment(ctx, name)
	if err != nil {
		return nil, err
	}

	return toEnvironmentDTO(env), nil
}

// FindEnvironment implements EnvironmentLookup.
// A name that is not a valid slug cannot exist, so it is reported as not found.
func (s *EnvironmentService) FindEnvironment(ctx context.Context, name string) (*environment.Environment, error) {
	envName, err := environment.NewName(name)
	if err != nil {
		return nil, environment.ErrEnvironmentNotFound(name)
	}

	return s.envRepo.FindByName(ctx, envName)
}

// ListEnvironments retrieves a page of environments, newest first
func (s *EnvironmentService) ListEnvironments(
	ctx context.Context,
	page, limit int,
) (*dto.EnvironmentListResponse, error) {
	total, err := s.envRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count environments: %w", err)
	}

	// pages past the end are empty but still report the true count
	var envs []*environment.Environment
	if offset := pagination.Offset(page, limit); offset < total {
		envs, err = s.envRepo.List(ctx, int64(limit), offset)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch environments: %w", err)
		}
	}

	results := make([]*dto.EnvironmentResponse, len(envs))
	for i, env := range envs {
		results[i] = toEnvironmentDTO(env)
	}

	envelope := pagination.Paginate(results, total, page, limit, s.basePath+"/environments")
	return &envelope, nil
}

// UpdateEnvironment applies the provided fields. PUT and PATCH share this
// merge behaviour; fields missing from the request are never reset.
func (s *EnvironmentService) UpdateEnvironment(
	ctx context.Context,
	name string,
	req *dto.UpdateEnvironmentRequest,
) (*dto.EnvironmentResponse, error) {
	env, err := s.FindEnvironment(ctx, name)
	if err != nil {
		return nil, err
	}

	currentName := env.Name()
	changed := false

	if req.Name != nil && *req.Name != currentName.String() {
		newName, err := environment.NewName(*req.Name)
		if err != nil {
			return nil, environment.ErrInvalidEnvironmentData("name", err)
		}

		exists, err := s.envRepo.ExistsByName(ctx, newName)
		if err != nil {
			return nil, fmt.Errorf("failed to check environment existence: %w", err)
		}
		if exists {
			return nil, environment.ErrEnvironmentAlreadyExists(newName.String())
		}

		if err := env.Rename(newName.String()); err != nil {
			return nil, err
		}
		changed = true
	}

	if req.Description != nil {
		env.UpdateDescription(req.Description)
		changed = true
	}

	if !changed {
		env.Touch()
	}

	// the store re-checks the new name under its unique constraint
	if err := s.envRepo.Update(ctx, currentName, env); err != nil {
		return nil, err
	}

	s.logger.Info("environment updated",
		slog.String("environment", env.Name().String()),
		slog.String("previous_name", currentName.String()))
	s.publish(ctx, environment.NewEnvironmentUpdatedEvent(currentName.String(), env.Name().String()))

	return toEnvironmentDTO(env), nil
}

// DeleteEnvironment deletes an environment together with all its variables
func (s *EnvironmentService) DeleteEnvironment(ctx context.Context, name string) error {
	env, err := s.FindEnvironment(ctx, name)
	if err != nil {
		return err
	}

	if err := s.envRepo.Delete(ctx, env.Name()); err != nil {
		return err
	}

	s.logger.Info("environment deleted", slog.String("environment", env.Name().String()))
	s.publish(ctx, environment.NewEnvironmentDeletedEvent(env.Name().String()))

	return nil
}

func (s *EnvironmentService) publish(ctx context.Context, event events.DomainEvent) {
	if err := s.publisher.Dispatch(ctx, event); err != nil {
		s.logger.Warn("failed to publish event",
			slog.String("event_type", event.EventType()),
			slog.Any("error", err))
	}
}

// toEnvironmentDTO converts a domain environment to its API representation
func toEnvironmentDTO(env *environment.Environment) *dto.EnvironmentResponse {
	return &dto.EnvironmentResponse{
		Name:        env.Name().String(),
		Description: env.Description().Ptr(),
		CreatedAt:   env.CreatedAt().UTC().Format(time.RFC3339),
		UpdatedAt:   env.UpdatedAt().UTC().Format(time.RFC3339),
	}
}
