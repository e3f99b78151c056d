package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"confighub-core/internal/application/dto"
	"confighub-core/internal/domain/environment"
	"confighub-core/internal/domain/events"
	"confighub-core/internal/domain/variable"
	"confighub-core/internal/pagination"
)

// VariableService handles variable use cases.
// Every operation resolves the parent environment first and returns its
// not-found error unchanged.
type VariableService struct {
	varRepo      variable.Repository
	environments EnvironmentLookup
	publisher    events.Publisher
	basePath     string
	logger       *slog.Logger
}

// NewVariableService creates a new variable service
func NewVariableService(
	varRepo variable.Repository,
	environments EnvironmentLookup,
	publisher events.Publisher,
	basePath string,
	logger *slog.Logger,
) *VariableService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &VariableService{
		varRepo:      varRepo,
		environments: environments,
		publisher:    publisher,
		basePath:     basePath,
		logger:       logger.With(slog.String("component", "variable_service")),
	}
}

// CreateVariable creates a variable inside an existing environment
func (s *VariableService) CreateVariable(
	ctx context.Context,
	envName string,
	req *dto.CreateVariableRequest,
) (*dto.VariableResponse, error) {
	env, err := s.environments.FindEnvironment(ctx, envName)
	if err != nil {
		return nil, err
	}

	isSensitive := false
	if req.IsSensitive != nil {
		isSensitive = *req.IsSensitive
	}

	v, err := variable.NewVariable(env.Name(), req.Name, req.Value, req.Description, isSensitive)
	if err != nil {
		return nil, err
	}

	if err := s.varRepo.Create(ctx, v); err != nil {
		return nil, err
	}

	s.logger.Info("variable created",
		slog.String("environment", env.Name().String()),
		slog.String("variable", v.Name().String()))
	s.publish(ctx, variable.NewVariableCreatedEvent(env.Name().String(), v.Name().String()))

	return toVariableDTO(v), nil
}

// GetVariable retrieves a single variable
func (s *VariableService) GetVariable(
	ctx context.Context,
	envName, name string,
) (*dto.VariableResponse, error) {
	env, err := s.environments.FindEnvironment(ctx, envName)
	if err != nil {
		return nil, err
	}

	v, err := s.findVariable(ctx, env.Name(), name)
	if err != nil {
		return nil, err
	}

	return toVariableDTO(v), nil
}

// ListVariables retrieves a page of an environment's variables, newest first
func (s *VariableService) ListVariables(
	ctx context.Context,
	envName string,
	page, limit int,
) (*dto.VariableListResponse, error) {
	env, err := s.environments.FindEnvironment(ctx, envName)
	if err != nil {
		return nil, err
	}

	total, err := s.varRepo.CountByEnvironment(ctx, env.Name())
	if err != nil {
		return nil, fmt.Errorf("failed to count variables: %w", err)
	}

	var vars []*variable.Variable
	if offset := pagination.Offset(page, limit); offset < total {
		vars, err = s.varRepo.ListByEnvironment(ctx, env.Name(), int64(limit), offset)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch variables: %w", err)
		}
	}

	results := make([]*dto.VariableResponse, len(vars))
	for i, v := range vars {
		results[i] = toVariableDTO(v)
	}

	baseURL := fmt.Sprintf("%s/environments/%s/variables", s.basePath, url.PathEscape(env.Name().String()))
	envelope := pagination.Paginate(results, total, page, limit, baseURL)
	return &envelope, nil
}

// UpdateVariable applies the provided fields (PUT and PATCH alike).
// A rename stays inside the same environment.
func (s *VariableService) UpdateVariable(
	ctx context.Context,
	envName, name string,
	req *dto.UpdateVariableRequest,
) (*dto.VariableResponse, error) {
	env, err := s.environments.FindEnvironment(ctx, envName)
	if err != nil {
		return nil, err
	}

	v, err := s.findVariable(ctx, env.Name(), name)
	if err != nil {
		return nil, err
	}

	currentName := v.Name()
	changed := false

	if req.Name != nil && *req.Name != currentName.String() {
		newName, err := variable.NewName(*req.Name)
		if err != nil {
			return nil, variable.ErrInvalidVariableData("name", err)
		}

		_, err = s.varRepo.FindByName(ctx, env.Name(), newName)
		if err == nil {
			return nil, variable.ErrVariableAlreadyExists(env.Name().String(), newName.String())
		}
		if !isNotFound(err) {
			return nil, fmt.Errorf("failed to check variable existence: %w", err)
		}

		if err := v.Rename(newName.String()); err != nil {
			return nil, err
		}
		changed = true
	}

	if req.Value != nil {
		v.UpdateValue(*req.Value)
		changed = true
	}

	if req.Description != nil {
		v.UpdateDescription(req.Description)
		changed = true
	}

	if req.IsSensitive != nil {
		v.MarkSensitive(*req.IsSensitive)
		changed = true
	}

	if !changed {
		v.Touch()
	}

	if err := s.varRepo.Update(ctx, currentName, v); err != nil {
		return nil, err
	}

	s.logger.Info("variable updated",
		slog.String("environment", env.Name().String()),
		slog.String("variable", v.Name().String()),
		slog.String("previous_name", currentName.String()))
	s.publish(ctx, variable.NewVariableUpdatedEvent(env.Name().String(), currentName.String(), v.Name().String()))

	return toVariableDTO(v), nil
}

// DeleteVariable deletes a single variable
func (s *VariableService) DeleteVariable(ctx context.Context, envName, name string) error {
	env, err := s.environments.FindEnvironment(ctx, envName)
	if err != nil {
		return err
	}

	v, err := s.findVariable(ctx, env.Name(), name)
	if err != nil {
		return err
	}

	if err := s.varRepo.Delete(ctx, env.Name(), v.Name()); err != nil {
		return err
	}

	s.logger.Info("variable deleted",
		slog.String("environment", env.Name().String()),
		slog.String("variable", v.Name().String()))
	s.publish(ctx, variable.NewVariableDeletedEvent(env.Name().String(), v.Name().String()))

	return nil
}

// findVariable resolves a variable; malformed names cannot exist and are reported as not found
func (s *VariableService) findVariable(
	ctx context.Context,
	envName environment.Name,
	name string,
) (*variable.Variable, error) {
	varName, err := variable.NewName(name)
	if err != nil {
		return nil, variable.ErrVariableNotFound(envName.String(), name)
	}

	return s.varRepo.FindByName(ctx, envName, varName)
}

func (s *VariableService) publish(ctx context.Context, event events.DomainEvent) {
	if err := s.publisher.Dispatch(ctx, event); err != nil {
		s.logger.Warn("failed to publish event",
			slog.String("event_type", event.EventType()),
			slog.Any("error", err))
	}
}

// toVariableDTO converts a domain variable to its API representation
func toVariableDTO(v *variable.Variable) *dto.VariableResponse {
	return &dto.VariableResponse{
		Name:            v.Name().String(),
		EnvironmentName: v.EnvironmentName().String(),
		Value:           v.Value().String(),
		Description:     v.Description().Ptr(),
		IsSensitive:     v.IsSensitive(),
		CreatedAt:       v.CreatedAt().UTC().Format(time.RFC3339),
		UpdatedAt:       v.UpdatedAt().UTC().Format(time.RFC3339),
	}
}
