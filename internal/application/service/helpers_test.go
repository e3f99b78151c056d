package service_test

import (
	"context"
	"sync"
	"testing"

	"confighub-core/internal/application/dto"
	"confighub-core/internal/application/service"
	"confighub-core/internal/domain/events"
	"confighub-core/internal/infrastructure/memory"

	"github.com/stretchr/testify/require"
)

const basePath = "/api/v1"

// recordingPublisher keeps every dispatched event
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.DomainEvent
}

func (p *recordingPublisher) Dispatch(_ context.Context, e events.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

type fixture struct {
	envs      *service.EnvironmentService
	vars      *service.VariableService
	export    *service.ExportService
	publisher *recordingPublisher
}

func newFixture(t *testing.T, cache service.ExportCache) *fixture {
	t.Helper()
	store := memory.NewStore()
	pub := &recordingPublisher{}

	envs := service.NewEnvironmentService(store.Environments(), pub, basePath, nil)
	vars := service.NewVariableService(store.Variables(), envs, pub, basePath, nil)
	export := service.NewExportService(store.Variables(), envs, cache, nil)

	return &fixture{envs: envs, vars: vars, export: export, publisher: pub}
}

func (f *fixture) createEnv(t *testing.T, name string) *dto.EnvironmentResponse {
	t.Helper()
	resp, err := f.envs.CreateEnvironment(context.Background(), &dto.CreateEnvironmentRequest{Name: name})
	require.NoError(t, err)
	return resp
}

func (f *fixture) createVar(t *testing.T, env, name, value string) *dto.VariableResponse {
	t.Helper()
	resp, err := f.vars.CreateVariable(context.Background(), env, &dto.CreateVariableRequest{Name: name, Value: value})
	require.NoError(t, err)
	return resp
}

func ptr[T any](v T) *T { return &v }
