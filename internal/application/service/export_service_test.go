package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"confighub-core/internal/application/dto"
	"confighub-core/internal/application/service"
	"confighub-core/internal/domain/events"
	"confighub-core/internal/domain/shared"
	"confighub-core/internal/infrastructure/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapCache is an in-process ExportCache
type mapCache struct {
	mu          sync.Mutex
	generations map[string]int64
	entries     map[string]*dto.FlatVariables
	hits        int
}

func newMapCache() *mapCache {
	return &mapCache{
		generations: make(map[string]int64),
		entries:     make(map[string]*dto.FlatVariables),
	}
}

func entryKey(env string, gen int64) string {
	return fmt.Sprintf("%s:%d", env, gen)
}

func (c *mapCache) Generation(_ context.Context, env string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[env], nil
}

func (c *mapCache) Get(_ context.Context, env string, gen int64) (*dto.FlatVariables, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[entryKey(env, gen)]
	if ok {
		c.hits++
	}
	return v, ok, nil
}

func (c *mapCache) Set(_ context.Context, env string, gen int64, vars *dto.FlatVariables) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[entryKey(env, gen)] = vars
	return nil
}

func (c *mapCache) Invalidate(_ context.Context, envs ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range envs {
		c.generations[e]++
	}
	return nil
}

// interleavingCache runs beforeSet once, between the store read and the
// write of the rendered export
type interleavingCache struct {
	*mapCache
	beforeSet func()
}

func (c *interleavingCache) Set(ctx context.Context, env string, gen int64, vars *dto.FlatVariables) error {
	if hook := c.beforeSet; hook != nil {
		c.beforeSet = nil
		hook()
	}
	return c.mapCache.Set(ctx, env, gen, vars)
}

func TestExportService_FlatCreationOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.createEnv(t, "dev")
	f.createVar(t, "dev", "ZED", "last-alpha")
	f.createVar(t, "dev", "ALPHA", "first-alpha")
	_, err := f.vars.CreateVariable(ctx, "dev", &dto.CreateVariableRequest{
		Name:        "SECRET",
		Value:       "s3cr3t",
		Description: ptr("not exported"),
		IsSensitive: ptr(true),
	})
	require.NoError(t, err)

	flat, err := f.export.ExportEnvironment(ctx, "dev")
	require.NoError(t, err)
	assert.Equal(t, []string{"ZED", "ALPHA", "SECRET"}, flat.Keys())

	body, err := json.Marshal(flat)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ZED":"last-alpha","ALPHA":"first-alpha","SECRET":"s3cr3t"}`, string(body))
	assert.Equal(t, `{"ZED":"last-alpha","ALPHA":"first-alpha","SECRET":"s3cr3t"}`, string(body))
}

func TestExportService_EmptyAndMissing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.createEnv(t, "empty")

	flat, err := f.export.ExportEnvironment(ctx, "empty")
	require.NoError(t, err)
	body, _ := json.Marshal(flat)
	assert.Equal(t, "{}", string(body))

	_, err = f.export.ExportEnvironment(ctx, "ghost")
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestExportService_CacheInvalidatedByEvents(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	cache := newMapCache()
	dispatcher := events.NewDispatcher(nil)
	service.RegisterExportCacheInvalidation(dispatcher, cache)

	envs := service.NewEnvironmentService(store.Environments(), dispatcher, basePath, nil)
	vars := service.NewVariableService(store.Variables(), envs, dispatcher, basePath, nil)
	export := service.NewExportService(store.Variables(), envs, cache, nil)

	_, err := envs.CreateEnvironment(ctx, &dto.CreateEnvironmentRequest{Name: "dev"})
	require.NoError(t, err)
	_, err = vars.CreateVariable(ctx, "dev", &dto.CreateVariableRequest{Name: "A", Value: "1"})
	require.NoError(t, err)

	first, err := export.ExportEnvironment(ctx, "dev")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A": "1"}, first.Map())

	_, err = export.ExportEnvironment(ctx, "dev")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)

	_, err = vars.UpdateVariable(ctx, "dev", "A", &dto.UpdateVariableRequest{Value: ptr("2")})
	require.NoError(t, err)

	updated, err := export.ExportEnvironment(ctx, "dev")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A": "2"}, updated.Map())

	// a stale entry must never outlive its environment
	require.NoError(t, envs.DeleteEnvironment(ctx, "dev"))
	gen, err := cache.Generation(ctx, "dev")
	require.NoError(t, err)
	require.NoError(t, cache.Set(ctx, "dev", gen, updated))

	_, err = export.ExportEnvironment(ctx, "dev")
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestExportService_UpdateDuringExportIsNotOverwritten(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	cache := &interleavingCache{mapCache: newMapCache()}
	dispatcher := events.NewDispatcher(nil)
	service.RegisterExportCacheInvalidation(dispatcher, cache)

	envs := service.NewEnvironmentService(store.Environments(), dispatcher, basePath, nil)
	vars := service.NewVariableService(store.Variables(), envs, dispatcher, basePath, nil)
	export := service.NewExportService(store.Variables(), envs, cache, nil)

	_, err := envs.CreateEnvironment(ctx, &dto.CreateEnvironmentRequest{Name: "dev"})
	require.NoError(t, err)
	_, err = vars.CreateVariable(ctx, "dev", &dto.CreateVariableRequest{Name: "A", Value: "old"})
	require.NoError(t, err)

	// the update commits and invalidates after the export has read the
	// store but before it caches what it read
	cache.beforeSet = func() {
		_, err := vars.UpdateVariable(ctx, "dev", "A", &dto.UpdateVariableRequest{Value: ptr("new")})
		require.NoError(t, err)
	}

	racing, err := export.ExportEnvironment(ctx, "dev")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A": "old"}, racing.Map())

	next, err := export.ExportEnvironment(ctx, "dev")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A": "new"}, next.Map())

	again, err := export.ExportEnvironment(ctx, "dev")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A": "new"}, again.Map())
	assert.Equal(t, 1, cache.hits)
}

type failingGenerationCache struct {
	*mapCache
}

func (failingGenerationCache) Generation(context.Context, string) (int64, error) {
	return 0, errors.New("redis down")
}

func TestExportService_GenerationFailureBypassesCache(t *testing.T) {
	ctx := context.Background()
	inner := newMapCache()
	f := newFixture(t, failingGenerationCache{mapCache: inner})
	f.createEnv(t, "dev")
	f.createVar(t, "dev", "A", "1")

	flat, err := f.export.ExportEnvironment(ctx, "dev")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A": "1"}, flat.Map())
	assert.Empty(t, inner.entries)
}

func TestAllEventTypes(t *testing.T) {
	types := service.AllEventTypes()
	assert.Len(t, types, 6)
	assert.Contains(t, types, "environment.deleted")
	assert.Contains(t, types, "variable.updated")
}
