package service_test

import (
	"context"
	"errors"
	"testing"

	"confighub-core/internal/application/dto"
	"confighub-core/internal/domain/shared"
	"confighub-core/internal/domain/variable"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariableService_RequiresEnvironment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	_, err := f.vars.CreateVariable(ctx, "ghost", &dto.CreateVariableRequest{Name: "A", Value: "1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
	msg, _ := shared.MessageOf(err)
	assert.Equal(t, "environment 'ghost' not found", msg)

	_, err = f.vars.ListVariables(ctx, "ghost", 1, 10)
	assert.True(t, errors.Is(err, shared.ErrNotFound))

	_, err = f.vars.GetVariable(ctx, "ghost", "A")
	msg, _ = shared.MessageOf(err)
	assert.Equal(t, "environment 'ghost' not found", msg)
}

func TestVariableService_ScopedUniqueness(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.createEnv(t, "dev")
	f.createEnv(t, "prod")

	f.createVar(t, "dev", "DB_URL", "dev-db")
	f.createVar(t, "prod", "DB_URL", "prod-db")

	_, err := f.vars.CreateVariable(ctx, "dev", &dto.CreateVariableRequest{Name: "DB_URL", Value: "again"})
	assert.True(t, errors.Is(err, shared.ErrConflict))

	dev, err := f.vars.GetVariable(ctx, "dev", "DB_URL")
	require.NoError(t, err)
	assert.Equal(t, "dev-db", dev.Value)

	prod, err := f.vars.GetVariable(ctx, "prod", "DB_URL")
	require.NoError(t, err)
	assert.Equal(t, "prod-db", prod.Value)
}

func TestVariableService_CreateDefaults(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.createEnv(t, "dev")

	resp := f.createVar(t, "dev", "PORT", "8080")
	assert.Equal(t, "dev", resp.EnvironmentName)
	assert.False(t, resp.IsSensitive)
	assert.Nil(t, resp.Description)

	_, err := f.vars.CreateVariable(ctx, "dev", &dto.CreateVariableRequest{Name: "port", Value: "1"})
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))

	assert.Equal(t, []string{"environment.created", variable.EventTypeVariableCreated}, f.publisher.types())
}

func TestVariableService_List(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.createEnv(t, "dev")
	for _, n := range []string{"A", "B", "C"} {
		f.createVar(t, "dev", n, n)
	}

	page, err := f.vars.ListVariables(ctx, "dev", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Count)
	require.Len(t, page.Results, 2)
	assert.Equal(t, "C", page.Results[0].Name)
	assert.Equal(t, "B", page.Results[1].Name)
	require.NotNil(t, page.Next)
	assert.Equal(t, "/api/v1/environments/dev/variables?page=2&limit=2", *page.Next)
}

func TestVariableService_Update(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.createEnv(t, "dev")
	f.createVar(t, "dev", "PORT", "8080")
	f.createVar(t, "dev", "HOST", "localhost")

	resp, err := f.vars.UpdateVariable(ctx, "dev", "PORT", &dto.UpdateVariableRequest{
		Value:       ptr("9090"),
		IsSensitive: ptr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "9090", resp.Value)
	assert.True(t, resp.IsSensitive)

	resp, err = f.vars.UpdateVariable(ctx, "dev", "PORT", &dto.UpdateVariableRequest{Name: ptr("HTTP_PORT")})
	require.NoError(t, err)
	assert.Equal(t, "HTTP_PORT", resp.Name)
	assert.Equal(t, "9090", resp.Value)

	_, err = f.vars.GetVariable(ctx, "dev", "PORT")
	assert.True(t, errors.Is(err, shared.ErrNotFound))

	_, err = f.vars.UpdateVariable(ctx, "dev", "HTTP_PORT", &dto.UpdateVariableRequest{Name: ptr("HOST")})
	assert.True(t, errors.Is(err, shared.ErrConflict))

	_, err = f.vars.UpdateVariable(ctx, "dev", "MISSING", &dto.UpdateVariableRequest{Value: ptr("x")})
	require.Error(t, err)
	msg, _ := shared.MessageOf(err)
	assert.Equal(t, "variable 'MISSING' not found in environment 'dev'", msg)
}

func TestVariableService_Delete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.createEnv(t, "dev")
	f.createVar(t, "dev", "PORT", "8080")

	require.NoError(t, f.vars.DeleteVariable(ctx, "dev", "PORT"))

	err := f.vars.DeleteVariable(ctx, "dev", "PORT")
	assert.True(t, errors.Is(err, shared.ErrNotFound))

	err = f.vars.DeleteVariable(ctx, "dev", "not-a-name")
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestVariableService_ListFarPastTheEnd(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.createEnv(t, "dev")
	f.createVar(t, "dev", "A", "1")
	f.createVar(t, "dev", "B", "2")

	page, err := f.vars.ListVariables(ctx, "dev", 42949674, 100)
	require.NoError(t, err)
	assert.Empty(t, page.Results)
	assert.Equal(t, int64(2), page.Count)
	assert.Nil(t, page.Next)
}
