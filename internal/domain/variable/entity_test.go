package variable_test

import (
	"errors"
	"testing"

	"confighub-core/internal/domain/environment"
	"confighub-core/internal/domain/shared"
	"confighub-core/internal/domain/variable"
)

func mustEnv(t *testing.T, name string) environment.Name {
	t.Helper()
	n, err := environment.NewName(name)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func TestNewVariable(t *testing.T) {
	desc := "primary database"
	v, err := variable.NewVariable(mustEnv(t, "dev"), "DB_URL", "postgres://localhost", &desc, true)
	if err != nil {
		t.Fatalf("NewVariable() error = %v", err)
	}

	if v.EnvironmentName().String() != "dev" || v.Name().String() != "DB_URL" {
		t.Errorf("unexpected identity %s", v)
	}
	if v.Value().String() != "postgres://localhost" {
		t.Errorf("Value() = %q", v.Value().String())
	}
	if !v.IsSensitive() {
		t.Error("expected sensitive flag")
	}
	if v.Description().String() != desc {
		t.Errorf("Description() = %q", v.Description().String())
	}

	_, err = variable.NewVariable(mustEnv(t, "dev"), "db_url", "x", nil, false)
	if !errors.Is(err, shared.ErrInvalidInput) {
		t.Errorf("expected invalid input for lowercase name, got %v", err)
	}
}

func TestVariable_Mutations(t *testing.T) {
	v, _ := variable.NewVariable(mustEnv(t, "dev"), "PORT", "8080", nil, false)
	created := v.CreatedAt()

	if err := v.Rename("http-port"); err == nil {
		t.Error("expected invalid rename to fail")
	}
	if err := v.Rename("HTTP_PORT"); err != nil {
		t.Fatal(err)
	}
	v.UpdateValue("9090")
	v.MarkSensitive(true)
	v.UpdateDescription(nil)

	if v.Name().String() != "HTTP_PORT" || v.Value().String() != "9090" || !v.IsSensitive() {
		t.Errorf("mutations not applied: %s", v)
	}
	if v.Description().Ptr() != nil {
		t.Error("expected cleared description")
	}
	if !v.UpdatedAt().After(created) || !v.CreatedAt().Equal(created) {
		t.Error("updated_at must advance while created_at stays")
	}
	if v.EnvironmentName().String() != "dev" {
		t.Error("rename must stay inside the environment")
	}
}

func TestVariableErrors(t *testing.T) {
	err := variable.ErrVariableNotFound("dev", "PORT")
	if !errors.Is(err, shared.ErrNotFound) {
		t.Error("expected not found kind")
	}
	if msg, _ := shared.MessageOf(err); msg != "variable 'PORT' not found in environment 'dev'" {
		t.Errorf("message = %q", msg)
	}
	if !errors.Is(variable.ErrVariableAlreadyExists("dev", "PORT"), shared.ErrConflict) {
		t.Error("expected conflict kind")
	}
}
