package startup

import (
	"context"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDependency struct {
	name      string
	dependsOn []string
	startErr  error
	events    *[]string
}

func (f *fakeDependency) GetName() string     { return f.name }
func (f *fakeDependency) DependsOn() []string { return f.dependsOn }

func (f *fakeDependency) Start(ctx context.Context) error {
	*f.events = append(*f.events, "start:"+f.name)
	return f.startErr
}

func (f *fakeDependency) Stop(ctx context.Context) error {
	*f.events = append(*f.events, "stop:"+f.name)
	return nil
}

func noopLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func TestStartup(t *testing.T) {
	t.Run("starts dependencies before dependents", func(t *testing.T) {
		var events []string
		s := New(noopLogger(), 1)
		s.AddDependency(&fakeDependency{name: "server", dependsOn: []string{"database"}, events: &events})
		s.AddDependency(&fakeDependency{name: "database", events: &events})

		err := s.Start(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []string{"start:database", "start:server"}, events)
	})

	t.Run("stops in reverse registration order", func(t *testing.T) {
		var events []string
		s := New(noopLogger(), 1)
		s.AddDependency(&fakeDependency{name: "database", events: &events})
		s.AddDependency(&fakeDependency{name: "server", dependsOn: []string{"database"}, events: &events})

		require.NoError(t, s.Start(context.Background()))
		events = nil
		require.NoError(t, s.Stop(context.Background()))

		assert.Equal(t, []string{"stop:server", "stop:database"}, events)
	})

	t.Run("fails after max attempts", func(t *testing.T) {
		var events []string
		s := New(noopLogger(), 1)
		s.AddDependency(&fakeDependency{name: "broken", startErr: errors.New("connection refused"), events: &events})

		err := s.Start(context.Background())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "after 1 attempts")
	})

	t.Run("unregistered upstream is an error", func(t *testing.T) {
		var events []string
		s := New(noopLogger(), 1)
		s.AddDependency(&fakeDependency{name: "server", dependsOn: []string{"missing"}, events: &events})

		err := s.Start(context.Background())

		assert.Error(t, err)
	})
}
