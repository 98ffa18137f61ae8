package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/melih/lighthouse-helper/internal/config"
	"github.com/melih/lighthouse-helper/internal/core/domain"
	"github.com/melih/lighthouse-helper/internal/core/executor"
)

func shellConfig() *config.Config {
	cfg := config.Default()
	cfg.Shell.Program = "/bin/sh"
	cfg.Shell.Args = []string{"-c"}
	cfg.Executor.ImportHelperModule = false
	cfg.Listing.Command = `printf 'abc123;web1;Up 5 minutes (healthy)\ndef456;db1;Exited (0) 2 hours ago\n'`
	return cfg
}

func TestNew_ShellListing(t *testing.T) {
	a, err := New(shellConfig(), zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	containers, err := a.Service.ListContainers(context.Background())
	require.NoError(t, err)
	require.Len(t, containers, 2)
	assert.Equal(t, "web1", containers[0].Name)
	assert.Equal(t, domain.StatusHealthy, containers[0].StatusKind)
	assert.Equal(t, domain.StatusStopped, containers[1].StatusKind)
}

func TestNew_LaneRunsThroughShell(t *testing.T) {
	a, err := New(shellConfig(), zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	var messages []string
	a.Lane.Subscribe(executor.Funcs{Message: func(text string) { messages = append(messages, text) }})

	result := a.Lane.Submit(context.Background(), "echo hello")
	assert.Equal(t, domain.OutcomeCompleted, result.Outcome)
	assert.Equal(t, []string{"hello"}, messages)
	assert.False(t, a.Lane.Busy())
}
