package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/rogpeppe/go-internal/testscript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bowersync/internal/adapters/document"
	"go.trai.ch/bowersync/internal/adapters/fs"
	"go.trai.ch/bowersync/internal/app"
	"go.trai.ch/bowersync/internal/core/domain"
	"go.trai.ch/bowersync/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"bowersync": func() int {
			return run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, graftProvider)
		},
	}))
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata",
		Setup: func(env *testscript.Env) error {
			env.Setenv("NO_COLOR", "1")
			return nil
		},
	})
}

type mockSet struct {
	loader  *mocks.MockConfigLoader
	logger  *mocks.MockLogger
	metrics *mocks.MockMetrics
	app     *app.App
}

func newMockApp(t *testing.T) *mockSet {
	t.Helper()
	ctrl := gomock.NewController(t)

	m := &mockSet{
		loader:  mocks.NewMockConfigLoader(ctrl),
		logger:  mocks.NewMockLogger(ctrl),
		metrics: mocks.NewMockMetrics(ctrl),
	}
	m.metrics.EXPECT().ObserveOperation(gomock.Any(), gomock.Any()).AnyTimes()

	osfs := fs.NewOSFS()
	m.app = app.New(
		m.loader,
		document.NewFactory(osfs),
		osfs,
		mocks.NewMockPackageSource(ctrl),
		m.logger,
		mocks.NewMockWatcher(ctrl),
		mocks.NewMockStatusServer(ctrl),
		m.metrics,
	)
	return m
}

func (m *mockSet) provider(_ context.Context) (*app.Components, func(), error) {
	return &app.Components{App: m.app, Logger: m.logger}, func() {}, nil
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	m := newMockApp(t)

	stdout := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stdout, new(bytes.Buffer), m.provider)

	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout.String(), "bowersync version")
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, new(bytes.Buffer), stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that run logs the error and returns 1 when the command fails.
func TestRun_ExecutionError(t *testing.T) {
	m := newMockApp(t)
	m.loader.EXPECT().Load(".", "").Return(nil, errors.New("load failed"))
	m.logger.EXPECT().Error(gomock.Any()).Do(func(err error) {
		assert.Contains(t, err.Error(), "load failed")
	})

	exitCode := run(context.Background(), []string{"list"}, new(bytes.Buffer), new(bytes.Buffer), m.provider)

	assert.Equal(t, 1, exitCode)
}

// TestRun_AppliesOptions verifies that options are applied to the app before execution.
func TestRun_AppliesOptions(t *testing.T) {
	m := newMockApp(t)
	dir := t.TempDir()
	cfg := domain.DefaultConfig(dir)
	m.loader.EXPECT().Load(dir, "").Return(cfg, nil)
	m.logger.EXPECT().Info(gomock.Any())

	applied := false
	exitCode := run(context.Background(), []string{"init", "-C", dir}, new(bytes.Buffer), new(bytes.Buffer), m.provider,
		func(a *app.App) {
			applied = true
			a.WithClock(func() time.Time { return time.Time{} })
		})

	assert.Equal(t, 0, exitCode)
	assert.True(t, applied)
	require.FileExists(t, cfg.ManifestPath())
}

// TestRun_CancelledContext verifies that run fails when its context is already cancelled.
func TestRun_CancelledContext(t *testing.T) {
	m := newMockApp(t)
	m.loader.EXPECT().Load(gomock.Any(), gomock.Any()).Return(nil, context.Canceled)
	m.logger.EXPECT().Error(gomock.Any()).AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exitCode := run(ctx, []string{"watch"}, new(bytes.Buffer), new(bytes.Buffer), m.provider)
	assert.NotEqual(t, 0, exitCode)
}
