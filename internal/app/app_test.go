package app_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/synctest"
	"time"

	"github.com/paveproject/pave/internal/adapters/watcher"
	"github.com/paveproject/pave/internal/app"
	"github.com/paveproject/pave/internal/core/domain"
	"github.com/paveproject/pave/internal/core/ports"
	"github.com/paveproject/pave/internal/core/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

type appTestMocks struct {
	loader   *mocks.MockConfigLoader
	executor *mocks.MockExecutor
	manager  *mocks.MockPackageManager
	logger   *mocks.MockLogger
	store    *mocks.MockStateStore
	hasher   *mocks.MockHasher
}

func setupAppTest(t *testing.T) (*app.App, *appTestMocks, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := &appTestMocks{
		loader:   mocks.NewMockConfigLoader(ctrl),
		executor: mocks.NewMockExecutor(ctrl),
		manager:  mocks.NewMockPackageManager(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
		store:    mocks.NewMockStateStore(ctrl),
		hasher:   mocks.NewMockHasher(ctrl),
	}

	m.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	m.logger.EXPECT().Warn(gomock.Any()).AnyTimes()

	var stdout, stderr bytes.Buffer
	a := app.New(m.loader, m.executor, m.manager, m.logger, m.store, m.hasher).
		WithOutput(&stdout, &stderr)
	return a, m, &stdout, &stderr
}

func localProfile() domain.Profile {
	return domain.Profile{Name: "local"}.ApplyDefaults()
}

// eventSeq adapts a channel into the iterator shape the watcher port uses.
func eventSeq(events <-chan ports.WatchEvent) iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for event := range events {
			if !yield(event) {
				return
			}
		}
	}
}

func TestApp_Run(t *testing.T) {
	a, m, stdout, stderr := setupAppTest(t)

	m.loader.EXPECT().Load(".", "", "").Return(localProfile(), nil)
	gomock.InOrder(
		m.manager.EXPECT().Upgrade(gomock.Any(), "python3",
			[]string{"pip", "setuptools", "wheel"}, gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ string, _ []string, out, _ io.Writer) error {
				_, _ = out.Write([]byte("Requirement already satisfied: pip\n"))
				return nil
			},
		),
		m.manager.EXPECT().Install(gomock.Any(), "python3", "requirements.txt",
			gomock.Any(), gomock.Any()).Return(nil),
	)
	m.hasher.EXPECT().HashFile("requirements.txt").Return("deadbeefdeadbeef", nil)
	m.store.EXPECT().Put(gomock.Any()).Return(nil)

	err := a.Run(context.Background(), app.RunOptions{})
	require.NoError(t, err)

	out := stdout.String()
	assert.Contains(t, out, "Upgrading packaging tools...")
	assert.Contains(t, out, "Requirement already satisfied: pip")
	assert.Contains(t, out, "Installing dependencies from requirements.txt...")
	assert.Contains(t, out, "Setup complete.")
	assert.Less(t,
		strings.Index(out, "Upgrading packaging tools..."),
		strings.Index(out, "Installing dependencies from requirements.txt..."))
	assert.Contains(t, stderr.String(), "pave local: 2 step(s)")
}

func TestApp_Run_ManifestOverride(t *testing.T) {
	a, m, stdout, _ := setupAppTest(t)

	m.loader.EXPECT().Load(".", "", "").Return(localProfile(), nil)
	m.manager.EXPECT().Upgrade(gomock.Any(), "python3", gomock.Any(),
		gomock.Any(), gomock.Any()).Return(nil)
	m.manager.EXPECT().Install(gomock.Any(), "python3", "requirements-ci.txt",
		gomock.Any(), gomock.Any()).Return(nil)
	m.hasher.EXPECT().HashFile("requirements-ci.txt").Return("cafecafecafecafe", nil)
	m.store.EXPECT().Put(gomock.Any()).Return(nil)

	err := a.Run(context.Background(), app.RunOptions{Manifest: "requirements-ci.txt"})
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Installing dependencies from requirements-ci.txt...")
}

func TestApp_Run_ConfigLoaderError(t *testing.T) {
	a, m, _, _ := setupAppTest(t)

	m.loader.EXPECT().Load(".", "custom.yaml", "deploy").
		Return(domain.Profile{}, errors.New("config load error"))

	err := a.Run(context.Background(), app.RunOptions{Profile: "deploy", ConfigFile: "custom.yaml"})
	require.Error(t, err)
	require.ErrorContains(t, err, "failed to load configuration")
}

func TestApp_Run_SetupFailurePreservesExitCode(t *testing.T) {
	a, m, stdout, stderr := setupAppTest(t)

	m.loader.EXPECT().Load(".", "", "").Return(localProfile(), nil)
	failure := zerr.With(zerr.Wrap(&domain.ExitError{Code: 2}, "command failed"), "exit_code", 2)
	m.manager.EXPECT().Upgrade(gomock.Any(), gomock.Any(), gomock.Any(),
		gomock.Any(), gomock.Any()).Return(failure)

	err := a.Run(context.Background(), app.RunOptions{})
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrSetupFailed)
	assert.Equal(t, 2, domain.ExitCode(err))

	assert.Contains(t, stderr.String(), "Upgrading packaging tools...")
	assert.Contains(t, stderr.String(), "command failed")
	assert.NotContains(t, stdout.String(), "Setup complete.")
}

func TestApp_Run_DryRun(t *testing.T) {
	a, m, stdout, stderr := setupAppTest(t)

	m.loader.EXPECT().Load(".", "", "").Return(localProfile(), nil)
	// No manager, store, or hasher expectations: a dry run executes nothing.

	err := a.Run(context.Background(), app.RunOptions{DryRun: true})
	require.NoError(t, err)

	out := stdout.String()
	assert.Contains(t, out, "Upgrading packaging tools...")
	assert.Contains(t, out, "Installing dependencies from requirements.txt...")
	assert.Contains(t, out, "(dry run)")
	assert.NotContains(t, out, "Setup complete.")
	assert.Contains(t, stderr.String(), "pave local: 2 step(s)")
}

func TestApp_Run_SkipUnchanged(t *testing.T) {
	a, m, stdout, _ := setupAppTest(t)

	m.loader.EXPECT().Load(".", "", "").Return(localProfile(), nil)
	m.manager.EXPECT().Upgrade(gomock.Any(), "python3", gomock.Any(),
		gomock.Any(), gomock.Any()).Return(nil)
	m.hasher.EXPECT().HashFile("requirements.txt").Return("deadbeefdeadbeef", nil)
	m.store.EXPECT().Get("local").Return(&domain.InstallState{
		Profile:      "local",
		ManifestPath: "requirements.txt",
		ManifestHash: "deadbeefdeadbeef",
		Interpreter:  "python3",
		CompletedAt:  time.Now(),
	}, nil)

	err := a.Run(context.Background(), app.RunOptions{SkipUnchanged: true})
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "(up to date)")
	assert.Contains(t, stdout.String(), "Setup complete.")
}

func TestApp_Run_WatchRerunsOnChange(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		a, m, _, _ := setupAppTest(t)

		ctrl := gomock.NewController(t)
		w := mocks.NewMockWatcher(ctrl)
		events := make(chan ports.WatchEvent)

		var watched []string
		w.EXPECT().Start(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, paths []string) error {
				watched = paths
				return nil
			},
		).Times(1)
		w.EXPECT().Events().Return(eventSeq(events)).Times(1)
		w.EXPECT().Stop().Return(nil).Times(1)
		a.WithWatcherFactory(func() (ports.Watcher, error) { return w, nil })

		m.loader.EXPECT().Load(".", "", "").Return(localProfile(), nil).Times(2)
		m.loader.EXPECT().ConfigPath(".").Return("pave.yaml").Times(1)
		m.manager.EXPECT().Upgrade(gomock.Any(), "python3", gomock.Any(),
			gomock.Any(), gomock.Any()).Return(nil).Times(2)
		m.manager.EXPECT().Install(gomock.Any(), "python3", "requirements.txt",
			gomock.Any(), gomock.Any()).Return(nil).Times(2)
		m.hasher.EXPECT().HashFile("requirements.txt").Return("deadbeefdeadbeef", nil).Times(2)
		m.store.EXPECT().Put(gomock.Any()).Return(nil).Times(2)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		done := make(chan error, 1)
		go func() {
			done <- a.Run(ctx, app.RunOptions{Watch: true})
		}()

		// Let the initial run finish and the watch loop settle.
		synctest.Wait()
		assert.Equal(t, []string{"requirements.txt", "pave.yaml"}, watched)

		events <- ports.WatchEvent{Path: "requirements.txt", Operation: ports.OpWrite}
		time.Sleep(watcher.DefaultDebounceWindow + 50*time.Millisecond)
		synctest.Wait()

		cancel()
		require.NoError(t, <-done)
		close(events)
	})
}

func TestApp_Run_WatchStartFailure(t *testing.T) {
	a, m, _, _ := setupAppTest(t)

	a.WithWatcherFactory(func() (ports.Watcher, error) {
		return nil, errors.New("inotify limit reached")
	})

	m.loader.EXPECT().Load(".", "", "").Return(localProfile(), nil)
	m.manager.EXPECT().Upgrade(gomock.Any(), "python3", gomock.Any(),
		gomock.Any(), gomock.Any()).Return(nil)
	m.manager.EXPECT().Install(gomock.Any(), "python3", "requirements.txt",
		gomock.Any(), gomock.Any()).Return(nil)
	m.hasher.EXPECT().HashFile("requirements.txt").Return("feedfacefeedface", nil)
	m.store.EXPECT().Put(gomock.Any()).Return(nil)

	err := a.Run(context.Background(), app.RunOptions{Watch: true})
	require.Error(t, err)
	require.ErrorContains(t, err, "failed to start watch mode")
}

func TestApp_Run_WatchContinuesAfterFailedRun(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		a, m, _, _ := setupAppTest(t)

		ctrl := gomock.NewController(t)
		w := mocks.NewMockWatcher(ctrl)
		events := make(chan ports.WatchEvent)
		w.EXPECT().Start(gomock.Any(), gomock.Any()).Return(nil).Times(1)
		w.EXPECT().Events().Return(eventSeq(events)).Times(1)
		w.EXPECT().Stop().Return(nil).Times(1)
		a.WithWatcherFactory(func() (ports.Watcher, error) { return w, nil })

		m.loader.EXPECT().Load(".", "", "").Return(localProfile(), nil)
		m.loader.EXPECT().ConfigPath(".").Return("")
		m.manager.EXPECT().Upgrade(gomock.Any(), gomock.Any(), gomock.Any(),
			gomock.Any(), gomock.Any()).
			Return(zerr.Wrap(&domain.ExitError{Code: 1}, "command failed"))
		// The failed run is reported, then watch mode keeps going.
		m.logger.EXPECT().Error(gomock.Any()).Times(1)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- a.Run(ctx, app.RunOptions{Watch: true})
		}()

		synctest.Wait()
		cancel()
		require.NoError(t, <-done)
		close(events)
	})
}

func TestApp_Doctor(t *testing.T) {
	a, m, stdout, _ := setupAppTest(t)

	root := t.TempDir()
	manifest := filepath.Join(root, "requirements.txt")
	require.NoError(t, os.WriteFile(manifest, []byte("requests\n"), 0o644))

	profile := localProfile()
	profile.Manifest = manifest
	m.loader.EXPECT().Load(".", "", "").Return(profile, nil)
	m.loader.EXPECT().DiscoverRoot(".").Return(root, nil)

	m.executor.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, cmd *domain.Command, out, _ io.Writer) error {
			if len(cmd.Argv) > 1 && cmd.Argv[1] == "-m" {
				_, _ = out.Write([]byte("pip 24.0\n"))
				return nil
			}
			_, _ = out.Write([]byte("Python 3.12.3\n"))
			return nil
		},
	).Times(2)

	err := a.Doctor(context.Background(), app.DoctorOptions{})
	require.NoError(t, err)

	out := stdout.String()
	assert.Contains(t, out, `Checking environment for profile "local"`)
	assert.Contains(t, out, "python3 (Python 3.12.3)")
	assert.Contains(t, out, "pip 24.0")
	assert.Contains(t, out, "All checks passed.")
}

func TestApp_Doctor_FailedChecks(t *testing.T) {
	a, m, stdout, _ := setupAppTest(t)

	root := t.TempDir()
	profile := localProfile()
	profile.Manifest = filepath.Join(root, "requirements.txt")
	m.loader.EXPECT().Load(".", "", "").Return(profile, nil)
	m.loader.EXPECT().DiscoverRoot(".").Return(root, nil)

	m.executor.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("executable not found")).Times(2)

	err := a.Doctor(context.Background(), app.DoctorOptions{})
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrChecksFailed)

	out := stdout.String()
	assert.Contains(t, out, "Some checks failed.")
	assert.Contains(t, out, "install Python 3 or point the profile's interpreter at an existing one")
}

func TestApp_Doctor_ConfigLoaderError(t *testing.T) {
	a, m, _, _ := setupAppTest(t)

	m.loader.EXPECT().Load(".", "", "ci").
		Return(domain.Profile{}, errors.New("unknown profile"))

	err := a.Doctor(context.Background(), app.DoctorOptions{Profile: "ci"})
	require.Error(t, err)
	require.ErrorContains(t, err, "failed to load configuration")
}

func TestApp_Clean(t *testing.T) {
	a, m, _, _ := setupAppTest(t)

	root := t.TempDir()
	stateDir := domain.StateDirPath(root)
	require.NoError(t, os.MkdirAll(stateDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(stateDir, domain.StateFileName), []byte("{}"), 0o644))

	m.loader.EXPECT().DiscoverRoot(".").Return(root, nil)

	require.NoError(t, a.Clean(context.Background()))

	_, err := os.Stat(stateDir)
	assert.True(t, os.IsNotExist(err))
}

func TestApp_Clean_NoState(t *testing.T) {
	a, m, _, _ := setupAppTest(t)

	m.loader.EXPECT().DiscoverRoot(".").Return(t.TempDir(), nil)

	require.NoError(t, a.Clean(context.Background()))
}

func TestApp_Clean_DiscoverRootError(t *testing.T) {
	a, m, _, _ := setupAppTest(t)

	m.loader.EXPECT().DiscoverRoot(".").Return("", errors.New("permission denied"))

	err := a.Clean(context.Background())
	require.Error(t, err)
	require.ErrorContains(t, err, "permission denied")
}
