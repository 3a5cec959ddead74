package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paveproject/pave/internal/adapters/config"
	"github.com/paveproject/pave/internal/core/domain"
	"github.com/paveproject/pave/internal/core/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestLoader(t *testing.T) *config.Loader {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	return config.NewLoader(logger)
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, domain.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_Load_NoConfigUsesBuiltins(t *testing.T) {
	loader := newTestLoader(t)
	dir := t.TempDir()

	profile, err := loader.Load(dir, "", "")
	require.NoError(t, err)

	assert.Equal(t, "local", profile.Name)
	assert.Equal(t, "python3", profile.Interpreter)
	assert.Equal(t, "requirements.txt", profile.Manifest)
	assert.Equal(t, []string{"pip", "setuptools", "wheel"}, profile.Tools)
	assert.Equal(t, "Setup complete.", profile.CompletionMessage)
}

func TestLoader_Load_BuiltinDeployProfile(t *testing.T) {
	loader := newTestLoader(t)
	dir := t.TempDir()

	profile, err := loader.Load(dir, "", "deploy")
	require.NoError(t, err)

	assert.Equal(t, "deploy", profile.Name)
	assert.Equal(t, "Preparing deploy toolchain...", profile.UpgradeTitle)
	assert.Equal(t, "Deploy environment ready.", profile.CompletionMessage)
	// The sequence itself is identical to local.
	assert.Equal(t, "python3", profile.Interpreter)
	assert.Equal(t, "requirements.txt", profile.Manifest)
}

func TestLoader_Load_UnknownProfileWithoutConfig(t *testing.T) {
	loader := newTestLoader(t)
	dir := t.TempDir()

	_, err := loader.Load(dir, "", "staging")
	require.Error(t, err)
	require.ErrorContains(t, err, domain.ErrUnknownProfile.Error())
}

func TestLoader_Load_ExplicitConfigMustExist(t *testing.T) {
	loader := newTestLoader(t)
	dir := t.TempDir()

	_, err := loader.Load(dir, filepath.Join(dir, "absent.yaml"), "")
	require.Error(t, err)
	require.ErrorContains(t, err, domain.ErrConfigNotFound.Error())
}

func TestLoader_Load_ExplicitConfigPinsFile(t *testing.T) {
	loader := newTestLoader(t)
	configDir := t.TempDir()
	cwd := t.TempDir()

	// The pinned file wins even though cwd has its own pave.yaml.
	writeConfig(t, cwd, "manifest: wrong.txt\n")
	pinned := filepath.Join(configDir, "custom.yaml")
	require.NoError(t, os.WriteFile(pinned, []byte("manifest: deploy.txt\n"), 0o644))

	profile, err := loader.Load(cwd, pinned, "")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(configDir, "deploy.txt"), profile.Manifest)
	assert.Equal(t, "Installing dependencies from deploy.txt...", profile.InstallTitle)
}

func TestLoader_Load_DiscoveryWalksUp(t *testing.T) {
	loader := newTestLoader(t)
	root := t.TempDir()
	writeConfig(t, root, "manifest: deps.txt\n")

	sub := filepath.Join(root, "services", "api")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	profile, err := loader.Load(sub, "", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "deps.txt"), profile.Manifest)
}

func TestLoader_Load_MergePrecedence(t *testing.T) {
	loader := newTestLoader(t)
	dir := t.TempDir()
	writeConfig(t, dir, `
version: "1"
interpreter: python3.11
tools: [pip]
profiles:
  local:
    interpreter: python3.12
    manifest: requirements-dev.txt
    messages:
      upgrade: "Refreshing tools..."
      complete: "Dev environment ready."
  deploy: {}
`)

	local, err := loader.Load(dir, "", "local")
	require.NoError(t, err)

	// Profile entry beats the file-level default.
	assert.Equal(t, "python3.12", local.Interpreter)
	assert.Equal(t, []string{"pip"}, local.Tools)
	assert.Equal(t, filepath.Join(dir, "requirements-dev.txt"), local.Manifest)
	assert.Equal(t, "Refreshing tools...", local.UpgradeTitle)
	// No explicit install message, so the title follows the new manifest.
	assert.Equal(t, "Installing dependencies from requirements-dev.txt...", local.InstallTitle)
	assert.Equal(t, "Dev environment ready.", local.CompletionMessage)

	// File-level defaults reach profiles that do not override them.
	deploy, err := loader.Load(dir, "", "deploy")
	require.NoError(t, err)
	assert.Equal(t, "python3.11", deploy.Interpreter)
	assert.Equal(t, "Preparing deploy toolchain...", deploy.UpgradeTitle)
}

func TestLoader_Load_CustomProfile(t *testing.T) {
	loader := newTestLoader(t)
	dir := t.TempDir()
	writeConfig(t, dir, `
profiles:
  ci:
    manifest: requirements-ci.txt
    required_env: [CI_TOKEN]
`)

	profile, err := loader.Load(dir, "", "ci")
	require.NoError(t, err)

	assert.Equal(t, "ci", profile.Name)
	assert.Equal(t, "python3", profile.Interpreter)
	assert.Equal(t, filepath.Join(dir, "requirements-ci.txt"), profile.Manifest)
	assert.Equal(t, []string{"CI_TOKEN"}, profile.RequiredEnv)
	assert.Equal(t, "Upgrading packaging tools...", profile.UpgradeTitle)
}

func TestLoader_Load_AbsoluteManifestUntouched(t *testing.T) {
	loader := newTestLoader(t)
	dir := t.TempDir()
	manifest := filepath.Join(t.TempDir(), "requirements.txt")
	writeConfig(t, dir, "manifest: "+manifest+"\n")

	profile, err := loader.Load(dir, "", "")
	require.NoError(t, err)
	assert.Equal(t, manifest, profile.Manifest)
}

func TestLoader_Load_InvalidConfigs(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		profile     string
		errContains string
	}{
		{
			name:        "malformed yaml",
			content:     "profiles: [not: a: map\n",
			errContains: domain.ErrConfigParseFailed.Error(),
		},
		{
			name:        "unsupported version",
			content:     "version: \"2\"\n",
			errContains: domain.ErrConfigValidation.Error(),
		},
		{
			name:        "empty tools list",
			content:     "tools: []\n",
			errContains: domain.ErrConfigValidation.Error(),
		},
		{
			name: "empty tools list in profile",
			content: `
profiles:
  local:
    tools: []
`,
			errContains: domain.ErrConfigValidation.Error(),
		},
		{
			name:        "unknown profile with config present",
			content:     "profiles:\n  local: {}\n",
			profile:     "staging",
			errContains: domain.ErrUnknownProfile.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := newTestLoader(t)
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)

			_, err := loader.Load(dir, "", tt.profile)
			require.Error(t, err)
			require.ErrorContains(t, err, tt.errContains)
		})
	}
}

func TestLoader_DiscoverRoot(t *testing.T) {
	loader := newTestLoader(t)

	root := t.TempDir()
	writeConfig(t, root, "manifest: deps.txt\n")
	sub := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	got, err := loader.DiscoverRoot(sub)
	require.NoError(t, err)
	assert.Equal(t, root, got)
}

func TestLoader_DiscoverRoot_FallsBackToCwd(t *testing.T) {
	loader := newTestLoader(t)
	dir := t.TempDir()

	got, err := loader.DiscoverRoot(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, got)
}

func TestLoader_ConfigPath(t *testing.T) {
	loader := newTestLoader(t)

	dir := t.TempDir()
	assert.Empty(t, loader.ConfigPath(dir))

	path := writeConfig(t, dir, "manifest: deps.txt\n")
	assert.Equal(t, path, loader.ConfigPath(dir))
}
