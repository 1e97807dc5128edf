package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// isolatedEnv returns an env slice pointing XDG_CONFIG_HOME at an empty
// temp dir, preventing a real ~/.config/bibindex/config.json on the test
// machine from leaking into assertions.
func isolatedEnv(t *testing.T) []string {
	t.Helper()
	return []string{"XDG_CONFIG_HOME=" + t.TempDir()}
}

func TestLoad_DefaultsWhenNoFiles(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir, "", Overrides{}, isolatedEnv(t))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoad_ProjectFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`{
		// trailing comment, JSONC-style
		"hash_file": "custom-hash.bin",
	}`), 0o644))

	cfg, err := Load(dir, "", Overrides{}, isolatedEnv(t))
	require.NoError(t, err)
	require.Equal(t, "custom-hash.bin", cfg.HashFile)
	require.Equal(t, Default().IDTree, cfg.IDTree)
}

func TestLoad_CLIOverrideWinsOverProjectFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`{"hash_file": "from-file.bin"}`), 0o644))

	cfg, err := Load(dir, "", Overrides{HashFile: "from-cli.bin"}, isolatedEnv(t))
	require.NoError(t, err)
	require.Equal(t, "from-cli.bin", cfg.HashFile)
}

func TestLoad_ExplicitConfigPathMustExist(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(dir, "missing.json", Overrides{}, isolatedEnv(t))
	require.ErrorIs(t, err, errConfigFileNotFound)
}

func TestLoad_GlobalConfigUnderridesProjectFile(t *testing.T) {
	dir := t.TempDir()
	xdgDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(xdgDir, globalConfigDirName), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(xdgDir, globalConfigDirName, "config.json"),
		[]byte(`{"hash_file": "global-hash.bin", "id_tree": "global-id.bin"}`),
		0o644,
	))
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`{"hash_file": "project-hash.bin"}`), 0o644))

	cfg, err := Load(dir, "", Overrides{}, []string{"XDG_CONFIG_HOME=" + xdgDir})
	require.NoError(t, err)
	require.Equal(t, "project-hash.bin", cfg.HashFile) // project file wins over global
	require.Equal(t, "global-id.bin", cfg.IDTree)       // global fills in what project doesn't set
}

func TestLoad_BlockSizeAndDataDirOverrides(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir, "", Overrides{BlockSize: 8192, DataDir: "data"}, isolatedEnv(t))
	require.NoError(t, err)
	require.Equal(t, 8192, cfg.BlockSize)
	require.Equal(t, filepath.Join("data", Default().HashFile), cfg.HashFile)
}

func TestSave_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	cfg := Config{HashFile: "h.bin", IDTree: "i.bin", TitleTree: "t.bin", BlockSize: Default().BlockSize}
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(dir, "", Overrides{}, isolatedEnv(t))
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}
