// Package config loads the store's three file paths from defaults, an
// optional JSONC config file, and CLI overrides, following the same
// precedence chain and hujson-based parsing the calvinalkan-agent-task
// tool uses for its own config file.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"

	"github.com/scigolib/bibindex/internal/ioblock"
)

// FileName is the default config file name, looked for in the working
// directory.
const FileName = ".bibindex.json"

// globalConfigDirName names the subdirectory of the XDG/home config root
// that holds bibindex's global config file, mirroring the shape
// calvinalkan-agent-task uses for its own tool name.
const globalConfigDirName = "bibindex"

// Config names the three files a store is built from, plus the ioblock
// block size new files are created at and an optional directory the
// three file paths are resolved relative to.
type Config struct {
	HashFile  string `json:"hash_file"`
	IDTree    string `json:"id_tree"`
	TitleTree string `json:"title_tree"`
	BlockSize int    `json:"block_size"`
	DataDir   string `json:"data_dir"`
}

// Default returns the built-in defaults, matching the original tool's
// hardcoded filenames.
func Default() Config {
	return Config{
		HashFile:  "bd-hashfile.bin",
		IDTree:    "bd-idtree.bin",
		TitleTree: "bd-titletree.bin",
		BlockSize: ioblock.Size,
	}
}

var errConfigFileNotFound = errors.New("config: file not found")

// Overrides carries CLI-supplied values; a field's zero value ("" or 0)
// means "not overridden".
type Overrides struct {
	HashFile  string
	IDTree    string
	TitleTree string
	BlockSize int
	DataDir   string
}

// Load resolves a Config with precedence (lowest to highest):
//
//  1. built-in defaults
//  2. the global user config ($XDG_CONFIG_HOME/bibindex/config.json, or
//     ~/.config/bibindex/config.json, if present)
//  3. workDir/.bibindex.json (if present)
//  4. the explicit configPath (if non-empty, and must exist)
//  5. cliOverrides
//
// env is consulted for XDG_CONFIG_HOME when resolving the global config
// path, the same way calvinalkan-agent-task's LoadConfig takes an
// explicit env slice rather than always trusting the process
// environment; callers typically pass os.Environ().
func Load(workDir, configPath string, cliOverrides Overrides, env []string) (Config, error) {
	cfg := Default()

	globalPath := globalConfigPath(env)
	if globalPath != "" {
		globalCfg, found, err := loadFile(globalPath, false)
		if err != nil {
			return Config{}, err
		}
		if found {
			cfg = merge(cfg, globalCfg)
		}
	}

	projectPath := filepath.Join(workDir, FileName)
	projectCfg, found, err := loadFile(projectPath, false)
	if err != nil {
		return Config{}, err
	}
	if found {
		cfg = merge(cfg, projectCfg)
	}

	if configPath != "" {
		explicitCfg, _, err := loadFile(resolvePath(workDir, configPath), true)
		if err != nil {
			return Config{}, err
		}
		cfg = merge(cfg, explicitCfg)
	}

	if cliOverrides.HashFile != "" {
		cfg.HashFile = cliOverrides.HashFile
	}
	if cliOverrides.IDTree != "" {
		cfg.IDTree = cliOverrides.IDTree
	}
	if cliOverrides.TitleTree != "" {
		cfg.TitleTree = cliOverrides.TitleTree
	}
	if cliOverrides.BlockSize != 0 {
		cfg.BlockSize = cliOverrides.BlockSize
	}
	if cliOverrides.DataDir != "" {
		cfg.DataDir = cliOverrides.DataDir
	}

	cfg = applyDataDir(cfg)

	return cfg, nil
}

// globalConfigPath returns the path to the global config file, checking
// env for XDG_CONFIG_HOME before falling back to os.Getenv and finally
// to ~/.config. Returns "" if no home directory can be determined.
func globalConfigPath(env []string) string {
	for _, e := range env {
		if after, ok := strings.CutPrefix(e, "XDG_CONFIG_HOME="); ok {
			return filepath.Join(after, globalConfigDirName, "config.json")
		}
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, globalConfigDirName, "config.json")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", globalConfigDirName, "config.json")
}

// applyDataDir joins DataDir onto HashFile/IDTree/TitleTree wherever
// those are relative paths.
func applyDataDir(cfg Config) Config {
	if cfg.DataDir == "" {
		return cfg
	}
	cfg.HashFile = joinDataDir(cfg.DataDir, cfg.HashFile)
	cfg.IDTree = joinDataDir(cfg.DataDir, cfg.IDTree)
	cfg.TitleTree = joinDataDir(cfg.DataDir, cfg.TitleTree)
	return cfg
}

func joinDataDir(dataDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dataDir, path)
}

func resolvePath(workDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workDir, path)
}

func loadFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return Config{}, false, nil
		}
		if mustExist {
			return Config{}, false, fmt.Errorf("%w: %s", errConfigFileNotFound, path)
		}
		return Config{}, false, nil
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, false, fmt.Errorf("config: invalid JSONC in %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, false, fmt.Errorf("config: invalid JSON in %s: %w", path, err)
	}

	return cfg, true, nil
}

func merge(base, overlay Config) Config {
	if overlay.HashFile != "" {
		base.HashFile = overlay.HashFile
	}
	if overlay.IDTree != "" {
		base.IDTree = overlay.IDTree
	}
	if overlay.TitleTree != "" {
		base.TitleTree = overlay.TitleTree
	}
	if overlay.BlockSize != 0 {
		base.BlockSize = overlay.BlockSize
	}
	if overlay.DataDir != "" {
		base.DataDir = overlay.DataDir
	}
	return base
}

// Save writes cfg as JSON to path, replacing the file atomically so a
// crash mid-write never leaves a truncated config behind.
func Save(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return atomic.WriteFile(path, bytes.NewReader(data))
}
