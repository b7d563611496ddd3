// ABOUTME: Standard filesystem paths for richinput configuration
// ABOUTME: Resolves ~/.richinput/ for global and .richinput/ for project-local paths

package config

import (
	"os"
	"path/filepath"
)

const (
	globalDirName  = ".richinput"
	projectDirName = ".richinput"

	configFileName      = "config.yaml"
	keybindingsFileName = "keybindings.yaml"
)

// GlobalDir returns the user-global config directory (~/.richinput/).
func GlobalDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", globalDirName)
	}
	return filepath.Join(home, globalDirName)
}

// ProjectDir returns the project-local config directory (.richinput/ in projectRoot).
func ProjectDir(projectRoot string) string {
	return filepath.Join(projectRoot, projectDirName)
}

// GlobalConfigFile returns the path to the global config file.
func GlobalConfigFile() string {
	return filepath.Join(GlobalDir(), configFileName)
}

// ProjectConfigFile returns the path to the project-local config file.
func ProjectConfigFile(projectRoot string) string {
	return filepath.Join(ProjectDir(projectRoot), configFileName)
}

// GlobalKeybindingsFile returns the path to the global keybindings file.
func GlobalKeybindingsFile() string {
	return filepath.Join(GlobalDir(), keybindingsFileName)
}

// ProjectKeybindingsFile returns the path to the project-local keybindings file.
func ProjectKeybindingsFile(projectRoot string) string {
	return filepath.Join(ProjectDir(projectRoot), keybindingsFileName)
}

// EnsureDir creates a directory and all parents if they don't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o700)
}
