package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// ProjectConfigFile is the config file picked up from the working directory.
const ProjectConfigFile = "g4spectra.yaml"

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger *slog.Logger
	// Dir is searched for ProjectConfigFile (default: working directory).
	Dir string
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load loads configuration with layered precedence:
// 1. Default config
// 2. Project config (g4spectra.yaml in the working directory)
// 3. Explicit config file (--config), which must exist
//
// Command-line flags are applied on top by the commands themselves.
func (l *Loader) Load(explicitPath string) (*Config, error) {
	config := Default()

	projectPath := l.projectConfigPath()
	if err := config.ApplyFile(projectPath); err == nil {
		l.logger.Debug("Loaded project config", slog.String("path", projectPath))
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	} else {
		l.logger.Debug("No project config found", slog.String("path", projectPath))
	}

	if explicitPath != "" {
		if err := config.ApplyFile(explicitPath); err != nil {
			return nil, err
		}
		l.logger.Debug("Loaded config", slog.String("path", explicitPath))
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (l *Loader) projectConfigPath() string {
	dir := l.Dir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return ProjectConfigFile
		}
		dir = cwd
	}
	return filepath.Join(dir, ProjectConfigFile)
}
