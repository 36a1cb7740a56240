// Package config provides the configuration loader for bowersync.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"path/filepath"
	"slices"
	"time"

	"go.trai.ch/bowersync/internal/core/domain"
	"go.trai.ch/bowersync/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

var validRangeOperators = []string{"^", "~", "="}

// Loader implements ports.ConfigLoader using a YAML file and the project's .bowerrc.
type Loader struct {
	Logger ports.Logger
	FS     ports.FileSystem
}

// NewLoader creates a new Loader with the given logger and file system.
func NewLoader(logger ports.Logger, fs ports.FileSystem) *Loader {
	return &Loader{Logger: logger, FS: fs}
}

// Load resolves the configuration for the project in dir.
//
// Defaults are overridden by .bowerrc, which is overridden by the config file.
// An explicit configPath must exist; the default dir/bowersync.yaml is optional.
func (l *Loader) Load(dir, configPath string) (*domain.Config, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to resolve project directory"), "dir", dir)
	}
	cfg := domain.DefaultConfig(root)

	rc, err := l.readBowerrc(root)
	if err != nil {
		return nil, err
	}
	if rc.Directory != "" {
		cfg.ComponentsDir = rc.Directory
	}

	explicit := configPath != ""
	if !explicit {
		configPath = filepath.Join(root, domain.ConfigFileName)
	} else if !filepath.IsAbs(configPath) {
		configPath = filepath.Join(root, configPath)
	}

	var file File
	found, err := l.readYAML(configPath, &file)
	if err != nil {
		return nil, err
	}
	if !found {
		if explicit {
			return nil, errors.Join(domain.ErrConfigReadFailed,
				zerr.With(zerr.New("config file does not exist"), "path", configPath))
		}
		return cfg, nil
	}

	if file.ComponentsDir != "" && rc.Directory != "" && file.ComponentsDir != rc.Directory {
		l.Logger.Warn(fmt.Sprintf("componentsDir in %s overrides directory %q from %s",
			filepath.Base(configPath), rc.Directory, domain.BowerrcFileName))
	}
	if err := apply(cfg, &file); err != nil {
		return nil, zerr.With(err, "config", configPath)
	}
	return cfg, nil
}

// apply validates file and copies its settings onto cfg.
func apply(cfg *domain.Config, file *File) error {
	if file.Name != "" {
		cfg.ProjectName = file.Name
	}
	if file.Manifest != "" {
		cfg.Manifest = filepath.Clean(file.Manifest)
	}
	if file.RangeOperator != nil {
		if !slices.Contains(validRangeOperators, *file.RangeOperator) {
			return errors.Join(domain.ErrInvalidConfig,
				zerr.With(zerr.New("rangeOperator must be one of ^, ~ or ="), "rangeOperator", *file.RangeOperator))
		}
		cfg.RangeOperator = *file.RangeOperator
	}
	if file.ComponentsDir != "" {
		cfg.ComponentsDir = file.ComponentsDir
	}
	if file.Debounce != "" {
		d, err := time.ParseDuration(file.Debounce)
		if err != nil || d <= 0 {
			return errors.Join(domain.ErrInvalidConfig,
				zerr.With(zerr.New("debounce must be a positive duration"), "debounce", file.Debounce))
		}
		cfg.Debounce = d
	}
	cfg.Listen = file.Listen
	return nil
}

// readBowerrc reads root/.bowerrc. A missing file yields the zero value.
func (l *Loader) readBowerrc(root string) (Bowerrc, error) {
	var rc Bowerrc
	path := filepath.Join(root, domain.BowerrcFileName)

	data, err := l.FS.ReadFile(path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return rc, nil
		}
		return rc, errors.Join(domain.ErrConfigReadFailed, zerr.With(err, "path", path))
	}
	if err := json.Unmarshal(data, &rc); err != nil {
		return rc, errors.Join(domain.ErrConfigParseFailed, zerr.With(err, "path", path))
	}
	return rc, nil
}

// readYAML decodes the YAML file at path into target, rejecting unknown keys.
// It reports false when the file does not exist.
func (l *Loader) readYAML(path string, target *File) (bool, error) {
	data, err := l.FS.ReadFile(path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return false, nil
		}
		return false, errors.Join(domain.ErrConfigReadFailed, zerr.With(err, "path", path))
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return false, errors.Join(domain.ErrConfigParseFailed, zerr.With(err, "path", path))
	}
	return true, nil
}
