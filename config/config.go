// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config provides the runtime settings of vizscene, which are
// read from TOML files, or YAML files by extension.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"

	"cogentcore.org/vizscene/base/iox/tomlx"
	"cogentcore.org/vizscene/base/iox/yamlx"
	"cogentcore.org/vizscene/base/logx"
	"cogentcore.org/vizscene/links"
	"cogentcore.org/vizscene/scene"
)

// Settings are the runtime settings.
type Settings struct {

	// LogLevel is the verbosity of logging: debug, info, warn or error.
	LogLevel string

	// Links are the settings of the link logic.
	Links LinksSettings

	// Document are the settings of written documents.
	Document DocumentSettings
}

// LinksSettings are the settings of [links.Logic].
type LinksSettings struct {

	// HotLinkedDefault is the HotLinkedControl of new slice composites
	// and 3D views.
	HotLinkedDefault bool

	// OrientationTolerance is the tolerance within which two slice
	// orientations match.
	OrientationTolerance float32
}

// DocumentSettings are the settings of written scene documents.
type DocumentSettings struct {

	// Indent is whether documents have one element per line.
	Indent bool
}

// Default returns the default settings.
func Default() *Settings {
	return &Settings{
		LogLevel: "warn",
		Links: LinksSettings{
			OrientationTolerance: links.DefaultOrientationTolerance,
		},
		Document: DocumentSettings{Indent: true},
	}
}

// DefaultPath returns the path of the settings file in the home
// directory of the user.
func DefaultPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("config.DefaultPath: %w", err)
	}
	return filepath.Join(home, ".vizscene", "settings.toml"), nil
}

func isYAML(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".yaml" || ext == ".yml"
}

// Open reads the settings from the given file, on top of the values
// that s already has.
func (s *Settings) Open(filename string) error {
	var err error
	if isYAML(filename) {
		err = yamlx.Open(s, filename)
	} else {
		err = tomlx.Open(s, filename)
	}
	if err != nil {
		return fmt.Errorf("config.Settings.Open: %w", err)
	}
	return nil
}

// Save writes the settings to the given file.
func (s *Settings) Save(filename string) error {
	var err error
	if isYAML(filename) {
		err = yamlx.Save(s, filename)
	} else {
		err = tomlx.Save(s, filename)
	}
	if err != nil {
		return fmt.Errorf("config.Settings.Save: %w", err)
	}
	return nil
}

// Write writes the settings to the given writer in the given format,
// "toml" or "yaml".
func (s *Settings) Write(w io.Writer, format string) error {
	switch strings.ToLower(format) {
	case "toml":
		return tomlx.Write(s, w)
	case "yaml", "yml":
		return yamlx.Write(s, w)
	}
	return fmt.Errorf("config.Settings.Write: unknown format %q", format)
}

// Load returns the settings in the given file, or the default settings
// if the file does not exist. An empty filename loads [DefaultPath].
func Load(filename string) (*Settings, error) {
	s := Default()
	if filename == "" {
		p, err := DefaultPath()
		if err != nil {
			return s, err
		}
		filename = p
	}
	err := s.Open(filename)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("config.Load: no settings file, using defaults", "file", filename)
		return s, nil
	}
	return s, err
}

// Validate fixes invalid values, returning an error that describes them.
func (s *Settings) Validate() error {
	var errs []error
	if _, err := logx.LevelFromString(s.LogLevel); err != nil {
		errs = append(errs, err)
		s.LogLevel = "warn"
	}
	if s.Links.OrientationTolerance <= 0 {
		errs = append(errs, fmt.Errorf("config.Settings.Validate: orientation tolerance must be positive, not %g", s.Links.OrientationTolerance))
		s.Links.OrientationTolerance = links.DefaultOrientationTolerance
	}
	return errors.Join(errs...)
}

// Level returns the log level of the settings.
func (s *Settings) Level() slog.Level {
	lv, _ := logx.LevelFromString(s.LogLevel)
	return lv
}

// Apply applies the settings to the given scene and link logic,
// either of which can be nil.
func (s *Settings) Apply(sc *scene.Scene, lg *links.Logic) {
	if sc != nil {
		sc.Indent = s.Document.Indent
	}
	if lg != nil {
		lg.HotLinkedDefault = s.Links.HotLinkedDefault
		lg.OrientationTolerance = s.Links.OrientationTolerance
	}
}
