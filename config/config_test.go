// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "cogentcore.org/vizscene/config"
	"cogentcore.org/vizscene/links"
	"cogentcore.org/vizscene/scene"
)

func TestDefault(t *testing.T) {
	s := Default()
	assert.Equal(t, "warn", s.LogLevel)
	assert.False(t, s.Links.HotLinkedDefault)
	assert.Equal(t, float32(0.001), s.Links.OrientationTolerance)
	assert.True(t, s.Document.Indent)
	assert.NoError(t, s.Validate())

	p, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "settings.toml", filepath.Base(p))
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"settings.toml", "settings.yaml"} {
		s := Default()
		s.LogLevel = "debug"
		s.Links.HotLinkedDefault = true
		s.Links.OrientationTolerance = 0.01
		s.Document.Indent = false
		fn := filepath.Join(dir, name)
		require.NoError(t, s.Save(fn), name)

		got, err := Load(fn)
		require.NoError(t, err, name)
		assert.Equal(t, s, got, name)
		assert.Equal(t, slog.LevelDebug, got.Level())
	}
}

func TestLoadMissing(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "none.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestLoadInvalid(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(fn, []byte("LogLevel = \n"), 0o644))
	_, err := Load(fn)
	assert.Error(t, err)

	fn = filepath.Join(t.TempDir(), "partial.toml")
	require.NoError(t, os.WriteFile(fn, []byte("LogLevel = \"loud\"\n[Links]\nOrientationTolerance = -1\n"), 0o644))
	s, err := Load(fn)
	require.NoError(t, err)
	assert.True(t, s.Document.Indent, "missing values keep their defaults")
	assert.Error(t, s.Validate())
	assert.Equal(t, "warn", s.LogLevel)
	assert.Equal(t, float32(links.DefaultOrientationTolerance), s.Links.OrientationTolerance)
}

func TestApply(t *testing.T) {
	sc := scene.NewScene()
	lg := links.New(sc)
	s := Default()
	s.Links.HotLinkedDefault = true
	s.Links.OrientationTolerance = 0.05
	s.Document.Indent = false
	s.Apply(sc, lg)
	assert.False(t, sc.Indent)
	assert.True(t, lg.HotLinkedDefault)
	assert.Equal(t, float32(0.05), lg.OrientationTolerance)
	s.Apply(nil, nil)
}

func TestWrite(t *testing.T) {
	s := Default()
	s.LogLevel = "info"
	var b bytes.Buffer
	require.NoError(t, s.Write(&b, "toml"))
	assert.Contains(t, b.String(), "LogLevel")
	assert.Contains(t, b.String(), "info")
	assert.Contains(t, b.String(), "[Links]")

	b.Reset()
	require.NoError(t, s.Write(&b, "YAML"))
	assert.Contains(t, b.String(), "loglevel: info")

	assert.Error(t, s.Write(&b, "json"))
}
