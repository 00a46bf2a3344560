// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cogentcore.org/vizscene/config"
	"cogentcore.org/vizscene/data"
	"cogentcore.org/vizscene/transform"
)

// run runs the command with the given arguments, with settings that
// do not exist so that the defaults are used.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "settings.toml")))
	err := root.Execute()
	return out.String(), err
}

// writeModel writes a document with a model under a translation.
func writeModel(t *testing.T, filename string) {
	t.Helper()
	a := &app{settings: config.Default()}
	sc, _ := a.newScene()
	lt := sc.AddNewNodeByClass("LinearTransformNode", "move").(*transform.LinearTransformNode)
	lt.Translate(mgl32.Vec3{0, 0, 10})
	m := sc.AddNewNodeByClass("ModelNode", "model").(*data.ModelNode)
	m.SetPoints([]mgl32.Vec3{{1, 2, 3}})
	require.True(t, m.SetParentTransform(lt.ID))
	require.NoError(t, sc.Commit(filename))
}

func TestInfo(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "scene.xml")
	writeModel(t, fn)
	out, err := run(t, "info", fn)
	require.NoError(t, err)
	assert.Contains(t, out, "expected 2, imported 2, skipped 0")
	assert.Contains(t, out, "LinearTransformNode1")
	assert.Contains(t, out, "transform=LinearTransformNode1")
	assert.Contains(t, out, "Displayable")

	_, err = run(t, "info", filepath.Join(t.TempDir(), "none.xml"))
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "dest.xml")
	src := filepath.Join(dir, "src.xml")
	merged := filepath.Join(dir, "merged.xml")
	a := &app{settings: config.Default()}
	sc, _ := a.newScene()
	sc.AddNewNodeByClass("LinearTransformNode", "existing")
	require.NoError(t, sc.Commit(dest))
	writeModel(t, src)

	out, err := run(t, "merge", dest, src, "-o", merged)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 2 of 2 nodes")
	assert.Contains(t, out, "renamed LinearTransformNode1 -> LinearTransformNode2")

	msc, _, err := a.open(merged)
	require.NoError(t, err)
	assert.Equal(t, 3, msc.NumNodes())
	m := msc.FirstNodeByClass("ModelNode").(*data.ModelNode)
	assert.Equal(t, "LinearTransformNode2", m.ParentTransformID())
	assert.Equal(t, "existing", msc.NodeByID("LinearTransformNode1").AsNode().Name)
}

func TestHarden(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "scene.xml")
	hardened := filepath.Join(dir, "hardened.xml")
	writeModel(t, fn)

	_, err := run(t, "harden", fn, "ModelNode1", "-o", hardened)
	require.NoError(t, err)
	a := &app{settings: config.Default()}
	sc, _, err := a.open(hardened)
	require.NoError(t, err)
	m := sc.NodeByID("ModelNode1").(*data.ModelNode)
	assert.Empty(t, m.ParentTransformID())
	assert.Equal(t, []mgl32.Vec3{{1, 2, 13}}, m.Points)

	_, err = run(t, "harden", fn, "ModelNode9", "-o", hardened)
	assert.ErrorContains(t, err, "no node")
}

func TestConfig(t *testing.T) {
	out, err := run(t, "config", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "loglevel: warn")

	out, err = run(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "LogLevel")

	_, err = run(t, "config", "--format", "json")
	assert.Error(t, err)
}

// syncBuffer is a buffer that can be written and read concurrently.
type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func TestWatch(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "scene.xml")
	writeModel(t, fn)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var out syncBuffer
	done := make(chan error, 1)
	a := &app{settings: config.Default()}
	go func() { done <- a.watch(ctx, &out, fn) }()

	reports := func() int { return strings.Count(out.String(), "expected 2, imported 2") }
	require.Eventually(t, func() bool { return reports() == 1 }, 5*time.Second, 10*time.Millisecond)
	// a report that races the write may fail, but the last event sees the whole file
	writeModel(t, fn)
	assert.Eventually(t, func() bool { return reports() >= 2 }, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not return after cancel")
	}
}
