// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package yamlx_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "cogentcore.org/vizscene/base/iox/yamlx"
)

type testStruct struct {
	Name  string
	Level int
	Tags  []string
}

func TestSaveOpen(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "test.yaml")
	v := testStruct{Name: "scene", Level: 2, Tags: []string{"a", "b"}}
	require.NoError(t, Save(&v, fn))

	var got testStruct
	require.NoError(t, Open(&got, fn))
	assert.Equal(t, v, got)

	got = testStruct{Name: "keep"}
	assert.Error(t, Open(&got, filepath.Join(t.TempDir(), "none")))
	assert.Equal(t, "keep", got.Name)
}

func TestWrite(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, Write(&testStruct{Name: "scene", Level: 3}, &b))
	assert.Contains(t, b.String(), "scene")
	assert.Contains(t, b.String(), "3")
}
