// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ordmap_test

import (
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"

	. "cogentcore.org/vizscene/base/ordmap"
)

func TestMap(t *testing.T) {
	var om Map[string, int]
	assert.Equal(t, 0, om.Len())
	om.Add("a", 1)
	om.Add("b", 2)
	om.Add("c", 3)
	om.Add("a", 10)
	assert.Equal(t, []string{"a", "b", "c"}, om.Keys())
	assert.Equal(t, []int{10, 2, 3}, om.Values())
	assert.Equal(t, 10, om.ValueByKey("a"))
	assert.Equal(t, 0, om.ValueByKey("x"))
	_, ok := om.ValueByKeyTry("x")
	assert.False(t, ok)

	assert.True(t, om.DeleteKey("a"))
	assert.False(t, om.DeleteKey("a"))
	assert.Equal(t, []string{"b", "c"}, om.Keys())
	assert.Equal(t, 1, om.IndexByKey("c"))
	assert.Equal(t, -1, om.IndexByKey("a"))
	assert.Equal(t, 3, om.ValueByKey("c"))

	assert.Equal(t, map[string]int{"b": 2, "c": 3}, maps.Collect(om.All()))

	c := om.Clone()
	c.Add("b", 20)
	assert.Equal(t, 2, om.ValueByKey("b"))

	om.Reset()
	assert.Equal(t, 0, om.Len())
	om.Add("d", 4)
	assert.Equal(t, []string{"d"}, om.Keys())
}

func TestMake(t *testing.T) {
	om := Make([]KeyValue[string, string]{{"x", "1"}, {"y", "2"}})
	assert.Equal(t, "2", om.ValueByKey("y"))
	assert.Equal(t, 1, om.IndexByKey("y"))
	var nilMap *Map[string, int]
	assert.Equal(t, 0, nilMap.Len())
	_, ok := nilMap.ValueByKeyTry("a")
	assert.False(t, ok)
	assert.Equal(t, 0, nilMap.Clone().Len())
}
