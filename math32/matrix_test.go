// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math32

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestAxesMatch(t *testing.T) {
	a := mgl32.Ident4()
	b := mgl32.Scale3D(2, 3, 4).Mul4(mgl32.Translate3D(5, 0, 0))
	assert.True(t, AxesMatch(a, b, 0.001), "scale and translation do not change axes")

	c := mgl32.HomogRotate3DZ(DegToRad(1))
	assert.False(t, AxesMatch(a, c, 0.001))
	assert.True(t, AxesMatch(a, c, 0.1))
}

func TestMulPoint(t *testing.T) {
	m := mgl32.Translate3D(1, 2, 3)
	p := MulPoint(m, mgl32.Vec3{1, 1, 1})
	assert.Equal(t, mgl32.Vec3{2, 3, 4}, p)
	d := MulDirection(m, mgl32.Vec3{1, 1, 1})
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, d)
}

func TestTranslation(t *testing.T) {
	m := mgl32.Ident4()
	SetTranslation(&m, mgl32.Vec3{4, 5, 6})
	assert.Equal(t, mgl32.Vec3{4, 5, 6}, Translation(m))
	assert.True(t, Invertible(m))
	assert.False(t, IsIdentity4(m, 1e-6))
}
