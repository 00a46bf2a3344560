// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math32

import "github.com/go-gl/mathgl/mgl32"

// Identity4 returns a new 4x4 identity matrix.
func Identity4() mgl32.Mat4 {
	return mgl32.Ident4()
}

// IsIdentity4 returns whether the given matrix is the identity,
// within the given tolerance on every element.
func IsIdentity4(m mgl32.Mat4, tol float32) bool {
	return m.ApproxEqualThreshold(mgl32.Ident4(), tol)
}

// MulPoint transforms the given point by the given matrix,
// including the homogeneous division.
func MulPoint(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.TransformCoordinate(p, m)
}

// MulDirection transforms the given direction by the upper 3x3
// part of the given matrix, ignoring translation.
func MulDirection(m mgl32.Mat4, d mgl32.Vec3) mgl32.Vec3 {
	return m.Mat3().Mul3x1(d)
}

// Axes returns the first three columns of the given matrix as
// normalized vectors: the directions of the x, y, z axes of the
// coordinate system that the matrix maps to. A zero column stays zero.
func Axes(m mgl32.Mat4) [3]mgl32.Vec3 {
	var ax [3]mgl32.Vec3
	for i := range 3 {
		c := m.Col(i).Vec3()
		if c.Len() > 0 {
			c = c.Normalize()
		}
		ax[i] = c
	}
	return ax
}

// AxesMatch returns whether the normalized axes of the two matrices
// agree within the given tolerance on every component.
func AxesMatch(a, b mgl32.Mat4, tol float32) bool {
	aa := Axes(a)
	ba := Axes(b)
	for i := range 3 {
		for j := range 3 {
			if !ToleranceEqual(aa[i][j], ba[i][j], tol) {
				return false
			}
		}
	}
	return true
}

// Translation returns the translation column of the given matrix.
func Translation(m mgl32.Mat4) mgl32.Vec3 {
	return m.Col(3).Vec3()
}

// SetTranslation sets the translation column of the given matrix.
func SetTranslation(m *mgl32.Mat4, t mgl32.Vec3) {
	m.SetCol(3, t.Vec4(m.At(3, 3)))
}

// Invertible returns whether the given matrix has a non-zero determinant.
func Invertible(m mgl32.Mat4) bool {
	return Abs(m.Det()) > 1e-12
}
