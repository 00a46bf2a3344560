// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package transform provides the transform hierarchy of scenes:
// transform nodes, the [Transformable] trait of nodes that can be placed
// under a transform node, and general geometric transforms that combine
// linear matrices with non-linear displacement grids.
package transform

import (
	"github.com/go-gl/mathgl/mgl32"

	"cogentcore.org/vizscene/math32"
)

// Transform is a geometric transform of points in 3D space.
type Transform interface {

	// TransformPoint returns the transformed point.
	TransformPoint(p mgl32.Vec3) mgl32.Vec3

	// Inverse returns the inverse transform.
	Inverse() Transform

	// IsLinear returns whether the transform is a single matrix.
	IsLinear() bool

	// Matrix returns the matrix of a linear transform.
	// It returns false for non-linear transforms.
	Matrix() (mgl32.Mat4, bool)
}

// Identity returns the identity transform.
func Identity() Transform {
	return Linear{M: mgl32.Ident4()}
}

// Linear is a transform defined by a homogeneous 4x4 matrix.
type Linear struct {
	M mgl32.Mat4
}

func (l Linear) TransformPoint(p mgl32.Vec3) mgl32.Vec3 {
	return math32.MulPoint(l.M, p)
}

func (l Linear) Inverse() Transform {
	return Linear{M: l.M.Inv()}
}

func (l Linear) IsLinear() bool { return true }

func (l Linear) Matrix() (mgl32.Mat4, bool) { return l.M, true }

// Composite is a transform that applies its steps in order,
// the first step first.
type Composite struct {
	Steps []Transform
}

func (c *Composite) TransformPoint(p mgl32.Vec3) mgl32.Vec3 {
	for _, s := range c.Steps {
		p = s.TransformPoint(p)
	}
	return p
}

func (c *Composite) Inverse() Transform {
	inv := make([]Transform, len(c.Steps))
	for i, s := range c.Steps {
		inv[len(c.Steps)-1-i] = s.Inverse()
	}
	return &Composite{Steps: inv}
}

func (c *Composite) IsLinear() bool {
	for _, s := range c.Steps {
		if !s.IsLinear() {
			return false
		}
	}
	return true
}

func (c *Composite) Matrix() (mgl32.Mat4, bool) {
	m := mgl32.Ident4()
	for _, s := range c.Steps {
		sm, ok := s.Matrix()
		if !ok {
			return mgl32.Mat4{}, false
		}
		m = sm.Mul4(m)
	}
	return m, true
}

// Compose returns the transform that applies the given transforms in
// order. Nil transforms are skipped, nested composites are flattened,
// and consecutive linear transforms are multiplied into one matrix, so
// that a chain of linear transforms becomes a single [Linear].
func Compose(steps ...Transform) Transform {
	var flat []Transform
	var add func(t Transform)
	add = func(t Transform) {
		switch t := t.(type) {
		case nil:
			return
		case *Composite:
			for _, s := range t.Steps {
				add(s)
			}
			return
		}
		if len(flat) > 0 {
			if prev, ok := flat[len(flat)-1].(Linear); ok {
				if m, ok := t.Matrix(); ok {
					flat[len(flat)-1] = Linear{M: m.Mul4(prev.M)}
					return
				}
			}
		}
		if m, ok := t.Matrix(); ok {
			t = Linear{M: m}
		}
		flat = append(flat, t)
	}
	for _, s := range steps {
		add(s)
	}
	switch len(flat) {
	case 0:
		return Identity()
	case 1:
		return flat[0]
	}
	return &Composite{Steps: flat}
}
