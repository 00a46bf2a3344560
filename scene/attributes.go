// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"cogentcore.org/vizscene/base/ordmap"
)

// Attributes is an ordered list of string key-value pairs with fast
// lookup by key. It is the serialized form of a node (one element of a
// scene document), and it is also used for the arbitrary attributes of
// a node. The zero value is ready to use.
type Attributes struct {
	ordmap.Map[string, string]
}

// Set sets the given key to the given value, adding it to the end
// of the list if not already present.
func (a *Attributes) Set(key, value string) {
	a.Add(key, value)
}

// Value returns the value for the given key, or "" if it is missing.
func (a *Attributes) Value(key string) string {
	v, _ := a.ValueTry(key)
	return v
}

// ValueTry returns the value for the given key, with false for a missing key.
func (a *Attributes) ValueTry(key string) (string, bool) {
	if a == nil {
		return "", false
	}
	return a.ValueByKeyTry(key)
}

// Has returns whether the given key is present.
func (a *Attributes) Has(key string) bool {
	_, ok := a.ValueTry(key)
	return ok
}

// Delete deletes the given key, returning false if it was not present.
func (a *Attributes) Delete(key string) bool {
	return a.DeleteKey(key)
}

// Len returns the number of attributes.
func (a *Attributes) Len() int {
	if a == nil {
		return 0
	}
	return a.Map.Len()
}

// Clone returns a copy of the attributes that shares no memory.
func (a *Attributes) Clone() Attributes {
	return Attributes{Map: *a.Map.Clone()}
}

// The typed setters and getters below use the text format of scene
// documents: booleans are "true" or "false", and vectors and matrices
// are space separated numbers, with matrices in row-major order.
// The getters only set the destination when the key is present and
// the value parses, logging a warning for invalid values.

// SetBool sets the given key to the given boolean value.
func (a *Attributes) SetBool(key string, v bool) {
	a.Set(key, strconv.FormatBool(v))
}

// SetInt sets the given key to the given integer value.
func (a *Attributes) SetInt(key string, v int) {
	a.Set(key, strconv.Itoa(v))
}

// SetInts sets the given key to the given integer values.
func (a *Attributes) SetInts(key string, v ...int) {
	ss := make([]string, len(v))
	for i, x := range v {
		ss[i] = strconv.Itoa(x)
	}
	a.Set(key, strings.Join(ss, " "))
}

// SetFloat32 sets the given key to the given float value.
func (a *Attributes) SetFloat32(key string, v float32) {
	a.Set(key, formatFloat(v))
}

// SetFloats sets the given key to the given float values.
func (a *Attributes) SetFloats(key string, v ...float32) {
	a.Set(key, formatFloats(v))
}

// SetVec3 sets the given key to the given vector.
func (a *Attributes) SetVec3(key string, v mgl32.Vec3) {
	a.Set(key, formatFloats(v[:]))
}

// SetVec3s sets the given key to the given list of vectors.
func (a *Attributes) SetVec3s(key string, v []mgl32.Vec3) {
	fs := make([]float32, 0, 3*len(v))
	for _, p := range v {
		fs = append(fs, p[:]...)
	}
	a.Set(key, formatFloats(fs))
}

// SetMat4 sets the given key to the given matrix, in row-major order.
func (a *Attributes) SetMat4(key string, m mgl32.Mat4) {
	t := m.Transpose()
	a.Set(key, formatFloats(t[:]))
}

// Text sets v to the value of the given key if present.
func (a *Attributes) Text(key string, v *string) {
	if s, ok := a.ValueTry(key); ok {
		*v = s
	}
}

// Bool sets v to the boolean value of the given key if present.
func (a *Attributes) Bool(key string, v *bool) {
	s, ok := a.ValueTry(key)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		invalidAttribute(key, s, err)
		return
	}
	*v = b
}

// Int sets v to the integer value of the given key if present.
func (a *Attributes) Int(key string, v *int) {
	s, ok := a.ValueTry(key)
	if !ok {
		return
	}
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		invalidAttribute(key, s, err)
		return
	}
	*v = i
}

// Ints sets v to the integer values of the given key if present.
func (a *Attributes) Ints(key string, v *[]int) {
	s, ok := a.ValueTry(key)
	if !ok {
		return
	}
	fields := strings.Fields(s)
	is := make([]int, len(fields))
	for i, f := range fields {
		x, err := strconv.Atoi(f)
		if err != nil {
			invalidAttribute(key, s, err)
			return
		}
		is[i] = x
	}
	*v = is
}

// Float32 sets v to the float value of the given key if present.
func (a *Attributes) Float32(key string, v *float32) {
	s, ok := a.ValueTry(key)
	if !ok {
		return
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
	if err != nil {
		invalidAttribute(key, s, err)
		return
	}
	*v = float32(f)
}

// Floats sets v to the float values of the given key if present.
func (a *Attributes) Floats(key string, v *[]float32) {
	s, ok := a.ValueTry(key)
	if !ok {
		return
	}
	fs, err := parseFloats(s)
	if err != nil {
		invalidAttribute(key, s, err)
		return
	}
	*v = fs
}

// Vec3 sets v to the vector value of the given key if present.
func (a *Attributes) Vec3(key string, v *mgl32.Vec3) {
	fs, ok := a.fixedFloats(key, 3)
	if ok {
		copy(v[:], fs)
	}
}

// Vec3s sets v to the list of vectors of the given key if present.
func (a *Attributes) Vec3s(key string, v *[]mgl32.Vec3) {
	s, ok := a.ValueTry(key)
	if !ok {
		return
	}
	fs, err := parseFloats(s)
	if err == nil && len(fs)%3 != 0 {
		err = errNumberCount
	}
	if err != nil {
		invalidAttribute(key, s, err)
		return
	}
	ps := make([]mgl32.Vec3, len(fs)/3)
	for i := range ps {
		ps[i] = mgl32.Vec3{fs[3*i], fs[3*i+1], fs[3*i+2]}
	}
	*v = ps
}

// Mat4 sets v to the matrix value (in row-major order) of the given key if present.
func (a *Attributes) Mat4(key string, v *mgl32.Mat4) {
	fs, ok := a.fixedFloats(key, 16)
	if !ok {
		return
	}
	var m mgl32.Mat4
	copy(m[:], fs)
	*v = m.Transpose()
}

func (a *Attributes) fixedFloats(key string, n int) ([]float32, bool) {
	s, ok := a.ValueTry(key)
	if !ok {
		return nil, false
	}
	fs, err := parseFloats(s)
	if err == nil && len(fs) != n {
		err = errNumberCount
	}
	if err != nil {
		invalidAttribute(key, s, err)
		return nil, false
	}
	return fs, true
}

func invalidAttribute(key, value string, err error) {
	slog.Warn("scene.Attributes: invalid attribute value", "key", key, "value", value, "err", err)
}

func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

func formatFloats(fs []float32) string {
	var b strings.Builder
	for i, f := range fs {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(formatFloat(f))
	}
	return b.String()
}

func parseFloats(s string) ([]float32, error) {
	fields := strings.Fields(s)
	fs := make([]float32, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return nil, err
		}
		fs[i] = float32(v)
	}
	return fs, nil
}
