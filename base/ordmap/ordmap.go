// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package ordmap implements a generic ordered map that keeps items in the
order they were added, with map lookup of items by key.

The slice holds the key and value of each item, and the map holds the
index of each key in the slice. Adding and lookup are fast, while
deleting renumbers the indexes above the deleted item.
*/
package ordmap

import (
	"fmt"
	"iter"
	"slices"
)

// KeyValue is a key-value pair.
type KeyValue[K comparable, V any] struct {
	Key   K
	Value V
}

// Map is an ordered map. The zero value is ready to use.
type Map[K comparable, V any] struct {

	// Order is the ordered list of items, in the order added.
	Order []KeyValue[K, V]

	// Map is the key to index mapping.
	Map map[K]int
}

// New returns a new ordered map.
func New[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{Map: make(map[K]int)}
}

// Make returns a new ordered map with the given items, which it owns.
// For a repeated key, the last item wins the lookup.
func Make[K comparable, V any](items []KeyValue[K, V]) *Map[K, V] {
	om := &Map[K, V]{Order: items, Map: make(map[K]int, len(items))}
	for i, kv := range items {
		om.Map[kv.Key] = i
	}
	return om
}

// Init makes the index map if it does not exist yet.
func (om *Map[K, V]) Init() {
	if om.Map == nil {
		om.Map = make(map[K]int, len(om.Order))
		for i, kv := range om.Order {
			om.Map[kv.Key] = i
		}
	}
}

// Reset removes all items.
func (om *Map[K, V]) Reset() {
	om.Map = nil
	om.Order = nil
}

// Add sets the value of the given key. An existing key keeps its place,
// and a new key is added to the end.
func (om *Map[K, V]) Add(key K, val V) {
	om.Init()
	if idx, has := om.Map[key]; has {
		om.Order[idx].Value = val
		return
	}
	om.Map[key] = len(om.Order)
	om.Order = append(om.Order, KeyValue[K, V]{Key: key, Value: val})
}

// ValueByKey returns the value of the given key, or the zero value.
func (om *Map[K, V]) ValueByKey(key K) V {
	v, _ := om.ValueByKeyTry(key)
	return v
}

// ValueByKeyTry returns the value of the given key, with false for a
// missing key.
func (om *Map[K, V]) ValueByKeyTry(key K) (V, bool) {
	if om != nil {
		if idx, ok := om.Map[key]; ok {
			return om.Order[idx].Value, true
		}
	}
	var zv V
	return zv, false
}

// IndexByKey returns the index of the given key, or -1.
func (om *Map[K, V]) IndexByKey(key K) int {
	if idx, ok := om.Map[key]; ok {
		return idx
	}
	return -1
}

// Len returns the number of items.
func (om *Map[K, V]) Len() int {
	if om == nil {
		return 0
	}
	return len(om.Order)
}

// DeleteIndex deletes the items in the index range [i:j].
func (om *Map[K, V]) DeleteIndex(i, j int) {
	if i < 0 || j > len(om.Order) || j <= i {
		panic(fmt.Sprintf("ordmap.Map.DeleteIndex: invalid range [%d:%d] of a map of length %d", i, j, len(om.Order)))
	}
	for _, kv := range om.Order[i:j] {
		delete(om.Map, kv.Key)
	}
	om.Order = slices.Delete(om.Order, i, j)
	for o := i; o < len(om.Order); o++ {
		om.Map[om.Order[o].Key] = o
	}
}

// DeleteKey deletes the item with the given key, returning false if
// it does not exist.
func (om *Map[K, V]) DeleteKey(key K) bool {
	idx, ok := om.Map[key]
	if !ok {
		return false
	}
	om.DeleteIndex(idx, idx+1)
	return true
}

// Keys returns the keys in order.
func (om *Map[K, V]) Keys() []K {
	kl := make([]K, om.Len())
	for i, kv := range om.Order {
		kl[i] = kv.Key
	}
	return kl
}

// Values returns the values in order.
func (om *Map[K, V]) Values() []V {
	vl := make([]V, om.Len())
	for i, kv := range om.Order {
		vl[i] = kv.Value
	}
	return vl
}

// All returns an iterator over the items in order.
func (om *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if om == nil {
			return
		}
		for _, kv := range om.Order {
			if !yield(kv.Key, kv.Value) {
				return
			}
		}
	}
}

// Clone returns a copy of the map that shares no memory with it.
func (om *Map[K, V]) Clone() *Map[K, V] {
	if om == nil {
		return New[K, V]()
	}
	return Make(slices.Clone(om.Order))
}

// String returns a string representation of the map.
func (om *Map[K, V]) String() string {
	return fmt.Sprintf("%v", om.Order)
}
