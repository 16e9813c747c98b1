/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package binding holds what scripting generators share: converter
// registries keyed by type tag, numeric and vector converter builders, the
// getter/setter heuristic and the per-generator set of exposed class names.
package binding

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"golang.org/x/exp/maps"

	"dirpx.dev/introspect/apis"
	"dirpx.dev/introspect/value"
)

var (
	// ErrEmptyTag is returned when registering a converter without a tag.
	ErrEmptyTag = errors.New("binding: empty tag")
	// ErrNoConversion is returned when registering a converter with neither direction.
	ErrNoConversion = errors.New("binding: converter has no conversion functions")
)

// Converter translates between Value and a runtime's native value S.
// Either direction may be nil when the runtime never needs it.
type Converter[S any] struct {
	ToScript   func(v value.Value) (S, error)
	FromScript func(s S) (value.Value, error)
}

// Converters is a name-keyed converter registry for one runtime. Lookups
// consult custom converters first and built-in ones second. Reads are
// lock-free; writers copy the custom table and swap it atomically.
type Converters[S any] struct {
	mu      sync.Mutex
	custom  atomic.Pointer[map[apis.TypeTag]Converter[S]]
	builtin map[apis.TypeTag]Converter[S]
}

// NewConverters returns a registry backed by the given built-in table.
// The table is copied.
func NewConverters[S any](builtin map[apis.TypeTag]Converter[S]) *Converters[S] {
	c := &Converters[S]{builtin: maps.Clone(builtin)}
	if c.builtin == nil {
		c.builtin = map[apis.TypeTag]Converter[S]{}
	}
	empty := map[apis.TypeTag]Converter[S]{}
	c.custom.Store(&empty)
	return c
}

// Register adds or replaces the custom converter for tag. Custom converters
// shadow built-in ones with the same tag.
func (c *Converters[S]) Register(tag apis.TypeTag, conv Converter[S]) error {
	if tag == "" {
		return ErrEmptyTag
	}
	if conv.ToScript == nil && conv.FromScript == nil {
		return errors.Wrapf(ErrNoConversion, "tag '%s'", tag)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	next := maps.Clone(*c.custom.Load())
	next[tag] = conv
	c.custom.Store(&next)
	return nil
}

// Lookup returns the converter for tag.
func (c *Converters[S]) Lookup(tag apis.TypeTag) (Converter[S], error) {
	if conv, ok := (*c.custom.Load())[tag]; ok {
		return conv, nil
	}
	if conv, ok := c.builtin[tag]; ok {
		return conv, nil
	}
	return Converter[S]{}, &apis.UnsupportedTypeError{Tag: tag}
}

// ToScript converts v, whose declared tag is tag, to the runtime value.
func (c *Converters[S]) ToScript(tag apis.TypeTag, v value.Value) (S, error) {
	conv, err := c.Lookup(tag)
	if err == nil && conv.ToScript == nil {
		err = &apis.UnsupportedTypeError{Tag: tag}
	}
	if err != nil {
		var zero S
		return zero, err
	}
	return conv.ToScript(v)
}

// FromScript converts s to a Value of the type tagged tag.
func (c *Converters[S]) FromScript(tag apis.TypeTag, s S) (value.Value, error) {
	conv, err := c.Lookup(tag)
	if err == nil && conv.FromScript == nil {
		err = &apis.UnsupportedTypeError{Tag: tag}
	}
	if err != nil {
		return value.Value{}, err
	}
	return conv.FromScript(s)
}

// Tags returns every tag with a converter, sorted.
func (c *Converters[S]) Tags() []apis.TypeTag {
	tags := append(maps.Keys(*c.custom.Load()), maps.Keys(c.builtin)...)
	slices.Sort(tags)
	return slices.Compact(tags)
}
