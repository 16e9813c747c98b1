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

package registry

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"dirpx.dev/introspect/apis"
	"dirpx.dev/introspect/config"
	uref "dirpx.dev/introspect/utils/reflect"
)

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("introspect(registry): nil reflect.Type provided")
	// ErrEmptyTag is returned when an empty tag is provided.
	ErrEmptyTag = errors.New("introspect(registry): empty tag provided")
	// ErrConflictingRegistration indicates an attempt to re-register
	// a type with a different tag, to retag a built-in type, or to claim a
	// tag the resolver reserves for itself.
	ErrConflictingRegistration = errors.New("introspect(registry): conflicting tag registration")
)

// New constructs a Registry that dereferences pointer types according to cfg.
// Only MaxUnwrap is used here.
func New(cfg apis.Config) apis.Registry {
	if cfg.MaxUnwrap <= 0 {
		cfg.MaxUnwrap = config.DefaultMaxUnwrap
	}
	return &registry{cfg: cfg}
}

// registry is a simple Registry implementation backed by sync.Map.
type registry struct {
	// cfg is the configuration used for pointer unwrapping.
	cfg apis.Config
	// mu guards write-side consistency and counter
	mu sync.Mutex
	// m maps reflect.Type to registered tag.
	m sync.Map // map[reflect.Type]apis.TypeTag
	// count tracks the number of registered entries.
	count int
}

// Register associates the pointer-free base of t with the given tag.
// It is idempotent for the same (type,tag) pair. Built-in types keep their
// tags, and built-in, void, pointer and "go:" tags cannot be claimed.
func (r *registry) Register(t reflect.Type, tag apis.TypeTag) error {
	// Validate inputs early.
	if t == nil {
		return ErrNilType
	}
	if tag == "" {
		return ErrEmptyTag
	}

	b, _, err := uref.Deref(t, r.cfg)
	if err != nil {
		return err
	}
	if bt, ok := apis.BuiltinTag(b); ok {
		return fmt.Errorf("%w: %s is built in as %q", ErrConflictingRegistration, b, bt)
	}
	if tag.IsReserved() {
		return fmt.Errorf("%w: tag %q is reserved", ErrConflictingRegistration, tag)
	}

	// Fast read path: idempotency / conflict check without locking.
	if old, ok := r.m.Load(b); ok {
		if old.(apis.TypeTag) == tag {
			return nil // idempotent re-registration
		}
		return ErrConflictingRegistration
	}

	// Write path: guard with a mutex to keep counter consistent and avoid ABA.
	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-check under lock in case another goroutine stored meanwhile.
	if old, ok := r.m.Load(b); ok {
		if old.(apis.TypeTag) == tag {
			return nil
		}
		return ErrConflictingRegistration
	}

	r.m.Store(b, tag)
	r.count++
	return nil
}

// Lookup returns the tag for a type if present.
func (r *registry) Lookup(t reflect.Type) (tag apis.TypeTag, ok bool) {
	if t == nil {
		return "", false
	}
	b, _, err := uref.Deref(t, r.cfg)
	if err != nil {
		return "", false
	}
	if v, ok := r.m.Load(b); ok {
		return v.(apis.TypeTag), true
	}
	return "", false
}

// Entries returns a snapshot for diagnostics/docs (order is unspecified).
func (r *registry) Entries() []apis.Entry {
	entries := make([]apis.Entry, 0, r.Count())
	r.m.Range(func(key, value any) bool {
		entries = append(entries, apis.Entry{
			Type: key.(reflect.Type),
			Tag:  value.(apis.TypeTag),
		})
		return true
	})
	return entries
}

// Count returns the number of registered entries.
func (r *registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Reset clears all registered entries.
func (r *registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m.Clear()
	r.count = 0
}
