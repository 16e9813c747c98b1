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

package typetag

import (
	"errors"
	"reflect"
	"sync"
	"sync/atomic"

	"dirpx.dev/introspect/apis"
	"dirpx.dev/introspect/builder"
	"dirpx.dev/introspect/config"
)

// init publishes the default snapshot.
func init() {
	s := &state{cfg: config.DefaultConfig(), bld: builder.New()}
	s.reg = s.bld.BuildRegistry(s.cfg, nil)
	s.res = s.bld.BuildResolver(s.cfg, s.reg, nil)
	st.Store(s)
}

var (
	// ErrNilRegistry is returned when a builder returns a nil registry.
	ErrNilRegistry = errors.New("typetag: builder returned nil registry")
	// ErrNilResolver is returned when a builder returns a nil resolver.
	ErrNilResolver = errors.New("typetag: builder returned nil resolver")
)

// Of returns the tag of T.
func Of[T any]() apis.TypeTag {
	return OfType(reflect.TypeFor[T]())
}

// OfType returns the tag of t using the global resolver and configuration.
func OfType(t reflect.Type) apis.TypeTag {
	s := st.Load()
	return s.res.ResolveType(t, s.cfg)
}

// OfValue returns the tag of the dynamic type of v, or "" for a nil interface.
func OfValue(v any) apis.TypeTag {
	s := st.Load()
	return s.res.Resolve(v, s.cfg)
}

// Register associates a custom tag with t in the global registry.
func Register(t reflect.Type, tag apis.TypeTag) error {
	return st.Load().reg.Register(t, tag)
}

// SetAll replaces every component at once. Nil arguments keep the current
// builder and config; a nil registry or resolver is rebuilt and unpinned,
// a non-nil one is installed pinned.
func SetAll(cfg *apis.Config, reg apis.Registry, res apis.Resolver, bld apis.Builder) {
	update(func(next *state) {
		if cfg != nil {
			next.cfg = *cfg
		}
		if bld != nil {
			next.bld = bld
		}
		next.reg, next.preg = reg, reg != nil
		next.res, next.pres = res, res != nil
	}, true)
}

// Config returns the global configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig replaces the global configuration and rebuilds unpinned layers.
func SetConfig(cfg apis.Config) {
	update(func(next *state) {
		next.cfg = cfg
	}, true)
}

// Registry returns the global registry.
func Registry() apis.Registry {
	return st.Load().reg
}

// SetRegistry installs reg and pins it. The resolver is rebuilt against it
// unless pinned. A nil registry is ignored.
func SetRegistry(reg apis.Registry) {
	if reg == nil {
		return
	}
	update(func(next *state) {
		next.reg, next.preg = reg, true
	}, true)
}

// Resolver returns the global resolver.
func Resolver() apis.Resolver {
	return st.Load().res
}

// SetResolver installs res and pins it. A nil resolver is ignored.
func SetResolver(res apis.Resolver) {
	if res == nil {
		return
	}
	update(func(next *state) {
		next.res, next.pres = res, true
	}, false)
}

// Builder returns the global builder.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder installs b and rebuilds unpinned layers with it. A nil builder is ignored.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}
	update(func(next *state) {
		next.bld = b
	}, true)
}

// IsRegistryPinned reports whether the global registry is pinned.
func IsRegistryPinned() bool { return st.Load().preg }

// PinRegistry stops the global registry from being rebuilt.
func PinRegistry() { update(func(s *state) { s.preg = true }, false) }

// UnpinRegistry lets the next reconfiguration rebuild the registry.
func UnpinRegistry() { update(func(s *state) { s.preg = false }, false) }

// IsResolverPinned reports whether the global resolver is pinned.
func IsResolverPinned() bool { return st.Load().pres }

// PinResolver stops the global resolver from being rebuilt.
func PinResolver() { update(func(s *state) { s.pres = true }, false) }

// UnpinResolver lets the next reconfiguration rebuild the resolver.
func UnpinResolver() { update(func(s *state) { s.pres = false }, false) }

// update copies the current snapshot, applies mutate to the copy, rebuilds
// the unpinned layers with the copy's builder when asked and publishes it.
func update(mutate func(next *state), rebuild bool) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	next := *old
	mutate(&next)

	if rebuild && !next.preg {
		next.reg = next.bld.BuildRegistry(next.cfg, old.reg)
	}
	if rebuild && !next.pres {
		next.res = next.bld.BuildResolver(next.cfg, next.reg, old.res)
	}

	if next.reg == nil {
		panic(ErrNilRegistry)
	}
	if next.res == nil {
		panic(ErrNilResolver)
	}

	st.Store(&next)
}

// buildMu serializes writers (reconfigurations/swaps) so we never publish
// partially-built snapshots.
var buildMu sync.Mutex

// st is the global snapshot.
var st atomic.Pointer[state]

// state is an immutable snapshot published atomically via st.Store; never
// mutate fields of a published state. Writers copy, modify and swap.
type state struct {
	cfg apis.Config
	reg apis.Registry
	res apis.Resolver
	bld apis.Builder
	// preg indicates whether reg is pinned.
	preg bool
	// pres indicates whether res is pinned.
	pres bool
}
