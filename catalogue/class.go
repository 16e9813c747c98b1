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

package catalogue

import (
	"reflect"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
)

// Describer is satisfied by *C when C registers its own members and methods.
type Describer[C any] interface {
	*C
	Describe(r *Registrar[C])
}

// State is the registration state of a class.
type State int

const (
	// Unregistered classes have not been looked up yet.
	Unregistered State = iota
	// Registering classes are running their describe function.
	Registering
	// Registered classes have a published catalogue.
	Registered
)

func (s State) String() string {
	switch s {
	case Registering:
		return "registering"
	case Registered:
		return "registered"
	default:
		return "unregistered"
	}
}

// class is the process-wide slot of one Go type.
type class struct {
	once  sync.Once
	state atomic.Int32
	cat   atomic.Pointer[Catalogue]
}

// classes maps reflect.Type to *class.
var classes sync.Map

// Of returns the catalogue of C, running (*C).Describe on first use.
// Concurrent first calls block until the single registration finishes.
func Of[C any, P Describer[C]]() *Catalogue {
	return build(reflect.TypeFor[C](), func(r *Registrar[C]) {
		P(new(C)).Describe(r)
	})
}

// Define returns the catalogue of C, building it with describe on first use.
// It serves types that cannot carry a Describe method. Once a catalogue for C
// exists, later describe functions are ignored.
func Define[C any](describe func(r *Registrar[C])) *Catalogue {
	return build(reflect.TypeFor[C](), describe)
}

// StateOf reports the registration state of t.
func StateOf(t reflect.Type) State {
	if v, ok := classes.Load(t); ok {
		return State(v.(*class).state.Load())
	}
	return Unregistered
}

// Classes returns every published catalogue ordered by class name.
func Classes() []*Catalogue {
	var out []*Catalogue
	classes.Range(func(_, v any) bool {
		if c := v.(*class).cat.Load(); c != nil {
			out = append(out, c)
		}
		return true
	})
	slices.SortFunc(out, func(a, b *Catalogue) int {
		return strings.Compare(a.name, b.name)
	})
	return out
}

// Lookup returns the published catalogue with the given class name.
func Lookup(name string) (*Catalogue, bool) {
	for _, c := range Classes() {
		if c.name == name {
			return c, true
		}
	}
	return nil, false
}

func build[C any](t reflect.Type, describe func(r *Registrar[C])) *Catalogue {
	v, _ := classes.LoadOrStore(t, &class{})
	cl := v.(*class)
	if c := cl.cat.Load(); c != nil {
		return c
	}

	cl.once.Do(func() {
		cl.state.Store(int32(Registering))
		// A panicking describe leaves no slot behind so the next lookup
		// retries and reports the same failure.
		defer func() {
			if cl.cat.Load() == nil {
				cl.state.Store(int32(Unregistered))
				classes.CompareAndDelete(t, cl)
			}
		}()

		r := newRegistrar[C]()
		describe(r)
		cl.cat.Store(r.cat)
		cl.state.Store(int32(Registered))
	})
	if c := cl.cat.Load(); c != nil {
		return c
	}
	// Another caller's describe panicked while this one waited on the same
	// slot. That slot is gone, so register again with this describe.
	return build(t, describe)
}
