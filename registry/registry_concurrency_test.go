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

package registry_test

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"sync/atomic"
	"testing"

	"golang.org/x/sync/errgroup"

	"dirpx.dev/introspect/apis"
	"dirpx.dev/introspect/config"
	"dirpx.dev/introspect/registry"
)

type T0 struct{}
type T1 struct{}
type T2 struct{}
type T3 struct{}
type T4 struct{}
type T5 struct{}
type T6 struct{}
type T7 struct{}
type T8 struct{}
type T9 struct{}

var domainTypes = []reflect.Type{
	reflect.TypeFor[T0](), reflect.TypeFor[T1](), reflect.TypeFor[T2](),
	reflect.TypeFor[T3](), reflect.TypeFor[T4](), reflect.TypeFor[T5](),
	reflect.TypeFor[T6](), reflect.TypeFor[T7](), reflect.TypeFor[T8](),
	reflect.TypeFor[T9](),
}

func domainTag(t reflect.Type) apis.TypeTag {
	return apis.TypeTag("domain." + t.Name())
}

// Lookups through any pointer depth see the tag of the base type while
// writers keep re-registering the same pairs.
func TestConcurrentRegisterAndLookup(t *testing.T) {
	reg := registry.New(config.DefaultConfig())
	for _, tt := range domainTypes {
		if err := reg.Register(tt, domainTag(tt)); err != nil {
			t.Fatalf("register %s: %v", tt, err)
		}
	}

	workers := runtime.GOMAXPROCS(0) * 4
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := 0; i < 2000; i++ {
				base := domainTypes[(i+w)%len(domainTypes)]
				tt := base
				if i%2 == 1 {
					tt = reflect.PointerTo(base)
				}
				if got, ok := reg.Lookup(tt); !ok || got != domainTag(base) {
					return fmt.Errorf("lookup %s: ok=%v got=%q", tt, ok, got)
				}
				_ = reg.Entries()
			}
			return nil
		})
		g.Go(func() error {
			for i := 0; i < 500; i++ {
				tt := domainTypes[(i+w)%len(domainTypes)]
				if err := reg.Register(reflect.PointerTo(tt), domainTag(tt)); err != nil {
					return fmt.Errorf("re-register *%s: %w", tt, err)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	if reg.Count() != len(domainTypes) {
		t.Fatalf("Count() = %d, want %d", reg.Count(), len(domainTypes))
	}
	for _, e := range reg.Entries() {
		if e.Type.Kind() == reflect.Pointer {
			t.Fatalf("entry keyed by pointer type %s", e.Type)
		}
		if e.Tag != domainTag(e.Type) {
			t.Fatalf("entry %s has tag %q, want %q", e.Type, e.Tag, domainTag(e.Type))
		}
	}
}

// Registering *T from many goroutines stores one pointer-free key, and
// T, *T and **T all resolve to it.
func TestConcurrentPointerRegistration(t *testing.T) {
	reg := registry.New(config.DefaultConfig())
	base := reflect.TypeFor[T3]()
	ptr := reflect.PointerTo(base)
	views := []reflect.Type{base, ptr, reflect.PointerTo(ptr)}

	var g errgroup.Group
	for w := 0; w < 32; w++ {
		g.Go(func() error {
			if err := reg.Register(ptr, "domain.T3"); err != nil {
				return err
			}
			for _, v := range views {
				if got, ok := reg.Lookup(v); !ok || got != "domain.T3" {
					return fmt.Errorf("lookup %s: ok=%v got=%q", v, ok, got)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	entries := reg.Entries()
	if len(entries) != 1 || reg.Count() != 1 {
		t.Fatalf("got %d entries and Count() = %d, want one of each", len(entries), reg.Count())
	}
	if entries[0].Type != base {
		t.Fatalf("entry keyed by %s, want %s", entries[0].Type, base)
	}
}

// When goroutines race to give one type different tags, exactly one tag
// wins and every loser gets ErrConflictingRegistration.
func TestConcurrentConflictingTags(t *testing.T) {
	reg := registry.New(config.DefaultConfig())
	typ := reflect.TypeFor[T5]()

	const contenders = 16
	var wins, conflicts atomic.Int32
	winner := make([]bool, contenders)
	start := make(chan struct{})

	var g errgroup.Group
	for i := 0; i < contenders; i++ {
		g.Go(func() error {
			<-start
			rt := typ
			if i%2 == 0 {
				rt = reflect.PointerTo(typ)
			}
			err := reg.Register(rt, apis.TypeTag(fmt.Sprintf("domain.T5v%d", i)))
			switch {
			case err == nil:
				wins.Add(1)
				winner[i] = true
			case errors.Is(err, registry.ErrConflictingRegistration):
				conflicts.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	close(start)
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	if wins.Load() != 1 || conflicts.Load() != contenders-1 {
		t.Fatalf("wins=%d conflicts=%d, want 1 and %d", wins.Load(), conflicts.Load(), contenders-1)
	}
	got, ok := reg.Lookup(typ)
	if !ok {
		t.Fatal("no tag registered after the race")
	}
	for i, won := range winner {
		if won && got != apis.TypeTag(fmt.Sprintf("domain.T5v%d", i)) {
			t.Fatalf("winner %d registered %q, lookup returns %q", i, fmt.Sprintf("domain.T5v%d", i), got)
		}
	}
	if reg.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", reg.Count())
	}
}

// Entries keeps returning a usable snapshot after Reset.
func TestResetSnapshot(t *testing.T) {
	reg := registry.New(config.DefaultConfig())
	_ = reg.Register(reflect.TypeFor[T0](), "domain.T0")
	_ = reg.Register(reflect.TypeFor[*T1](), "domain.T1")

	snap := reg.Entries()
	reg.Reset()

	if reg.Count() != 0 {
		t.Fatalf("Count() after Reset = %d, want 0", reg.Count())
	}
	if _, ok := reg.Lookup(reflect.TypeFor[T1]()); ok {
		t.Fatal("T1 still registered after Reset")
	}
	if len(snap) != 2 || snap[0].Tag == "" || snap[1].Tag == "" {
		t.Fatalf("snapshot changed after Reset: %v", snap)
	}
}

var _ apis.Registry = registry.New(config.DefaultConfig())
