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

// Package catalogue holds the per-class tables of reflected members and
// methods, and the process-wide registry that builds each table exactly once.
//
// A class opts in by implementing Describe on its pointer type:
//
//	func (*Point) Describe(r *catalogue.Registrar[Point]) {
//		catalogue.Field(r, "x", func(p *Point) *int { return &p.X })
//		catalogue.Proc2(r, "move", (*Point).Move)
//	}
//
// and is looked up with catalogue.Of[Point](). A type without Describe does
// not satisfy Describer and fails to compile at the lookup site.
package catalogue

import (
	"maps"
	"reflect"
	"slices"

	"dirpx.dev/introspect/apis"
)

// Catalogue is the read-only table of one class. It is complete before it is
// published and never changes afterwards, so concurrent reads need no locking.
type Catalogue struct {
	name    string
	goType  reflect.Type
	members map[string]*Member
	methods map[string]*Method
}

func newCatalogue(name string, t reflect.Type) *Catalogue {
	return &Catalogue{
		name:    name,
		goType:  t,
		members: make(map[string]*Member),
		methods: make(map[string]*Method),
	}
}

// ClassName returns the registered class name.
func (c *Catalogue) ClassName() string { return c.name }

// GoType returns the class's Go type (not a pointer).
func (c *Catalogue) GoType() reflect.Type { return c.goType }

// Member returns the member registered under name.
func (c *Catalogue) Member(name string) (*Member, error) {
	if m, ok := c.members[name]; ok {
		return m, nil
	}
	return nil, &apis.NotFoundError{Class: c.name, Kind: apis.KindMember, Name: name}
}

// Method returns the method registered under name.
func (c *Catalogue) Method(name string) (*Method, error) {
	if m, ok := c.methods[name]; ok {
		return m, nil
	}
	return nil, &apis.NotFoundError{Class: c.name, Kind: apis.KindMethod, Name: name}
}

// HasMember reports whether a member is registered under name.
func (c *Catalogue) HasMember(name string) bool {
	_, ok := c.members[name]
	return ok
}

// HasMethod reports whether a method is registered under name.
func (c *Catalogue) HasMethod(name string) bool {
	_, ok := c.methods[name]
	return ok
}

// MemberNames returns the member names in sorted order.
func (c *Catalogue) MemberNames() []string {
	return slices.Sorted(maps.Keys(c.members))
}

// MethodNames returns the method names in sorted order.
func (c *Catalogue) MethodNames() []string {
	return slices.Sorted(maps.Keys(c.methods))
}

// Members returns the member descriptors ordered by name.
func (c *Catalogue) Members() []*Member {
	out := make([]*Member, 0, len(c.members))
	for _, n := range c.MemberNames() {
		out = append(out, c.members[n])
	}
	return out
}

// Methods returns the method descriptors ordered by name.
func (c *Catalogue) Methods() []*Method {
	out := make([]*Method, 0, len(c.methods))
	for _, n := range c.MethodNames() {
		out = append(out, c.methods[n])
	}
	return out
}
