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

// Package luabind exposes introspectable classes to gopher-lua states.
//
// Binding Person creates a global table with a new() constructor. Objects
// are userdata whose metatable resolves members, exposed methods, the
// introspection utilities and generated get<Member>/set<Member> accessors.
// Methods are called with colon syntax:
//
//	local p = Person.new()
//	p.name = "Alice"
//	p:setAge(30)
//	print(p:getName(), p:toJSON())
package luabind

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	lua "github.com/yuin/gopher-lua"

	"dirpx.dev/introspect"
	"dirpx.dev/introspect/apis"
	"dirpx.dev/introspect/binding"
	"dirpx.dev/introspect/catalogue"
	"dirpx.dev/introspect/typetag"
	"dirpx.dev/introspect/value"
)

// errorType names the metatable of userdata carrying Go errors.
const errorType = "introspect.error"

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger. The default is logrus.StandardLogger().
func WithLogger(l logrus.FieldLogger) Option {
	return func(g *Generator) { g.log = l }
}

// WithConverters replaces the converter registry.
func WithConverters(c *Converters) Option {
	return func(g *Generator) { g.conv = c }
}

// Generator binds classes into one Lua state. Like the state itself it is
// not safe for concurrent use.
type Generator struct {
	L    *lua.LState
	log  logrus.FieldLogger
	conv *Converters

	classes binding.ClassSet
	meta    map[*catalogue.Catalogue]*lua.LTable
}

// New returns a Generator bound to L with getAllClasses() registered.
func New(L *lua.LState, opts ...Option) *Generator {
	g := &Generator{
		L:    L,
		log:  logrus.StandardLogger(),
		meta: make(map[*catalogue.Catalogue]*lua.LTable),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.conv == nil {
		g.conv = NewConverters(L)
	}
	g.log = g.log.WithField("runtime", "lua")

	emt := L.NewTypeMetatable(errorType)
	L.SetField(emt, "__tostring", L.NewFunction(func(L *lua.LState) int {
		ud := L.CheckUserData(1)
		L.Push(lua.LString(fmt.Sprint(ud.Value)))
		return 1
	}))
	L.SetGlobal("getAllClasses", L.NewFunction(func(L *lua.LState) int {
		L.Push(stringTable(L, g.classes.Names()))
		return 1
	}))
	return g
}

// Bind exposes C under name, or under its class name when name is empty.
func Bind[C any, P catalogue.Describer[C]](g *Generator, name string) error {
	return g.BindCatalogue(name, catalogue.Of[C, P]())
}

// BindCatalogue exposes the class described by cat as the global table name.
// Binding a name twice fails with *apis.DuplicateRegistrationError.
func (g *Generator) BindCatalogue(name string, cat *catalogue.Catalogue) error {
	if name == "" {
		name = cat.ClassName()
	}
	if g.classes.Has(name) {
		return &apis.DuplicateRegistrationError{Name: name}
	}
	log := g.log.WithField("class", name)
	L := g.L

	ptr := reflect.PointerTo(cat.GoType())
	if err := g.conv.Register(typetag.OfType(ptr), g.objectConverter(cat, ptr)); err != nil {
		return errors.Wrapf(err, "lua: bind %s", name)
	}
	if err := g.classes.Add(name); err != nil {
		return err
	}

	mt := L.NewTypeMetatable(name)
	L.SetField(mt, "__index", L.NewFunction(g.index))
	L.SetField(mt, "__newindex", L.NewFunction(g.newindex))
	L.SetField(mt, "__tostring", L.NewFunction(g.tostring))
	g.meta[cat] = mt

	for _, m := range cat.Members() {
		if _, err := g.conv.Lookup(m.Type); err != nil {
			log.WithField("member", m.Name).WithField("tag", m.Type).Warn("member has no converter")
			continue
		}
		log.WithField("member", m.Name).Debug("bound property")
	}
	for _, m := range binding.ExposedMethods(cat) {
		log.WithField("method", m).Debug("bound method")
	}

	cls := L.NewTable()
	L.SetField(cls, "new", L.NewFunction(func(L *lua.LState) int {
		// Accept both Person.new() and Person:new().
		args := L.GetTop()
		if args > 0 && L.Get(1) == cls {
			args--
		}
		if args > 0 {
			L.RaiseError("%s.new takes no arguments", name)
		}
		L.Push(g.wrap(introspect.Bind(reflect.New(cat.GoType()).Interface(), cat)))
		return 1
	}))
	L.SetGlobal(name, cls)

	log.Debug("bound class")
	return nil
}

// Wrap hands an existing object to scripts. Its class must be bound.
func (g *Generator) Wrap(o introspect.Object) (lua.LValue, error) {
	if _, ok := g.meta[o.Catalogue()]; !ok {
		return nil, &apis.NotFoundError{Kind: apis.KindClass, Name: o.ClassName()}
	}
	return g.wrap(o), nil
}

// Classes returns the bound class names, sorted.
func (g *Generator) Classes() []string {
	return g.classes.Names()
}

// Converters returns the converter registry.
func (g *Generator) Converters() *Converters {
	return g.conv
}

// RegisterConverter adds a custom converter for tag.
func (g *Generator) RegisterConverter(tag apis.TypeTag, conv Converter) error {
	if err := g.conv.Register(tag, conv); err != nil {
		return err
	}
	g.log.WithField("tag", tag).Debug("registered converter")
	return nil
}

// Exec runs src. Errors raised by bound code are returned with their
// original type so callers can match them with errors.Is.
func (g *Generator) Exec(filename, src string) error {
	g.log.WithField("file", filename).Debug("exec")

	fn, err := g.L.Load(strings.NewReader(src), filename)
	if err != nil {
		return errors.Wrapf(err, "lua: load %s", filename)
	}
	g.L.Push(fn)
	if err := g.L.PCall(0, lua.MultRet, nil); err != nil {
		return errors.Wrapf(unwrapLua(err), "lua: exec %s", filename)
	}
	return nil
}

// raise throws err into Lua as userdata so that Exec can recover it.
func (g *Generator) raise(L *lua.LState, err error) {
	ud := L.NewUserData()
	ud.Value = err
	L.SetMetatable(ud, L.GetTypeMetatable(errorType))
	L.Error(ud, 1)
}

func unwrapLua(err error) error {
	var ae *lua.ApiError
	if !errors.As(err, &ae) {
		return err
	}
	if ud, ok := ae.Object.(*lua.LUserData); ok {
		if cause, ok := ud.Value.(error); ok {
			return cause
		}
	}
	return err
}

func (g *Generator) wrap(o introspect.Object) lua.LValue {
	ud := g.L.NewUserData()
	ud.Value = o
	g.L.SetMetatable(ud, g.meta[o.Catalogue()])
	return ud
}

// check returns the object at stack position n or raises an argument error.
func (g *Generator) check(L *lua.LState, n int) introspect.Object {
	ud := L.CheckUserData(n)
	o, ok := ud.Value.(introspect.Object)
	if !ok {
		L.ArgError(n, "introspectable object expected")
	}
	return o
}

// objectConverter maps *C to and from userdata of the same class.
func (g *Generator) objectConverter(cat *catalogue.Catalogue, ptr reflect.Type) Converter {
	return Converter{
		ToScript: func(v value.Value) (lua.LValue, error) {
			if v.Type() != ptr {
				return nil, apis.NewTypeMismatch(ptr, v.Type())
			}
			rv := v.Reflect()
			if rv.IsNil() {
				return lua.LNil, nil
			}
			return g.wrap(introspect.Bind(rv.Interface(), cat)), nil
		},
		FromScript: func(s lua.LValue) (value.Value, error) {
			if s == lua.LNil {
				return value.FromReflect(reflect.Zero(ptr)), nil
			}
			ud, ok := s.(*lua.LUserData)
			if !ok {
				return value.Value{}, mismatch(cat.ClassName(), s)
			}
			o, ok := ud.Value.(introspect.Object)
			if !ok || o.Catalogue() != cat {
				return value.Value{}, mismatch(cat.ClassName(), s)
			}
			return value.FromReflect(reflect.ValueOf(o.Receiver())), nil
		},
	}
}

func stringTable(L *lua.LState, names []string) *lua.LTable {
	t := L.CreateTable(len(names), 0)
	for _, n := range names {
		t.Append(lua.LString(n))
	}
	return t
}
