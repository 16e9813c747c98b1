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

// Package starlarkbind exposes introspectable classes to Starlark scripts.
//
// Each bound class becomes a predeclared constructor. Objects expose
// members as attributes, methods that are not plain accessors as bound
// builtins, and the introspection utilities get_class_name,
// get_member_names, get_method_names, has_member, has_method, to_json,
// get_member_value, set_member_value and call_method.
package starlarkbind

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.starlark.net/starlark"

	"dirpx.dev/introspect"
	"dirpx.dev/introspect/apis"
	"dirpx.dev/introspect/binding"
	"dirpx.dev/introspect/catalogue"
	"dirpx.dev/introspect/typetag"
	"dirpx.dev/introspect/value"
)

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

// WithOutput sets where script print() output goes. The default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(g *Generator) { g.out = w }
}

// Generator binds classes into a set of Starlark globals.
type Generator struct {
	log  logrus.FieldLogger
	conv *Converters
	out  io.Writer

	classes binding.ClassSet

	mu      sync.Mutex
	globals starlark.StringDict
}

// New returns a Generator with no classes bound.
func New(opts ...Option) *Generator {
	g := &Generator{
		log:     logrus.StandardLogger(),
		out:     os.Stdout,
		globals: starlark.StringDict{},
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.conv == nil {
		g.conv = NewConverters()
	}
	g.log = g.log.WithField("runtime", "starlark")
	g.globals["get_all_classes"] = starlark.NewBuiltin("get_all_classes", g.allClasses)
	return g
}

// Bind exposes C under name, or under its class name when name is empty.
func Bind[C any, P catalogue.Describer[C]](g *Generator, name string) error {
	return g.BindCatalogue(name, catalogue.Of[C, P]())
}

// BindCatalogue exposes the class described by cat under name, or under its
// class name when name is empty. Binding a name twice fails with
// *apis.DuplicateRegistrationError.
func (g *Generator) BindCatalogue(name string, cat *catalogue.Catalogue) error {
	if name == "" {
		name = cat.ClassName()
	}
	if g.classes.Has(name) {
		return &apis.DuplicateRegistrationError{Name: name}
	}
	log := g.log.WithField("class", name)

	// Pointers to bound objects cross the boundary as objects.
	ptr := reflect.PointerTo(cat.GoType())
	if err := g.conv.Register(typetag.OfType(ptr), g.objectConverter(cat, ptr)); err != nil {
		return errors.Wrapf(err, "starlark: bind %s", name)
	}
	if err := g.classes.Add(name); err != nil {
		return err
	}

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

	ctor := starlark.NewBuiltin(name, func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if len(args) > 0 || len(kwargs) > 0 {
			return nil, fmt.Errorf("%s: constructor takes no arguments", b.Name())
		}
		return g.wrap(introspect.Bind(reflect.New(cat.GoType()).Interface(), cat)), nil
	})

	g.mu.Lock()
	g.globals[name] = ctor
	g.mu.Unlock()

	log.Debug("bound class")
	return nil
}

// Wrap hands an existing object to scripts.
func (g *Generator) Wrap(o introspect.Object) *Object {
	return g.wrap(o)
}

// Globals returns a copy of the predeclared names: one constructor per bound
// class and get_all_classes.
func (g *Generator) Globals() starlark.StringDict {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make(starlark.StringDict, len(g.globals))
	for k, v := range g.globals {
		out[k] = v
	}
	return out
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

// Exec runs a script with the bound globals predeclared and returns its globals.
func (g *Generator) Exec(filename string, src any) (starlark.StringDict, error) {
	thread := &starlark.Thread{
		Name: filename,
		Print: func(_ *starlark.Thread, msg string) {
			fmt.Fprintln(g.out, msg)
		},
	}
	g.log.WithField("file", filename).Debug("exec")

	globals, err := starlark.ExecFile(thread, filename, src, g.Globals())
	if err != nil {
		return nil, errors.Wrapf(err, "starlark: exec %s", filename)
	}
	return globals, nil
}

func (g *Generator) allClasses(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error) {
	return stringList(g.classes.Names()), nil
}

// objectConverter maps *C to and from Objects of the same class.
func (g *Generator) objectConverter(cat *catalogue.Catalogue, ptr reflect.Type) Converter {
	return Converter{
		ToScript: func(v value.Value) (starlark.Value, error) {
			rv := v.Reflect()
			if v.Type() != ptr {
				return nil, apis.NewTypeMismatch(ptr, v.Type())
			}
			if rv.IsNil() {
				return starlark.None, nil
			}
			return g.wrap(introspect.Bind(rv.Interface(), cat)), nil
		},
		FromScript: func(s starlark.Value) (value.Value, error) {
			if s == starlark.None {
				return value.FromReflect(reflect.Zero(ptr)), nil
			}
			o, ok := s.(*Object)
			if !ok || o.obj.Catalogue() != cat {
				return value.Value{}, mismatch(cat.ClassName(), s)
			}
			return value.FromReflect(reflect.ValueOf(o.obj.Receiver())), nil
		},
	}
}

func stringList(names []string) *starlark.List {
	elems := make([]starlark.Value, len(names))
	for i, n := range names {
		elems[i] = starlark.String(n)
	}
	return starlark.NewList(elems)
}
