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

package introspect

import (
	"fmt"
	"io"

	"github.com/go-json-experiment/json"
	"github.com/pkg/errors"

	"dirpx.dev/introspect/apis"
	"dirpx.dev/introspect/catalogue"
	"dirpx.dev/introspect/typetag"
	"dirpx.dev/introspect/value"
)

// Introspectable is implemented by pointers to classes that expose their catalogue:
//
//	func (*Person) Catalogue() *catalogue.Catalogue { return catalogue.Of[Person]() }
type Introspectable interface {
	Catalogue() *catalogue.Catalogue
}

// Object binds a receiver to the catalogue of its class.
type Object struct {
	recv any
	cat  *catalogue.Catalogue
}

// Of binds c to the catalogue of C.
func Of[C any, P catalogue.Describer[C]](c *C) Object {
	return Object{recv: c, cat: catalogue.Of[C, P]()}
}

// Wrap binds x to the catalogue it reports.
func Wrap(x Introspectable) Object {
	return Object{recv: x, cat: x.Catalogue()}
}

// Bind binds recv to cat. recv must be a pointer to cat's class.
func Bind(recv any, cat *catalogue.Catalogue) Object {
	return Object{recv: recv, cat: cat}
}

// Receiver returns the bound receiver.
func (o Object) Receiver() any { return o.recv }

// Catalogue returns the catalogue of the receiver's class.
func (o Object) Catalogue() *catalogue.Catalogue { return o.cat }

// ClassName returns the registered class name.
func (o Object) ClassName() string { return o.cat.ClassName() }

// Get reads the named member.
func (o Object) Get(name string) (value.Value, error) {
	m, err := o.cat.Member(name)
	if err != nil {
		return value.Value{}, err
	}
	return m.Get(o.recv)
}

// Set writes the named member. v must hold exactly the member's type.
func (o Object) Set(name string, v value.Value) error {
	m, err := o.cat.Member(name)
	if err != nil {
		return err
	}
	return m.Set(o.recv, v)
}

// Call invokes the named method with args.
func (o Object) Call(name string, args ...value.Value) (value.Value, error) {
	m, err := o.cat.Method(name)
	if err != nil {
		return value.Value{}, err
	}
	return m.Invoke(o.recv, args)
}

// MemberNames returns the member names in sorted order.
func (o Object) MemberNames() []string { return o.cat.MemberNames() }

// MethodNames returns the method names in sorted order.
func (o Object) MethodNames() []string { return o.cat.MethodNames() }

// HasMember reports whether the class has a member called name.
func (o Object) HasMember(name string) bool { return o.cat.HasMember(name) }

// HasMethod reports whether the class has a method called name.
func (o Object) HasMethod(name string) bool { return o.cat.HasMethod(name) }

// PrintMemberValue writes "name (tag): value" for the named member.
// Non-primitive values print as "[tag value]".
func (o Object) PrintMemberValue(w io.Writer, name string) error {
	m, err := o.cat.Member(name)
	if err != nil {
		return err
	}
	v, err := m.Get(o.recv)
	if err != nil {
		return err
	}
	if m.Type.IsPrimitive() {
		_, err = fmt.Fprintf(w, "%s (%s): %v\n", name, m.Type, v.Interface())
	} else {
		_, err = fmt.Fprintf(w, "%s (%s): [%s value]\n", name, m.Type, m.Type)
	}
	return err
}

// PrintClassInfo writes the class name, its members with their tags and its
// methods with return and parameter tags.
func (o Object) PrintClassInfo(w io.Writer) error {
	return PrintCatalogue(w, o.cat)
}

// PrintCatalogue writes the layout used by Object.PrintClassInfo for cat.
func PrintCatalogue(w io.Writer, cat *catalogue.Catalogue) error {
	ew := &errWriter{w: w}
	ew.printf("Class: %s\n", cat.ClassName())
	ew.printf("Members:\n")
	for _, m := range cat.Members() {
		ew.printf("  %s (%s)\n", m.Name, m.Type)
	}
	ew.printf("Methods:\n")
	for _, m := range cat.Methods() {
		ew.printf("  %s -> %s", m.Name, m.ReturnType)
		for i, p := range m.ParamTypes {
			if i == 0 {
				ew.printf(" (params: %s", p)
			} else {
				ew.printf(", %s", p)
			}
		}
		if m.Arity() > 0 {
			ew.printf(")")
		}
		if m.Const {
			ew.printf(" const")
		}
		ew.printf("\n")
	}
	return ew.err
}

// ToJSON serializes the members whose tags are primitive into a JSON object
// with sorted keys. Other members are written as null, or left out when
// the global config sets JSONOmitUnsupported.
func (o Object) ToJSON() (string, error) {
	omit := typetag.Config().JSONOmitUnsupported
	out := make(map[string]any, len(o.cat.MemberNames()))
	for _, m := range o.cat.Members() {
		if !m.Type.IsPrimitive() {
			if !omit {
				out[m.Name] = nil
			}
			continue
		}
		v, err := m.Get(o.recv)
		if err != nil {
			return "", err
		}
		out[m.Name] = v.Interface()
	}
	b, err := json.Marshal(out, json.Deterministic(true))
	if err != nil {
		return "", errors.Wrapf(err, "introspect: encode %s", o.cat.ClassName())
	}
	return string(b), nil
}

// GetAs reads the named member as T.
func GetAs[T any](o Object, name string) (T, error) {
	v, err := o.Get(name)
	if err != nil {
		var zero T
		return zero, err
	}
	return value.As[T](v)
}

// CallAs invokes the named method and extracts its result as T.
func CallAs[T any](o Object, name string, args ...value.Value) (T, error) {
	v, err := o.Call(name, args...)
	if err != nil {
		var zero T
		return zero, err
	}
	return value.As[T](v)
}

// Tag returns the tag of T, a shorthand for typetag.Of.
func Tag[T any]() apis.TypeTag {
	return typetag.Of[T]()
}

// errWriter keeps the first write error and skips later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
