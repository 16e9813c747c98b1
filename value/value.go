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

// Package value provides Value, a type-erased holder that remembers the exact
// static type it was created with. Extraction succeeds only for that type:
// there is no numeric widening, no interface satisfaction and no pointer
// auto-dereference.
package value

import (
	"fmt"
	"reflect"

	"dirpx.dev/introspect/apis"
	"dirpx.dev/introspect/typetag"
)

// Value holds one value of any type, or nothing.
// The zero Value is empty.
type Value struct {
	t  reflect.Type
	rv reflect.Value
}

// Of stores v under its static type T. Interface types keep the interface
// as the stored type, so Of[error](nil) is not empty.
func Of[T any](v T) Value {
	return Value{
		t:  reflect.TypeFor[T](),
		rv: reflect.ValueOf(&v).Elem(),
	}
}

// Empty returns a Value that holds nothing (void).
func Empty() Value {
	return Value{}
}

// FromReflect wraps rv under rv.Type(). An invalid reflect.Value yields Empty.
func FromReflect(rv reflect.Value) Value {
	if !rv.IsValid() {
		return Value{}
	}
	return Value{t: rv.Type(), rv: rv}
}

// As extracts the stored value if and only if its type is exactly T.
func As[T any](v Value) (T, error) {
	var out T
	want := reflect.TypeFor[T]()
	if v.t != want {
		return out, apis.NewTypeMismatch(want, v.t)
	}
	// A nil interface stored as T comes back as the zero T.
	out, _ = v.rv.Interface().(T)
	return out, nil
}

// MustAs is like As but panics on mismatch.
func MustAs[T any](v Value) T {
	out, err := As[T](v)
	if err != nil {
		panic(err)
	}
	return out
}

// IsEmpty reports whether v holds nothing.
func (v Value) IsEmpty() bool {
	return v.t == nil
}

// Type returns the stored type, or nil when empty.
func (v Value) Type() reflect.Type {
	return v.t
}

// Tag returns the tag of the stored type, or apis.TagVoid when empty.
func (v Value) Tag() apis.TypeTag {
	if v.t == nil {
		return apis.TagVoid
	}
	return typetag.OfType(v.t)
}

// Reflect returns the stored value as a reflect.Value. It is invalid when v is empty.
func (v Value) Reflect() reflect.Value {
	return v.rv
}

// Interface returns the stored value boxed in an interface, or nil when empty.
func (v Value) Interface() any {
	if v.t == nil {
		return nil
	}
	return v.rv.Interface()
}

// String formats v for debugging, e.g. "42 (int)" or "<empty>".
func (v Value) String() string {
	if v.t == nil {
		return "<empty>"
	}
	return fmt.Sprintf("%v (%s)", v.rv.Interface(), v.Tag())
}
