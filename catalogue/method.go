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
	"strings"

	"dirpx.dev/introspect/apis"
	"dirpx.dev/introspect/value"
)

// Method describes one callable method of a class.
type Method struct {
	// Name is the registered method name.
	Name string
	// ReturnType is the tag of the result, apis.TagVoid for none.
	ReturnType apis.TypeTag
	// ParamTypes holds the tag of each parameter in order.
	ParamTypes []apis.TypeTag
	// Const reports a value receiver: the call cannot mutate the object.
	Const bool

	params []reflect.Type
	call   func(recv any, args []value.Value) (value.Value, error)
}

// Arity returns the number of parameters.
func (m *Method) Arity() int {
	return len(m.params)
}

// Params returns the Go type of each parameter.
func (m *Method) Params() []reflect.Type {
	return append([]reflect.Type(nil), m.params...)
}

// Signature renders the method as "<ret> <name>(<params>)[ const]".
func (m *Method) Signature() string {
	var b strings.Builder
	b.WriteString(string(m.ReturnType))
	b.WriteByte(' ')
	b.WriteString(m.Name)
	b.WriteByte('(')
	for i, p := range m.ParamTypes {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(string(p))
	}
	b.WriteByte(')')
	if m.Const {
		b.WriteString(" const")
	}
	return b.String()
}

// Invoke calls the method on recv, a pointer to the owning class.
//
// The argument count is checked first, then each argument's exact type from
// left to right. The underlying function runs only once every argument has
// been accepted, so a rejected call has no side effect.
func (m *Method) Invoke(recv any, args []value.Value) (value.Value, error) {
	if len(args) != len(m.params) {
		return value.Value{}, &apis.ArityMismatchError{Method: m.Name, Want: len(m.params), Got: len(args)}
	}
	for i, want := range m.params {
		if got := args[i].Type(); got != want {
			return value.Value{}, &apis.TypeMismatchError{Want: want, Got: got, Index: i}
		}
	}
	return m.call(recv, args)
}
