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

	"github.com/pkg/errors"

	"dirpx.dev/introspect/apis"
	"dirpx.dev/introspect/typetag"
	uref "dirpx.dev/introspect/utils/reflect"
	"dirpx.dev/introspect/value"
)

// Registrar records the members and methods of class C into its catalogue.
// A name registered twice keeps the last registration.
type Registrar[C any] struct {
	cat *Catalogue
}

func newRegistrar[C any]() *Registrar[C] {
	t := reflect.TypeFor[C]()
	return &Registrar[C]{cat: newCatalogue(t.Name(), t)}
}

// Named overrides the class name, which defaults to the Go type name.
func (r *Registrar[C]) Named(name string) *Registrar[C] {
	r.cat.name = name
	return r
}

// Field registers a data member through an accessor returning its address.
func Field[C, M any](r *Registrar[C], name string, acc func(*C) *M) *Registrar[C] {
	r.cat.members[name] = newMember(name, acc)
	return r
}

// Method registers fn under name. fn takes the receiver first, either *C or
// C for a method that cannot mutate the object, followed by any number of
// parameters, and returns nothing, a result, an error, or a result and an
// error. Method expressions such as (*Person).SetName fit directly.
//
// Method panics with apis.ErrInvalidSignature when fn does not fit.
func (r *Registrar[C]) Method(name string, fn any) *Registrar[C] {
	r.cat.methods[name] = reflectMethod[C](name, fn)
	return r
}

func reflectMethod[C any](name string, fn any) *Method {
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func || fv.IsNil() {
		panic(errors.Wrapf(apis.ErrInvalidSignature, "method '%s': %T is not a function", name, fn))
	}
	ft := fv.Type()
	if ft.IsVariadic() {
		panic(errors.Wrapf(apis.ErrInvalidSignature, "method '%s': variadic functions are not supported", name))
	}

	ptr, val := reflect.TypeFor[*C](), reflect.TypeFor[C]()
	if ft.NumIn() == 0 || (ft.In(0) != ptr && ft.In(0) != val) {
		panic(errors.Wrapf(apis.ErrInvalidSignature, "method '%s': first parameter must be %s or %s", name, ptr, val))
	}
	isConst := ft.In(0) == val

	var hasResult, hasErr bool
	switch ft.NumOut() {
	case 0:
	case 1:
		hasErr = uref.IsErrorType(ft.Out(0))
		hasResult = !hasErr
	case 2:
		if !uref.IsErrorType(ft.Out(1)) {
			panic(errors.Wrapf(apis.ErrInvalidSignature, "method '%s': second result must be error", name))
		}
		hasResult, hasErr = true, true
	default:
		panic(errors.Wrapf(apis.ErrInvalidSignature, "method '%s': at most two results", name))
	}

	m := &Method{Name: name, ReturnType: apis.TagVoid, Const: isConst}
	if hasResult {
		m.ReturnType = tagOf(ft.Out(0))
	}
	for i := 1; i < ft.NumIn(); i++ {
		m.params = append(m.params, ft.In(i))
		m.ParamTypes = append(m.ParamTypes, tagOf(ft.In(i)))
	}

	m.call = func(recv any, args []value.Value) (value.Value, error) {
		c, err := receiver[C](recv)
		if err != nil {
			return value.Value{}, err
		}
		in := make([]reflect.Value, 0, len(args)+1)
		rv := reflect.ValueOf(c)
		if isConst {
			rv = rv.Elem()
		}
		in = append(in, rv)
		for _, a := range args {
			in = append(in, a.Reflect())
		}

		out := fv.Call(in)
		if hasErr {
			if e := out[len(out)-1]; !e.IsNil() {
				return value.Value{}, &apis.CallError{Method: name, Err: e.Interface().(error)}
			}
		}
		if !hasResult {
			return value.Empty(), nil
		}
		return value.FromReflect(out[0]), nil
	}
	return m
}

// typed builds a Method from a typed call. The shared Invoke path checks
// arity and argument types before call runs, so call may extract with MustAs.
func typed[C, R any](name string, void bool, params []reflect.Type, call func(c *C, args []value.Value) R) *Method {
	m := &Method{Name: name, ReturnType: apis.TagVoid, params: params}
	if !void {
		m.ReturnType = typetag.Of[R]()
	}
	for _, p := range params {
		m.ParamTypes = append(m.ParamTypes, tagOf(p))
	}
	m.call = func(recv any, args []value.Value) (value.Value, error) {
		c, err := receiver[C](recv)
		if err != nil {
			return value.Value{}, err
		}
		r := call(c, args)
		if void {
			return value.Empty(), nil
		}
		return value.Of(r), nil
	}
	return m
}

func types(ts ...reflect.Type) []reflect.Type { return ts }

// Func0 registers a method with no parameters and one result.
func Func0[C, R any](r *Registrar[C], name string, fn func(*C) R) *Registrar[C] {
	r.cat.methods[name] = typed[C, R](name, false, nil, func(c *C, _ []value.Value) R {
		return fn(c)
	})
	return r
}

// Func1 registers a method with one parameter and one result.
func Func1[C, P1, R any](r *Registrar[C], name string, fn func(*C, P1) R) *Registrar[C] {
	r.cat.methods[name] = typed[C, R](name, false, types(reflect.TypeFor[P1]()), func(c *C, a []value.Value) R {
		return fn(c, value.MustAs[P1](a[0]))
	})
	return r
}

// Func2 registers a method with two parameters and one result.
func Func2[C, P1, P2, R any](r *Registrar[C], name string, fn func(*C, P1, P2) R) *Registrar[C] {
	r.cat.methods[name] = typed[C, R](name, false, types(reflect.TypeFor[P1](), reflect.TypeFor[P2]()), func(c *C, a []value.Value) R {
		return fn(c, value.MustAs[P1](a[0]), value.MustAs[P2](a[1]))
	})
	return r
}

// Func3 registers a method with three parameters and one result.
func Func3[C, P1, P2, P3, R any](r *Registrar[C], name string, fn func(*C, P1, P2, P3) R) *Registrar[C] {
	params := types(reflect.TypeFor[P1](), reflect.TypeFor[P2](), reflect.TypeFor[P3]())
	r.cat.methods[name] = typed[C, R](name, false, params, func(c *C, a []value.Value) R {
		return fn(c, value.MustAs[P1](a[0]), value.MustAs[P2](a[1]), value.MustAs[P3](a[2]))
	})
	return r
}

// Proc0 registers a method with no parameters and no result.
func Proc0[C any](r *Registrar[C], name string, fn func(*C)) *Registrar[C] {
	r.cat.methods[name] = typed[C, struct{}](name, true, nil, func(c *C, _ []value.Value) struct{} {
		fn(c)
		return struct{}{}
	})
	return r
}

// Proc1 registers a method with one parameter and no result.
func Proc1[C, P1 any](r *Registrar[C], name string, fn func(*C, P1)) *Registrar[C] {
	r.cat.methods[name] = typed[C, struct{}](name, true, types(reflect.TypeFor[P1]()), func(c *C, a []value.Value) struct{} {
		fn(c, value.MustAs[P1](a[0]))
		return struct{}{}
	})
	return r
}

// Proc2 registers a method with two parameters and no result.
func Proc2[C, P1, P2 any](r *Registrar[C], name string, fn func(*C, P1, P2)) *Registrar[C] {
	r.cat.methods[name] = typed[C, struct{}](name, true, types(reflect.TypeFor[P1](), reflect.TypeFor[P2]()), func(c *C, a []value.Value) struct{} {
		fn(c, value.MustAs[P1](a[0]), value.MustAs[P2](a[1]))
		return struct{}{}
	})
	return r
}

// Proc3 registers a method with three parameters and no result.
func Proc3[C, P1, P2, P3 any](r *Registrar[C], name string, fn func(*C, P1, P2, P3)) *Registrar[C] {
	params := types(reflect.TypeFor[P1](), reflect.TypeFor[P2](), reflect.TypeFor[P3]())
	r.cat.methods[name] = typed[C, struct{}](name, true, params, func(c *C, a []value.Value) struct{} {
		fn(c, value.MustAs[P1](a[0]), value.MustAs[P2](a[1]), value.MustAs[P3](a[2]))
		return struct{}{}
	})
	return r
}

func tagOf(t reflect.Type) apis.TypeTag {
	return typetag.OfType(t)
}
