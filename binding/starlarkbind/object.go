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

package starlarkbind

import (
	"fmt"
	"slices"

	"github.com/pkg/errors"
	"go.starlark.net/starlark"

	"dirpx.dev/introspect"
	"dirpx.dev/introspect/apis"
	"dirpx.dev/introspect/binding"
	"dirpx.dev/introspect/catalogue"
	"dirpx.dev/introspect/value"
)

// Object is the Starlark view of an introspectable object.
type Object struct {
	obj    introspect.Object
	g      *Generator
	frozen bool
}

var (
	_ starlark.HasAttrs    = (*Object)(nil)
	_ starlark.HasSetField = (*Object)(nil)
)

// utilities maps each introspection utility to its implementation.
var utilities = map[string]func(o *Object, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error){
	"get_class_name": func(o *Object, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
			return nil, err
		}
		return starlark.String(o.obj.ClassName()), nil
	},
	"get_member_names": func(o *Object, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
			return nil, err
		}
		return stringList(o.obj.MemberNames()), nil
	},
	"get_method_names": func(o *Object, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
			return nil, err
		}
		return stringList(o.obj.MethodNames()), nil
	},
	"has_member": func(o *Object, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var name string
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &name); err != nil {
			return nil, err
		}
		return starlark.Bool(o.obj.HasMember(name)), nil
	},
	"has_method": func(o *Object, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var name string
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &name); err != nil {
			return nil, err
		}
		return starlark.Bool(o.obj.HasMethod(name)), nil
	},
	"to_json": func(o *Object, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
			return nil, err
		}
		s, err := o.obj.ToJSON()
		if err != nil {
			return nil, err
		}
		return starlark.String(s), nil
	},
	"get_member_value": func(o *Object, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var name string
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &name); err != nil {
			return nil, err
		}
		return o.get(name)
	},
	"set_member_value": func(o *Object, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var (
			name string
			v    starlark.Value
		)
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &name, &v); err != nil {
			return nil, err
		}
		return starlark.None, o.set(name, v)
	},
	"call_method": func(o *Object, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var (
			name string
			list starlark.Indexable = starlark.NewList(nil)
		)
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &name, &list); err != nil {
			return nil, err
		}
		m, err := o.obj.Catalogue().Method(name)
		if err != nil {
			return nil, err
		}
		callArgs := make(starlark.Tuple, list.Len())
		for i := range callArgs {
			callArgs[i] = list.Index(i)
		}
		return o.call(m, callArgs)
	},
}

func (g *Generator) wrap(o introspect.Object) *Object {
	return &Object{obj: o, g: g}
}

// Unwrap returns the bound object.
func (o *Object) Unwrap() introspect.Object { return o.obj }

func (o *Object) String() string {
	s, err := o.obj.ToJSON()
	if err != nil {
		return fmt.Sprintf("<%s>", o.obj.ClassName())
	}
	return fmt.Sprintf("<%s %s>", o.obj.ClassName(), s)
}

func (o *Object) Type() string          { return o.obj.ClassName() }
func (o *Object) Freeze()               { o.frozen = true }
func (o *Object) Truth() starlark.Bool  { return starlark.True }
func (o *Object) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: %s", o.Type()) }

// Attr resolves members first, then exposed methods, then utilities.
func (o *Object) Attr(name string) (starlark.Value, error) {
	cat := o.obj.Catalogue()
	if cat.HasMember(name) {
		return o.get(name)
	}
	if cat.HasMethod(name) && !binding.IsAccessor(name, cat) {
		m, _ := cat.Method(name)
		return starlark.NewBuiltin(name, func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			if len(kwargs) > 0 {
				return nil, fmt.Errorf("%s: unexpected keyword arguments", b.Name())
			}
			return o.call(m, args)
		}), nil
	}
	if fn, ok := utilities[name]; ok {
		return starlark.NewBuiltin(name, func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			return fn(o, b, args, kwargs)
		}), nil
	}
	return nil, nil
}

// AttrNames lists members, exposed methods and utilities.
func (o *Object) AttrNames() []string {
	cat := o.obj.Catalogue()
	names := append(cat.MemberNames(), binding.ExposedMethods(cat)...)
	for u := range utilities {
		names = append(names, u)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// SetField assigns a member.
func (o *Object) SetField(name string, v starlark.Value) error {
	if !o.obj.HasMember(name) {
		return starlark.NoSuchAttrError(fmt.Sprintf("%s has no member .%s", o.Type(), name))
	}
	return o.set(name, v)
}

func (o *Object) get(name string) (starlark.Value, error) {
	m, err := o.obj.Catalogue().Member(name)
	if err != nil {
		return nil, err
	}
	v, err := m.Get(o.obj.Receiver())
	if err != nil {
		return nil, err
	}
	return o.g.conv.ToScript(m.Type, v)
}

func (o *Object) set(name string, sv starlark.Value) error {
	if o.frozen {
		return fmt.Errorf("cannot set .%s of frozen %s", name, o.Type())
	}
	m, err := o.obj.Catalogue().Member(name)
	if err != nil {
		return err
	}
	v, err := o.g.conv.FromScript(m.Type, sv)
	if err != nil {
		return errors.Wrapf(err, "member '%s'", name)
	}
	return m.Set(o.obj.Receiver(), v)
}

// call checks the argument count against the descriptor before converting
// anything, converts each argument by its declared tag and invokes m.
func (o *Object) call(m *catalogue.Method, args starlark.Tuple) (starlark.Value, error) {
	if len(args) != m.Arity() {
		return nil, &apis.ArityMismatchError{Method: m.Name, Want: m.Arity(), Got: len(args)}
	}
	if o.frozen && !m.Const {
		return nil, fmt.Errorf("cannot call %s on frozen %s", m.Name, o.Type())
	}
	in := make([]value.Value, len(args))
	for i, a := range args {
		v, err := o.g.conv.FromScript(m.ParamTypes[i], a)
		if err != nil {
			return nil, errors.Wrapf(err, "method '%s': argument %d", m.Name, i)
		}
		in[i] = v
	}
	res, err := m.Invoke(o.obj.Receiver(), in)
	if err != nil {
		return nil, err
	}
	if m.ReturnType == apis.TagVoid {
		return starlark.None, nil
	}
	return o.g.conv.ToScript(m.ReturnType, res)
}
