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

package luabind

import (
	"strings"

	"github.com/pkg/errors"
	lua "github.com/yuin/gopher-lua"

	"dirpx.dev/introspect"
	"dirpx.dev/introspect/apis"
	"dirpx.dev/introspect/binding"
	"dirpx.dev/introspect/catalogue"
	"dirpx.dev/introspect/value"
)

// utilities are called with colon syntax; argument 1 is the object.
var utilities = map[string]func(g *Generator, L *lua.LState, o introspect.Object) int{
	"getClassName": func(_ *Generator, L *lua.LState, o introspect.Object) int {
		L.Push(lua.LString(o.ClassName()))
		return 1
	},
	"getMemberNames": func(_ *Generator, L *lua.LState, o introspect.Object) int {
		L.Push(stringTable(L, o.MemberNames()))
		return 1
	},
	"getMethodNames": func(_ *Generator, L *lua.LState, o introspect.Object) int {
		L.Push(stringTable(L, o.MethodNames()))
		return 1
	},
	"hasMember": func(_ *Generator, L *lua.LState, o introspect.Object) int {
		L.Push(lua.LBool(o.HasMember(L.CheckString(2))))
		return 1
	},
	"hasMethod": func(_ *Generator, L *lua.LState, o introspect.Object) int {
		L.Push(lua.LBool(o.HasMethod(L.CheckString(2))))
		return 1
	},
	"toJSON": func(g *Generator, L *lua.LState, o introspect.Object) int {
		s, err := o.ToJSON()
		if err != nil {
			g.raise(L, err)
		}
		L.Push(lua.LString(s))
		return 1
	},
	"getMemberValue": func(g *Generator, L *lua.LState, o introspect.Object) int {
		L.Push(g.get(L, o, L.CheckString(2)))
		return 1
	},
	"setMemberValue": func(g *Generator, L *lua.LState, o introspect.Object) int {
		g.set(L, o, L.CheckString(2), L.CheckAny(3))
		return 0
	},
	"callMethod": func(g *Generator, L *lua.LState, o introspect.Object) int {
		m, err := o.Catalogue().Method(L.CheckString(2))
		if err != nil {
			g.raise(L, err)
		}
		list := L.OptTable(3, L.NewTable())
		args := make([]lua.LValue, list.Len())
		for i := range args {
			args[i] = list.RawGetInt(i + 1)
		}
		return g.call(L, o, m, args)
	},
}

// index resolves obj[key]: members, exposed methods, utilities, then the
// generated get<Member>/set<Member> accessors.
func (g *Generator) index(L *lua.LState) int {
	o := g.check(L, 1)
	key := L.CheckString(2)
	cat := o.Catalogue()

	switch {
	case cat.HasMember(key):
		L.Push(g.get(L, o, key))
	case cat.HasMethod(key) && !binding.IsAccessor(key, cat):
		m, _ := cat.Method(key)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			self := g.check(L, 1)
			args := make([]lua.LValue, 0, L.GetTop()-1)
			for i := 2; i <= L.GetTop(); i++ {
				args = append(args, L.Get(i))
			}
			return g.call(L, self, m, args)
		}))
	case utilities[key] != nil:
		fn := utilities[key]
		L.Push(L.NewFunction(func(L *lua.LState) int {
			return fn(g, L, g.check(L, 1))
		}))
	default:
		L.Push(g.accessor(L, cat, key))
	}
	return 1
}

// accessor returns the generated getter or setter for key, or nil.
func (g *Generator) accessor(L *lua.LState, cat *catalogue.Catalogue, key string) lua.LValue {
	getter := strings.HasPrefix(key, "get")
	if !getter && !strings.HasPrefix(key, "set") {
		return lua.LNil
	}
	member, ok := binding.AccessorMember(key, cat)
	if !ok || key[:3]+binding.Capitalize(member) != key {
		return lua.LNil
	}
	if getter {
		return L.NewFunction(func(L *lua.LState) int {
			L.Push(g.get(L, g.check(L, 1), member))
			return 1
		})
	}
	return L.NewFunction(func(L *lua.LState) int {
		g.set(L, g.check(L, 1), member, L.CheckAny(2))
		return 0
	})
}

func (g *Generator) newindex(L *lua.LState) int {
	g.set(L, g.check(L, 1), L.CheckString(2), L.CheckAny(3))
	return 0
}

func (g *Generator) tostring(L *lua.LState) int {
	o := g.check(L, 1)
	s, err := o.ToJSON()
	if err != nil {
		L.Push(lua.LString("<" + o.ClassName() + ">"))
		return 1
	}
	L.Push(lua.LString("<" + o.ClassName() + " " + s + ">"))
	return 1
}

func (g *Generator) get(L *lua.LState, o introspect.Object, name string) lua.LValue {
	m, err := o.Catalogue().Member(name)
	if err != nil {
		g.raise(L, err)
	}
	v, err := m.Get(o.Receiver())
	if err != nil {
		g.raise(L, err)
	}
	lv, err := g.conv.ToScript(m.Type, v)
	if err != nil {
		g.raise(L, errors.Wrapf(err, "member '%s'", name))
	}
	return lv
}

func (g *Generator) set(L *lua.LState, o introspect.Object, name string, lv lua.LValue) {
	m, err := o.Catalogue().Member(name)
	if err != nil {
		g.raise(L, err)
	}
	v, err := g.conv.FromScript(m.Type, lv)
	if err != nil {
		g.raise(L, errors.Wrapf(err, "member '%s'", name))
	}
	if err := m.Set(o.Receiver(), v); err != nil {
		g.raise(L, err)
	}
}

// call checks the argument count before converting anything, then converts
// each argument by its declared tag and invokes m. It returns the number of
// results pushed.
func (g *Generator) call(L *lua.LState, o introspect.Object, m *catalogue.Method, args []lua.LValue) int {
	if len(args) != m.Arity() {
		g.raise(L, &apis.ArityMismatchError{Method: m.Name, Want: m.Arity(), Got: len(args)})
	}
	in := make([]value.Value, len(args))
	for i, a := range args {
		v, err := g.conv.FromScript(m.ParamTypes[i], a)
		if err != nil {
			g.raise(L, errors.Wrapf(err, "method '%s': argument %d", m.Name, i))
		}
		in[i] = v
	}
	res, err := m.Invoke(o.Receiver(), in)
	if err != nil {
		g.raise(L, err)
	}
	if m.ReturnType == apis.TagVoid {
		return 0
	}
	lv, err := g.conv.ToScript(m.ReturnType, res)
	if err != nil {
		g.raise(L, errors.Wrapf(err, "method '%s': result", m.Name))
	}
	L.Push(lv)
	return 1
}
