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
	"math"

	"github.com/pkg/errors"
	lua "github.com/yuin/gopher-lua"

	"dirpx.dev/introspect/apis"
	"dirpx.dev/introspect/binding"
)

// Converter translates between Values and Lua values.
type Converter = binding.Converter[lua.LValue]

// Converters is a Lua converter registry.
type Converters = binding.Converters[lua.LValue]

// NewConverters returns a registry preloaded with the built-in converters.
// Vectors become sequence tables allocated on L.
func NewConverters(L *lua.LState) *Converters {
	toList := func(xs []lua.LValue) lua.LValue {
		t := L.CreateTable(len(xs), 0)
		for _, x := range xs {
			t.Append(x)
		}
		return t
	}
	var (
		intConv    = binding.Integer[int](toInt, fromInt)
		doubleConv = binding.Float[float64](toNumber, fromNumber)
		floatConv  = binding.Float[float32](toNumber, fromNumber)
		stringConv = binding.Scalar[string](toString, fromString)
		boolConv   = binding.Scalar[bool](toBool, fromBool)
	)
	return binding.NewConverters(map[apis.TypeTag]Converter{
		apis.TagInt:     intConv,
		apis.TagInt8:    binding.Integer[int8](toInt, fromInt),
		apis.TagInt16:   binding.Integer[int16](toInt, fromInt),
		apis.TagInt32:   binding.Integer[int32](toInt, fromInt),
		apis.TagInt64:   binding.Integer[int64](toInt, fromInt),
		apis.TagUint:    binding.Integer[uint](toInt, fromInt),
		apis.TagUint8:   binding.Integer[uint8](toInt, fromInt),
		apis.TagUint16:  binding.Integer[uint16](toInt, fromInt),
		apis.TagUint32:  binding.Integer[uint32](toInt, fromInt),
		apis.TagUint64:  binding.Integer[uint64](toInt, fromInt),
		apis.TagUintptr: binding.Integer[uintptr](toInt, fromInt),
		apis.TagDouble:  doubleConv,
		apis.TagFloat:   floatConv,
		apis.TagString:  stringConv,
		apis.TagBool:    boolConv,

		apis.TagIntVector:    binding.Vector[int](intConv, toList, fromList),
		apis.TagDoubleVector: binding.Vector[float64](doubleConv, toList, fromList),
		apis.TagFloatVector:  binding.Vector[float32](floatConv, toList, fromList),
		apis.TagStringVector: binding.Vector[string](stringConv, toList, fromList),
		apis.TagBoolVector:   binding.Vector[bool](boolConv, toList, fromList),
	})
}

func mismatch(want string, got lua.LValue) error {
	return errors.Wrapf(apis.ErrTypeMismatch, "want %s, got %s", want, got.Type())
}

func toInt(i int64) lua.LValue { return lua.LNumber(i) }

// fromInt accepts numbers with no fractional part.
func fromInt(v lua.LValue) (int64, error) {
	n, ok := v.(lua.LNumber)
	if !ok {
		return 0, mismatch("integer", v)
	}
	f := float64(n)
	if f != math.Trunc(f) {
		return 0, errors.Wrapf(apis.ErrTypeMismatch, "want integer, got %v", f)
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, errors.Wrapf(binding.ErrOutOfRange, "%v does not fit int64", f)
	}
	return int64(f), nil
}

func toNumber(f float64) lua.LValue { return lua.LNumber(f) }

func fromNumber(v lua.LValue) (float64, error) {
	n, ok := v.(lua.LNumber)
	if !ok {
		return 0, mismatch("number", v)
	}
	return float64(n), nil
}

func toString(s string) lua.LValue { return lua.LString(s) }

func fromString(v lua.LValue) (string, error) {
	s, ok := v.(lua.LString)
	if !ok {
		return "", mismatch("string", v)
	}
	return string(s), nil
}

func toBool(b bool) lua.LValue { return lua.LBool(b) }

func fromBool(v lua.LValue) (bool, error) {
	b, ok := v.(lua.LBool)
	if !ok {
		return false, mismatch("boolean", v)
	}
	return bool(b), nil
}

// fromList reads the sequence part of a table.
func fromList(v lua.LValue) ([]lua.LValue, error) {
	t, ok := v.(*lua.LTable)
	if !ok {
		return nil, mismatch("table", v)
	}
	out := make([]lua.LValue, t.Len())
	for i := range out {
		out[i] = t.RawGetInt(i + 1)
	}
	return out, nil
}
