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
	"github.com/pkg/errors"
	"go.starlark.net/starlark"

	"dirpx.dev/introspect/apis"
	"dirpx.dev/introspect/binding"
)

// Converter translates between Values and Starlark values.
type Converter = binding.Converter[starlark.Value]

// Converters is a Starlark converter registry.
type Converters = binding.Converters[starlark.Value]

// NewConverters returns a registry preloaded with the built-in converters for
// scalar tags and vector<...> tags.
func NewConverters() *Converters {
	return binding.NewConverters(builtins())
}

func builtins() map[apis.TypeTag]Converter {
	var (
		intConv    = binding.Integer[int](toInt, fromInt)
		doubleConv = binding.Float[float64](toFloat, fromFloat)
		floatConv  = binding.Float[float32](toFloat, fromFloat)
		stringConv = binding.Scalar[string](toString, fromString)
		boolConv   = binding.Scalar[bool](toBool, fromBool)
	)
	return map[apis.TypeTag]Converter{
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
	}
}

func mismatch(want string, got starlark.Value) error {
	return errors.Wrapf(apis.ErrTypeMismatch, "want %s, got %s", want, got.Type())
}

func toInt(i int64) starlark.Value { return starlark.MakeInt64(i) }

func fromInt(v starlark.Value) (int64, error) {
	i, ok := v.(starlark.Int)
	if !ok {
		return 0, mismatch("int", v)
	}
	n, ok := i.Int64()
	if !ok {
		return 0, errors.Wrapf(binding.ErrOutOfRange, "%s does not fit int64", i)
	}
	return n, nil
}

func toFloat(f float64) starlark.Value { return starlark.Float(f) }

// fromFloat accepts ints as well as floats.
func fromFloat(v starlark.Value) (float64, error) {
	f, ok := starlark.AsFloat(v)
	if !ok {
		return 0, mismatch("float", v)
	}
	return f, nil
}

func toString(s string) starlark.Value { return starlark.String(s) }

func fromString(v starlark.Value) (string, error) {
	s, ok := starlark.AsString(v)
	if !ok {
		return "", mismatch("string", v)
	}
	return s, nil
}

func toBool(b bool) starlark.Value { return starlark.Bool(b) }

func fromBool(v starlark.Value) (bool, error) {
	b, ok := v.(starlark.Bool)
	if !ok {
		return false, mismatch("bool", v)
	}
	return bool(b), nil
}

func toList(xs []starlark.Value) starlark.Value { return starlark.NewList(xs) }

// fromList accepts lists and tuples.
func fromList(v starlark.Value) ([]starlark.Value, error) {
	seq, ok := v.(starlark.Indexable)
	if _, str := v.(starlark.String); !ok || str {
		return nil, mismatch("list", v)
	}
	out := make([]starlark.Value, seq.Len())
	for i := range out {
		out[i] = seq.Index(i)
	}
	return out, nil
}
