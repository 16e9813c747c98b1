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

package binding

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"

	"dirpx.dev/introspect/value"
)

// ErrOutOfRange is returned when an integer does not fit the target type.
var ErrOutOfRange = errors.New("binding: integer out of range")

// Integer builds a converter for the Go integer type T through the
// runtime's 64-bit integer representation.
func Integer[T constraints.Integer, S any](to func(int64) S, from func(S) (int64, error)) Converter[S] {
	return Converter[S]{
		ToScript: func(v value.Value) (S, error) {
			x, err := value.As[T](v)
			if err != nil {
				var zero S
				return zero, err
			}
			i := int64(x)
			if T(i) != x || (i < 0) != (x < 0) {
				var zero S
				return zero, errors.Wrapf(ErrOutOfRange, "%v does not fit int64", x)
			}
			return to(i), nil
		},
		FromScript: func(s S) (value.Value, error) {
			i, err := from(s)
			if err != nil {
				return value.Value{}, err
			}
			x := T(i)
			if int64(x) != i || (x < 0) != (i < 0) {
				return value.Value{}, errors.Wrapf(ErrOutOfRange, "%d does not fit %T", i, x)
			}
			return value.Of(x), nil
		},
	}
}

// Float builds a converter for the Go floating type T through the
// runtime's 64-bit float representation.
func Float[T constraints.Float, S any](to func(float64) S, from func(S) (float64, error)) Converter[S] {
	return Converter[S]{
		ToScript: func(v value.Value) (S, error) {
			x, err := value.As[T](v)
			if err != nil {
				var zero S
				return zero, err
			}
			return to(float64(x)), nil
		},
		FromScript: func(s S) (value.Value, error) {
			f, err := from(s)
			if err != nil {
				return value.Value{}, err
			}
			return value.Of(T(f)), nil
		},
	}
}

// Scalar builds a converter for a type the runtime represents directly.
func Scalar[T, S any](to func(T) S, from func(S) (T, error)) Converter[S] {
	return Converter[S]{
		ToScript: func(v value.Value) (S, error) {
			x, err := value.As[T](v)
			if err != nil {
				var zero S
				return zero, err
			}
			return to(x), nil
		},
		FromScript: func(s S) (value.Value, error) {
			x, err := from(s)
			if err != nil {
				return value.Value{}, err
			}
			return value.Of(x), nil
		},
	}
}

// Vector builds a converter for []T from the element converter and the
// runtime's list representation.
func Vector[T, S any](elem Converter[S], toList func([]S) S, fromList func(S) ([]S, error)) Converter[S] {
	return Converter[S]{
		ToScript: func(v value.Value) (S, error) {
			var zero S
			xs, err := value.As[[]T](v)
			if err != nil {
				return zero, err
			}
			out := make([]S, len(xs))
			for i, x := range xs {
				if out[i], err = elem.ToScript(value.Of(x)); err != nil {
					return zero, errors.Wrapf(err, "element %d", i)
				}
			}
			return toList(out), nil
		},
		FromScript: func(s S) (value.Value, error) {
			items, err := fromList(s)
			if err != nil {
				return value.Value{}, err
			}
			out := make([]T, len(items))
			for i, item := range items {
				ev, err := elem.FromScript(item)
				if err != nil {
					return value.Value{}, errors.Wrapf(err, "element %d", i)
				}
				if out[i], err = value.As[T](ev); err != nil {
					return value.Value{}, errors.Wrapf(err, "element %d", i)
				}
			}
			return value.Of(out), nil
		},
	}
}
