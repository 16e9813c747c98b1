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

package reflect

import (
	"errors"
	"reflect"

	"dirpx.dev/introspect/apis"
	"dirpx.dev/introspect/config"
)

var (
	// ErrReflectNilType is returned when a nil reflect.Type is provided.
	ErrReflectNilType = errors.New("reflect: nil reflect.Type provided")
	// ErrReflectTooDeep indicates that the pointer chain is longer than
	// the configured MaxUnwrap.
	ErrReflectTooDeep = errors.New("reflect: pointer chain exceeds MaxUnwrap")
)

// ErrorType is the reflect.Type of the error interface.
var ErrorType = reflect.TypeFor[error]()

// Deref peels pointer levels off t according to cfg.MaxUnwrap and returns
// the innermost non-pointer type with the number of levels removed.
//
// Only pointers are unwrapped: slices, maps and arrays are distinct
// marshalling categories and keep their own tags.
//
// If MaxUnwrap <= 0, DefaultMaxUnwrap is used.
func Deref(t reflect.Type, cfg apis.Config) (reflect.Type, int, error) {
	if t == nil {
		return nil, 0, ErrReflectNilType
	}
	maxUnwrap := cfg.MaxUnwrap
	if maxUnwrap <= 0 {
		maxUnwrap = config.DefaultMaxUnwrap
	}

	depth := 0
	for t.Kind() == reflect.Pointer {
		if depth == maxUnwrap {
			return nil, 0, ErrReflectTooDeep
		}
		t = t.Elem()
		depth++
	}
	return t, depth, nil
}

// IsErrorType reports whether t is exactly the error interface.
func IsErrorType(t reflect.Type) bool {
	return t == ErrorType
}
