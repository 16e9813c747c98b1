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

package strategy

import (
	"reflect"

	"dirpx.dev/introspect/apis"
)

// NewBuiltinStrategy creates an apis.Strategy that maps the predeclared
// scalar types and the closed set of container categories to their tags.
func NewBuiltinStrategy() apis.Strategy {
	return builtinStrategy{}
}

// builtinStrategy matches exact types only: a named type such as
// `type Age int` is a different marshalling category than int and falls through.
type builtinStrategy struct{}

// Ensure builtinStrategy implements apis.Strategy.
var _ apis.Strategy = builtinStrategy{}

// TryResolveType looks t up in the built-in table.
func (builtinStrategy) TryResolveType(t reflect.Type, _ apis.Config) (apis.TypeTag, bool) {
	if t == nil {
		return "", false
	}
	return apis.BuiltinTag(t)
}
