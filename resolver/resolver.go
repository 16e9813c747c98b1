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

package resolver

import (
	"reflect"
	"strings"

	"dirpx.dev/introspect/apis"
	uref "dirpx.dev/introspect/utils/reflect"
)

// New constructs an apis.Resolver that tries the given strategies in order.
// Nil strategies are ignored. The returned resolver is safe for concurrent use
// provided strategies themselves are safe for concurrent TryResolveType calls.
func New(strategies ...apis.Strategy) apis.Resolver {
	// Filter out nils to avoid nil-interface panics on call sites.
	out := make([]apis.Strategy, 0, len(strategies))
	for _, s := range strategies {
		if s != nil {
			out = append(out, s)
		}
	}
	return chain{strats: out}
}

// chain is an immutable, order-preserving resolver over a set of strategies.
type chain struct {
	strats []apis.Strategy
}

// Resolve resolves the dynamic type of v. A nil interface has no tag.
func (r chain) Resolve(v any, cfg apis.Config) apis.TypeTag {
	if v == nil {
		return ""
	}
	return r.ResolveType(reflect.TypeOf(v), cfg)
}

// ResolveType peels pointers off t, runs strategies in order on the base
// type until one handles it, then appends one "*" per pointer level.
// Returns an empty tag if no strategy produced one.
func (r chain) ResolveType(t reflect.Type, cfg apis.Config) apis.TypeTag {
	base, depth, err := uref.Deref(t, cfg)
	if err != nil {
		return ""
	}
	for _, s := range r.strats {
		if tag, ok := s.TryResolveType(base, cfg); ok {
			if tag == "" || depth == 0 {
				return tag
			}
			return tag + apis.TypeTag(strings.Repeat("*", depth))
		}
	}
	return ""
}
