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

// Package introspect exposes named members and methods of Go types to
// dynamically-typed callers such as scripting runtimes, debug tools and
// serializers.
//
// A class describes itself once:
//
//	func (*Person) Describe(r *catalogue.Registrar[Person]) {
//		catalogue.Field(r, "name", func(p *Person) *string { return &p.name })
//		catalogue.Proc1(r, "setName", (*Person).SetName)
//		r.Method("getDescription", Person.GetDescription)
//	}
//
// and every instance can then be inspected by name:
//
//	o := introspect.Of(person)
//	_ = o.Set("name", value.Of("Bob"))
//	desc, err := introspect.CallAs[string](o, "getDescription")
//
// # Layers
//
//   - value: Value is a type-erased holder. Extraction succeeds only at the
//     exact stored type; there is no numeric coercion.
//
//   - typetag: the process-wide snapshot that maps Go types to TypeTags,
//     the string keys used for dispatch and conversion across the scripting
//     boundary. Resolution tries, in order, a type's own TypeTag method, tags
//     registered at runtime, the built-in scalar and vector<...> table, and
//     finally a "go:"-prefixed tag derived from the Go type. The snapshot
//     (config, registry, resolver, builder) is read wait-free and swapped
//     atomically by writers; registry and resolver can be pinned.
//
//   - catalogue: per-class tables of Member and Method descriptors. Each
//     class is described exactly once, lazily, under a per-class sync.Once,
//     so concurrent first access is race-free. Method invocation checks the
//     argument count first, then each argument's exact type from left to
//     right, and runs the method only when every argument was accepted.
//
//   - introspect (this package): Object binds a receiver to its catalogue and
//     offers Get, Set, Call, enumeration, debug printing and best-effort JSON.
//
//   - binding: converter registries and the getter/setter heuristic shared
//     by the Starlark (binding/starlarkbind) and Lua (binding/luabind)
//     generators.
//
// # Errors
//
// Failures are typed and match sentinels in package apis through errors.Is:
// ErrNotFound, ErrTypeMismatch (with the argument index for calls),
// ErrArityMismatch, ErrUnsupportedType, ErrDuplicateRegistration and
// ErrInvalidSignature. The core never logs; the generators log through logrus.
//
// # Duplicates
//
// Registering a member or method name twice within one class keeps the last
// registration. Binding the same class name twice into one generator fails
// with ErrDuplicateRegistration.
package introspect
