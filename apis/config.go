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

package apis

// Config carries read-only knobs that influence tag resolution and dumping.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// IncludeFallback controls whether types unknown to every other strategy
	// resolve to a "go:"-prefixed Go type string. If false, such cases yield "".
	IncludeFallback bool

	// MaxUnwrap limits pointer unwrapping depth ("int**").
	// Acts as a safety guard against pathological nesting.
	MaxUnwrap int

	// JSONOmitUnsupported drops members without a primitive tag from JSON
	// dumps instead of writing them as null.
	JSONOmitUnsupported bool
}
