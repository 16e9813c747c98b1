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
	"strings"
	"unicode"
	"unicode/utf8"

	"dirpx.dev/introspect/catalogue"
)

var accessorPrefixes = []string{"get", "set", "is"}

// AccessorMember returns the member that method reads or writes by naming
// convention: get<X>, set<X> or is<X> where <X> names a member, ignoring
// the case of its first letter.
func AccessorMember(method string, cat *catalogue.Catalogue) (string, bool) {
	for _, p := range accessorPrefixes {
		suffix, ok := strings.CutPrefix(method, p)
		if !ok || suffix == "" {
			continue
		}
		for _, m := range cat.MemberNames() {
			if equalFoldFirst(m, suffix) {
				return m, true
			}
		}
	}
	return "", false
}

// IsAccessor reports whether method is the getter or setter of a member.
// Generators expose such members as properties instead of methods.
func IsAccessor(method string, cat *catalogue.Catalogue) bool {
	_, ok := AccessorMember(method, cat)
	return ok
}

// ExposedMethods returns the sorted method names that are not accessors.
func ExposedMethods(cat *catalogue.Catalogue) []string {
	var out []string
	for _, m := range cat.MethodNames() {
		if !IsAccessor(m, cat) {
			out = append(out, m)
		}
	}
	return out
}

// Capitalize upper-cases the first rune of s, as in getName for name.
func Capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}

// equalFoldFirst reports whether a and b are equal after folding the case
// of their first rune only.
func equalFoldFirst(a, b string) bool {
	ra, na := utf8.DecodeRuneInString(a)
	rb, nb := utf8.DecodeRuneInString(b)
	if na == 0 || nb == 0 {
		return false
	}
	return unicode.ToLower(ra) == unicode.ToLower(rb) && a[na:] == b[nb:]
}
