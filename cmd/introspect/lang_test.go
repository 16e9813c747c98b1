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

package main

import "testing"

func TestLanguageString(t *testing.T) {
	tests := []struct {
		lang language
		want string
	}{
		{starlark, "starlark"},
		{lua, "lua"},
		{language(42), "unknown(42)"},
	}
	for _, tt := range tests {
		if got := tt.lang.String(); got != tt.want {
			t.Fatalf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		input string
		want  language
	}{
		{"starlark", starlark},
		{"Starlark", starlark},
		{"star", starlark},
		{"  lua ", lua},
		{"LUA", lua},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseLanguage(tt.input)
			if err != nil {
				t.Fatalf("parseLanguage(%q) returned error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Fatalf("parseLanguage(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseLanguageInvalid(t *testing.T) {
	for _, input := range []string{"", "   ", "python", "lua5.1"} {
		if _, err := parseLanguage(input); err == nil {
			t.Fatalf("parseLanguage(%q) returned nil error", input)
		}
	}
}
