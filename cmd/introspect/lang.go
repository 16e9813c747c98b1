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

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// language selects the script runtime. It implements flag.Value.
type language int

const (
	// starlark runs scripts with go.starlark.net.
	starlark language = iota
	// lua runs scripts with gopher-lua.
	lua
)

func (l language) String() string {
	switch l {
	case starlark:
		return "starlark"
	case lua:
		return "lua"
	default:
		return fmt.Sprintf("unknown(%d)", int(l))
	}
}

// Set parses s case-insensitively, ignoring surrounding whitespace.
func (l *language) Set(s string) error {
	v, err := parseLanguage(s)
	if err != nil {
		return err
	}
	*l = v
	return nil
}

func parseLanguage(s string) (language, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return starlark, errors.New("empty language")
	}
	switch strings.ToLower(trimmed) {
	case "starlark", "star":
		return starlark, nil
	case "lua":
		return lua, nil
	default:
		return starlark, errors.Errorf("unknown language %q", s)
	}
}
