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
	"slices"
	"sync"

	"dirpx.dev/introspect/apis"
)

// ClassSet tracks the class names a generator has exposed.
type ClassSet struct {
	mu    sync.Mutex
	names map[string]struct{}
}

// Add claims name. It fails with *apis.DuplicateRegistrationError when the
// name was already claimed.
func (s *ClassSet) Add(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.names == nil {
		s.names = make(map[string]struct{})
	}
	if _, ok := s.names[name]; ok {
		return &apis.DuplicateRegistrationError{Name: name}
	}
	s.names[name] = struct{}{}
	return nil
}

// Has reports whether name was claimed.
func (s *ClassSet) Has(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.names[name]
	return ok
}

// Names returns the claimed names, sorted.
func (s *ClassSet) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.names))
	for n := range s.names {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}
