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

// NewTaggerStrategy creates an apis.Strategy that uses apis.Tagger.
func NewTaggerStrategy() apis.Strategy {
	return &taggerStrategy{}
}

// taggerStrategy is the fast path: if the type implements apis.Tagger,
// return its TypeTag() and stop the chain.
type taggerStrategy struct{}

// Ensure taggerStrategy implements apis.Strategy.
var _ apis.Strategy = (*taggerStrategy)(nil)

var taggerType = reflect.TypeFor[apis.Tagger]()

// TryResolveType checks whether t (or *t) implements apis.Tagger and asks a
// fresh zero value for its tag. An empty tag falls through.
func (*taggerStrategy) TryResolveType(t reflect.Type, _ apis.Config) (apis.TypeTag, bool) {
	if t == nil || t.Kind() == reflect.Interface {
		return "", false
	}

	var tagger apis.Tagger
	switch {
	case t.Implements(taggerType):
		tagger = reflect.Zero(t).Interface().(apis.Tagger)
	case reflect.PointerTo(t).Implements(taggerType):
		tagger = reflect.New(t).Interface().(apis.Tagger)
	default:
		return "", false
	}

	if tag := tagger.TypeTag(); tag != "" {
		return tag, true
	}
	return "", false
}
