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
	"strconv"
	"sync"

	"dirpx.dev/introspect/apis"
)

// NewReflectStrategy creates the fallback apis.Strategy that derives a
// non-portable tag from the Go type itself, with memoization.
func NewReflectStrategy() apis.Strategy {
	return reflectStrategy{}
}

// reflectStrategy is the degraded mode for types nothing else knows about.
// Named types become "go:<pkgpath>.<Name>". Unnamed composites spell out
// their element types the same way, so "go:[]<pkgpath>.<Name>". Cross-boundary conversion of such tags fails unless a
// custom converter is registered for them.
type reflectStrategy struct{}

// Ensure reflectStrategy implements apis.Strategy.
var _ apis.Strategy = (*reflectStrategy)(nil)

// fallbackCache caches computed fallback tags by type.
var fallbackCache sync.Map // key: reflect.Type, val: apis.TypeTag

// TryResolveType computes the fallback tag for t, or declines when
// cfg.IncludeFallback is off.
func (reflectStrategy) TryResolveType(t reflect.Type, cfg apis.Config) (apis.TypeTag, bool) {
	if t == nil {
		return "", false
	}
	if !cfg.IncludeFallback {
		return "", true
	}
	return byType(t), true
}

// byType computes the fallback tag for t with memoization.
func byType(t reflect.Type) apis.TypeTag {
	if v, ok := fallbackCache.Load(t); ok {
		return v.(apis.TypeTag)
	}

	tag := apis.TypeTag(apis.FallbackPrefix + qualifiedName(t))

	fallbackCache.Store(t, tag)
	return tag
}

// qualifiedName writes t like reflect.Type.String but with full import paths
// for named types, so []a/model.User and []b/model.User stay apart.
func qualifiedName(t reflect.Type) string {
	if n := t.Name(); n != "" {
		if p := t.PkgPath(); p != "" {
			return p + "." + n
		}
		return n
	}
	switch t.Kind() {
	case reflect.Pointer:
		return "*" + qualifiedName(t.Elem())
	case reflect.Slice:
		return "[]" + qualifiedName(t.Elem())
	case reflect.Array:
		return "[" + strconv.Itoa(t.Len()) + "]" + qualifiedName(t.Elem())
	case reflect.Map:
		return "map[" + qualifiedName(t.Key()) + "]" + qualifiedName(t.Elem())
	case reflect.Chan:
		elem := qualifiedName(t.Elem())
		switch t.ChanDir() {
		case reflect.RecvDir:
			return "<-chan " + elem
		case reflect.SendDir:
			return "chan<- " + elem
		}
		if e := t.Elem(); e.Name() == "" && e.Kind() == reflect.Chan && e.ChanDir() == reflect.RecvDir {
			elem = "(" + elem + ")"
		}
		return "chan " + elem
	default:
		// TODO: func, struct and interface literals still use the short
		// package names of their parts.
		return t.String()
	}
}
