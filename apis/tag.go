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

import (
	"reflect"
	"strings"
)

// TypeTag is the canonical string key identifying a concrete type for
// dispatch and conversion. Types with different marshalling behavior map
// to different tags; tags are stable for the process lifetime.
type TypeTag string

// Built-in tags.
const (
	TagVoid    TypeTag = "void"
	TagBool    TypeTag = "bool"
	TagString  TypeTag = "string"
	TagInt     TypeTag = "int"
	TagInt8    TypeTag = "int8"
	TagInt16   TypeTag = "int16"
	TagInt32   TypeTag = "int32"
	TagInt64   TypeTag = "int64"
	TagUint    TypeTag = "uint"
	TagUint8   TypeTag = "uint8"
	TagUint16  TypeTag = "uint16"
	TagUint32  TypeTag = "uint32"
	TagUint64  TypeTag = "uint64"
	TagUintptr TypeTag = "uintptr"
	TagFloat   TypeTag = "float"
	TagDouble  TypeTag = "double"

	TagIntVector    TypeTag = "vector<int>"
	TagDoubleVector TypeTag = "vector<double>"
	TagFloatVector  TypeTag = "vector<float>"
	TagStringVector TypeTag = "vector<string>"
	TagBoolVector   TypeTag = "vector<bool>"
)

// FallbackPrefix marks tags produced by the degraded fallback strategy.
// Such tags are derived from Go type strings and are not portable.
const FallbackPrefix = "go:"

// Tagger lets a type choose its own tag. The method must be callable on the
// zero value of the type and return a constant.
type Tagger interface {
	TypeTag() TypeTag
}

// IsPrimitive reports whether tag names a scalar category
// (boolean, integral, floating or string).
func (tag TypeTag) IsPrimitive() bool {
	switch tag {
	case TagBool, TagString,
		TagInt, TagInt8, TagInt16, TagInt32, TagInt64,
		TagUint, TagUint8, TagUint16, TagUint32, TagUint64, TagUintptr,
		TagFloat, TagDouble:
		return true
	}
	return false
}

// builtinTags maps the predeclared scalar types and the closed set of
// container categories to their tags.
var builtinTags = map[reflect.Type]TypeTag{
	reflect.TypeFor[bool]():    TagBool,
	reflect.TypeFor[string]():  TagString,
	reflect.TypeFor[int]():     TagInt,
	reflect.TypeFor[int8]():    TagInt8,
	reflect.TypeFor[int16]():   TagInt16,
	reflect.TypeFor[int32]():   TagInt32,
	reflect.TypeFor[int64]():   TagInt64,
	reflect.TypeFor[uint]():    TagUint,
	reflect.TypeFor[uint8]():   TagUint8,
	reflect.TypeFor[uint16]():  TagUint16,
	reflect.TypeFor[uint32]():  TagUint32,
	reflect.TypeFor[uint64]():  TagUint64,
	reflect.TypeFor[uintptr](): TagUintptr,
	reflect.TypeFor[float32](): TagFloat,
	reflect.TypeFor[float64](): TagDouble,

	reflect.TypeFor[[]int]():     TagIntVector,
	reflect.TypeFor[[]float64](): TagDoubleVector,
	reflect.TypeFor[[]float32](): TagFloatVector,
	reflect.TypeFor[[]string]():  TagStringVector,
	reflect.TypeFor[[]bool]():    TagBoolVector,
}

// BuiltinTag returns the built-in tag of t. Only exact types match: a named
// type such as `type Age int` is not built in.
func BuiltinTag(t reflect.Type) (TypeTag, bool) {
	tag, ok := builtinTags[t]
	return tag, ok
}

// IsReserved reports whether tag belongs to the resolver itself: void, a
// built-in tag, a fallback tag or a pointer tag.
func (tag TypeTag) IsReserved() bool {
	if tag == TagVoid || tag.IsFallback() || strings.HasSuffix(string(tag), "*") {
		return true
	}
	for _, b := range builtinTags {
		if b == tag {
			return true
		}
	}
	return false
}

// IsFallback reports whether tag came from the degraded fallback strategy.
func (tag TypeTag) IsFallback() bool {
	return strings.HasPrefix(string(tag), FallbackPrefix)
}

// String implements fmt.Stringer.
func (tag TypeTag) String() string { return string(tag) }
