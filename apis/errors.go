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
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound is returned when a member or method name is not registered.
	ErrNotFound = errors.New("introspect: not found")
	// ErrTypeMismatch is returned when a dynamic value holds a different type than requested.
	ErrTypeMismatch = errors.New("introspect: type mismatch")
	// ErrArityMismatch is returned when an argument list length differs from the parameter count.
	ErrArityMismatch = errors.New("introspect: arity mismatch")
	// ErrUnsupportedType is returned when no conversion path exists for a type tag.
	ErrUnsupportedType = errors.New("introspect: unsupported type")
	// ErrDuplicateRegistration is returned when a binding generator exposes the same class name twice.
	ErrDuplicateRegistration = errors.New("introspect: duplicate registration")
	// ErrInvalidSignature is raised when a function cannot be registered as a method.
	ErrInvalidSignature = errors.New("introspect: invalid method signature")
)

// Kind names the entry category in a NotFoundError.
type Kind string

const (
	KindMember Kind = "member"
	KindMethod Kind = "method"
	KindClass  Kind = "class"
)

// NotFoundError reports a lookup miss on a catalogue.
type NotFoundError struct {
	Class string
	Kind  Kind
	Name  string
}

func (e *NotFoundError) Error() string {
	if e.Class == "" {
		return fmt.Sprintf("%s '%s' not found", e.Kind, e.Name)
	}
	return fmt.Sprintf("%s '%s' not found in class '%s'", e.Kind, e.Name, e.Class)
}

// Is matches ErrNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// TypeMismatchError reports a failed exact-type extraction.
// Index is the zero-based argument position, or -1 outside argument lists.
type TypeMismatchError struct {
	Want  reflect.Type
	Got   reflect.Type
	Index int
}

// NewTypeMismatch returns a TypeMismatchError that is not tied to an argument.
func NewTypeMismatch(want, got reflect.Type) *TypeMismatchError {
	return &TypeMismatchError{Want: want, Got: got, Index: -1}
}

func (e *TypeMismatchError) Error() string {
	got := "empty"
	if e.Got != nil {
		got = e.Got.String()
	}
	if e.Index >= 0 {
		return fmt.Sprintf("argument %d: want %s, got %s", e.Index, typeString(e.Want), got)
	}
	return fmt.Sprintf("want %s, got %s", typeString(e.Want), got)
}

// Is matches ErrTypeMismatch.
func (e *TypeMismatchError) Is(target error) bool { return target == ErrTypeMismatch }

// ArityMismatchError reports an argument count that differs from the registered one.
type ArityMismatchError struct {
	Method string
	Want   int
	Got    int
}

func (e *ArityMismatchError) Error() string {
	return fmt.Sprintf("incorrect number of arguments for method '%s': expected %d, got %d", e.Method, e.Want, e.Got)
}

// Is matches ErrArityMismatch.
func (e *ArityMismatchError) Is(target error) bool { return target == ErrArityMismatch }

// UnsupportedTypeError reports a tag with no conversion path.
type UnsupportedTypeError struct {
	Tag TypeTag
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported type conversion for '%s'", e.Tag)
}

// Is matches ErrUnsupportedType.
func (e *UnsupportedTypeError) Is(target error) bool { return target == ErrUnsupportedType }

// DuplicateRegistrationError reports an exposed class name bound twice.
type DuplicateRegistrationError struct {
	Name string
}

func (e *DuplicateRegistrationError) Error() string {
	return fmt.Sprintf("class '%s' already bound", e.Name)
}

// Is matches ErrDuplicateRegistration.
func (e *DuplicateRegistrationError) Is(target error) bool { return target == ErrDuplicateRegistration }

// CallError carries a non-nil error returned by an invoked method.
type CallError struct {
	Method string
	Err    error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("method '%s' failed: %v", e.Method, e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }

func typeString(t reflect.Type) string {
	if t == nil {
		return "empty"
	}
	return t.String()
}
