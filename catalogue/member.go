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

package catalogue

import (
	"reflect"

	"dirpx.dev/introspect/apis"
	"dirpx.dev/introspect/value"
)

// Member describes one data member of a class.
type Member struct {
	// Name is the registered member name.
	Name string
	// Type is the tag of the member's static type.
	Type apis.TypeTag
	// GoType is the member's static Go type.
	GoType reflect.Type

	get func(recv any) (value.Value, error)
	set func(recv any, v value.Value) error
}

// Get reads the member of recv, which must be a pointer to the owning class.
func (m *Member) Get(recv any) (value.Value, error) {
	return m.get(recv)
}

// Set assigns v to the member of recv. v must hold exactly the member's type;
// on mismatch the member is left unchanged.
func (m *Member) Set(recv any, v value.Value) error {
	return m.set(recv, v)
}

func newMember[C, M any](name string, acc func(*C) *M) *Member {
	t := reflect.TypeFor[M]()
	return &Member{
		Name:   name,
		Type:   tagOf(t),
		GoType: t,
		get: func(recv any) (value.Value, error) {
			c, err := receiver[C](recv)
			if err != nil {
				return value.Value{}, err
			}
			return value.Of(*acc(c)), nil
		},
		set: func(recv any, v value.Value) error {
			c, err := receiver[C](recv)
			if err != nil {
				return err
			}
			x, err := value.As[M](v)
			if err != nil {
				return err
			}
			*acc(c) = x
			return nil
		},
	}
}

// receiver asserts recv is a non-nil *C.
func receiver[C any](recv any) (*C, error) {
	c, ok := recv.(*C)
	if !ok || c == nil {
		return nil, apis.NewTypeMismatch(reflect.TypeFor[*C](), reflect.TypeOf(recv))
	}
	return c, nil
}
