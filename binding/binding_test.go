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

package binding_test

import (
	"math"
	"strconv"
	"sync"
	"testing"

	"github.com/kylelemons/godebug/pretty"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"dirpx.dev/introspect/apis"
	"dirpx.dev/introspect/binding"
	"dirpx.dev/introspect/catalogue"
	"dirpx.dev/introspect/internal/fixtures"
	"dirpx.dev/introspect/value"
)

// The tests use strings as the "runtime" value representation.

func intFrom(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) }
func intTo(i int64) string { return strconv.FormatInt(i, 10) }

func builtins() map[apis.TypeTag]binding.Converter[string] {
	return map[apis.TypeTag]binding.Converter[string]{
		apis.TagInt:   binding.Integer[int](intTo, intFrom),
		apis.TagUint8: binding.Integer[uint8](intTo, intFrom),
		apis.TagDouble: binding.Float[float64](
			func(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) },
			func(s string) (float64, error) { return strconv.ParseFloat(s, 64) },
		),
		apis.TagString: binding.Scalar[string](
			func(s string) string { return s },
			func(s string) (string, error) { return s, nil },
		),
	}
}

func TestConverters_Builtin(t *testing.T) {
	c := binding.NewConverters(builtins())

	s, err := c.ToScript(apis.TagInt, value.Of(42))
	require.NoError(t, err)
	assert.Equal(t, "42", s)

	v, err := c.FromScript(apis.TagDouble, "1.5")
	require.NoError(t, err)
	assert.Equal(t, 1.5, value.MustAs[float64](v))

	_, err = c.ToScript(apis.TagInt, value.Of(int64(42)))
	require.ErrorIs(t, err, apis.ErrTypeMismatch)
}

func TestConverters_Unsupported(t *testing.T) {
	c := binding.NewConverters(builtins())

	_, err := c.ToScript("vector<Person>", value.Of(1))
	var ut *apis.UnsupportedTypeError
	require.ErrorAs(t, err, &ut)
	assert.Equal(t, apis.TypeTag("vector<Person>"), ut.Tag)

	_, err = c.FromScript("go:main.thing", "x")
	require.ErrorIs(t, err, apis.ErrUnsupportedType)
}

func TestConverters_CustomShadowsBuiltin(t *testing.T) {
	c := binding.NewConverters(builtins())

	require.NoError(t, c.Register(apis.TagInt, binding.Converter[string]{
		ToScript: func(v value.Value) (string, error) { return "custom", nil },
	}))

	s, err := c.ToScript(apis.TagInt, value.Of(1))
	require.NoError(t, err)
	assert.Equal(t, "custom", s)

	// The custom converter has no FromScript direction.
	_, err = c.FromScript(apis.TagInt, "1")
	require.ErrorIs(t, err, apis.ErrUnsupportedType)

	require.ErrorIs(t, c.Register("", binding.Converter[string]{}), binding.ErrEmptyTag)
	require.ErrorIs(t, c.Register("x", binding.Converter[string]{}), binding.ErrNoConversion)
}

func TestConverters_Tags(t *testing.T) {
	c := binding.NewConverters(builtins())
	require.NoError(t, c.Register("point", binding.Converter[string]{
		ToScript: func(value.Value) (string, error) { return "", nil },
	}))
	require.NoError(t, c.Register(apis.TagInt, binding.Converter[string]{
		ToScript: func(value.Value) (string, error) { return "", nil },
	}))

	want := []apis.TypeTag{"double", "int", "point", "string", "uint8"}
	if diff := pretty.Compare(c.Tags(), want); diff != "" {
		t.Errorf("Tags() diff (-got +want):\n%s", diff)
	}
}

func TestConverters_ConcurrentRegisterAndLookup(t *testing.T) {
	c := binding.NewConverters(builtins())
	toScript := func(value.Value) (string, error) { return "", nil }

	var g errgroup.Group
	for i := 0; i < 16; i++ {
		g.Go(func() error {
			return c.Register(apis.TypeTag("t"+strconv.Itoa(i)), binding.Converter[string]{ToScript: toScript})
		})
		g.Go(func() error {
			_, err := c.Lookup(apis.TagInt)
			return err
		})
	}
	require.NoError(t, g.Wait())
	assert.Len(t, c.Tags(), 4+16)
}

func TestInteger_Range(t *testing.T) {
	u8 := binding.Integer[uint8](intTo, intFrom)

	v, err := u8.FromScript("255")
	require.NoError(t, err)
	assert.Equal(t, uint8(255), value.MustAs[uint8](v))

	for _, in := range []string{"256", "-1"} {
		_, err = u8.FromScript(in)
		require.ErrorIs(t, err, binding.ErrOutOfRange, in)
	}

	u64 := binding.Integer[uint64](intTo, intFrom)
	_, err = u64.ToScript(value.Of(uint64(math.MaxUint64)))
	require.ErrorIs(t, err, binding.ErrOutOfRange)

	_, err = u8.FromScript("nope")
	require.Error(t, err)
}

func TestVector(t *testing.T) {
	split := func(s string) ([]string, error) {
		if s == "" {
			return nil, nil
		}
		var out []string
		start := 0
		for i := 0; i < len(s); i++ {
			if s[i] == ',' {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
		return append(out, s[start:]), nil
	}
	join := func(xs []string) string {
		out := ""
		for i, x := range xs {
			if i > 0 {
				out += ","
			}
			out += x
		}
		return out
	}
	ints := binding.Vector[int](binding.Integer[int](intTo, intFrom), join, split)

	s, err := ints.ToScript(value.Of([]int{1, 2, 3}))
	require.NoError(t, err)
	assert.Equal(t, "1,2,3", s)

	v, err := ints.FromScript("4,5")
	require.NoError(t, err)
	assert.Equal(t, []int{4, 5}, value.MustAs[[]int](v))

	_, err = ints.FromScript("4,x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "element 1")
}

type counter struct {
	age   int
	count int
}

func TestAccessorHeuristic_GetAge(t *testing.T) {
	withAge := catalogue.Define(func(r *catalogue.Registrar[counter]) {
		catalogue.Field(r, "age", func(c *counter) *int { return &c.age })
		catalogue.Func0(r, "getAge", func(c *counter) int { return c.age })
		catalogue.Proc0(r, "reset", func(c *counter) { c.count = 0 })
	})
	assert.True(t, binding.IsAccessor("getAge", withAge))
	assert.Equal(t, []string{"reset"}, binding.ExposedMethods(withAge))

	withoutAge := catalogue.Define(func(r *catalogue.Registrar[struct{ n int }]) {
		catalogue.Func0(r, "getAge", func(*struct{ n int }) int { return 0 })
	})
	assert.False(t, binding.IsAccessor("getAge", withoutAge))
	assert.Equal(t, []string{"getAge"}, binding.ExposedMethods(withoutAge))
}

func TestAccessorHeuristic_Fixtures(t *testing.T) {
	person := catalogue.Of[fixtures.Person]()

	member, ok := binding.AccessorMember("getIsActive", person)
	require.True(t, ok)
	assert.Equal(t, "isActive", member)

	for _, m := range []string{"getName", "setName", "setHeight", "setIsActive"} {
		assert.True(t, binding.IsAccessor(m, person), m)
	}
	want := []string{"celebrateBirthday", "getDescription", "introduce", "setNameAgeAndHeight", "setNameAndAge"}
	if diff := pretty.Compare(binding.ExposedMethods(person), want); diff != "" {
		t.Errorf("ExposedMethods(Person) diff (-got +want):\n%s", diff)
	}

	vehicle := catalogue.Of[fixtures.Vehicle]()
	want = []string{"drive", "getInfo", "start", "stop"}
	if diff := pretty.Compare(binding.ExposedMethods(vehicle), want); diff != "" {
		t.Errorf("ExposedMethods(Vehicle) diff (-got +want):\n%s", diff)
	}
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Name", binding.Capitalize("name"))
	assert.Equal(t, "IsActive", binding.Capitalize("isActive"))
	assert.Equal(t, "", binding.Capitalize(""))
	assert.Equal(t, "Éclair", binding.Capitalize("éclair"))
}

func TestClassSet(t *testing.T) {
	var s binding.ClassSet

	require.NoError(t, s.Add("Person"))
	err := s.Add("Person")
	require.ErrorIs(t, err, apis.ErrDuplicateRegistration)

	var dup *apis.DuplicateRegistrationError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "Person", dup.Name)

	require.NoError(t, s.Add("Vehicle"))
	assert.True(t, s.Has("Vehicle"))
	assert.Equal(t, []string{"Person", "Vehicle"}, s.Names())
}

func TestClassSet_Concurrent(t *testing.T) {
	var (
		s    binding.ClassSet
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.Add("Person") == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}
