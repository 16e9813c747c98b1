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

package catalogue_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/kylelemons/godebug/pretty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/introspect/apis"
	"dirpx.dev/introspect/catalogue"
	"dirpx.dev/introspect/internal/fixtures"
	"dirpx.dev/introspect/value"
)

func vals(vs ...value.Value) []value.Value { return vs }

func TestPoint_MoveScenario(t *testing.T) {
	cat := catalogue.Of[fixtures.Point]()
	p := &fixtures.Point{X: 1, Y: 2}

	x, err := cat.Member("x")
	require.NoError(t, err)
	got, err := x.Get(p)
	require.NoError(t, err)
	assert.Equal(t, 1, value.MustAs[int](got))

	move, err := cat.Method("move")
	require.NoError(t, err)

	res, err := move.Invoke(p, vals(value.Of(3), value.Of(4)))
	require.NoError(t, err)
	assert.True(t, res.IsEmpty())
	assert.Equal(t, fixtures.Point{X: 4, Y: 6}, *p)

	_, err = move.Invoke(p, vals(value.Of(3)))
	var am *apis.ArityMismatchError
	require.ErrorAs(t, err, &am)
	assert.Equal(t, &apis.ArityMismatchError{Method: "move", Want: 2, Got: 1}, am)
	assert.Equal(t, fixtures.Point{X: 4, Y: 6}, *p)
}

func TestBox_SetWrongTypeLeavesMemberUnchanged(t *testing.T) {
	cat := catalogue.Of[fixtures.Box]()
	b := &fixtures.Box{Label: "books"}

	label, err := cat.Member("label")
	require.NoError(t, err)

	err = label.Set(b, value.Of(42))
	require.ErrorIs(t, err, apis.ErrTypeMismatch)

	got, err := label.Get(b)
	require.NoError(t, err)
	assert.Equal(t, "books", value.MustAs[string](got))

	require.NoError(t, label.Set(b, value.Of("toys")))
	assert.Equal(t, "toys", b.Label)
}

func TestMember_RoundTrip(t *testing.T) {
	p := fixtures.NewPerson("Alice", 30, 1.65)
	cat := catalogue.Of[fixtures.Person]()

	inputs := map[string]value.Value{
		"name":     value.Of("Bob"),
		"age":      value.Of(25),
		"height":   value.Of(1.8),
		"isActive": value.Of(false),
	}
	for name, in := range inputs {
		m, err := cat.Member(name)
		require.NoError(t, err)
		require.NoError(t, m.Set(p, in), name)

		out, err := m.Get(p)
		require.NoError(t, err)
		assert.Equal(t, in.Interface(), out.Interface(), name)
		assert.Equal(t, in.Type(), out.Type(), name)
	}
}

func TestMember_Tags(t *testing.T) {
	cat := catalogue.Of[fixtures.Box]()
	tags := map[string]apis.TypeTag{}
	for _, m := range cat.Members() {
		tags[m.Name] = m.Type
	}
	assert.Equal(t, apis.TagString, tags["label"])
	assert.Equal(t, apis.TagStringVector, tags["tags"])
	assert.True(t, tags["owner"].IsFallback())
	assert.Equal(t, apis.TypeTag("*"), tags["owner"][len(tags["owner"])-1:])
}

func TestMethod_ArityAlwaysChecked(t *testing.T) {
	for _, cat := range fixtures.Catalogues() {
		for _, m := range cat.Methods() {
			recv := reflect.New(cat.GoType())
			before := reflect.Indirect(recv).Interface()

			wrong := []int{m.Arity() + 1}
			if m.Arity() > 0 {
				wrong = append(wrong, m.Arity()-1, 0)
			}
			for _, n := range wrong {
				args := make([]value.Value, n)
				for i := range args {
					args[i] = value.Of(struct{}{})
				}
				_, err := m.Invoke(recv.Interface(), args)
				require.ErrorIs(t, err, apis.ErrArityMismatch, "%s.%s with %d args", cat.ClassName(), m.Name, n)
			}
			assert.Equal(t, before, reflect.Indirect(recv).Interface(), "%s.%s ran on a rejected call", cat.ClassName(), m.Name)
		}
	}
}

func TestMethod_TypeMismatchReportsIndexWithoutSideEffects(t *testing.T) {
	cat := catalogue.Of[fixtures.Person]()
	p := fixtures.NewPerson("Alice", 30, 1.65)
	before := *p

	m, err := cat.Method("setNameAgeAndHeight")
	require.NoError(t, err)

	cases := []struct {
		args  []value.Value
		index int
	}{
		{vals(value.Of(1), value.Of(22), value.Of(1.74)), 0},
		{vals(value.Of("Toto"), value.Of("22"), value.Of(1.74)), 1},
		{vals(value.Of("Toto"), value.Of(22), value.Of(float32(1.74))), 2},
		{vals(value.Of("Toto"), value.Of(int64(22)), value.Of(1)), 1},
	}
	for _, tc := range cases {
		_, err := m.Invoke(p, tc.args)
		var tm *apis.TypeMismatchError
		require.ErrorAs(t, err, &tm)
		assert.Equal(t, tc.index, tm.Index)
		assert.Equal(t, before, *p)
	}

	_, err = m.Invoke(p, vals(value.Of("Toto"), value.Of(22), value.Of(1.74)))
	require.NoError(t, err)
	assert.Equal(t, "Toto", p.GetName())
	assert.Equal(t, 22, p.GetAge())
	assert.InDelta(t, 1.74, p.GetHeight(), 1e-9)
}

func TestMethod_ConstDoesNotMutate(t *testing.T) {
	cat := catalogue.Of[fixtures.Point]()
	p := &fixtures.Point{X: 2, Y: 3}

	m, err := cat.Method("scaled")
	require.NoError(t, err)
	assert.True(t, m.Const)

	res, err := m.Invoke(p, vals(value.Of(10)))
	require.NoError(t, err)
	assert.Equal(t, fixtures.Point{X: 20, Y: 30}, value.MustAs[fixtures.Point](res))
	assert.Equal(t, fixtures.Point{X: 2, Y: 3}, *p)
}

func TestMethod_ErrorResult(t *testing.T) {
	cat := catalogue.Of[fixtures.Vehicle]()
	v := fixtures.NewVehicle("Toyota", "Corolla", 2020)

	drive, err := cat.Method("drive")
	require.NoError(t, err)
	assert.Equal(t, apis.TagVoid, drive.ReturnType)

	_, err = drive.Invoke(v, vals(value.Of(10.0)))
	var ce *apis.CallError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "drive", ce.Method)
	assert.True(t, errors.Is(err, fixtures.ErrNotRunning))

	v.Start()
	res, err := drive.Invoke(v, vals(value.Of(10.0)))
	require.NoError(t, err)
	assert.True(t, res.IsEmpty())
	assert.InDelta(t, 10.0, v.GetMileage(), 1e-9)
}

func TestMethod_WrongReceiver(t *testing.T) {
	m, err := catalogue.Of[fixtures.Point]().Method("move")
	require.NoError(t, err)

	for _, recv := range []any{fixtures.Point{}, &fixtures.Box{}, (*fixtures.Point)(nil), nil} {
		_, err := m.Invoke(recv, vals(value.Of(1), value.Of(1)))
		require.ErrorIs(t, err, apis.ErrTypeMismatch, "%T", recv)
	}
}

func TestMethod_Signature(t *testing.T) {
	cat := catalogue.Of[fixtures.Person]()

	want := map[string]string{
		"getName":             "string getName()",
		"setNameAgeAndHeight": "void setNameAgeAndHeight(string, int, double)",
		"introduce":           "void introduce() const",
		"getDescription":      "string getDescription() const",
	}
	for name, sig := range want {
		m, err := cat.Method(name)
		require.NoError(t, err)
		assert.Equal(t, sig, m.Signature())
	}
}

func TestCatalogue_Names(t *testing.T) {
	cat := catalogue.Of[fixtures.Person]()

	assert.Equal(t, "Person", cat.ClassName())
	assert.Equal(t, reflect.TypeFor[fixtures.Person](), cat.GoType())

	if diff := pretty.Compare(cat.MemberNames(), []string{"age", "height", "isActive", "name"}); diff != "" {
		t.Errorf("MemberNames() diff (-got +want):\n%s", diff)
	}
	wantMethods := []string{
		"celebrateBirthday", "getAge", "getDescription", "getHeight", "getIsActive",
		"getName", "introduce", "setAge", "setHeight", "setIsActive", "setName",
		"setNameAgeAndHeight", "setNameAndAge",
	}
	if diff := pretty.Compare(cat.MethodNames(), wantMethods); diff != "" {
		t.Errorf("MethodNames() diff (-got +want):\n%s", diff)
	}

	assert.True(t, cat.HasMember("name"))
	assert.False(t, cat.HasMember("weight"))
	assert.True(t, cat.HasMethod("introduce"))
	assert.False(t, cat.HasMethod("fly"))

	_, err := cat.Member("weight")
	var nf *apis.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, &apis.NotFoundError{Class: "Person", Kind: apis.KindMember, Name: "weight"}, nf)

	_, err = cat.Method("fly")
	require.ErrorIs(t, err, apis.ErrNotFound)
}

type account struct {
	balance int
}

func TestDefine_DuplicateNamesLastWins(t *testing.T) {
	cat := catalogue.Define(func(r *catalogue.Registrar[account]) {
		r.Named("Account")
		catalogue.Field(r, "balance", func(a *account) *int { return &a.balance })
		catalogue.Func0(r, "value", func(a *account) int { return a.balance })
		catalogue.Func0(r, "value", func(a *account) string { return "overwritten" })
	})

	assert.Equal(t, "Account", cat.ClassName())
	if diff := pretty.Compare(cat.MethodNames(), []string{"value"}); diff != "" {
		t.Errorf("MethodNames() diff (-got +want):\n%s", diff)
	}

	m, err := cat.Method("value")
	require.NoError(t, err)
	assert.Equal(t, apis.TagString, m.ReturnType)

	res, err := m.Invoke(&account{balance: 5}, nil)
	require.NoError(t, err)
	assert.Equal(t, "overwritten", value.MustAs[string](res))

	// A second definition of the same type is ignored.
	again := catalogue.Define(func(r *catalogue.Registrar[account]) { r.Named("Other") })
	assert.Same(t, cat, again)

	found, ok := catalogue.Lookup("Account")
	require.True(t, ok)
	assert.Same(t, cat, found)
}

type bad struct{}

func TestMethod_InvalidSignaturePanics(t *testing.T) {
	cases := map[string]any{
		"not a function":    42,
		"nil function":      (func(*bad))(nil),
		"no receiver":       func() {},
		"wrong receiver":    func(*account) {},
		"variadic":          func(*bad, ...int) {},
		"second not error":  func(*bad) (int, int) { return 0, 0 },
		"too many results":  func(*bad) (int, int, error) { return 0, 0, nil },
	}
	for name, fn := range cases {
		t.Run(name, func(t *testing.T) {
			defer func() {
				r := recover()
				require.NotNil(t, r)
				err, ok := r.(error)
				require.True(t, ok)
				require.ErrorIs(t, err, apis.ErrInvalidSignature)
			}()
			catalogue.Define(func(r *catalogue.Registrar[bad]) {
				r.Method("m", fn)
			})
		})
	}
}

type panicky struct{}

func TestDefine_PanicRetries(t *testing.T) {
	describe := func(r *catalogue.Registrar[panicky]) {
		r.Method("broken", 1)
	}
	for i := 0; i < 2; i++ {
		assert.Panics(t, func() { catalogue.Define(describe) })
		assert.Equal(t, catalogue.Unregistered, catalogue.StateOf(reflect.TypeFor[panicky]()))
	}

	cat := catalogue.Define(func(r *catalogue.Registrar[panicky]) {})
	require.NotNil(t, cat)
	assert.Equal(t, catalogue.Registered, catalogue.StateOf(reflect.TypeFor[panicky]()))
}

func TestClasses(t *testing.T) {
	fixtures.Catalogues()

	names := map[string]bool{}
	for _, c := range catalogue.Classes() {
		names[c.ClassName()] = true
	}
	for _, want := range []string{"Person", "Vehicle", "Point", "Box"} {
		assert.True(t, names[want], want)
	}
}
