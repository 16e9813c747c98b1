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

// Package fixtures holds demo classes registered for introspection.
package fixtures

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"dirpx.dev/introspect/catalogue"
)

// Output receives everything the fixtures print.
var Output io.Writer = os.Stdout

// Person is the demo class used by the scripting examples.
type Person struct {
	name     string
	age      int
	height   float64
	isActive bool
}

// NewPerson returns a Person.
func NewPerson(name string, age int, height float64) *Person {
	return &Person{name: name, age: age, height: height, isActive: true}
}

func (p *Person) GetName() string { return p.name }
func (p *Person) SetName(n string) { p.name = n }
func (p *Person) GetAge() int { return p.age }
func (p *Person) SetAge(a int) { p.age = a }
func (p *Person) GetHeight() float64 { return p.height }
func (p *Person) SetHeight(h float64) { p.height = h }
func (p *Person) GetIsActive() bool { return p.isActive }
func (p *Person) SetIsActive(active bool) { p.isActive = active }

// SetNameAndAge sets both fields in one call.
func (p *Person) SetNameAndAge(n string, a int) {
	p.SetName(n)
	p.SetAge(a)
}

// SetNameAgeAndHeight sets three fields in one call.
func (p *Person) SetNameAgeAndHeight(n string, a int, h float64) {
	p.SetNameAndAge(n, a)
	p.SetHeight(h)
}

// Introduce prints a greeting.
func (p Person) Introduce() {
	fmt.Fprintf(Output, "Hi! I'm %s, %d years old, %gm tall.\n", p.name, p.age, p.height)
}

// CelebrateBirthday increments the age.
func (p *Person) CelebrateBirthday() {
	p.age++
	fmt.Fprintf(Output, "%s is now %d years old!\n", p.name, p.age)
}

// GetDescription summarises the person.
func (p Person) GetDescription() string {
	state := "inactive"
	if p.isActive {
		state = "active"
	}
	return fmt.Sprintf("%s (%d years, %fm, %s)", p.name, p.age, p.height, state)
}

// Describe registers Person.
func (*Person) Describe(r *catalogue.Registrar[Person]) {
	catalogue.Field(r, "name", func(p *Person) *string { return &p.name })
	catalogue.Field(r, "age", func(p *Person) *int { return &p.age })
	catalogue.Field(r, "height", func(p *Person) *float64 { return &p.height })
	catalogue.Field(r, "isActive", func(p *Person) *bool { return &p.isActive })

	catalogue.Func0(r, "getName", (*Person).GetName)
	catalogue.Proc1(r, "setName", (*Person).SetName)
	catalogue.Func0(r, "getAge", (*Person).GetAge)
	catalogue.Proc1(r, "setAge", (*Person).SetAge)
	catalogue.Func0(r, "getHeight", (*Person).GetHeight)
	catalogue.Proc1(r, "setHeight", (*Person).SetHeight)
	catalogue.Func0(r, "getIsActive", (*Person).GetIsActive)
	catalogue.Proc1(r, "setIsActive", (*Person).SetIsActive)
	catalogue.Proc2(r, "setNameAndAge", (*Person).SetNameAndAge)
	catalogue.Proc3(r, "setNameAgeAndHeight", (*Person).SetNameAgeAndHeight)

	r.Method("introduce", Person.Introduce).
		Method("celebrateBirthday", (*Person).CelebrateBirthday).
		Method("getDescription", Person.GetDescription)
}

// Catalogue implements introspect.Introspectable.
func (*Person) Catalogue() *catalogue.Catalogue { return catalogue.Of[Person]() }

// Vehicle is the second demo class.
type Vehicle struct {
	brand     string
	model     string
	year      int
	mileage   float64
	isRunning bool
}

// NewVehicle returns a stopped Vehicle with no mileage.
func NewVehicle(brand, model string, year int) *Vehicle {
	return &Vehicle{brand: brand, model: model, year: year}
}

func (v *Vehicle) GetBrand() string { return v.brand }
func (v *Vehicle) SetBrand(b string) { v.brand = b }
func (v *Vehicle) GetModel() string { return v.model }
func (v *Vehicle) SetModel(m string) { v.model = m }
func (v *Vehicle) GetYear() int { return v.year }
func (v *Vehicle) SetYear(y int) { v.year = y }
func (v *Vehicle) GetMileage() float64 { return v.mileage }
func (v *Vehicle) SetMileage(m float64) { v.mileage = m }
func (v *Vehicle) GetIsRunning() bool { return v.isRunning }

// Start starts the engine.
func (v *Vehicle) Start() {
	v.isRunning = true
	fmt.Fprintf(Output, "%s %s started!\n", v.brand, v.model)
}

// Stop stops the engine.
func (v *Vehicle) Stop() {
	v.isRunning = false
	fmt.Fprintf(Output, "%s %s stopped!\n", v.brand, v.model)
}

// ErrNotRunning is returned by Drive on a stopped vehicle.
var ErrNotRunning = errors.New("vehicle is not running")

// Drive adds miles to the mileage of a running vehicle.
func (v *Vehicle) Drive(miles float64) error {
	if !v.isRunning {
		return ErrNotRunning
	}
	v.mileage += miles
	fmt.Fprintf(Output, "Drove %g miles. Total mileage: %g\n", miles, v.mileage)
	return nil
}

// GetInfo summarises the vehicle.
func (v Vehicle) GetInfo() string {
	return fmt.Sprintf("%s %s (%d) - %f miles", v.brand, v.model, v.year, v.mileage)
}

// Describe registers Vehicle.
func (*Vehicle) Describe(r *catalogue.Registrar[Vehicle]) {
	catalogue.Field(r, "brand", func(v *Vehicle) *string { return &v.brand })
	catalogue.Field(r, "model", func(v *Vehicle) *string { return &v.model })
	catalogue.Field(r, "year", func(v *Vehicle) *int { return &v.year })
	catalogue.Field(r, "mileage", func(v *Vehicle) *float64 { return &v.mileage })
	catalogue.Field(r, "isRunning", func(v *Vehicle) *bool { return &v.isRunning })

	r.Method("getBrand", (*Vehicle).GetBrand).
		Method("setBrand", (*Vehicle).SetBrand).
		Method("getModel", (*Vehicle).GetModel).
		Method("setModel", (*Vehicle).SetModel).
		Method("getYear", (*Vehicle).GetYear).
		Method("setYear", (*Vehicle).SetYear).
		Method("getMileage", (*Vehicle).GetMileage).
		Method("setMileage", (*Vehicle).SetMileage).
		Method("getIsRunning", (*Vehicle).GetIsRunning).
		Method("start", (*Vehicle).Start).
		Method("stop", (*Vehicle).Stop).
		Method("drive", (*Vehicle).Drive).
		Method("getInfo", Vehicle.GetInfo)
}

// Catalogue implements introspect.Introspectable.
func (*Vehicle) Catalogue() *catalogue.Catalogue { return catalogue.Of[Vehicle]() }

// Point is a two-dimensional integer point.
type Point struct {
	X, Y int
}

// Move translates the point.
func (p *Point) Move(dx, dy int) {
	p.X += dx
	p.Y += dy
}

// Scaled returns the point scaled by k without modifying it.
func (p Point) Scaled(k int) Point {
	return Point{X: p.X * k, Y: p.Y * k}
}

// Describe registers Point.
func (*Point) Describe(r *catalogue.Registrar[Point]) {
	catalogue.Field(r, "x", func(p *Point) *int { return &p.X })
	catalogue.Field(r, "y", func(p *Point) *int { return &p.Y })
	catalogue.Proc2(r, "move", (*Point).Move)
	r.Method("scaled", Point.Scaled)
}

// Box holds a label and the tags attached to it.
type Box struct {
	Label string
	Tags  []string
	Owner *Person
}

// Describe registers Box.
func (*Box) Describe(r *catalogue.Registrar[Box]) {
	catalogue.Field(r, "label", func(b *Box) *string { return &b.Label })
	catalogue.Field(r, "tags", func(b *Box) *[]string { return &b.Tags })
	catalogue.Field(r, "owner", func(b *Box) **Person { return &b.Owner })
	catalogue.Func0(r, "getLabel", func(b *Box) string { return b.Label })
}

// Catalogues returns the catalogues of every fixture.
func Catalogues() []*catalogue.Catalogue {
	return []*catalogue.Catalogue{
		catalogue.Of[Person](),
		catalogue.Of[Vehicle](),
		catalogue.Of[Point](),
		catalogue.Of[Box](),
	}
}
