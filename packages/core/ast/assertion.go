package ast

import (
	"fmt"
	"strconv"
)

// Assertion is one expectation checked against a response. The concrete
// type is one of StatusEquals, StatusInRange, HeaderEquals, HeaderContains
// or BodyContains.
type Assertion interface {
	Position() Pos
	String() string
	assertion()
}

type StatusEquals struct {
	Status int
	Pos    Pos
}

// StatusInRange matches Start <= status <= End.
type StatusInRange struct {
	Start int
	End   int
	Pos   Pos
}

type HeaderEquals struct {
	Name  string
	Value string
	Pos   Pos
}

type HeaderContains struct {
	Name      string
	Substring string
	Pos       Pos
}

type BodyContains struct {
	Substring string
	Pos       Pos
}

func (a *StatusEquals) Position() Pos   { return a.Pos }
func (a *StatusInRange) Position() Pos  { return a.Pos }
func (a *HeaderEquals) Position() Pos   { return a.Pos }
func (a *HeaderContains) Position() Pos { return a.Pos }
func (a *BodyContains) Position() Pos   { return a.Pos }

func (*StatusEquals) assertion()   {}
func (*StatusInRange) assertion()  {}
func (*HeaderEquals) assertion()   {}
func (*HeaderContains) assertion() {}
func (*BodyContains) assertion()   {}

func (a *StatusEquals) Accepts(code int) bool { return code == a.Status }

func (a *StatusInRange) Accepts(code int) bool {
	return a.Start <= code && code <= a.End
}

func (a *StatusEquals) String() string {
	return "status " + strconv.Itoa(a.Status)
}

func (a *StatusInRange) String() string {
	return fmt.Sprintf("status range %d %d", a.Start, a.End)
}

func (a *HeaderEquals) String() string {
	return fmt.Sprintf("header %q %q", a.Name, a.Value)
}

func (a *HeaderContains) String() string {
	return fmt.Sprintf("header %q contains %q", a.Name, a.Substring)
}

func (a *BodyContains) String() string {
	return fmt.Sprintf("body contains %q", a.Substring)
}
