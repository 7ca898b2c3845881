package ast

import "strconv"

type ValueKind int

const (
	KindText ValueKind = iota
	KindInt
)

func (k ValueKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInt:
		return "int"
	default:
		return "unknown"
	}
}

// Value is the value bound to a variable: TextValue or IntValue.
type Value interface {
	Kind() ValueKind
	// String renders the value as it is substituted into paths and bodies.
	String() string
	value()
}

type TextValue string

func (TextValue) Kind() ValueKind  { return KindText }
func (v TextValue) String() string { return string(v) }
func (TextValue) value()           {}

type IntValue int64

func (IntValue) Kind() ValueKind  { return KindInt }
func (v IntValue) String() string { return strconv.FormatInt(int64(v), 10) }
func (IntValue) value()           {}

type Variable struct {
	Name  string
	Value Value
	Pos   Pos
}

func (v *Variable) Position() Pos { return v.Pos }
func (*Variable) item()           {}

// Variables maps names to their declared variable. A later declaration of
// the same name replaces the earlier one; iteration follows the order in
// which names were first declared.
type Variables struct {
	order      []string
	byName     map[string]*Variable
	duplicates []*Variable
}

func NewVariables() *Variables {
	return &Variables{byName: make(map[string]*Variable)}
}

func (vs *Variables) Declare(v *Variable) {
	if vs.byName == nil {
		vs.byName = make(map[string]*Variable)
	}
	if prev, ok := vs.byName[v.Name]; ok {
		vs.duplicates = append(vs.duplicates, prev)
	} else {
		vs.order = append(vs.order, v.Name)
	}
	vs.byName[v.Name] = v
}

func (vs *Variables) Lookup(name string) (*Variable, bool) {
	if vs == nil {
		return nil, false
	}
	v, ok := vs.byName[name]
	return v, ok
}

func (vs *Variables) Len() int {
	if vs == nil {
		return 0
	}
	return len(vs.order)
}

// All returns the effective variables in first-declaration order.
func (vs *Variables) All() []*Variable {
	if vs == nil {
		return nil
	}
	out := make([]*Variable, 0, len(vs.order))
	for _, name := range vs.order {
		out = append(out, vs.byName[name])
	}
	return out
}

// Shadowed returns the declarations that were replaced by a later one.
func (vs *Variables) Shadowed() []*Variable {
	if vs == nil {
		return nil
	}
	return append([]*Variable(nil), vs.duplicates...)
}
