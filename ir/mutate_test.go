package ir

import (
	"reflect"
	"testing"
)

func TestSubstituteExpr(t *testing.T) {
	e := &Add{A: &Var{Name: "x", Type: Int32}, B: &IntImm{Value: 1}}
	got := SubstituteExpr("x", &IntImm{Value: 5}, e)
	want := &Add{A: &IntImm{Value: 5}, B: &IntImm{Value: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SubstituteExpr() = %#v, want %#v", got, want)
	}
}

func TestSubstituteLeavesOtherVars(t *testing.T) {
	e := &Var{Name: "y", Type: Int32}
	if got := SubstituteExpr("x", &IntImm{Value: 5}, e); got != e {
		t.Error("SubstituteExpr must leave unrelated variables untouched")
	}
}

func TestSubstituteStmt(t *testing.T) {
	s := &Store{
		Name:   "out",
		Coords: []Expr{&Var{Name: "x", Type: Int32}, &IntImm{Value: 0}, &IntImm{Value: 0}},
		Values: []Expr{&Var{Name: "x", Type: Int32}},
	}
	got := Substitute("x", &IntImm{Value: 2}, s).(*Store)
	if !reflect.DeepEqual(got.Coords[0], &IntImm{Value: 2}) {
		t.Error("Substitute must rewrite store coordinates")
	}
	if !reflect.DeepEqual(got.Values[0], &IntImm{Value: 2}) {
		t.Error("Substitute must rewrite store values")
	}
}

func TestSubstituteShadowedByLet(t *testing.T) {
	s := &Let{
		Name:  "x",
		Value: &Var{Name: "x", Type: Int32},
		Body:  &Evaluate{Value: &Var{Name: "x", Type: Int32}},
	}
	got := Substitute("x", &IntImm{Value: 9}, s).(*Let)
	if !reflect.DeepEqual(got.Value, &IntImm{Value: 9}) {
		t.Error("the let's bound value sees the outer name")
	}
	body := got.Body.(*Evaluate)
	if _, ok := body.Value.(*Var); !ok {
		t.Error("the let's body is shadowed and must keep the variable")
	}
}

func TestSubstituteShadowedByFor(t *testing.T) {
	s := &For{
		Name:   "x",
		Min:    &Var{Name: "x", Type: Int32},
		Extent: &IntImm{Value: 4},
		Kind:   Serial,
		Body:   &Evaluate{Value: &Var{Name: "x", Type: Int32}},
	}
	got := Substitute("x", &IntImm{Value: 9}, s).(*For)
	if !reflect.DeepEqual(got.Min, &IntImm{Value: 9}) {
		t.Error("the loop min sees the outer name")
	}
	body := got.Body.(*Evaluate)
	if _, ok := body.Value.(*Var); !ok {
		t.Error("the loop body is shadowed and must keep the variable")
	}
}

func TestGPUVarNames(t *testing.T) {
	tests := []struct {
		name   string
		block  bool
		thread bool
	}{
		{"g.block_id_x", true, false},
		{"g.thread_id_y", false, true},
		{"g.x", false, false},
	}
	for _, tt := range tests {
		if got := IsBlockVar(tt.name); got != tt.block {
			t.Errorf("IsBlockVar(%q) = %v, want %v", tt.name, got, tt.block)
		}
		if got := IsThreadVar(tt.name); got != tt.thread {
			t.Errorf("IsThreadVar(%q) = %v, want %v", tt.name, got, tt.thread)
		}
		if got := IsGPUVar(tt.name); got != (tt.block || tt.thread) {
			t.Errorf("IsGPUVar(%q) = %v", tt.name, got)
		}
	}
}

func TestIsZero(t *testing.T) {
	if !IsZero(&IntImm{Value: 0}) || !IsZero(&FloatImm{Value: 0}) {
		t.Error("zero immediates must be zero")
	}
	if IsZero(&IntImm{Value: 1}) || IsZero(&Var{Name: "x"}) {
		t.Error("non-zero nodes must not be zero")
	}
}
