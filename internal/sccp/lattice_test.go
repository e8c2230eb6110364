package sccp

import (
	"testing"

	"sccp/internal/cps"
)

func TestJoinNothingIsIdentity(t *testing.T) {
	ts := TypeMaskTypeSystem{}
	c := ConstantVal(cps.IntFromInt64(1), ts.Int())
	if got := Nothing().Join(c, ts); !got.Equal(c) {
		t.Fatalf("expected Nothing ⊔ c == c, got %v", got)
	}
	if got := c.Join(Nothing(), ts); !got.Equal(c) {
		t.Fatalf("expected c ⊔ Nothing == c, got %v", got)
	}
}

func TestJoinEqualConstantsStaysConstant(t *testing.T) {
	ts := TypeMaskTypeSystem{}
	a := ConstantVal(cps.IntFromInt64(5), ts.Int())
	b := ConstantVal(cps.IntFromInt64(5), ts.Int())
	joined := a.Join(b, ts)
	if !joined.IsConstant() {
		t.Fatalf("expected joining two equal constants to stay constant, got %v", joined)
	}
}

func TestJoinDifferentConstantsWidensToNonConst(t *testing.T) {
	ts := TypeMaskTypeSystem{}
	a := ConstantVal(cps.IntFromInt64(5), ts.Int())
	b := ConstantVal(cps.IntFromInt64(6), ts.Int())
	joined := a.Join(b, ts)
	if !joined.IsNonConst() {
		t.Fatalf("expected joining two different constants to widen to NonConst, got %v", joined)
	}
}

func TestJoinIsMonotonic(t *testing.T) {
	ts := TypeMaskTypeSystem{}
	vals := []Value{
		Nothing(),
		ConstantVal(cps.IntFromInt64(1), ts.Int()),
		NonConst(ts.Int()),
	}
	for i := 0; i < len(vals); i++ {
		for j := 0; j < len(vals); j++ {
			joined := vals[i].Join(vals[j], ts)
			if !vals[i].LessOrEqual(joined) || !vals[j].LessOrEqual(joined) {
				t.Fatalf("join of %v and %v produced %v, which is not an upper bound", vals[i], vals[j], joined)
			}
		}
	}
}

func TestIsBoolVacuouslyTrueForNothing(t *testing.T) {
	ts := TypeMaskTypeSystem{}
	if !Nothing().IsBool(ts) {
		t.Fatalf("expected Nothing.IsBool to be vacuously true")
	}
}

func TestIsBoolForDefiniteBoolType(t *testing.T) {
	ts := TypeMaskTypeSystem{}
	if !NonConst(ts.Bool()).IsBool(ts) {
		t.Fatalf("expected NonConst(Bool).IsBool to be true")
	}
	if NonConst(ts.Int()).IsBool(ts) {
		t.Fatalf("expected NonConst(Int).IsBool to be false")
	}
	if NonConst(ts.Dynamic()).IsBool(ts) {
		t.Fatalf("expected NonConst(Dynamic).IsBool to be false (nullable, multi-kind)")
	}
}

func TestConstantValPanicsOnNilConstant(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected ConstantVal(nil, ...) to panic")
		}
	}()
	ConstantVal(nil, TypeMaskTypeSystem{}.Int())
}

func TestNonConstPanicsOnNilType(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected NonConst(nil) to panic")
		}
	}()
	NonConst(nil)
}

func TestUnitTypeSystemCollapsesEverything(t *testing.T) {
	ts := UnitTypeSystem{}
	if ts.Bool().String() != ts.Int().String() {
		t.Fatalf("expected UnitTypeSystem's types to all collapse to the same token")
	}
	if ts.IsDefinitelyBool(ts.Bool()) {
		t.Fatalf("expected UnitTypeSystem to never prove definite-bool")
	}
}
