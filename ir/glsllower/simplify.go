package glsllower

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/glrun/ir"
)

// fold constant-folds the coordinate expressions the injection pass
// builds. Arithmetic over immediates collapses so the emitted GLSL sees
// the same float32 constants the device would compute; anything touching
// a variable is left alone.
func fold(e ir.Expr) ir.Expr {
	switch v := e.(type) {
	case *ir.Add:
		return foldBinary(&ir.Add{A: fold(v.A), B: fold(v.B)})
	case *ir.Sub:
		return foldBinary(&ir.Sub{A: fold(v.A), B: fold(v.B)})
	case *ir.Mul:
		return foldBinary(&ir.Mul{A: fold(v.A), B: fold(v.B)})
	case *ir.Div:
		return foldBinary(&ir.Div{A: fold(v.A), B: fold(v.B)})
	case *ir.Cast:
		value := fold(v.Value)
		switch imm := value.(type) {
		case *ir.IntImm:
			if v.To == ir.Float32 {
				return &ir.FloatImm{Value: float32(imm.Value)}
			}
		case *ir.FloatImm:
			if v.To == ir.Int32 {
				return &ir.IntImm{Value: int32(math32.Trunc(imm.Value))}
			}
		}
		return &ir.Cast{To: v.To, Value: value}
	}
	return e
}

// foldBinary collapses a binary node whose operands are both immediates.
// Mixed int/float operands promote to float32, matching GLSL's implicit
// conversion.
func foldBinary(e ir.Expr) ir.Expr {
	a, b, ok := operands(e)
	if !ok {
		return e
	}

	ai, aIsInt := a.(*ir.IntImm)
	bi, bIsInt := b.(*ir.IntImm)
	if aIsInt && bIsInt {
		switch e.(type) {
		case *ir.Add:
			return &ir.IntImm{Value: ai.Value + bi.Value}
		case *ir.Sub:
			return &ir.IntImm{Value: ai.Value - bi.Value}
		case *ir.Mul:
			return &ir.IntImm{Value: ai.Value * bi.Value}
		case *ir.Div:
			if bi.Value == 0 {
				return e
			}
			return &ir.IntImm{Value: ai.Value / bi.Value}
		}
		return e
	}

	af, aOK := immFloat(a)
	bf, bOK := immFloat(b)
	if !aOK || !bOK {
		return e
	}
	switch e.(type) {
	case *ir.Add:
		return &ir.FloatImm{Value: af + bf}
	case *ir.Sub:
		return &ir.FloatImm{Value: af - bf}
	case *ir.Mul:
		return &ir.FloatImm{Value: af * bf}
	case *ir.Div:
		if bf == 0 || math32.IsInf(af/bf, 0) || math32.IsNaN(af/bf) {
			return e
		}
		return &ir.FloatImm{Value: af / bf}
	}
	return e
}

func operands(e ir.Expr) (a, b ir.Expr, ok bool) {
	switch v := e.(type) {
	case *ir.Add:
		return v.A, v.B, true
	case *ir.Sub:
		return v.A, v.B, true
	case *ir.Mul:
		return v.A, v.B, true
	case *ir.Div:
		return v.A, v.B, true
	}
	return nil, nil, false
}

func immFloat(e ir.Expr) (float32, bool) {
	switch v := e.(type) {
	case *ir.IntImm:
		return float32(v.Value), true
	case *ir.FloatImm:
		return v.Value, true
	}
	return 0, false
}
