package glsllower

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/glrun/ir"
)

// Intrinsic names the OpenGL code generator emits for the runtime.
const (
	// TextureLoadIntrinsic samples one element of an input texture.
	// Arguments: buffer name, buffer handle, coordinates.
	TextureLoadIntrinsic = "glsl_texture_load"

	// TextureStoreIntrinsic writes one element of the output texture.
	// Arguments: buffer name, buffer handle, x, y, c, value.
	TextureStoreIntrinsic = "glsl_texture_store"
)

// bufferSuffix names the handle variable paired with a buffer.
const bufferSuffix = ".buffer"

// constrainedSuffix marks the tightened min/extent variables the bounds
// inference emits; the lowering prefers them when in scope.
const constrainedSuffix = ".constrained"

// Lowering errors.
var (
	// ErrMultiValueStore is returned for stores of more than one value;
	// GLSL supports single-valued stores only.
	ErrMultiValueStore = errors.New("glsllower: GLSL only supports single-valued stores")

	// ErrStoreArity is returned for stores without exactly three
	// coordinates.
	ErrStoreArity = errors.New("glsllower: GLSL stores require three coordinates")
)

// Lower canonicalizes GPU loop bounds and injects the OpenGL texture
// intrinsics, returning the rewritten statement.
func Lower(s ir.Stmt) (ir.Stmt, error) {
	s = ZeroLoopMins(s)
	return InjectIntrinsics(s)
}

// zeroLoopMins rewrites GPU loops to iterate from zero.
type zeroLoopMins struct{}

func (z *zeroLoopMins) MutateExpr(e ir.Expr) ir.Expr {
	return ir.MutateExprChildren(z, e)
}

func (z *zeroLoopMins) MutateStmt(s ir.Stmt) ir.Stmt {
	s = ir.MutateStmtChildren(z, s)
	loop, ok := s.(*ir.For)
	if !ok || !ir.IsGPUVar(loop.Name) || ir.IsZero(loop.Min) {
		return s
	}
	adjusted := &ir.Add{A: &ir.Var{Name: loop.Name, Type: ir.Int32}, B: loop.Min}
	return &ir.For{
		Name:   loop.Name,
		Min:    &ir.IntImm{Value: 0},
		Extent: loop.Extent,
		Kind:   loop.Kind,
		Body:   ir.Substitute(loop.Name, adjusted, loop.Body),
	}
}

// ZeroLoopMins rewrites every GPU block or thread loop with a non-zero
// min to iterate over [0, extent), substituting var + min for the loop
// variable throughout the body. Downstream passes then see a canonical
// iteration domain matching the pixcoord coordinate convention.
func ZeroLoopMins(s ir.Stmt) ir.Stmt {
	return (&zeroLoopMins{}).MutateStmt(s)
}

// injectIntrinsics rewrites loads and stores inside GPU block loops.
type injectIntrinsics struct {
	insideKernelLoop bool

	// constrained tracks names bound by surrounding lets that carry the
	// ".constrained" suffix.
	constrained map[string]int

	err error
}

func (in *injectIntrinsics) setErr(err error) {
	if in.err == nil {
		in.err = err
	}
}

// minExtentNames resolves the min and extent variable names for one
// dimension of a buffer, preferring the constrained variants when bound.
func (in *injectIntrinsics) minExtentNames(buffer string, dim int) (minName, extentName string) {
	d := strconv.Itoa(dim)
	minName = buffer + ".min." + d
	if in.constrained[minName+constrainedSuffix] > 0 {
		minName += constrainedSuffix
	}
	extentName = buffer + ".extent." + d
	if in.constrained[extentName+constrainedSuffix] > 0 {
		extentName += constrainedSuffix
	}
	return minName, extentName
}

func (in *injectIntrinsics) MutateExpr(e ir.Expr) ir.Expr {
	load, ok := e.(*ir.Load)
	if !ok || !in.insideKernelLoop {
		return ir.MutateExprChildren(in, e)
	}

	// glsl_texture_load(name, name.buffer, coords...) with spatial
	// coordinates normalized to the sample-center convention and channel
	// coordinates left integral.
	args := make([]ir.Expr, 0, len(load.Coords)+2)
	args = append(args,
		&ir.StringImm{Value: load.Name},
		&ir.Var{Name: load.Name + bufferSuffix, Type: ir.Handle},
	)
	for i, coord := range load.Coords {
		coord = in.MutateExpr(coord)
		minName, extentName := in.minExtentNames(load.Name, i)
		min := &ir.Var{Name: minName, Type: ir.Int32}
		extent := &ir.Var{Name: extentName, Type: ir.Int32}

		if i < 2 {
			// (float32(coord - min) + 0.5) / extent
			args = append(args, fold(&ir.Div{
				A: &ir.Add{
					A: &ir.Cast{To: ir.Float32, Value: &ir.Sub{A: coord, B: min}},
					B: &ir.FloatImm{Value: 0.5},
				},
				B: &ir.Cast{To: ir.Float32, Value: extent},
			}))
		} else {
			args = append(args, fold(&ir.Sub{A: coord, B: min}))
		}
	}
	return &ir.Call{Name: TextureLoadIntrinsic, Args: args}
}

func (in *injectIntrinsics) MutateStmt(s ir.Stmt) ir.Stmt {
	switch v := s.(type) {
	case *ir.Store:
		if !in.insideKernelLoop {
			return ir.MutateStmtChildren(in, s)
		}
		if len(v.Values) != 1 {
			in.setErr(fmt.Errorf("%w: %q stores %d values", ErrMultiValueStore, v.Name, len(v.Values)))
			return s
		}
		if len(v.Coords) != 3 {
			in.setErr(fmt.Errorf("%w: %q has %d", ErrStoreArity, v.Name, len(v.Coords)))
			return s
		}
		// glsl_texture_store(name, name.buffer, x, y, c, value)
		args := make([]ir.Expr, 0, 6)
		args = append(args,
			&ir.StringImm{Value: v.Name},
			&ir.Var{Name: v.Name + bufferSuffix, Type: ir.Handle},
		)
		for _, coord := range v.Coords {
			args = append(args, in.MutateExpr(coord))
		}
		args = append(args, in.MutateExpr(v.Values[0]))
		return &ir.Evaluate{Value: &ir.Call{Name: TextureStoreIntrinsic, Args: args}}

	case *ir.Let:
		// Track constrained min/extent bindings for coordinate lookup.
		if strings.HasSuffix(v.Name, constrainedSuffix) {
			in.constrained[v.Name]++
			defer func() { in.constrained[v.Name]-- }()
		}
		return ir.MutateStmtChildren(in, s)

	case *ir.For:
		wasInside := in.insideKernelLoop
		if v.Kind == ir.Parallel && ir.IsBlockVar(v.Name) {
			in.insideKernelLoop = true
		}
		out := ir.MutateStmtChildren(in, s)
		in.insideKernelLoop = wasInside
		return out
	}
	return ir.MutateStmtChildren(in, s)
}

// InjectIntrinsics rewrites every buffer load and store inside a GPU
// block loop into the matching texture intrinsic call. IR outside block
// loops is preserved unchanged.
func InjectIntrinsics(s ir.Stmt) (ir.Stmt, error) {
	in := &injectIntrinsics{constrained: make(map[string]int)}
	out := in.MutateStmt(s)
	if in.err != nil {
		return nil, in.err
	}
	return out, nil
}
