// Package ir defines the small loop-nest intermediate representation the
// image compiler hands to its device-specific lowering passes.
//
// A pipeline stage arrives as a statement tree: parallel loops over
// block and thread indices surrounding buffer loads, stores, and scalar
// arithmetic. Passes rewrite the tree with the Mutator protocol: a pass
// implements Mutator, overrides the node kinds it cares about, and
// delegates the rest to MutateExprChildren and MutateStmtChildren.
package ir
