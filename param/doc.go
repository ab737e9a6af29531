// Package param implements ParamDefs (an ordered name -> weight.Expr
// environment) and Constraints (probability-simplex normalisation groups
// and strictly-positive rate parameters).
//
// Defs doubles as both a substitution environment for weight.Eval/Bind/Deriv
// (it implements weight.Resolver) and an ordered set of named definitions:
// Names returns them in insertion order, free of incidental map-order
// nondeterminism.
package param
