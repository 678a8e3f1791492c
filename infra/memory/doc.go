// Package memory provides object reuse for the order hot path. The
// service allocates every order from a typed pool and returns it on
// cancellation, keeping steady-state submission free of GC churn.
//
// The package is dependency-free.
package memory
