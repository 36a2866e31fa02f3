// Package rounding applies the configured rounding policy to every monetary
// value produced by the calculation pipeline.
package rounding

import "math"

// Method identifies a rounding method
type Method string

const (
	MethodRound Method = "round" // half-up
	MethodFloor Method = "floor"
	MethodCeil  Method = "ceil"
)

// DefaultPrecision is the decimal precision used when none is configured.
const DefaultPrecision = 2

// Apply rounds value at the given decimal precision with the given method.
// Unknown methods fall back to half-up rounding.
func Apply(value float64, precision int, method Method) float64 {
	factor := math.Pow(10, float64(precision))
	switch method {
	case MethodFloor:
		return math.Floor(value*factor) / factor
	case MethodCeil:
		return math.Ceil(value*factor) / factor
	default:
		return math.Round(value*factor) / factor
	}
}

// Rounder binds a precision and method so downstream computations share one
// rounding policy.
type Rounder struct {
	precision int
	method    Method
}

// New creates a Rounder with the given precision and method. Negative
// precision is clamped to 0.
func New(precision int, method Method) Rounder {
	if precision < 0 {
		precision = 0
	}
	switch method {
	case MethodRound, MethodFloor, MethodCeil:
	default:
		method = MethodRound
	}
	return Rounder{precision: precision, method: method}
}

// Round applies the bound policy to value.
func (r Rounder) Round(value float64) float64 {
	return Apply(value, r.precision, r.method)
}

// Precision returns the bound decimal precision.
func (r Rounder) Precision() int {
	return r.precision
}
