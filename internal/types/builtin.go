// Package types derives and checks YANG types: builtin types, restriction
// narrowing along typedef chains, enum and bit assignment and value checks.
package types

import (
	"github.com/jacoelho/yang/internal/num"
	"github.com/jacoelho/yang/schema"
)

const (
	Binary             = "binary"
	Bits               = "bits"
	Boolean            = "boolean"
	Decimal64          = "decimal64"
	Empty              = "empty"
	Enumeration        = "enumeration"
	IdentityRef        = "identityref"
	InstanceIdentifier = "instance-identifier"
	Int8               = "int8"
	Int16              = "int16"
	Int32              = "int32"
	Int64              = "int64"
	LeafRef            = "leafref"
	String             = "string"
	Uint8              = "uint8"
	Uint16             = "uint16"
	Uint32             = "uint32"
	Uint64             = "uint64"
	Union              = "union"
)

var builtinNames = map[string]bool{
	Binary: true, Bits: true, Boolean: true, Decimal64: true, Empty: true, Enumeration: true,
	IdentityRef: true, InstanceIdentifier: true, Int8: true, Int16: true, Int32: true, Int64: true,
	LeafRef: true, String: true, Uint8: true, Uint16: true, Uint32: true, Uint64: true, Union: true,
}

// IsBuiltin reports whether name is a builtin type name.
func IsBuiltin(name string) bool {
	return builtinNames[name]
}

// IsInteger reports whether name is one of the integer builtin types.
func IsInteger(name string) bool {
	_, _, ok := num.IntBounds(name)
	return ok
}

// NewBuiltin returns the unrestricted builtin type name. decimal64 ranges
// are filled in once fraction-digits is known.
func NewBuiltin(name string) *schema.Type {
	t := &schema.Type{QName: schema.QName{Name: name}, Builtin: name}
	if lo, hi, ok := num.IntBounds(name); ok {
		t.Ranges = []schema.Interval{{Min: renderInt(lo), Max: renderInt(hi)}}
	}
	switch name {
	case String, Binary:
		t.Lengths = []schema.Interval{{Min: "0", Max: renderInt(num.MaxUint64)}}
	case LeafRef, InstanceIdentifier:
		t.RequireInstance = true
	}
	return t
}

func renderInt(v num.Int) string {
	return string(v.RenderCanonical(nil))
}

func decimalRange(fd uint8) []schema.Interval {
	lo, hi := num.Decimal64Bounds(uint32(fd))
	return []schema.Interval{{Min: string(lo.RenderCanonical(nil)), Max: string(hi.RenderCanonical(nil))}}
}
