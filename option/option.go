// Package option models the triply-nested optional integer that crosses the
// foreign boundary.
//
// On the wire the value is a single closed tagged union with four explicit
// variants rather than three stacked wrappers, so both sides agree on how
// many layers are "present": (tag, payload) with tag 0..3 and payload only
// meaningful for tag 3.
package option

import (
	"strconv"

	"github.com/wippyai/ffi-smoke/errors"
)

// Variant discriminates the four states of a TripleInt.
type Variant uint8

const (
	VariantNone         Variant = iota // absent
	VariantSomeNone                    // present, inner absent
	VariantSomeSomeNone                // present, present, innermost absent
	VariantValue                       // present all the way down
)

// maxVariant is the highest valid wire discriminant.
const maxVariant = uint32(VariantValue)

// TripleInt is option<option<option<s32>>> as a closed union. The zero value
// is the None variant.
type TripleInt struct {
	value   int32
	variant Variant
}

func None() TripleInt { return TripleInt{variant: VariantNone} }

func SomeNone() TripleInt { return TripleInt{variant: VariantSomeNone} }

func SomeSomeNone() TripleInt { return TripleInt{variant: VariantSomeSomeNone} }

// Value constructs the fully-present variant carrying v.
func Value(v int32) TripleInt {
	return TripleInt{variant: VariantValue, value: v}
}

func (t TripleInt) Variant() Variant { return t.variant }

// Int returns the carried integer and whether all three layers are present.
func (t TripleInt) Int() (int32, bool) {
	return t.value, t.variant == VariantValue
}

// Decode maps a wire discriminant and payload to a TripleInt. The payload is
// ignored for every variant but VariantValue. Out-of-range tags are a decode
// error, never a silent default.
func Decode(tag uint32, payload int32) (TripleInt, error) {
	switch Variant(tag) {
	case VariantNone:
		return None(), nil
	case VariantSomeNone:
		return SomeNone(), nil
	case VariantSomeSomeNone:
		return SomeSomeNone(), nil
	case VariantValue:
		return Value(payload), nil
	}
	return TripleInt{}, errors.InvalidDiscriminant(errors.PhaseDecode, tag, maxVariant)
}

// String renders the nested form. The switch is exhaustive over the four
// variants with no default: a new variant shows up here as a missing case,
// and an undecoded tag can never reach this method.
func (t TripleInt) String() string {
	switch t.variant {
	case VariantNone:
		return "None"
	case VariantSomeNone:
		return "Some(None)"
	case VariantSomeSomeNone:
		return "Some(Some(None))"
	case VariantValue:
		return "Some(Some(Some(" + strconv.FormatInt(int64(t.value), 10) + ")))"
	}
	panic("option: invalid variant " + strconv.Itoa(int(t.variant)))
}
