package canvas

import (
	"fmt"
	"image/color"
)

// Operator combines a source pixel with the destination pixel it is being
// written over. Canvases are opaque, operators work on the colour channels
// and keep the destination fully opaque.
type Operator func(dst, src color.NRGBA) color.NRGBA

// UnknownOperator is returned when an unregistered blend operator is named.
type UnknownOperator string

func (e UnknownOperator) Error() string {
	return fmt.Sprintf("unknown blend operator '%s'", string(e))
}

// DefaultOperator is the operator used when none is configured. Darken
// keeps the darker of both pixels per channel so that overlapping strokes
// do not wash out detail drawn earlier.
const DefaultOperator = "darken"

var operators = map[string]Operator{
	"normal":   opNormal,
	"darken":   opDarken,
	"lighten":  opLighten,
	"multiply": opMultiply,
	"add":      opAdd,
	"subtract": opSubtract,
}

func OperatorByName(name string) (Operator, error) {
	if name == "" {
		name = DefaultOperator
	}
	op, ok := operators[name]
	if !ok {
		return nil, UnknownOperator(name)
	}
	return op, nil
}

func opNormal(_, src color.NRGBA) color.NRGBA {
	src.A = 0xff
	return src
}

func opDarken(dst, src color.NRGBA) color.NRGBA {
	return color.NRGBA{
		R: minc(dst.R, src.R),
		G: minc(dst.G, src.G),
		B: minc(dst.B, src.B),
		A: 0xff,
	}
}

func opLighten(dst, src color.NRGBA) color.NRGBA {
	return color.NRGBA{
		R: maxc(dst.R, src.R),
		G: maxc(dst.G, src.G),
		B: maxc(dst.B, src.B),
		A: 0xff,
	}
}

func opMultiply(dst, src color.NRGBA) color.NRGBA {
	return color.NRGBA{
		R: uint8(uint16(dst.R) * uint16(src.R) / 0xff),
		G: uint8(uint16(dst.G) * uint16(src.G) / 0xff),
		B: uint8(uint16(dst.B) * uint16(src.B) / 0xff),
		A: 0xff,
	}
}

func opAdd(dst, src color.NRGBA) color.NRGBA {
	return color.NRGBA{
		R: satAdd(dst.R, src.R),
		G: satAdd(dst.G, src.G),
		B: satAdd(dst.B, src.B),
		A: 0xff,
	}
}

func opSubtract(dst, src color.NRGBA) color.NRGBA {
	return color.NRGBA{
		R: satSub(dst.R, src.R),
		G: satSub(dst.G, src.G),
		B: satSub(dst.B, src.B),
		A: 0xff,
	}
}

func minc(a, b uint8) uint8 {
	if a < b {
		return a
	}
	return b
}

func maxc(a, b uint8) uint8 {
	if a > b {
		return a
	}
	return b
}

func satAdd(a, b uint8) uint8 {
	s := uint16(a) + uint16(b)
	if s > 0xff {
		return 0xff
	}
	return uint8(s)
}

func satSub(a, b uint8) uint8 {
	if b > a {
		return 0
	}
	return a - b
}
