package number

import "math"

// Pi is the language's own circle constant. Degree/radian conversions
// use this eleven-digit value rather than the host library's math.Pi so
// trigonometric results are identical across implementations.
const Pi = 3.14159265359

// sqrtRawLimit is the smallest raw value for which Sqrt gives up and
// returns Min. The exact cutoff is part of the language contract.
const sqrtRawLimit = 9223372036854775000

// Sqrt returns the square root. Negative inputs and inputs at or above
// the raw cutoff return Min. The real result is nudged by +5e-5 before
// conversion so values that should land exactly on a three-digit
// boundary are not truncated below it.
func (n Number) Sqrt() Number {
	if n.raw < 0 || n.raw >= sqrtRawLimit {
		return Min
	}
	v := math.Sqrt(float64(n.raw) / Scale)
	v += math.Copysign(5e-5, v)
	return FromFloat(v)
}

// Sin takes the angle in degrees and rounds the result to three decimals.
func (n Number) Sin() Number {
	r := math.Sin(n.Float64() * Pi / 180)
	return Number{int64(math.Round(r * Scale))}
}

// Cos takes the angle in degrees and rounds the result to three decimals.
func (n Number) Cos() Number {
	r := math.Cos(n.Float64() * Pi / 180)
	return Number{int64(math.Round(r * Scale))}
}

// Tan takes the angle in degrees. Unlike Sin and Cos the result is not
// rounded; truncation through the fixed-point conversion is the contract.
func (n Number) Tan() Number {
	return FromFloat(math.Tan(n.Float64() * Pi / 180))
}

// ArcSin returns the angle in degrees. Inputs outside [-1, 1] saturate
// to Min through the NaN conversion rule.
func (n Number) ArcSin() Number {
	return FromFloat(math.Asin(n.Float64()) * 180 / Pi)
}

// ArcCos returns the angle in degrees.
func (n Number) ArcCos() Number {
	return FromFloat(math.Acos(n.Float64()) * 180 / Pi)
}

// ArcTan returns the angle in degrees.
func (n Number) ArcTan() Number {
	return FromFloat(math.Atan(n.Float64()) * 180 / Pi)
}

// Pow raises a to the power b in double precision. Results outside the
// representable range saturate; an undefined result converts to Min.
func (n Number) Pow(o Number) Number {
	return FromFloat(math.Pow(n.Float64(), o.Float64()))
}

// Factorial computes floor(n)! scaled back to a Number. Negative inputs
// return Min; overflow wraps silently like the rest of the integer
// arithmetic. Once the accumulator collects 64 factors of two it is
// exactly zero and stays there, so the loop is cut short.
func (n Number) Factorial() Number {
	if n.raw < 0 {
		return Min
	}
	k := n.raw / Scale
	acc := int64(1)
	for i := int64(2); i <= k; i++ {
		acc *= i
		if acc == 0 {
			break
		}
	}
	return Number{acc * Scale}
}
