package jsonval

// scalarOp computes a binary operator on two non-Array operands.
type scalarOp func(a, b *Json) *Json

// broadcast implements the three broadcasting shapes: (Array,
// Array) zips element-wise up to the shorter length, (Array, scalar) and
// (scalar, Array) map the operator holding the other side constant, and
// (scalar, scalar) applies op directly.
func broadcast(a, b *Json, op scalarOp) *Json {
	aArr, aIsArr := a.AsArray()
	bArr, bIsArr := b.AsArray()
	switch {
	case aIsArr && bIsArr:
		n := len(aArr)
		if len(bArr) < n {
			n = len(bArr)
		}
		out := make([]*Json, n)
		for i := 0; i < n; i++ {
			out[i] = op(aArr[i], bArr[i])
		}
		return Array(out...)
	case aIsArr:
		out := make([]*Json, len(aArr))
		for i, el := range aArr {
			out[i] = op(el, b)
		}
		return Array(out...)
	case bIsArr:
		out := make([]*Json, len(bArr))
		for i, el := range bArr {
			out[i] = op(a, el)
		}
		return Array(out...)
	default:
		return op(a, b)
	}
}

// Add implements "+": numeric addition widened to Float on mismatch,
// string concatenation, string/number concatenation using the canonical
// decimal form, and bool/number promotion, broadcast uniformly.
func Add(a, b *Json) *Json { return broadcast(a, b, addScalar) }

func addScalar(a, b *Json) *Json {
	if a.IsNumber() && b.IsNumber() {
		return numericBinOp(a, b, func(x, y int64) int64 { return x + y }, func(x, y float64) float64 { return x + y })
	}
	as, aIsStr := a.AsString()
	bs, bIsStr := b.AsString()
	switch {
	case aIsStr && bIsStr:
		return String(as + bs)
	case aIsStr && b.IsNumber():
		return String(as + b.NumberString())
	case bIsStr && a.IsNumber():
		return String(a.NumberString() + bs)
	}
	ab, aIsBool := a.AsBool()
	bb, bIsBool := b.AsBool()
	switch {
	case aIsBool && b.IsNumber():
		return addScalar(boolToInt(ab), b)
	case bIsBool && a.IsNumber():
		return addScalar(a, boolToInt(bb))
	}
	return Null
}

func boolToInt(b bool) *Json {
	if b {
		return Int(1)
	}
	return Int(0)
}

// Sub implements "-", numeric only, broadcast uniformly.
func Sub(a, b *Json) *Json {
	return broadcast(a, b, func(a, b *Json) *Json {
		if !a.IsNumber() || !b.IsNumber() {
			return Null
		}
		return numericBinOp(a, b, func(x, y int64) int64 { return x - y }, func(x, y float64) float64 { return x - y })
	})
}

// Mul implements "*", numeric only, broadcast uniformly.
func Mul(a, b *Json) *Json {
	return broadcast(a, b, func(a, b *Json) *Json {
		if !a.IsNumber() || !b.IsNumber() {
			return Null
		}
		return numericBinOp(a, b, func(x, y int64) int64 { return x * y }, func(x, y float64) float64 { return x * y })
	})
}

// Div implements "/". Integer division by a zero divisor widens both
// operands to Float so the result is +Inf, -Inf, or NaN rather than
// panicking.
func Div(a, b *Json) *Json {
	return broadcast(a, b, func(a, b *Json) *Json {
		if !a.IsNumber() || !b.IsNumber() {
			return Null
		}
		bi, bIsInt := b.AsInt()
		if bIsInt && bi == 0 {
			af, _ := a.AsFloat()
			return Float(af / float64(bi))
		}
		return numericBinOp(a, b, func(x, y int64) int64 { return x / y }, func(x, y float64) float64 { return x / y })
	})
}

func numericBinOp(a, b *Json, intOp func(x, y int64) int64, floatOp func(x, y float64) float64) *Json {
	ai, aIsInt := a.AsInt()
	bi, bIsInt := b.AsInt()
	if aIsInt && bIsInt {
		return Int(intOp(ai, bi))
	}
	af, _ := a.AsFloat()
	bf, _ := b.AsFloat()
	return Float(floatOp(af, bf))
}

// Compare orders two scalar Numbers or Strings. ok is false for any other
// shape, including mixed Number/String, matching the uniform "any other shape:
// Null" fallback for the ordering operators.
func Compare(a, b *Json) (cmp int, ok bool) {
	if a.IsNumber() && b.IsNumber() {
		ai, aIsInt := a.AsInt()
		bi, bIsInt := b.AsInt()
		if aIsInt && bIsInt {
			switch {
			case ai < bi:
				return -1, true
			case ai > bi:
				return 1, true
			default:
				return 0, true
			}
		}
		af, _ := a.AsFloat()
		bf, _ := b.AsFloat()
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		default:
			return 0, true
		}
	}
	as, aIsStr := a.AsString()
	bs, bIsStr := b.AsString()
	if aIsStr && bIsStr {
		switch {
		case as < bs:
			return -1, true
		case as > bs:
			return 1, true
		default:
			return 0, true
		}
	}
	return 0, false
}

// Eq implements "==": structural equality, broadcast uniformly.
func Eq(a, b *Json) *Json { return broadcast(a, b, func(a, b *Json) *Json { return Bool(Equal(a, b)) }) }

// Neq implements "!=".
func Neq(a, b *Json) *Json {
	return broadcast(a, b, func(a, b *Json) *Json { return Bool(!Equal(a, b)) })
}

// Lt implements "<". Incomparable operands broadcast to Null, not false,
// per the uniform "any other shape: Null" rule.
func Lt(a, b *Json) *Json { return compareOp(a, b, func(c int) bool { return c < 0 }) }

// Le implements "<=".
func Le(a, b *Json) *Json { return compareOp(a, b, func(c int) bool { return c <= 0 }) }

// Gt implements ">".
func Gt(a, b *Json) *Json { return compareOp(a, b, func(c int) bool { return c > 0 }) }

// Ge implements ">=".
func Ge(a, b *Json) *Json { return compareOp(a, b, func(c int) bool { return c >= 0 }) }

func compareOp(a, b *Json, pred func(int) bool) *Json {
	return broadcast(a, b, func(a, b *Json) *Json {
		c, ok := Compare(a, b)
		if !ok {
			return Null
		}
		return Bool(pred(c))
	})
}
