package jsonval

// Sum folds "+" over an Array from Int 0. On a scalar Number it returns
// that number; on any other non-Array shape it returns Int 0.
func Sum(v *Json) *Json {
	arr, ok := v.AsArray()
	if !ok {
		if v.IsNumber() {
			return v
		}
		return Int(0)
	}
	acc := *Int(0)
	accPtr := &acc
	for _, el := range arr {
		accPtr = Add(accPtr, el)
	}
	return accPtr
}

// Sums produces the running prefix-sum Array. On a scalar Number it
// returns a one-element Array holding that number; on any other non-Array
// shape, a one-element Array holding Int 0.
func Sums(v *Json) *Json {
	arr, ok := v.AsArray()
	if !ok {
		if v.IsNumber() {
			return Array(v)
		}
		return Array(Int(0))
	}
	out := make([]*Json, len(arr))
	acc := Int(0)
	for i, el := range arr {
		acc = Add(acc, el)
		out[i] = acc
	}
	return Array(out...)
}

// Avg computes sum(A)/len(A) as a Float. On a scalar Number it returns
// that number unchanged.
func Avg(v *Json) *Json {
	arr, ok := v.AsArray()
	if !ok {
		if v.IsNumber() {
			return v
		}
		return Int(0)
	}
	if len(arr) == 0 {
		return Null
	}
	total := Sum(v)
	tf, _ := total.AsFloat()
	return Float(tf / float64(len(arr)))
}

// First returns A[0], Null if A is empty, or v unchanged if v is not an
// Array.
func First(v *Json) *Json {
	arr, ok := v.AsArray()
	if !ok {
		return v
	}
	if len(arr) == 0 {
		return Null
	}
	return arr[0]
}

// Last returns A[len(A)-1], Null if A is empty, or v unchanged if v is not
// an Array.
func Last(v *Json) *Json {
	arr, ok := v.AsArray()
	if !ok {
		return v
	}
	if len(arr) == 0 {
		return Null
	}
	return arr[len(arr)-1]
}

// Len returns the element count of an Array, the member count of an
// Object, or Int 1 for any other shape.
func Len(v *Json) *Json {
	switch v.Kind() {
	case KindArray:
		arr, _ := v.AsArray()
		return Int(int64(len(arr)))
	case KindObject:
		obj, _ := v.AsObject()
		return Int(int64(obj.Len()))
	default:
		return Int(1)
	}
}

// Unique preserves first-occurrence order, comparing by structural
// equality. On a non-Array it returns v unchanged.
func Unique(v *Json) *Json {
	arr, ok := v.AsArray()
	if !ok {
		return v
	}
	out := make([]*Json, 0, len(arr))
	for _, el := range arr {
		seen := false
		for _, u := range out {
			if Equal(u, el) {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, el)
		}
	}
	return Array(out...)
}

// Max reduces an Array by Compare; on scalars it returns v unchanged, and
// on an empty Array it returns Null. Ordering is only defined
// between two Numbers or two Strings; an element that can't be compared
// against the running max is skipped rather than making the whole
// reduction Null, so "max over mixed-type arrays" degrades to "max over
// the comparable elements" instead of erroring.
func Max(v *Json) *Json { return extreme(v, func(c int) bool { return c > 0 }) }

// Min is the dual of Max.
func Min(v *Json) *Json { return extreme(v, func(c int) bool { return c < 0 }) }

func extreme(v *Json, better func(int) bool) *Json {
	arr, ok := v.AsArray()
	if !ok {
		return v
	}
	if len(arr) == 0 {
		return Null
	}
	best := arr[0]
	for _, el := range arr[1:] {
		c, cmpOk := Compare(el, best)
		if cmpOk && better(c) {
			best = el
		}
	}
	return best
}
