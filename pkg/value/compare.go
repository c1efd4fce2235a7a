package value

import (
	"cmp"
	"strings"
)

// Equal reports whether a and b hold the same variant and payload.
// Lists and maps compare element-wise; Graph and Function values compare by
// handle identity.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNone:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return a.n == b.n
	case KindString, KindSymbol:
		return a.s == b.s
	case KindTime:
		return a.t.Equal(b.t)
	case KindList:
		if len(a.list) != len(b.list) {
			return false
		}
		for i := range a.list {
			if !Equal(a.list[i], b.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(a.m) != len(b.m) {
			return false
		}
		for k, av := range a.m {
			bv, ok := b.m[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	default:
		return refKey(a.ref) == refKey(b.ref)
	}
}

// Compare returns a total order over values: first by kind (in declaration
// order of the Kind constants), then by payload. It returns -1, 0 or +1.
func Compare(a, b Value) int {
	if c := cmp.Compare(a.kind, b.kind); c != 0 {
		return c
	}
	switch a.kind {
	case KindNone:
		return 0
	case KindBool:
		switch {
		case a.b == b.b:
			return 0
		case !a.b:
			return -1
		default:
			return 1
		}
	case KindNumber:
		return cmp.Compare(a.n, b.n)
	case KindString, KindSymbol:
		return strings.Compare(a.s, b.s)
	case KindTime:
		return a.t.Compare(b.t)
	case KindList:
		for i := 0; i < len(a.list) && i < len(b.list); i++ {
			if c := Compare(a.list[i], b.list[i]); c != 0 {
				return c
			}
		}
		return cmp.Compare(len(a.list), len(b.list))
	case KindMap:
		return strings.Compare(a.String(), b.String())
	default:
		return strings.Compare(refKey(a.ref), refKey(b.ref))
	}
}

// Less reports whether a orders before b.
func Less(a, b Value) bool { return Compare(a, b) < 0 }
