package jsonval

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddBroadcast(t *testing.T) {
	tests := []struct {
		name string
		a, b *Json
		want *Json
	}{
		{"int+int", Int(1), Int(2), Int(3)},
		{"array+scalar", Array(Int(1), Int(2), Int(3)), Int(2), Array(Int(3), Int(4), Int(5))},
		{"scalar+array", Int(2), Array(Int(1), Int(2), Int(3)), Array(Int(3), Int(4), Int(5))},
		{"array+array shorter wins", Array(Int(1), Int(2)), Array(Int(10), Int(20), Int(30)), Array(Int(11), Int(22))},
		{"string+string", String("abc"), String("def"), String("abcdef")},
		{"string+int", String("x="), Int(4), String("x=4")},
		{"int+string", Int(4), String("=x"), String("4=x")},
		{"bool+int", Bool(true), Int(1), Int(2)},
		{"mixed widens to float", Int(1), Float(2.5), Float(3.5)},
		{"unsupported shape", Bool(true), String("x"), Null},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.True(t, Equal(Add(tt.a, tt.b), tt.want), "got %#v", Add(tt.a, tt.b))
		})
	}
}

func TestCommutativity(t *testing.T) {
	a := Array(Int(1), Int(2), Int(3))
	b := Int(2)
	require.True(t, Equal(Add(a, b), Add(b, a)))
	require.True(t, Equal(Mul(a, b), Mul(b, a)))
	require.True(t, Equal(Eq(a, b), Eq(b, a)))
	require.True(t, Equal(Neq(a, b), Neq(b, a)))
}

func TestDivByZero(t *testing.T) {
	result := Div(Int(1), Int(0))
	f, ok := result.AsFloat()
	require.True(t, ok)
	require.True(t, f > 0) // +Inf
}

func TestComparison(t *testing.T) {
	require.True(t, Equal(Lt(Int(1), Int(2)), Bool(true)))
	require.True(t, Equal(Gt(String("b"), String("a")), Bool(true)))
	require.True(t, Equal(Lt(Int(1), String("a")), Null))
	require.True(t, Equal(Lt(Array(Int(1), Int(5)), Int(3)), Array(Bool(true), Bool(false))))
}
