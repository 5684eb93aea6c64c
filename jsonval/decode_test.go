package jsonval

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodePreservesIntFloat(t *testing.T) {
	v, err := Decode([]byte(`{"i":3,"f":3.5}`))
	require.NoError(t, err)
	obj, ok := v.AsObject()
	require.True(t, ok)
	i, _ := obj.Get("i")
	require.Equal(t, KindInt, i.Kind())
	f, _ := obj.Get("f")
	require.Equal(t, KindFloat, f.Kind())
}

func TestDecodePreservesKeyOrder(t *testing.T) {
	v, err := Decode([]byte(`{"z":1,"a":2,"m":3}`))
	require.NoError(t, err)
	obj, _ := v.AsObject()
	require.Equal(t, []string{"z", "a", "m"}, obj.Keys())
}

func TestDecodeArrayAndNested(t *testing.T) {
	v, err := Decode([]byte(`[1, "two", [3, 4], {"k": null}, true]`))
	require.NoError(t, err)
	arr, ok := v.AsArray()
	require.True(t, ok)
	require.Len(t, arr, 5)
	require.True(t, Equal(arr[0], Int(1)))
	require.True(t, Equal(arr[1], String("two")))
	require.True(t, Equal(arr[4], Bool(true)))
}
