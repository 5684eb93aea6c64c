package query

import (
	"testing"

	"github.com/freeeve/jsondb/command"
	"github.com/freeeve/jsondb/jsonval"
	"github.com/stretchr/testify/require"
)

// fakeEvaluator evaluates only Val and Get against a tiny in-memory table,
// plus the Gt comparison exercised by the where test, so
// these tests stay independent of the engine package.
type fakeEvaluator struct {
	store map[string]*jsonval.Json
}

func (f *fakeEvaluator) Eval(c command.Cmd) (*jsonval.Json, error) {
	switch n := c.(type) {
	case *command.Val:
		return n.Value, nil
	case *command.Get:
		return f.store[n.Path], nil
	case *command.Gt:
		lhs, err := f.Eval(n.Lhs)
		if err != nil {
			return nil, err
		}
		rhs, err := f.Eval(n.Rhs)
		if err != nil {
			return nil, err
		}
		return jsonval.Gt(lhs, rhs), nil
	}
	return nil, nil
}

func doc(fields map[string]*jsonval.Json) *jsonval.Json {
	obj := jsonval.NewObject()
	for k, v := range fields {
		obj.Set(k, v)
	}
	return jsonval.ObjectVal(obj)
}

func TestRunSelectProjectsRowWise(t *testing.T) {
	docs := jsonval.Array(
		doc(map[string]*jsonval.Json{"name": jsonval.String("a"), "age": jsonval.Int(10)}),
		doc(map[string]*jsonval.Json{"name": jsonval.String("b"), "age": jsonval.Int(20)}),
	)
	ev := &fakeEvaluator{store: map[string]*jsonval.Json{"people": docs}}

	sel := command.NewSelectClause()
	sel.Add("$name", &command.Val{Value: jsonval.String("$name")})

	q := &command.Query{
		Select: sel,
		From:   &command.Get{Path: "people"},
	}
	result, err := Run(ev, q)
	require.NoError(t, err)

	arr, ok := result.AsArray()
	require.True(t, ok)
	require.Len(t, arr, 2)

	obj0, ok := arr[0].AsObject()
	require.True(t, ok)
	v, ok := obj0.Get("name")
	require.True(t, ok)
	s, _ := v.AsString()
	require.Equal(t, "a", s)
}

func TestRunWhereFiltersColumnWise(t *testing.T) {
	docs := jsonval.Array(
		doc(map[string]*jsonval.Json{"age": jsonval.Int(10)}),
		doc(map[string]*jsonval.Json{"age": jsonval.Int(30)}),
	)
	ev := &fakeEvaluator{store: map[string]*jsonval.Json{"people": docs}}

	q := &command.Query{
		From: &command.Get{Path: "people"},
		Where: &command.Gt{
			Lhs: &command.Val{Value: jsonval.String("$age")},
			Rhs: &command.Val{Value: jsonval.Int(18)},
		},
	}
	result, err := Run(ev, q)
	require.NoError(t, err)

	arr, ok := result.AsArray()
	require.True(t, ok)
	require.Len(t, arr, 1)
	obj, _ := arr[0].AsObject()
	age, _ := obj.Get("age")
	i, _ := age.AsInt()
	require.Equal(t, int64(30), i)
}

func TestRunByGroupsAndPassesThroughOnSelect(t *testing.T) {
	docs := jsonval.Array(
		doc(map[string]*jsonval.Json{"team": jsonval.String("x"), "age": jsonval.Int(1)}),
		doc(map[string]*jsonval.Json{"team": jsonval.String("y"), "age": jsonval.Int(2)}),
		doc(map[string]*jsonval.Json{"team": jsonval.String("x"), "age": jsonval.Int(3)}),
	)
	ev := &fakeEvaluator{store: map[string]*jsonval.Json{"people": docs}}

	sel := command.NewSelectClause()
	sel.Add("$age", &command.Val{Value: jsonval.String("$age")})
	q := &command.Query{
		Select: sel,
		From:   &command.Get{Path: "people"},
		By:     []command.Cmd{&command.Val{Value: jsonval.String("$team")}},
	}
	result, err := Run(ev, q)
	require.NoError(t, err)

	obj, ok := result.AsObject()
	require.True(t, ok, "by carrier stays an Object even with select set")
	xGroup, ok := obj.Get("x")
	require.True(t, ok)
	xArr, _ := xGroup.AsArray()
	require.Len(t, xArr, 2)
}

func TestFieldRefRequiresDollarPrefix(t *testing.T) {
	_, ok := fieldRef(&command.Val{Value: jsonval.String("age")})
	require.False(t, ok)
	field, ok := fieldRef(&command.Val{Value: jsonval.String("$age")})
	require.True(t, ok)
	require.Equal(t, "age", field)
}
