package sql

import (
	"testing"

	"github.com/freeeve/jsondb/command"
	"github.com/stretchr/testify/require"
)

func TestParseSQLSimpleSelect(t *testing.T) {
	q, err := ParseSQL("select id, amount from orders where status = 'paid'")
	require.NoError(t, err)

	get, ok := q.From.(*command.Get)
	require.True(t, ok)
	require.Equal(t, "orders", get.Path)

	require.NotNil(t, q.Select)
	require.Equal(t, []string{"$id", "$amount"}, q.Select.Keys)

	eq, ok := q.Where.(*command.Eq)
	require.True(t, ok)
	lhs, ok := eq.Lhs.(*command.Val)
	require.True(t, ok)
	s, _ := lhs.Value.AsString()
	require.Equal(t, "$status", s)
}

func TestParseSQLGroupBy(t *testing.T) {
	q, err := ParseSQL("select region from orders group by region")
	require.NoError(t, err)
	require.Len(t, q.By, 1)
	val, ok := q.By[0].(*command.Val)
	require.True(t, ok)
	s, _ := val.Value.AsString()
	require.Equal(t, "$region", s)
}

func TestParseSQLStarHasNoProjection(t *testing.T) {
	q, err := ParseSQL("select * from orders")
	require.NoError(t, err)
	require.Nil(t, q.Select)
}

func TestParseSQLRejectsConjunction(t *testing.T) {
	_, err := ParseSQL("select * from orders where a = 1 and b = 2")
	require.Error(t, err)
}
