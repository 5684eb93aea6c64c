// Package sql translates a literal SQL SELECT string into a
// command.Query, using vitess-sqlparser as a production dependency
// rather than just for comparison testing. This is additive sugar: the
// native JSON Query record remains the canonical form this module's own
// tests are pinned against, and the subset of SQL accepted here is
// exactly what maps onto that record (a flat select list, a single
// table, one comparison predicate, one GROUP BY column).
package sql

import (
	"fmt"
	"strconv"

	vitess "github.com/blastrain/vitess-sqlparser/sqlparser"

	"github.com/freeeve/jsondb/command"
	"github.com/freeeve/jsondb/jsonval"
)

// ParseSQL parses raw as a single SQL SELECT statement and translates it
// into a Query: the column list becomes select, the table name becomes
// from (a Get on that key), WHERE becomes where, and the first GROUP BY
// item becomes by.
func ParseSQL(raw string) (*command.Query, error) {
	stmt, err := vitess.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("sql: %w", err)
	}
	sel, ok := stmt.(*vitess.Select)
	if !ok {
		return nil, fmt.Errorf("sql: only SELECT statements are supported, got %T", stmt)
	}

	from, err := translateFrom(sel.From)
	if err != nil {
		return nil, err
	}
	q := &command.Query{From: from}

	if selClause, err := translateSelect(sel.SelectExprs); err != nil {
		return nil, err
	} else {
		q.Select = selClause
	}

	if sel.Where != nil {
		where, err := translateExpr(sel.Where.Expr)
		if err != nil {
			return nil, err
		}
		q.Where = where
	}

	if len(sel.GroupBy) > 0 {
		by, err := translateExpr(sel.GroupBy[0])
		if err != nil {
			return nil, err
		}
		q.By = []command.Cmd{by}
	}

	return q, nil
}

func translateFrom(tables vitess.TableExprs) (command.Cmd, error) {
	if len(tables) != 1 {
		return nil, fmt.Errorf("sql: exactly one table is supported in FROM, got %d", len(tables))
	}
	aliased, ok := tables[0].(*vitess.AliasedTableExpr)
	if !ok {
		return nil, fmt.Errorf("sql: unsupported FROM expression %T", tables[0])
	}
	name, ok := aliased.Expr.(vitess.TableName)
	if !ok {
		return nil, fmt.Errorf("sql: unsupported table expression %T", aliased.Expr)
	}
	return &command.Get{Path: name.Name.String()}, nil
}

// translateSelect returns nil (no projection: the pipeline returns the
// carrier as-is) for a bare `SELECT *`.
func translateSelect(exprs vitess.SelectExprs) (*command.SelectClause, error) {
	sel := command.NewSelectClause()
	sawColumn := false
	for _, se := range exprs {
		switch e := se.(type) {
		case *vitess.StarExpr:
			continue
		case *vitess.AliasedExpr:
			sawColumn = true
			expr, err := translateExpr(e.Expr)
			if err != nil {
				return nil, err
			}
			outKey := e.As.String()
			if outKey == "" {
				col, ok := e.Expr.(*vitess.ColName)
				if !ok {
					return nil, fmt.Errorf("sql: select expression needs an alias: %T", e.Expr)
				}
				outKey = "$" + col.Name.String()
			} else {
				outKey = "$" + outKey
			}
			sel.Add(outKey, expr)
		default:
			return nil, fmt.Errorf("sql: unsupported select expression %T", se)
		}
	}
	if !sawColumn {
		return nil, nil
	}
	return sel, nil
}

// translateExpr maps the small subset of SQL expressions the command
// tree can represent: column references, literals, and single
// comparisons. Boolean AND/OR has no equivalent Cmd node — the command
// language has no conjunction operator — so it is rejected rather than
// silently dropping half the predicate.
func translateExpr(e vitess.Expr) (command.Cmd, error) {
	switch n := e.(type) {
	case *vitess.ColName:
		return &command.Val{Value: jsonval.String("$" + n.Name.String())}, nil
	case *vitess.SQLVal:
		return translateLiteral(n)
	case *vitess.ComparisonExpr:
		lhs, err := translateExpr(n.Left)
		if err != nil {
			return nil, err
		}
		rhs, err := translateExpr(n.Right)
		if err != nil {
			return nil, err
		}
		switch n.Operator {
		case "=":
			return &command.Eq{Lhs: lhs, Rhs: rhs}, nil
		case "!=", "<>":
			return &command.Neq{Lhs: lhs, Rhs: rhs}, nil
		case "<":
			return &command.Lt{Lhs: lhs, Rhs: rhs}, nil
		case "<=":
			return &command.Le{Lhs: lhs, Rhs: rhs}, nil
		case ">":
			return &command.Gt{Lhs: lhs, Rhs: rhs}, nil
		case ">=":
			return &command.Ge{Lhs: lhs, Rhs: rhs}, nil
		default:
			return nil, fmt.Errorf("sql: unsupported comparison operator %q", n.Operator)
		}
	default:
		return nil, fmt.Errorf("sql: unsupported expression %T", e)
	}
}

func translateLiteral(v *vitess.SQLVal) (command.Cmd, error) {
	switch v.Type {
	case vitess.StrVal:
		return &command.Val{Value: jsonval.String(string(v.Val))}, nil
	case vitess.IntVal:
		i, err := strconv.ParseInt(string(v.Val), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("sql: bad integer literal %q: %w", v.Val, err)
		}
		return &command.Val{Value: jsonval.Int(i)}, nil
	case vitess.FloatVal:
		f, err := strconv.ParseFloat(string(v.Val), 64)
		if err != nil {
			return nil, fmt.Errorf("sql: bad float literal %q: %w", v.Val, err)
		}
		return &command.Val{Value: jsonval.Float(f)}, nil
	default:
		return nil, fmt.Errorf("sql: unsupported literal type %v", v.Type)
	}
}
