// Package parser turns a decoded JSON value into a command.Cmd, using a
// single-key-object convention: an Object with exactly one recognized
// operator key dispatches to that operator's arity; anything else falls
// through to Val, unchanged, making the parser a total function the way
// a recursive-descent parser.Parse never panics on malformed input but
// instead accumulates a *ParseError — here there is nothing to
// accumulate, because there is no reject path at all.
package parser

import (
	"github.com/freeeve/jsondb/command"
	"github.com/freeeve/jsondb/jsonval"
	"github.com/freeeve/jsondb/sql"
)

type arity int

const (
	arityUnary arity = iota
	arityBinary
	arityTernary
	arityGetRm    // string arg
	arityKeyedCmd // [string, Cmd] arg: set/key/watch
	arityEval
	aritySql
	arityVal
)

type opInfo struct {
	arity arity
	build func(args ...command.Cmd) command.Cmd
}

// unary/binary builders receive already-parsed sub-commands positionally.
var ops map[string]opInfo

func init() {
	ops = map[string]opInfo{
		"+": {arityBinary, func(a ...command.Cmd) command.Cmd { return &command.Add{Lhs: a[0], Rhs: a[1]} }},
		"-": {arityBinary, func(a ...command.Cmd) command.Cmd { return &command.Sub{Lhs: a[0], Rhs: a[1]} }},
		"*": {arityBinary, func(a ...command.Cmd) command.Cmd { return &command.Mul{Lhs: a[0], Rhs: a[1]} }},
		"/": {arityBinary, func(a ...command.Cmd) command.Cmd { return &command.Div{Lhs: a[0], Rhs: a[1]} }},

		"==": {arityBinary, func(a ...command.Cmd) command.Cmd { return &command.Eq{Lhs: a[0], Rhs: a[1]} }},
		"!=": {arityBinary, func(a ...command.Cmd) command.Cmd { return &command.Neq{Lhs: a[0], Rhs: a[1]} }},
		"<":  {arityBinary, func(a ...command.Cmd) command.Cmd { return &command.Lt{Lhs: a[0], Rhs: a[1]} }},
		"<=": {arityBinary, func(a ...command.Cmd) command.Cmd { return &command.Le{Lhs: a[0], Rhs: a[1]} }},
		">":  {arityBinary, func(a ...command.Cmd) command.Cmd { return &command.Gt{Lhs: a[0], Rhs: a[1]} }},
		">=": {arityBinary, func(a ...command.Cmd) command.Cmd { return &command.Ge{Lhs: a[0], Rhs: a[1]} }},

		// Word aliases for the symbolic binary operators above.
		"add": {arityBinary, func(a ...command.Cmd) command.Cmd { return &command.Add{Lhs: a[0], Rhs: a[1]} }},
		"sub": {arityBinary, func(a ...command.Cmd) command.Cmd { return &command.Sub{Lhs: a[0], Rhs: a[1]} }},
		"mul": {arityBinary, func(a ...command.Cmd) command.Cmd { return &command.Mul{Lhs: a[0], Rhs: a[1]} }},
		"div": {arityBinary, func(a ...command.Cmd) command.Cmd { return &command.Div{Lhs: a[0], Rhs: a[1]} }},
		"eq":  {arityBinary, func(a ...command.Cmd) command.Cmd { return &command.Eq{Lhs: a[0], Rhs: a[1]} }},
		"neq": {arityBinary, func(a ...command.Cmd) command.Cmd { return &command.Neq{Lhs: a[0], Rhs: a[1]} }},
		"lt":  {arityBinary, func(a ...command.Cmd) command.Cmd { return &command.Lt{Lhs: a[0], Rhs: a[1]} }},
		"le":  {arityBinary, func(a ...command.Cmd) command.Cmd { return &command.Le{Lhs: a[0], Rhs: a[1]} }},
		"gt":  {arityBinary, func(a ...command.Cmd) command.Cmd { return &command.Gt{Lhs: a[0], Rhs: a[1]} }},
		"ge":  {arityBinary, func(a ...command.Cmd) command.Cmd { return &command.Ge{Lhs: a[0], Rhs: a[1]} }},

		"avg":    {arityUnary, func(a ...command.Cmd) command.Cmd { return &command.Avg{Arg: a[0]} }},
		"first":  {arityUnary, func(a ...command.Cmd) command.Cmd { return &command.First{Arg: a[0]} }},
		"last":   {arityUnary, func(a ...command.Cmd) command.Cmd { return &command.Last{Arg: a[0]} }},
		"len":    {arityUnary, func(a ...command.Cmd) command.Cmd { return &command.Len{Arg: a[0]} }},
		"max":    {arityUnary, func(a ...command.Cmd) command.Cmd { return &command.Max{Arg: a[0]} }},
		"min":    {arityUnary, func(a ...command.Cmd) command.Cmd { return &command.Min{Arg: a[0]} }},
		"sum":    {arityUnary, func(a ...command.Cmd) command.Cmd { return &command.Sum{Arg: a[0]} }},
		"sums":   {arityUnary, func(a ...command.Cmd) command.Cmd { return &command.Sums{Arg: a[0]} }},
		"unique": {arityUnary, func(a ...command.Cmd) command.Cmd { return &command.Unique{Arg: a[0]} }},
		"type":   {arityUnary, func(a ...command.Cmd) command.Cmd { return &command.Type{Arg: a[0]} }},

		"if": {arityTernary, func(a ...command.Cmd) command.Cmd { return &command.If{Pred: a[0], Then: a[1], Else: a[2]} }},

		"get": {arityGetRm, nil},
		"rm":  {arityGetRm, nil},

		"set":   {arityKeyedCmd, nil},
		"key":   {arityKeyedCmd, nil},
		"watch": {arityKeyedCmd, nil},

		"eval": {arityEval, nil},
		"sql":  {aritySql, nil},
		"val":  {arityVal, nil},
	}
}

// Parse converts a decoded Json value into a Cmd. Parse never fails: any
// shape it cannot interpret becomes Val(v) unchanged.
func Parse(v *jsonval.Json) command.Cmd {
	obj, isObj := v.AsObject()
	if !isObj || obj.Len() != 1 {
		return valOrStmt(v)
	}
	key := obj.Keys()[0]
	arg, _ := obj.Get(key)
	info, known := ops[key]
	if !known {
		return &command.Val{Value: v}
	}
	switch info.arity {
	case arityUnary:
		return info.build(Parse(arg))
	case arityBinary:
		elems, ok := arg.AsArray()
		if !ok || len(elems) != 2 {
			return &command.Val{Value: arg}
		}
		return info.build(Parse(elems[0]), Parse(elems[1]))
	case arityTernary:
		elems, ok := arg.AsArray()
		if !ok || len(elems) != 3 {
			return &command.Val{Value: arg}
		}
		return info.build(Parse(elems[0]), Parse(elems[1]), Parse(elems[2]))
	case arityGetRm:
		s, ok := arg.AsString()
		if !ok {
			return &command.Val{Value: arg}
		}
		if key == "get" {
			return &command.Get{Path: s}
		}
		return &command.Rm{Key: s}
	case arityKeyedCmd:
		elems, ok := arg.AsArray()
		if !ok || len(elems) != 2 {
			return &command.Val{Value: arg}
		}
		name, ok := elems[0].AsString()
		if !ok {
			return &command.Val{Value: jsonval.Array(elems[0], elems[1])}
		}
		sub := Parse(elems[1])
		switch key {
		case "set":
			return &command.Set{Key: name, Arg: sub}
		case "key":
			return &command.Key{Name: name, Arg: sub}
		default: // watch
			return &command.Watch{Key: name, Arg: sub}
		}
	case arityEval:
		return &command.Eval{Raw: arg}
	case aritySql:
		if raw, ok := arg.AsString(); ok {
			// Literal SQL text, the domain-stack sugar: fall back to the
			// canonical JSON Query form if vitess-sqlparser can't make
			// sense of it, rather than failing the whole parse.
			if q, err := sql.ParseSQL(raw); err == nil {
				return &command.Sql{Query: q}
			}
		}
		return &command.Sql{Query: ParseQuery(arg)}
	default: // arityVal
		return &command.Val{Value: arg}
	}
}

// valOrStmt handles every non-single-key-object shape: a zero/multi-member
// Object, an Array (wrapped as Stmt, each element parsed recursively), or
// any other scalar becomes Val unchanged except for Array, which is the
// one recursive non-operator case.
func valOrStmt(v *jsonval.Json) command.Cmd {
	if arr, ok := v.AsArray(); ok {
		cmds := make([]command.Cmd, len(arr))
		for i, el := range arr {
			cmds[i] = Parse(el)
		}
		return &command.Stmt{Cmds: cmds}
	}
	return &command.Val{Value: v}
}

// ParseQuery parses a Json Object into a Query record for the "sql"
// command. Missing fields are left nil/empty; this is as permissive as
// Parse itself.
func ParseQuery(v *jsonval.Json) *command.Query {
	obj, ok := v.AsObject()
	if !ok {
		return &command.Query{From: &command.Val{Value: jsonval.Null}}
	}
	q := &command.Query{}
	if sel, ok := obj.Get("select"); ok {
		if selObj, ok := sel.AsObject(); ok {
			q.Select = command.NewSelectClause()
			for _, k := range selObj.Keys() {
				expr, _ := selObj.Get(k)
				q.Select.Add(k, Parse(expr))
			}
		}
	}
	if from, ok := obj.Get("from"); ok {
		q.From = Parse(from)
	} else {
		q.From = &command.Val{Value: jsonval.Null}
	}
	if where, ok := obj.Get("where"); ok {
		q.Where = Parse(where)
	}
	if by, ok := obj.Get("by"); ok {
		if byArr, ok := by.AsArray(); ok {
			q.By = make([]command.Cmd, len(byArr))
			for i, el := range byArr {
				q.By[i] = Parse(el)
			}
		}
	}
	return q
}
