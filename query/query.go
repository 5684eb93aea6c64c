// Package query implements the select/from/where/by pipeline, built
// directly on the command tree and the visitor package's Rewrite:
// "$field" placeholders inside where/select/by expressions are resolved
// by rewriting the parsed Cmd before it is handed back to the evaluator,
// rather than by a separate expression-substitution interpreter.
package query

import (
	"strings"

	"github.com/freeeve/jsondb/command"
	"github.com/freeeve/jsondb/dberr"
	"github.com/freeeve/jsondb/jsonval"
	"github.com/freeeve/jsondb/visitor"
)

// Evaluator is the subset of the engine's interface the query pipeline
// needs: evaluating an already-parsed Cmd against the live store.
type Evaluator interface {
	Eval(c command.Cmd) (*jsonval.Json, error)
}

// Run executes q against ev, implementing the from/where/by/select
// pipeline stages in order.
func Run(ev Evaluator, q *command.Query) (*jsonval.Json, error) {
	fromVal, err := ev.Eval(q.From)
	if err != nil {
		return nil, err
	}
	docs, ok := fromVal.AsArray()
	if !ok {
		return nil, dberr.New(dberr.BadFrom)
	}

	if q.Where != nil {
		docs, err = filterWhere(ev, q.Where, docs)
		if err != nil {
			return nil, err
		}
	}

	var carrier *jsonval.Json
	if len(q.By) > 0 && q.By[0] != nil {
		carrier, err = groupBy(ev, q.By[0], docs)
		if err != nil {
			return nil, err
		}
	} else {
		carrier = jsonval.Array(docs...)
	}

	if q.Select == nil {
		return carrier, nil
	}
	arr, isArr := carrier.AsArray()
	if !isArr {
		// the `by` case: pass the grouped Object through unchanged.
		return carrier, nil
	}
	return project(ev, q.Select, arr)
}

// filterWhere substitutes every "$field" literal in pred with the Array
// of every doc's field value, column-wise: where substitutes columns,
// select/by substitute rows, and implementations must preserve that
// asymmetry. The rewritten predicate is evaluated once and must yield a
// Bool Array the same length as docs.
func filterWhere(ev Evaluator, pred command.Cmd, docs []*jsonval.Json) ([]*jsonval.Json, error) {
	rewritten := visitor.Rewrite(pred, func(c command.Cmd) command.Cmd {
		field, ok := fieldRef(c)
		if !ok {
			return c
		}
		vals := make([]*jsonval.Json, len(docs))
		for i, d := range docs {
			vals[i] = jsonval.Get(d, field)
		}
		return &command.Val{Value: jsonval.Array(vals...)}
	})
	result, err := ev.Eval(rewritten)
	if err != nil {
		return nil, err
	}
	flags, ok := result.AsArray()
	if !ok {
		return nil, dberr.New(dberr.BadType)
	}
	out := make([]*jsonval.Json, 0, len(docs))
	for i, d := range docs {
		if i >= len(flags) {
			break
		}
		if keep, _ := flags[i].AsBool(); keep {
			out = append(out, d)
		}
	}
	return out, nil
}

// groupBy evaluates by once per document, substituting "$field"
// references with that document's scalar field value, coerces the
// result to a String key, and buckets documents by it.
func groupBy(ev Evaluator, by command.Cmd, docs []*jsonval.Json) (*jsonval.Json, error) {
	obj := jsonval.NewObject()
	order := map[string][]*jsonval.Json{}
	var keyOrder []string
	for _, d := range docs {
		keyVal, err := ev.Eval(substituteRow(by, d))
		if err != nil {
			return nil, err
		}
		key := stringifyKey(keyVal)
		if _, seen := order[key]; !seen {
			keyOrder = append(keyOrder, key)
		}
		order[key] = append(order[key], d)
	}
	for _, k := range keyOrder {
		obj.Set(k, jsonval.Array(order[k]...))
	}
	return jsonval.ObjectVal(obj), nil
}

// project evaluates every (outKey, expr) pair in sel against each
// document, row-wise, producing one Object per document. A leading "$"
// on the output key name is dropped for the result's field name.
func project(ev Evaluator, sel *command.SelectClause, docs []*jsonval.Json) (*jsonval.Json, error) {
	out := make([]*jsonval.Json, len(docs))
	for i, d := range docs {
		row := jsonval.NewObject()
		for _, k := range sel.Keys {
			val, err := ev.Eval(substituteRow(sel.Exprs[k], d))
			if err != nil {
				return nil, err
			}
			row.Set(strings.TrimPrefix(k, "$"), val)
		}
		out[i] = jsonval.ObjectVal(row)
	}
	return jsonval.Array(out...), nil
}

// substituteRow rewrites every "$field" literal in c with doc's scalar
// field value; missing fields substitute Null.
func substituteRow(c command.Cmd, doc *jsonval.Json) command.Cmd {
	return visitor.Rewrite(c, func(n command.Cmd) command.Cmd {
		field, ok := fieldRef(n)
		if !ok {
			return n
		}
		return &command.Val{Value: jsonval.Get(doc, field)}
	})
}

// fieldRef reports whether c is a Val("$field") placeholder, returning
// the field name without its leading "$".
func fieldRef(c command.Cmd) (string, bool) {
	val, ok := c.(*command.Val)
	if !ok {
		return "", false
	}
	s, ok := val.Value.AsString()
	if !ok || !strings.HasPrefix(s, "$") {
		return "", false
	}
	return s[1:], true
}

func stringifyKey(v *jsonval.Json) string {
	if s, ok := v.AsString(); ok {
		return s
	}
	raw, err := jsonval.Encode(v)
	if err != nil {
		return ""
	}
	return string(raw)
}
