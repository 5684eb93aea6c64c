// Package visitor provides traversal and rewriting utilities over the
// command tree, the same role a visitor package plays for SQL ASTs: a
// depth-first Walk for read-only inspection and a post-order Rewrite for
// substitution. The query engine's "$field" substitution is built
// entirely on Rewrite.
package visitor

import "github.com/freeeve/jsondb/command"

// VisitFunc is called for each node during Walk. Returning false skips
// the node's children.
type VisitFunc func(command.Cmd) bool

// Walk traverses c in depth-first order, calling fn for every node.
func Walk(c command.Cmd, fn VisitFunc) {
	if c == nil || !fn(c) {
		return
	}
	for _, child := range children(c) {
		Walk(child, fn)
	}
}

// children returns the immediate sub-commands of c, or nil for leaves.
func children(c command.Cmd) []command.Cmd {
	switch n := c.(type) {
	case *command.Add:
		return []command.Cmd{n.Lhs, n.Rhs}
	case *command.Sub:
		return []command.Cmd{n.Lhs, n.Rhs}
	case *command.Mul:
		return []command.Cmd{n.Lhs, n.Rhs}
	case *command.Div:
		return []command.Cmd{n.Lhs, n.Rhs}
	case *command.Eq:
		return []command.Cmd{n.Lhs, n.Rhs}
	case *command.Neq:
		return []command.Cmd{n.Lhs, n.Rhs}
	case *command.Lt:
		return []command.Cmd{n.Lhs, n.Rhs}
	case *command.Le:
		return []command.Cmd{n.Lhs, n.Rhs}
	case *command.Gt:
		return []command.Cmd{n.Lhs, n.Rhs}
	case *command.Ge:
		return []command.Cmd{n.Lhs, n.Rhs}
	case *command.Avg:
		return []command.Cmd{n.Arg}
	case *command.Sum:
		return []command.Cmd{n.Arg}
	case *command.Sums:
		return []command.Cmd{n.Arg}
	case *command.First:
		return []command.Cmd{n.Arg}
	case *command.Last:
		return []command.Cmd{n.Arg}
	case *command.Len:
		return []command.Cmd{n.Arg}
	case *command.Max:
		return []command.Cmd{n.Arg}
	case *command.Min:
		return []command.Cmd{n.Arg}
	case *command.Unique:
		return []command.Cmd{n.Arg}
	case *command.Type:
		return []command.Cmd{n.Arg}
	case *command.Set:
		return []command.Cmd{n.Arg}
	case *command.Key:
		return []command.Cmd{n.Arg}
	case *command.If:
		return []command.Cmd{n.Pred, n.Then, n.Else}
	case *command.Stmt:
		return n.Cmds
	case *command.Watch:
		return []command.Cmd{n.Arg}
	case *command.Sql:
		if n.Query == nil {
			return nil
		}
		var out []command.Cmd
		if n.Query.Select != nil {
			for _, k := range n.Query.Select.Keys {
				out = append(out, n.Query.Select.Exprs[k])
			}
		}
		if n.Query.From != nil {
			out = append(out, n.Query.From)
		}
		if n.Query.Where != nil {
			out = append(out, n.Query.Where)
		}
		out = append(out, n.Query.By...)
		return out
	default:
		// Get, Rm, Val, Eval are leaves.
		return nil
	}
}
