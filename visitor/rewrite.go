package visitor

import "github.com/freeeve/jsondb/command"

// ApplyFunc is called for each node during Rewrite. Return the
// replacement node, or the node unchanged to keep it.
type ApplyFunc func(command.Cmd) command.Cmd

// Rewrite traverses c in post-order (children first, then the node
// itself), rebuilding composite nodes with their rewritten children
// before calling f. This is what the query engine uses to substitute
// `$field` placeholders inside a where/select/by expression without
// mutating the original parsed Cmd, since the same parsed Query is
// re-evaluated per document.
func Rewrite(c command.Cmd, f ApplyFunc) command.Cmd {
	if c == nil {
		return nil
	}
	switch n := c.(type) {
	case *command.Add:
		return f(&command.Add{Lhs: Rewrite(n.Lhs, f), Rhs: Rewrite(n.Rhs, f)})
	case *command.Sub:
		return f(&command.Sub{Lhs: Rewrite(n.Lhs, f), Rhs: Rewrite(n.Rhs, f)})
	case *command.Mul:
		return f(&command.Mul{Lhs: Rewrite(n.Lhs, f), Rhs: Rewrite(n.Rhs, f)})
	case *command.Div:
		return f(&command.Div{Lhs: Rewrite(n.Lhs, f), Rhs: Rewrite(n.Rhs, f)})
	case *command.Eq:
		return f(&command.Eq{Lhs: Rewrite(n.Lhs, f), Rhs: Rewrite(n.Rhs, f)})
	case *command.Neq:
		return f(&command.Neq{Lhs: Rewrite(n.Lhs, f), Rhs: Rewrite(n.Rhs, f)})
	case *command.Lt:
		return f(&command.Lt{Lhs: Rewrite(n.Lhs, f), Rhs: Rewrite(n.Rhs, f)})
	case *command.Le:
		return f(&command.Le{Lhs: Rewrite(n.Lhs, f), Rhs: Rewrite(n.Rhs, f)})
	case *command.Gt:
		return f(&command.Gt{Lhs: Rewrite(n.Lhs, f), Rhs: Rewrite(n.Rhs, f)})
	case *command.Ge:
		return f(&command.Ge{Lhs: Rewrite(n.Lhs, f), Rhs: Rewrite(n.Rhs, f)})
	case *command.Avg:
		return f(&command.Avg{Arg: Rewrite(n.Arg, f)})
	case *command.Sum:
		return f(&command.Sum{Arg: Rewrite(n.Arg, f)})
	case *command.Sums:
		return f(&command.Sums{Arg: Rewrite(n.Arg, f)})
	case *command.First:
		return f(&command.First{Arg: Rewrite(n.Arg, f)})
	case *command.Last:
		return f(&command.Last{Arg: Rewrite(n.Arg, f)})
	case *command.Len:
		return f(&command.Len{Arg: Rewrite(n.Arg, f)})
	case *command.Max:
		return f(&command.Max{Arg: Rewrite(n.Arg, f)})
	case *command.Min:
		return f(&command.Min{Arg: Rewrite(n.Arg, f)})
	case *command.Unique:
		return f(&command.Unique{Arg: Rewrite(n.Arg, f)})
	case *command.Type:
		return f(&command.Type{Arg: Rewrite(n.Arg, f)})
	case *command.Set:
		return f(&command.Set{Key: n.Key, Arg: Rewrite(n.Arg, f)})
	case *command.Key:
		return f(&command.Key{Name: n.Name, Arg: Rewrite(n.Arg, f)})
	case *command.If:
		return f(&command.If{Pred: Rewrite(n.Pred, f), Then: Rewrite(n.Then, f), Else: Rewrite(n.Else, f)})
	case *command.Stmt:
		out := make([]command.Cmd, len(n.Cmds))
		for i, sub := range n.Cmds {
			out[i] = Rewrite(sub, f)
		}
		return f(&command.Stmt{Cmds: out})
	case *command.Watch:
		return f(&command.Watch{Key: n.Key, Arg: Rewrite(n.Arg, f)})
	default:
		// Get, Rm, Val, Eval, Sql are leaves for rewriting purposes: Sql
		// is never substituted into because a nested `sql` gets its own
		// independent row-substitution pass when it runs.
		return f(c)
	}
}
