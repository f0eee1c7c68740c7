// Copyright (c) 2024 The eqbool authors
//
// MIT License

package eqbool

import (
	"fmt"
	"io"
)

// Print writes a human-readable rendering of h to w, naming every shared
// subexpression once (t0, t1, ...) the first time it is visited in
// postorder, the way the teacher's Print/PrintSet write one BDD node per
// line rather than inlining the whole expression tree (stdio.go).
func (c *Context) Print(w io.Writer, h Handle) error {
	c.checkHandle(h)
	names := make(map[uint32]string)
	var err error
	var visit func(cur Handle) string
	visit = func(cur Handle) string {
		cur = c.follow(cur)
		if err != nil {
			return ""
		}
		if c.isConst(cur) {
			if cur == c.trueH {
				return "true"
			}
			return "false"
		}
		e := c.entry(cur)
		if e.kind == kindTerm {
			return literalRef(c.terms.Name(e.term), cur.isInversion())
		}
		if name, ok := names[e.id]; ok {
			return literalRef(name, cur.isInversion())
		}
		var body string
		switch e.kind {
		case kindOr:
			body = ""
			for i, a := range e.args {
				if i > 0 {
					body += " | "
				}
				body += visit(a)
			}
		case kindIfelse:
			body = fmt.Sprintf("ifelse(%s, %s, %s)", visit(e.args[0]), visit(e.args[1]), visit(e.args[2]))
		case kindEq:
			body = fmt.Sprintf("%s = %s", visit(e.args[0]), visit(e.args[1]))
		}
		name := fmt.Sprintf("t%d", len(names))
		names[e.id] = name
		if _, werr := fmt.Fprintf(w, "%s := %s\n", name, body); werr != nil {
			err = werr
			return ""
		}
		return literalRef(name, cur.isInversion())
	}
	top := visit(h)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "= %s\n", top)
	return err
}

func literalRef(name string, inverted bool) string {
	if inverted {
		return "~" + name
	}
	return name
}
