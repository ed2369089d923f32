package lang

import (
	"io"
	"strings"
)

// tree is the printable shape of a syntax tree: a label and its children.
type tree struct {
	label    string
	children []tree
}

// Print writes the program as an indented tree rooted at "Program".
//
//	Program
//	├─ Assignment x
//	│  └─ Literal 1
//	└─ Print
//	   └─ Variable x
func (p *Program) Print(w io.Writer) error {
	var sb strings.Builder

	root := tree{label: "Program", children: stmtTrees(p.Statements)}
	root.write(&sb, "", "")

	_, err := io.WriteString(w, sb.String())

	return err
}

func (t tree) write(sb *strings.Builder, lead, prefix string) {
	sb.WriteString(lead)
	sb.WriteString(t.label)
	sb.WriteByte('\n')

	for i, c := range t.children {
		if i == len(t.children)-1 {
			c.write(sb, prefix+"└─ ", prefix+"   ")
		} else {
			c.write(sb, prefix+"├─ ", prefix+"│  ")
		}
	}
}

func section(label string, children ...tree) tree {
	return tree{label: label, children: children}
}

func stmtTrees(stmts []Stmt) []tree {
	out := make([]tree, len(stmts))
	for i, s := range stmts {
		out[i] = stmtTree(s)
	}

	return out
}

func exprTrees(exprs []Expr) []tree {
	out := make([]tree, len(exprs))
	for i, e := range exprs {
		out[i] = exprTree(e)
	}

	return out
}

//nolint:cyclop
func stmtTree(s Stmt) tree {
	t := tree{label: s.Label()}

	switch s := s.(type) {
	case *PrintStmt:
		t.children = exprTrees(s.Exprs)

	case *BlockStmt:
		t.children = stmtTrees(s.Statements)

	case *AssignmentStmt:
		t.children = []tree{exprTree(s.Value)}

	case *IfStmt:
		t.children = []tree{
			section("Condition", exprTree(s.Condition)),
			section("Then", stmtTrees(s.Then)...),
		}
		if s.Else != nil {
			t.children = append(t.children, section("Else", stmtTrees(s.Else)...))
		}

	case *WhileStmt:
		t.children = []tree{
			section("Condition", exprTree(s.Condition)),
			section("Body", stmtTrees(s.Body)...),
		}
		if s.Increment != nil {
			t.children = append(t.children, section("Increment", stmtTree(s.Increment)))
		}

	case *FunctionStmt:
		t.children = stmtTrees(s.Body)

	case *ReturnStmt:
		if s.Value != nil {
			t.children = []tree{exprTree(s.Value)}
		}

	case *ClassStmt:
		for _, f := range s.Fields {
			t.children = append(t.children, tree{label: "Field " + f.Lexeme})
		}

		for _, m := range s.Methods {
			t.children = append(t.children, stmtTree(m))
		}

	case *ExpressionStmt:
		t.children = []tree{exprTree(s.Expr)}
	}

	return t
}

func exprTree(e Expr) tree {
	t := tree{label: e.Label()}

	switch e := e.(type) {
	case *BinaryExpr:
		t.children = []tree{exprTree(e.Left), exprTree(e.Right)}

	case *LogicalExpr:
		if e.Left != nil {
			t.children = append(t.children, exprTree(e.Left))
		}

		t.children = append(t.children, exprTree(e.Right))

	case *ArrayExpr:
		t.children = exprTrees(e.Elements)

	case *MapExpr:
		for i := range e.Keys {
			t.children = append(t.children,
				section("Entry", exprTree(e.Keys[i]), exprTree(e.Values[i])))
		}

	case *IndexExpr:
		t.children = []tree{exprTree(e.Object), exprTree(e.Index)}

	case *CallExpr:
		t.children = append([]tree{exprTree(e.Callee)}, exprTrees(e.Args)...)

	case *GetExpr:
		t.children = []tree{exprTree(e.Object)}

	case *SetExpr:
		t.children = []tree{exprTree(e.Object), exprTree(e.Value)}

	case *LambdaExpr:
		t.children = stmtTrees(e.Body)
	}

	return t
}
