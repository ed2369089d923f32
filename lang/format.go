package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes the program in canonical source form. With indent > 0 each
// statement is on its own line and nested bodies are indented by indent
// spaces per level; with indent == 0 the program is written on one line
// with statements separated by semicolons.
func (p *Program) Format(_ context.Context, w io.Writer, indent int) error {
	f := formatter{indent: max(indent, 0)}
	f.stmts(p.Statements, 0)
	f.sb.WriteByte('\n')

	_, err := io.WriteString(w, f.sb.String())

	return err
}

// FormatJSON writes the program's tree as JSON.
func (p *Program) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(p, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(p)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the program's tree as YAML. With indent == 0 the
// document uses flow style.
func (p *Program) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	return EncodeYAML(ctx, w, p.ToMap(), indent)
}

// EncodeYAML writes v as YAML. With indent == 0 the document uses flow
// style.
func EncodeYAML(ctx context.Context, w io.Writer, v any, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, v, opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

// Binding strength of each expression form, loosest first.
const (
	precOr = iota + 1
	precAnd
	precNot
	precComparison
	precTerm
	precFactor
	precPostfix
	precPrimary
)

type formatter struct {
	sb     strings.Builder
	indent int
	depth  int // nesting level of the statement being written
}

func (f *formatter) stmts(stmts []Stmt, depth int) {
	outer := f.depth
	f.depth = depth

	defer func() { f.depth = outer }()

	for i, s := range stmts {
		if i > 0 {
			if f.indent > 0 {
				f.sb.WriteByte('\n')
			} else {
				f.sb.WriteString("; ")
			}
		}

		f.pad(depth)
		f.stmt(s, depth)
	}
}

func (f *formatter) pad(depth int) {
	f.sb.WriteString(strings.Repeat(" ", depth*f.indent))
}

// body writes "{ ... }" around stmts.
func (f *formatter) body(stmts []Stmt, depth int) {
	if len(stmts) == 0 {
		f.sb.WriteString("{}")

		return
	}

	if f.indent == 0 {
		f.sb.WriteString("{ ")
		f.stmts(stmts, 0)
		f.sb.WriteString(" }")

		return
	}

	f.sb.WriteString("{\n")
	f.stmts(stmts, depth+1)
	f.sb.WriteByte('\n')
	f.pad(depth)
	f.sb.WriteByte('}')
}

//nolint:cyclop,funlen
func (f *formatter) stmt(s Stmt, depth int) {
	switch s := s.(type) {
	case *PrintStmt:
		f.sb.WriteString("print ")
		f.list(s.Exprs)

	case *ExitStmt:
		f.sb.WriteString("exit")

	case *BlockStmt:
		if f.forLoop(s, depth) {
			return
		}

		// There is no block syntax; the statements run in the current
		// environment, so writing them in sequence is equivalent.
		for i, c := range s.Statements {
			if i > 0 {
				f.sb.WriteString("; ")
			}

			f.stmt(c, depth)
		}

	case *AssignmentStmt:
		f.sb.WriteString(s.Name.Lexeme)
		f.sb.WriteString(" = ")
		f.expr(s.Value, 0)

	case *IfStmt:
		f.sb.WriteString("if ")
		f.expr(s.Condition, 0)
		f.sb.WriteByte(' ')
		f.body(s.Then, depth)

		if s.Else != nil {
			f.sb.WriteString(" else ")
			f.body(s.Else, depth)
		}

	case *WhileStmt:
		f.sb.WriteString("while ")
		f.expr(s.Condition, 0)
		f.sb.WriteByte(' ')
		f.body(s.Body, depth)

	case *FunctionStmt:
		f.sb.WriteString("fun ")
		f.sb.WriteString(s.Name.Lexeme)
		f.sb.WriteString(paramList(s.Params))
		f.sb.WriteByte(' ')
		f.body(s.Body, depth)

	case *ReturnStmt:
		f.sb.WriteString("return")

		if s.Value != nil {
			f.sb.WriteByte(' ')
			f.expr(s.Value, 0)
		}

	case *BreakStmt:
		f.sb.WriteString("break")

	case *ContinueStmt:
		f.sb.WriteString("continue")

	case *ClassStmt:
		members := make([]Stmt, 0, len(s.Methods))
		for _, m := range s.Methods {
			members = append(members, m)
		}

		f.sb.WriteString("class ")
		f.sb.WriteString(s.Name.Lexeme)
		f.sb.WriteByte(' ')
		f.classBody(s.Fields, members, depth)

	case *ExpressionStmt:
		f.expr(s.Expr, 0)
	}
}

func (f *formatter) classBody(fields []Token, methods []Stmt, depth int) {
	if len(fields) == 0 && len(methods) == 0 {
		f.sb.WriteString("{}")

		return
	}

	sep, inner := "\n", depth+1
	if f.indent == 0 {
		sep, inner = " ", 0
	}

	f.sb.WriteByte('{')

	for i, fld := range fields {
		if i == 0 || f.indent > 0 {
			f.sb.WriteString(sep)
			f.pad(inner)
		} else {
			f.sb.WriteString(", ")
		}

		f.sb.WriteString(fld.Lexeme)
	}

	for _, m := range methods {
		f.sb.WriteString(sep)
		f.pad(inner)
		f.stmt(m, inner)
	}

	f.sb.WriteString(sep)
	f.pad(depth)
	f.sb.WriteByte('}')
}

// forLoop writes s as a "for" statement if it has the shape the parser
// produces for one.
func (f *formatter) forLoop(s *BlockStmt, depth int) bool {
	if len(s.Statements) != 2 || s.Start.Kind != TokenFor {
		return false
	}

	start, ok := s.Statements[0].(*AssignmentStmt)
	if !ok {
		return false
	}

	loop, ok := s.Statements[1].(*WhileStmt)
	if !ok || loop.Increment == nil {
		return false
	}

	cond, ok := loop.Condition.(*BinaryExpr)
	if !ok || cond.Operator.Kind != TokenLessEqual {
		return false
	}

	f.sb.WriteString("for ")
	f.sb.WriteString(start.Name.Lexeme)
	f.sb.WriteString(" = ")
	f.expr(start.Value, 0)
	f.sb.WriteString(" to ")
	f.expr(cond.Right, 0)
	f.sb.WriteByte(' ')
	f.body(loop.Body, depth)

	return true
}

func (f *formatter) list(exprs []Expr) {
	for i, e := range exprs {
		if i > 0 {
			f.sb.WriteString(", ")
		}

		f.expr(e, 0)
	}
}

// expr writes e, parenthesized if it binds looser than bind.
//
//nolint:cyclop,funlen
func (f *formatter) expr(e Expr, bind int) {
	prec := precedence(e)
	if prec < bind {
		f.sb.WriteByte('(')
		defer f.sb.WriteByte(')')
	}

	switch e := e.(type) {
	case *LiteralExpr:
		if n, ok := e.Value.(float64); ok {
			f.sb.WriteString(strconv.FormatFloat(n, 'f', -1, 64))
		} else {
			f.sb.WriteString(literalString(e.Value))
		}

	case *VariableExpr:
		f.sb.WriteString(e.Name.Lexeme)

	case *ThisExpr:
		f.sb.WriteString("this")

	case *BinaryExpr:
		f.expr(e.Left, prec)
		f.sb.WriteString(" " + e.Operator.Lexeme + " ")
		f.expr(e.Right, prec+1)

	case *LogicalExpr:
		if e.Left == nil {
			f.sb.WriteString("not ")
			f.expr(e.Right, prec)

			return
		}

		f.expr(e.Left, prec)
		f.sb.WriteString(" " + e.Operator.Lexeme + " ")
		f.expr(e.Right, prec+1)

	case *ArrayExpr:
		f.sb.WriteByte('[')
		f.list(e.Elements)
		f.sb.WriteByte(']')

	case *MapExpr:
		f.sb.WriteByte('{')

		for i := range e.Keys {
			if i > 0 {
				f.sb.WriteString(", ")
			}

			f.expr(e.Keys[i], 0)
			f.sb.WriteString(": ")
			f.expr(e.Values[i], 0)
		}

		f.sb.WriteByte('}')

	case *IndexExpr:
		f.expr(e.Object, precPostfix)
		f.sb.WriteByte('[')
		f.expr(e.Index, 0)
		f.sb.WriteByte(']')

	case *CallExpr:
		f.expr(e.Callee, precPostfix)
		f.sb.WriteByte('(')
		f.list(e.Args)
		f.sb.WriteByte(')')

	case *GetExpr:
		f.expr(e.Object, precPostfix)
		f.sb.WriteByte('.')
		f.sb.WriteString(e.Name.Lexeme)

	case *SetExpr:
		f.expr(e.Object, precPostfix)
		f.sb.WriteByte('.')
		f.sb.WriteString(e.Name.Lexeme)
		f.sb.WriteString(" = ")
		f.expr(e.Value, 0)

	case *LambdaExpr:
		f.sb.WriteString("fun")
		f.sb.WriteString(paramList(e.Params))
		f.sb.WriteByte(' ')
		f.body(e.Body, f.depth)
	}
}

func precedence(e Expr) int {
	switch e := e.(type) {
	case *LogicalExpr:
		switch e.Operator.Kind {
		case TokenOr:
			return precOr
		case TokenAnd:
			return precAnd
		default:
			return precNot
		}

	case *BinaryExpr:
		switch e.Operator.Kind {
		case TokenPlus, TokenMinus:
			return precTerm
		case TokenStar, TokenSlash, TokenPercent:
			return precFactor
		default:
			return precComparison
		}

	case *IndexExpr, *CallExpr, *GetExpr:
		return precPostfix

	case *SetExpr:
		return 0
	}

	return precPrimary
}
