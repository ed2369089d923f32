package lang

import (
	"encoding/json"
)

// MarshalJSON implements json.Marshaler for Program.
func (p *Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ToMap())
}

// ToMap converts the program to native Go maps and slices. Every node
// becomes a map with at least the keys "node" and "line".
func (p *Program) ToMap() map[string]any {
	return map[string]any{
		"node": "Program",
		"body": stmtMaps(p.Statements),
	}
}

func stmtMaps(stmts []Stmt) []any {
	out := make([]any, len(stmts))
	for i, s := range stmts {
		out[i] = stmtMap(s)
	}

	return out
}

func exprMaps(exprs []Expr) []any {
	out := make([]any, len(exprs))
	for i, e := range exprs {
		out[i] = exprMap(e)
	}

	return out
}

func names(tokens []Token) []any {
	out := make([]any, len(tokens))
	for i, t := range tokens {
		out[i] = t.Lexeme
	}

	return out
}

func node(kind string, n Node) map[string]any {
	return map[string]any{"node": kind, "line": n.Line()}
}

//nolint:cyclop,funlen
func stmtMap(s Stmt) map[string]any {
	switch s := s.(type) {
	case *PrintStmt:
		m := node("Print", s)
		m["values"] = exprMaps(s.Exprs)

		return m

	case *ExitStmt:
		return node("Exit", s)

	case *BlockStmt:
		m := node("Block", s)
		m["body"] = stmtMaps(s.Statements)

		return m

	case *AssignmentStmt:
		m := node("Assignment", s)
		m["name"] = s.Name.Lexeme
		m["value"] = exprMap(s.Value)

		return m

	case *IfStmt:
		m := node("If", s)
		m["condition"] = exprMap(s.Condition)
		m["then"] = stmtMaps(s.Then)

		if s.Else != nil {
			m["else"] = stmtMaps(s.Else)
		}

		return m

	case *WhileStmt:
		m := node("While", s)
		m["condition"] = exprMap(s.Condition)
		m["body"] = stmtMaps(s.Body)

		if s.Increment != nil {
			m["increment"] = stmtMap(s.Increment)
		}

		return m

	case *FunctionStmt:
		m := node("Function", s)
		m["name"] = s.Name.Lexeme
		m["params"] = names(s.Params)
		m["body"] = stmtMaps(s.Body)

		return m

	case *ReturnStmt:
		m := node("Return", s)
		if s.Value != nil {
			m["value"] = exprMap(s.Value)
		}

		return m

	case *BreakStmt:
		return node("Break", s)

	case *ContinueStmt:
		return node("Continue", s)

	case *ClassStmt:
		m := node("Class", s)
		m["name"] = s.Name.Lexeme
		m["fields"] = names(s.Fields)

		methods := make([]any, len(s.Methods))
		for i, fn := range s.Methods {
			methods[i] = stmtMap(fn)
		}

		m["methods"] = methods

		return m

	case *ExpressionStmt:
		m := node("Expression", s)
		m["expr"] = exprMap(s.Expr)

		return m
	}

	return node("Unknown", s)
}

//nolint:cyclop,funlen
func exprMap(e Expr) map[string]any {
	switch e := e.(type) {
	case *LiteralExpr:
		m := node("Literal", e)
		m["value"] = e.Value

		return m

	case *VariableExpr:
		m := node("Variable", e)
		m["name"] = e.Name.Lexeme

		return m

	case *BinaryExpr:
		m := node("Binary", e)
		m["operator"] = e.Operator.Lexeme
		m["left"] = exprMap(e.Left)
		m["right"] = exprMap(e.Right)

		return m

	case *LogicalExpr:
		m := node("Logical", e)
		m["operator"] = e.Operator.Lexeme

		if e.Left != nil {
			m["left"] = exprMap(e.Left)
		}

		m["right"] = exprMap(e.Right)

		return m

	case *ArrayExpr:
		m := node("Array", e)
		m["elements"] = exprMaps(e.Elements)

		return m

	case *MapExpr:
		m := node("Map", e)

		entries := make([]any, len(e.Keys))
		for i := range e.Keys {
			entries[i] = map[string]any{
				"key":   exprMap(e.Keys[i]),
				"value": exprMap(e.Values[i]),
			}
		}

		m["entries"] = entries

		return m

	case *IndexExpr:
		m := node("Index", e)
		m["object"] = exprMap(e.Object)
		m["index"] = exprMap(e.Index)

		return m

	case *CallExpr:
		m := node("Call", e)
		m["callee"] = exprMap(e.Callee)
		m["args"] = exprMaps(e.Args)

		return m

	case *GetExpr:
		m := node("Get", e)
		m["object"] = exprMap(e.Object)
		m["name"] = e.Name.Lexeme

		return m

	case *SetExpr:
		m := node("Set", e)
		m["object"] = exprMap(e.Object)
		m["name"] = e.Name.Lexeme
		m["value"] = exprMap(e.Value)

		return m

	case *ThisExpr:
		return node("This", e)

	case *LambdaExpr:
		m := node("Lambda", e)
		m["params"] = names(e.Params)
		m["body"] = stmtMaps(e.Body)

		return m
	}

	return node("Unknown", e)
}
