package lang

// Node is implemented by every syntax tree node.
type Node interface {
	// Line returns the source line the node is attributed to.
	Line() int
	// Label returns the node's stable printed name, such as "Binary +".
	Label() string
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

type (
	// LiteralExpr is a number, string, boolean, or null literal.
	// Value holds a float64, string, bool, or nil.
	LiteralExpr struct {
		Token Token
		Value any
	}

	// VariableExpr reads a named binding.
	VariableExpr struct {
		Name Token
	}

	// BinaryExpr applies an arithmetic or comparison operator.
	BinaryExpr struct {
		Left     Expr
		Operator Token
		Right    Expr
	}

	// LogicalExpr applies "and", "or", or "not". Left is nil for "not".
	LogicalExpr struct {
		Left     Expr
		Operator Token
		Right    Expr
	}

	// ArrayExpr is an array literal.
	ArrayExpr struct {
		Bracket  Token
		Elements []Expr
	}

	// MapExpr is a map literal. Keys and Values have equal length.
	MapExpr struct {
		Brace  Token
		Keys   []Expr
		Values []Expr
	}

	// IndexExpr reads an array element or map entry.
	IndexExpr struct {
		Object  Expr
		Bracket Token
		Index   Expr
	}

	// CallExpr invokes a function, builtin, or class.
	CallExpr struct {
		Callee Expr
		Paren  Token
		Args   []Expr
	}

	// GetExpr reads a field or method.
	GetExpr struct {
		Object Expr
		Name   Token
	}

	// SetExpr writes an instance field.
	SetExpr struct {
		Object Expr
		Name   Token
		Value  Expr
	}

	// ThisExpr refers to the receiver inside a method.
	ThisExpr struct {
		Keyword Token
	}

	// LambdaExpr is an anonymous function.
	LambdaExpr struct {
		Keyword Token
		Params  []Token
		Body    []Stmt
	}
)

type (
	// PrintStmt writes its expressions on one line.
	PrintStmt struct {
		Keyword Token
		Exprs   []Expr
	}

	// ExitStmt stops the program.
	ExitStmt struct {
		Keyword Token
	}

	// BlockStmt groups statements without introducing a scope.
	BlockStmt struct {
		Start      Token
		Statements []Stmt
	}

	// AssignmentStmt binds a name in the current environment.
	AssignmentStmt struct {
		Name  Token
		Value Expr
	}

	// IfStmt runs Then or Else depending on Condition. Else is nil when
	// absent.
	IfStmt struct {
		Keyword   Token
		Condition Expr
		Then      []Stmt
		Else      []Stmt
	}

	// WhileStmt loops while Condition is truthy. Increment, when non-nil,
	// runs after every iteration that completes or continues; it is set only
	// by the "for" form.
	WhileStmt struct {
		Keyword   Token
		Condition Expr
		Body      []Stmt
		Increment Stmt
	}

	// FunctionStmt declares a named function.
	FunctionStmt struct {
		Name   Token
		Params []Token
		Body   []Stmt
	}

	// ReturnStmt leaves the enclosing function. Value is nil for a bare
	// return.
	ReturnStmt struct {
		Keyword Token
		Value   Expr
	}

	// BreakStmt terminates the nearest loop.
	BreakStmt struct {
		Keyword Token
	}

	// ContinueStmt skips to the next iteration of the nearest loop.
	ContinueStmt struct {
		Keyword Token
	}

	// ClassStmt declares a class.
	ClassStmt struct {
		Name    Token
		Fields  []Token
		Methods []*FunctionStmt
	}

	// ExpressionStmt evaluates an expression for its effects.
	ExpressionStmt struct {
		Expr Expr
	}
)

func (e *LiteralExpr) Line() int  { return e.Token.Line }
func (e *VariableExpr) Line() int { return e.Name.Line }
func (e *BinaryExpr) Line() int   { return e.Operator.Line }
func (e *LogicalExpr) Line() int  { return e.Operator.Line }
func (e *ArrayExpr) Line() int    { return e.Bracket.Line }
func (e *MapExpr) Line() int      { return e.Brace.Line }
func (e *IndexExpr) Line() int    { return e.Bracket.Line }
func (e *CallExpr) Line() int     { return e.Paren.Line }
func (e *GetExpr) Line() int      { return e.Name.Line }
func (e *SetExpr) Line() int      { return e.Name.Line }
func (e *ThisExpr) Line() int     { return e.Keyword.Line }
func (e *LambdaExpr) Line() int   { return e.Keyword.Line }

func (s *PrintStmt) Line() int      { return s.Keyword.Line }
func (s *ExitStmt) Line() int       { return s.Keyword.Line }
func (s *BlockStmt) Line() int      { return s.Start.Line }
func (s *AssignmentStmt) Line() int { return s.Name.Line }
func (s *IfStmt) Line() int         { return s.Keyword.Line }
func (s *WhileStmt) Line() int      { return s.Keyword.Line }
func (s *FunctionStmt) Line() int   { return s.Name.Line }
func (s *ReturnStmt) Line() int     { return s.Keyword.Line }
func (s *BreakStmt) Line() int      { return s.Keyword.Line }
func (s *ContinueStmt) Line() int   { return s.Keyword.Line }
func (s *ClassStmt) Line() int      { return s.Name.Line }
func (s *ExpressionStmt) Line() int { return s.Expr.Line() }

func (e *LiteralExpr) Label() string  { return "Literal " + literalString(e.Value) }
func (e *VariableExpr) Label() string { return "Variable " + e.Name.Lexeme }
func (e *BinaryExpr) Label() string   { return "Binary " + e.Operator.Lexeme }
func (e *LogicalExpr) Label() string  { return "Logical " + e.Operator.Lexeme }
func (e *ArrayExpr) Label() string    { return "Array" }
func (e *MapExpr) Label() string      { return "Map" }
func (e *IndexExpr) Label() string    { return "Index" }
func (e *CallExpr) Label() string     { return "Call" }
func (e *GetExpr) Label() string      { return "Get " + e.Name.Lexeme }
func (e *SetExpr) Label() string      { return "Set " + e.Name.Lexeme }
func (e *ThisExpr) Label() string     { return "This" }
func (e *LambdaExpr) Label() string   { return "Lambda" + paramList(e.Params) }

func (s *PrintStmt) Label() string      { return "Print" }
func (s *ExitStmt) Label() string       { return "Exit" }
func (s *BlockStmt) Label() string      { return "Block" }
func (s *AssignmentStmt) Label() string { return "Assignment " + s.Name.Lexeme }
func (s *IfStmt) Label() string         { return "If" }
func (s *WhileStmt) Label() string      { return "While" }
func (s *FunctionStmt) Label() string   { return "Function " + s.Name.Lexeme + paramList(s.Params) }
func (s *ReturnStmt) Label() string     { return "Return" }
func (s *BreakStmt) Label() string      { return "Break" }
func (s *ContinueStmt) Label() string   { return "Continue" }
func (s *ClassStmt) Label() string      { return "Class " + s.Name.Lexeme }
func (s *ExpressionStmt) Label() string { return "Expression" }

func (*LiteralExpr) exprNode()  {}
func (*VariableExpr) exprNode() {}
func (*BinaryExpr) exprNode()   {}
func (*LogicalExpr) exprNode()  {}
func (*ArrayExpr) exprNode()    {}
func (*MapExpr) exprNode()      {}
func (*IndexExpr) exprNode()    {}
func (*CallExpr) exprNode()     {}
func (*GetExpr) exprNode()      {}
func (*SetExpr) exprNode()      {}
func (*ThisExpr) exprNode()     {}
func (*LambdaExpr) exprNode()   {}

func (*PrintStmt) stmtNode()      {}
func (*ExitStmt) stmtNode()       {}
func (*BlockStmt) stmtNode()      {}
func (*AssignmentStmt) stmtNode() {}
func (*IfStmt) stmtNode()         {}
func (*WhileStmt) stmtNode()      {}
func (*FunctionStmt) stmtNode()   {}
func (*ReturnStmt) stmtNode()     {}
func (*BreakStmt) stmtNode()      {}
func (*ContinueStmt) stmtNode()   {}
func (*ClassStmt) stmtNode()      {}
func (*ExpressionStmt) stmtNode() {}

// literalString renders a literal's decoded value for labels and source
// formatting. Strings are quoted.
func literalString(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return `"` + v + `"`
	case float64:
		return formatNumber(v)
	case bool:
		if v {
			return "true"
		}

		return "false"
	default:
		return "?"
	}
}

func paramList(params []Token) string {
	s := "("

	for i, p := range params {
		if i > 0 {
			s += ", "
		}

		s += p.Lexeme
	}

	return s + ")"
}
