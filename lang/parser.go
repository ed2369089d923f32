package lang

import (
	"context"
	"io"
	"log/slog"

	"github.com/klauspost/readahead"

	"github.com/ardnew/flux/log"
)

// Program is the result of parsing one source text.
type Program struct {
	Statements []Stmt
	// Warnings are the lexical diagnostics reported while scanning. They do
	// not prevent parsing.
	Warnings []*SyntaxError
	Source   string
}

// ParseString scans and parses source.
//
// On a syntax error the returned Program holds the statements parsed before
// the error, and the error is a *[SyntaxError].
func ParseString(
	ctx context.Context,
	source string,
	opts ...Option,
) (*Program, error) {
	var o options

	o.apply(opts...)

	o.logger.TraceContext(ctx, "parse start",
		slog.Int("source_length", len(source)),
	)

	lex := NewLexer(source, opts...)
	tokens := lex.Scan(ctx)

	prog := &Program{Warnings: lex.Errors(), Source: source}

	p := NewParser(tokens, opts...)
	p.source = source

	stmts, err := p.Parse(ctx)
	prog.Statements = stmts

	return prog, err
}

// ParseReader reads all of r and parses it with [ParseString]. Reads are
// performed asynchronously ahead of the scanner.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Program, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	buf, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	return ParseString(ctx, string(buf), opts...)
}

// Parse parses a token sequence terminated by [TokenEOF].
func Parse(ctx context.Context, tokens []Token, opts ...Option) ([]Stmt, error) {
	return NewParser(tokens, opts...).Parse(ctx)
}

// Parser is a recursive-descent parser with one token of lookahead.
//
// Parsing stops at the first structural violation; there is no error
// recovery.
type Parser struct {
	tokens    []Token
	current   int
	loopDepth int // loops enclosing the current position in this function
	funcDepth int // functions enclosing the current position
	source    string
	logger    log.Logger
}

// NewParser returns a parser over tokens. If tokens does not end with
// [TokenEOF], one is appended.
func NewParser(tokens []Token, opts ...Option) *Parser {
	var o options

	o.apply(opts...)

	if n := len(tokens); n == 0 || tokens[n-1].Kind != TokenEOF {
		line := 1
		if n > 0 {
			line = tokens[n-1].Line
		}

		tokens = append(tokens[:n:n], Token{Kind: TokenEOF, Line: line})
	}

	return &Parser{tokens: tokens, logger: o.logger}
}

// bailout carries a syntax error up the recursive descent to Parse.
type bailout struct{ err *SyntaxError }

// Parse parses the whole token sequence.
func (p *Parser) Parse(ctx context.Context) (stmts []Stmt, err error) {
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}

			p.logger.TraceContext(ctx, "parse failed", slog.Any("error", b.err))

			err = b.err
		}
	}()

	for p.skipSeparators(); !p.atEnd(); p.skipSeparators() {
		stmts = append(stmts, p.declaration())
	}

	p.logger.TraceContext(ctx, "parse complete",
		slog.Int("statements", len(stmts)),
	)

	return stmts, nil
}

func (p *Parser) declaration() Stmt {
	if p.match(TokenClass) {
		return p.classDeclaration()
	}

	if p.check(TokenFun) && p.checkNext(TokenIdentifier) {
		p.advance()

		return p.function()
	}

	return p.statement()
}

func (p *Parser) statement() Stmt {
	switch {
	case p.match(TokenPrint):
		return p.printStatement()

	case p.match(TokenExit):
		return &ExitStmt{Keyword: p.previous()}

	case p.match(TokenBreak):
		if p.loopDepth == 0 {
			p.fail(p.previous(), "Cannot use 'break' outside of a loop.")
		}

		return &BreakStmt{Keyword: p.previous()}

	case p.match(TokenContinue):
		if p.loopDepth == 0 {
			p.fail(p.previous(), "Cannot use 'continue' outside of a loop.")
		}

		return &ContinueStmt{Keyword: p.previous()}

	case p.match(TokenIf):
		return p.ifStatement()

	case p.match(TokenWhile):
		return p.whileStatement()

	case p.match(TokenFor):
		return p.forStatement()

	case p.match(TokenReturn):
		return p.returnStatement()
	}

	return p.expressionStatement()
}

func (p *Parser) printStatement() Stmt {
	stmt := &PrintStmt{Keyword: p.previous()}
	stmt.Exprs = append(stmt.Exprs, p.expression())

	for p.match(TokenComma) {
		stmt.Exprs = append(stmt.Exprs, p.expression())
	}

	return stmt
}

func (p *Parser) returnStatement() Stmt {
	keyword := p.previous()

	if p.funcDepth == 0 {
		p.fail(keyword, "Cannot return from top-level code.")
	}

	stmt := &ReturnStmt{Keyword: keyword}

	if !p.check(TokenRightBrace) && !p.check(TokenSemicolon) && !p.atEnd() {
		stmt.Value = p.expression()
	}

	return stmt
}

func (p *Parser) ifStatement() Stmt {
	stmt := &IfStmt{Keyword: p.previous()}
	stmt.Condition = p.expression()
	stmt.Then = p.block("after if condition", "after if body")

	if p.match(TokenElse) {
		stmt.Else = p.block("after else", "after else body")
		if stmt.Else == nil {
			stmt.Else = []Stmt{}
		}
	}

	return stmt
}

func (p *Parser) whileStatement() Stmt {
	stmt := &WhileStmt{Keyword: p.previous()}
	stmt.Condition = p.expression()
	stmt.Body = p.loopBody("after while condition", "after while body")

	return stmt
}

// forStatement desugars
//
//	for i = a to b { body }
//
// into
//
//	{ i = a; while i <= b { body } (increment: i = i + 1) }
func (p *Parser) forStatement() Stmt {
	keyword := p.previous()
	name := p.consume(TokenIdentifier, "Expected loop variable name.")
	p.consume(TokenEqual, "Expected '=' after loop variable.")
	start := p.expression()
	p.consume(TokenTo, "Expected 'to' in for loop.")
	end := p.expression()
	body := p.loopBody("after for header", "after for body")

	return &BlockStmt{
		Start: keyword,
		Statements: []Stmt{
			&AssignmentStmt{Name: name, Value: start},
			&WhileStmt{
				Keyword: keyword,
				Condition: &BinaryExpr{
					Left:     &VariableExpr{Name: name},
					Operator: synthetic(TokenLessEqual, "<=", name.Line),
					Right:    end,
				},
				Body: body,
				Increment: &AssignmentStmt{
					Name: name,
					Value: &BinaryExpr{
						Left:     &VariableExpr{Name: name},
						Operator: synthetic(TokenPlus, "+", name.Line),
						Right: &LiteralExpr{
							Token: Token{Kind: TokenNumber, Lexeme: "1", Literal: 1.0, Line: name.Line},
							Value: 1.0,
						},
					},
				},
			},
		},
	}
}

func (p *Parser) loopBody(open, closing string) []Stmt {
	p.loopDepth++
	defer func() { p.loopDepth-- }()

	return p.block(open, closing)
}

// block parses "{ declaration* }". The messages complete "Expected '{' ..."
// and "Expected '}' ...".
func (p *Parser) block(open, closing string) []Stmt {
	p.consume(TokenLeftBrace, "Expected '{' "+open+".")

	var stmts []Stmt

	for p.skipSeparators(); !p.check(TokenRightBrace) && !p.atEnd(); p.skipSeparators() {
		stmts = append(stmts, p.declaration())
	}

	p.consume(TokenRightBrace, "Expected '}' "+closing+".")

	return stmts
}

func (p *Parser) classDeclaration() Stmt {
	stmt := &ClassStmt{Name: p.consume(TokenIdentifier, "Expected class name.")}
	p.consume(TokenLeftBrace, "Expected '{' after class name.")

	for !p.check(TokenRightBrace) && !p.atEnd() {
		switch {
		case p.match(TokenComma, TokenSemicolon):

		case p.match(TokenFun):
			stmt.Methods = append(stmt.Methods, p.function())

		default:
			stmt.Fields = append(stmt.Fields,
				p.consume(TokenIdentifier, "Expected field name."))
		}
	}

	p.consume(TokenRightBrace, "Expected '}' after class body.")

	return stmt
}

func (p *Parser) function() *FunctionStmt {
	stmt := &FunctionStmt{Name: p.consume(TokenIdentifier, "Expected function name.")}
	p.consume(TokenLeftParen, "Expected '(' after function name.")
	stmt.Params = p.parameters()
	stmt.Body = p.functionBody("before function body", "after function body")

	return stmt
}

func (p *Parser) parameters() []Token {
	var params []Token

	if !p.check(TokenRightParen) {
		for {
			params = append(params, p.consume(TokenIdentifier, "Expected parameter name."))

			if !p.match(TokenComma) {
				break
			}
		}
	}

	p.consume(TokenRightParen, "Expected ')' after parameters.")

	return params
}

// functionBody parses a function or lambda body, in which loop context from
// the enclosing code does not apply.
func (p *Parser) functionBody(open, closing string) []Stmt {
	loops := p.loopDepth
	p.loopDepth = 0
	p.funcDepth++

	defer func() {
		p.loopDepth = loops
		p.funcDepth--
	}()

	return p.block(open, closing)
}

func (p *Parser) expressionStatement() Stmt {
	expr := p.expression()

	if !p.match(TokenEqual) {
		return &ExpressionStmt{Expr: expr}
	}

	equals := p.previous()
	value := p.expression()

	switch target := expr.(type) {
	case *VariableExpr:
		return &AssignmentStmt{Name: target.Name, Value: value}

	case *GetExpr:
		return &ExpressionStmt{Expr: &SetExpr{
			Object: target.Object,
			Name:   target.Name,
			Value:  value,
		}}
	}

	p.fail(equals, "Invalid assignment target.")

	return nil
}

func (p *Parser) expression() Expr { return p.or() }

func (p *Parser) or() Expr {
	expr := p.and()

	for p.match(TokenOr) {
		op := p.previous()
		expr = &LogicalExpr{Left: expr, Operator: op, Right: p.and()}
	}

	return expr
}

func (p *Parser) and() Expr {
	expr := p.not()

	for p.match(TokenAnd) {
		op := p.previous()
		expr = &LogicalExpr{Left: expr, Operator: op, Right: p.not()}
	}

	return expr
}

func (p *Parser) not() Expr {
	if p.match(TokenNot) {
		op := p.previous()

		return &LogicalExpr{Operator: op, Right: p.not()}
	}

	return p.comparison()
}

func (p *Parser) comparison() Expr {
	expr := p.term()

	for p.match(
		TokenGreater, TokenGreaterEqual,
		TokenLess, TokenLessEqual,
		TokenEqualEqual, TokenBangEqual,
	) {
		op := p.previous()
		expr = &BinaryExpr{Left: expr, Operator: op, Right: p.term()}
	}

	return expr
}

func (p *Parser) term() Expr {
	expr := p.factor()

	for p.match(TokenPlus, TokenMinus) {
		op := p.previous()
		expr = &BinaryExpr{Left: expr, Operator: op, Right: p.factor()}
	}

	return expr
}

func (p *Parser) factor() Expr {
	expr := p.call()

	for p.match(TokenStar, TokenSlash, TokenPercent) {
		op := p.previous()
		expr = &BinaryExpr{Left: expr, Operator: op, Right: p.call()}
	}

	return expr
}

func (p *Parser) call() Expr {
	expr := p.primary()

	for {
		switch {
		case p.match(TokenLeftParen):
			expr = p.finishCall(expr)

		case p.match(TokenDot):
			name := p.consume(TokenIdentifier, "Expected property name after '.'.")
			expr = &GetExpr{Object: expr, Name: name}

		case p.match(TokenLeftBracket):
			bracket := p.previous()
			index := p.expression()
			p.consume(TokenRightBracket, "Expected ']' after index.")
			expr = &IndexExpr{Object: expr, Bracket: bracket, Index: index}

		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee Expr) Expr {
	call := &CallExpr{Callee: callee}

	if !p.check(TokenRightParen) {
		for {
			call.Args = append(call.Args, p.expression())

			if !p.match(TokenComma) {
				break
			}
		}
	}

	call.Paren = p.consume(TokenRightParen, "Expected ')' after arguments.")

	return call
}

func (p *Parser) primary() Expr {
	switch {
	case p.match(TokenLeftParen):
		expr := p.expression()
		p.consume(TokenRightParen, "Expected ')' after expression.")

		return expr

	case p.match(TokenFun):
		lambda := &LambdaExpr{Keyword: p.previous()}
		p.consume(TokenLeftParen, "Expected '(' after 'fun'.")
		lambda.Params = p.parameters()
		lambda.Body = p.functionBody("before lambda body", "after lambda body")

		return lambda

	case p.match(TokenNumber, TokenString):
		tok := p.previous()

		return &LiteralExpr{Token: tok, Value: tok.Literal}

	case p.match(TokenTrue):
		return &LiteralExpr{Token: p.previous(), Value: true}

	case p.match(TokenFalse):
		return &LiteralExpr{Token: p.previous(), Value: false}

	case p.match(TokenNull):
		return &LiteralExpr{Token: p.previous(), Value: nil}

	case p.match(TokenLeftBracket):
		return p.arrayLiteral()

	case p.match(TokenLeftBrace):
		return p.mapLiteral()

	case p.match(TokenThis):
		return &ThisExpr{Keyword: p.previous()}

	case p.match(TokenIdentifier):
		return &VariableExpr{Name: p.previous()}
	}

	p.fail(p.peek(), "Expected expression.")

	return nil
}

func (p *Parser) arrayLiteral() Expr {
	arr := &ArrayExpr{Bracket: p.previous()}

	if !p.check(TokenRightBracket) {
		for {
			arr.Elements = append(arr.Elements, p.expression())

			if !p.match(TokenComma) {
				break
			}
		}
	}

	p.consume(TokenRightBracket, "Expected ']' after array elements.")

	return arr
}

func (p *Parser) mapLiteral() Expr {
	m := &MapExpr{Brace: p.previous()}

	if !p.check(TokenRightBrace) {
		for {
			key := p.expression()
			p.consume(TokenColon, "Expected ':' after key.")
			m.Keys = append(m.Keys, key)
			m.Values = append(m.Values, p.expression())

			if !p.match(TokenComma) {
				break
			}
		}
	}

	p.consume(TokenRightBrace, "Expected '}' after map elements.")

	return m
}

// skipSeparators consumes optional statement separators.
func (p *Parser) skipSeparators() {
	for p.match(TokenSemicolon) {
	}
}

func (p *Parser) match(kinds ...TokenKind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			p.advance()

			return true
		}
	}

	return false
}

func (p *Parser) check(kind TokenKind) bool {
	return !p.atEnd() && p.peek().Kind == kind
}

func (p *Parser) checkNext(kind TokenKind) bool {
	if p.current+1 >= len(p.tokens) {
		return false
	}

	return p.tokens[p.current+1].Kind == kind
}

func (p *Parser) advance() Token {
	if !p.atEnd() {
		p.current++
	}

	return p.previous()
}

func (p *Parser) consume(kind TokenKind, msg string) Token {
	if p.check(kind) {
		return p.advance()
	}

	p.fail(p.peek(), msg)

	return Token{}
}

func (p *Parser) atEnd() bool     { return p.peek().Kind == TokenEOF }
func (p *Parser) peek() Token     { return p.tokens[p.current] }
func (p *Parser) previous() Token { return p.tokens[p.current-1] }

func (p *Parser) fail(tok Token, msg string) {
	panic(bailout{&SyntaxError{
		Line:    tok.Line,
		Message: msg,
		Lexeme:  tok.Lexeme,
		AtEnd:   tok.Kind == TokenEOF,
		Source:  p.source,
	}})
}
