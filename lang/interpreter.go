package lang

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"math"
	"strings"
)

// signal is the control-flow outcome of executing a statement.
type signal int

const (
	signalNone signal = iota
	signalReturn
	signalBreak
	signalContinue
	signalExit
)

func (s signal) String() string {
	switch s {
	case signalReturn:
		return "return"
	case signalBreak:
		return "break"
	case signalContinue:
		return "continue"
	case signalExit:
		return "exit"
	default:
		return "none"
	}
}

// flow is the result of executing a statement. value is set only for
// signalReturn.
type flow struct {
	signal signal
	value  Value
}

// errExit carries an exit signal out of a call nested in an expression.
var errExit = errors.New("exit")

// Interpreter executes parsed programs against a persistent global
// environment. An Interpreter is not safe for concurrent use.
type Interpreter struct {
	opts    options
	globals *Environment
	depth   int
	exited  bool
}

// NewInterpreter returns an interpreter whose global environment holds the
// builtin functions.
func NewInterpreter(opts ...Option) *Interpreter {
	o := defaultOptions()
	o.apply(opts...)

	globals := NewEnvironment(nil)
	for name, b := range builtinTable() {
		globals.Define(name, b)
	}

	return &Interpreter{opts: o, globals: globals}
}

// Globals returns the global environment.
func (i *Interpreter) Globals() *Environment { return i.globals }

// Bindings iterates over the global bindings sorted by name. Builtin
// functions are included only if builtins is set.
func (i *Interpreter) Bindings(builtins bool) iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for name, v := range i.globals.All() {
			if !builtins && IsBuiltin(v) {
				continue
			}

			if !yield(name, v) {
				return
			}
		}
	}
}

// Dump writes the header "Environment:" followed by one "name = value" line
// per global binding, excluding builtins.
func (i *Interpreter) Dump(w io.Writer) error {
	var sb strings.Builder

	sb.WriteString("Environment:\n")

	for name, v := range i.Bindings(false) {
		sb.WriteString(name)
		sb.WriteString(" = ")
		sb.WriteString(Stringify(v))
		sb.WriteByte('\n')
	}

	_, err := io.WriteString(w, sb.String())

	return err
}

// Exited reports whether an exit statement has been executed.
func (i *Interpreter) Exited() bool { return i.exited }

// Run interprets the statements of prog.
func (i *Interpreter) Run(ctx context.Context, prog *Program) error {
	return i.Interpret(ctx, prog.Statements)
}

// Interpret executes stmts in the global environment. It stops at the first
// runtime error, which is returned as a *[RuntimeError]. An exit statement
// stops execution without error and sets [Interpreter.Exited].
func (i *Interpreter) Interpret(ctx context.Context, stmts []Stmt) error {
	i.opts.logger.TraceContext(ctx, "interpret",
		slog.Int("statements", len(stmts)),
	)

	for _, stmt := range stmts {
		f, err := i.execute(ctx, i.globals, stmt)

		switch {
		case errors.Is(err, errExit):
			f.signal = signalExit

		case err != nil:
			i.opts.logger.TraceContext(ctx, "runtime error", slog.Any("error", err))

			return err
		}

		switch f.signal {
		case signalNone:

		case signalExit:
			i.exited = true

			i.trace(ctx, "exit program", stmt)

			return nil

		default:
			return newRuntimeError(ErrControlFlow, stmt.Line(),
				"Cannot use '"+f.signal.String()+"' at top level.")
		}
	}

	return nil
}

func (i *Interpreter) executeBlock(
	ctx context.Context,
	env *Environment,
	stmts []Stmt,
) (flow, error) {
	for _, stmt := range stmts {
		f, err := i.execute(ctx, env, stmt)
		if err != nil || f.signal != signalNone {
			return f, err
		}
	}

	return flow{}, nil
}

//nolint:cyclop,funlen
func (i *Interpreter) execute(
	ctx context.Context,
	env *Environment,
	stmt Stmt,
) (flow, error) {
	switch s := stmt.(type) {
	case *PrintStmt:
		parts := make([]string, len(s.Exprs))

		for n, e := range s.Exprs {
			v, err := i.evaluate(ctx, env, e)
			if err != nil {
				return flow{}, err
			}

			parts[n] = Stringify(v)
		}

		line := strings.Join(parts, " ")

		i.trace(ctx, "print", s, slog.String("text", line))

		_, err := fmt.Fprintln(i.opts.output, line)

		return flow{}, err

	case *ExitStmt:
		return flow{signal: signalExit}, nil

	case *BlockStmt:
		return i.executeBlock(ctx, env, s.Statements)

	case *AssignmentStmt:
		v, err := i.evaluate(ctx, env, s.Value)
		if err != nil {
			return flow{}, err
		}

		env.Define(s.Name.Lexeme, v)

		i.trace(ctx, "assign", s,
			slog.String("name", s.Name.Lexeme),
			displayAttr("value", v),
		)

		return flow{}, nil

	case *IfStmt:
		cond, err := i.evaluate(ctx, env, s.Condition)
		if err != nil {
			return flow{}, err
		}

		taken := Truthy(cond)

		i.trace(ctx, "evaluate if condition", s, slog.Bool("result", taken))

		if taken {
			return i.executeBlock(ctx, env, s.Then)
		}

		return i.executeBlock(ctx, env, s.Else)

	case *WhileStmt:
		return i.executeWhile(ctx, env, s)

	case *FunctionStmt:
		env.Define(s.Name.Lexeme, &Function{
			Name:    s.Name.Lexeme,
			Params:  s.Params,
			Body:    s.Body,
			Closure: env,
		})

		i.trace(ctx, "define function", s, slog.String("name", s.Name.Lexeme))

		return flow{}, nil

	case *ClassStmt:
		class := &Class{
			Name:    s.Name.Lexeme,
			Fields:  make([]string, len(s.Fields)),
			Methods: make(map[string]*Function, len(s.Methods)),
		}

		for n, f := range s.Fields {
			class.Fields[n] = f.Lexeme
		}

		for _, m := range s.Methods {
			class.Methods[m.Name.Lexeme] = &Function{
				Name:    m.Name.Lexeme,
				Params:  m.Params,
				Body:    m.Body,
				Closure: env,
			}
		}

		env.Define(class.Name, class)

		i.trace(ctx, "define class", s, slog.String("name", class.Name))

		return flow{}, nil

	case *ReturnStmt:
		var v Value = Null{}

		if s.Value != nil {
			var err error
			if v, err = i.evaluate(ctx, env, s.Value); err != nil {
				return flow{}, err
			}
		}

		return flow{signal: signalReturn, value: v}, nil

	case *BreakStmt:
		return flow{signal: signalBreak}, nil

	case *ContinueStmt:
		return flow{signal: signalContinue}, nil

	case *ExpressionStmt:
		_, err := i.evaluate(ctx, env, s.Expr)

		return flow{}, err
	}

	return flow{}, newRuntimeError(ErrRuntime, stmt.Line(),
		fmt.Sprintf("Unknown statement %T.", stmt))
}

func (i *Interpreter) executeWhile(
	ctx context.Context,
	env *Environment,
	s *WhileStmt,
) (flow, error) {
	i.trace(ctx, "entering while loop", s)
	defer i.trace(ctx, "exiting while loop", s)

	for {
		if err := i.checkContext(ctx, s.Line()); err != nil {
			return flow{}, err
		}

		cond, err := i.evaluate(ctx, env, s.Condition)
		if err != nil {
			return flow{}, err
		}

		if !Truthy(cond) {
			return flow{}, nil
		}

		f, err := i.executeBlock(ctx, env, s.Body)
		if err != nil {
			return flow{}, err
		}

		switch f.signal {
		case signalBreak:
			return flow{}, nil

		case signalReturn, signalExit:
			return f, nil
		}

		if s.Increment != nil {
			if _, err := i.execute(ctx, env, s.Increment); err != nil {
				return flow{}, err
			}
		}
	}
}

func (i *Interpreter) evaluate(
	ctx context.Context,
	env *Environment,
	expr Expr,
) (Value, error) {
	v, err := i.eval(ctx, env, expr)
	if err != nil {
		return nil, atLine(err, expr.Line())
	}

	i.trace(ctx, "evaluate", expr,
		slog.String("node", expr.Label()),
		displayAttr("result", v),
	)

	return v, nil
}

//nolint:cyclop,funlen
func (i *Interpreter) eval(
	ctx context.Context,
	env *Environment,
	expr Expr,
) (Value, error) {
	switch e := expr.(type) {
	case *LiteralExpr:
		return literalValue(e.Value), nil

	case *VariableExpr:
		return env.Get(e.Name.Lexeme)

	case *ThisExpr:
		return env.Get("this")

	case *ArrayExpr:
		arr := &Array{Elements: make([]Value, len(e.Elements))}

		for n, el := range e.Elements {
			v, err := i.evaluate(ctx, env, el)
			if err != nil {
				return nil, err
			}

			arr.Elements[n] = v
		}

		return arr, nil

	case *MapExpr:
		m := NewMap()

		for n := range e.Keys {
			k, err := i.evaluate(ctx, env, e.Keys[n])
			if err != nil {
				return nil, err
			}

			v, err := i.evaluate(ctx, env, e.Values[n])
			if err != nil {
				return nil, err
			}

			m.Set(k, v)
		}

		return m, nil

	case *IndexExpr:
		return i.index(ctx, env, e)

	case *LogicalExpr:
		return i.logical(ctx, env, e)

	case *BinaryExpr:
		left, err := i.evaluate(ctx, env, e.Left)
		if err != nil {
			return nil, err
		}

		right, err := i.evaluate(ctx, env, e.Right)
		if err != nil {
			return nil, err
		}

		return binaryOp(e.Operator, left, right)

	case *CallExpr:
		return i.call(ctx, env, e)

	case *GetExpr:
		obj, err := i.evaluate(ctx, env, e.Object)
		if err != nil {
			return nil, err
		}

		m, ok := obj.(Member)
		if !ok {
			return nil, newRuntimeError(ErrNotInstance, e.Line(),
				"Only instances, strings, and arrays have properties.")
		}

		return m.Member(e.Name.Lexeme)

	case *SetExpr:
		obj, err := i.evaluate(ctx, env, e.Object)
		if err != nil {
			return nil, err
		}

		inst, ok := obj.(*Instance)
		if !ok {
			return nil, newRuntimeError(ErrNotInstance, e.Line(),
				"Only instances have fields.")
		}

		v, err := i.evaluate(ctx, env, e.Value)
		if err != nil {
			return nil, err
		}

		inst.Set(e.Name.Lexeme, v)

		return v, nil

	case *LambdaExpr:
		return &Function{Params: e.Params, Body: e.Body, Closure: env}, nil
	}

	return nil, newRuntimeError(ErrRuntime, expr.Line(),
		fmt.Sprintf("Unknown expression %T.", expr))
}

func literalValue(v any) Value {
	switch v := v.(type) {
	case float64:
		return Number(v)
	case string:
		return String(v)
	case bool:
		return Boolean(v)
	default:
		return Null{}
	}
}

func (i *Interpreter) index(
	ctx context.Context,
	env *Environment,
	e *IndexExpr,
) (Value, error) {
	obj, err := i.evaluate(ctx, env, e.Object)
	if err != nil {
		return nil, err
	}

	key, err := i.evaluate(ctx, env, e.Index)
	if err != nil {
		return nil, err
	}

	switch o := obj.(type) {
	case *Array:
		n, ok := key.(Number)
		if !ok {
			return nil, newRuntimeError(ErrOperand, e.Line(),
				"Array index must be a number.")
		}

		f := math.Trunc(float64(n))
		if math.IsNaN(f) || f < 0 || f >= float64(len(o.Elements)) {
			return nil, newRuntimeError(ErrIndexOutOfBounds, e.Line(),
				"Array index out of bounds.")
		}

		return o.Elements[int(f)], nil

	case *Map:
		if v, ok := o.Get(key); ok {
			return v, nil
		}

		return Null{}, nil
	}

	return nil, newRuntimeError(ErrNotIndexable, e.Line(),
		"Only arrays and maps can be indexed.")
}

func (i *Interpreter) logical(
	ctx context.Context,
	env *Environment,
	e *LogicalExpr,
) (Value, error) {
	if e.Operator.Kind == TokenNot {
		v, err := i.evaluate(ctx, env, e.Right)
		if err != nil {
			return nil, err
		}

		return Boolean(!Truthy(v)), nil
	}

	left, err := i.evaluate(ctx, env, e.Left)
	if err != nil {
		return nil, err
	}

	switch {
	case e.Operator.Kind == TokenOr && Truthy(left):
		return Boolean(true), nil
	case e.Operator.Kind == TokenAnd && !Truthy(left):
		return Boolean(false), nil
	}

	right, err := i.evaluate(ctx, env, e.Right)
	if err != nil {
		return nil, err
	}

	return Boolean(Truthy(right)), nil
}

// binaryOp applies an arithmetic or comparison operator. Null counts as 0
// wherever a number is expected.
func binaryOp(op Token, left, right Value) (Value, error) {
	switch op.Kind {
	case TokenEqualEqual:
		return Boolean(Equal(left, right)), nil
	case TokenBangEqual:
		return Boolean(!Equal(left, right)), nil
	}

	l, lok := numeric(left)
	r, rok := numeric(right)

	if op.Kind == TokenPlus {
		if lok && rok {
			return Number(l + r), nil
		}

		return String(Stringify(left) + Stringify(right)), nil
	}

	if !lok || !rok {
		return nil, newRuntimeError(ErrOperand, op.Line, "Operands must be numbers.")
	}

	switch op.Kind {
	case TokenMinus:
		return Number(l - r), nil
	case TokenStar:
		return Number(l * r), nil
	case TokenSlash:
		return Number(l / r), nil
	case TokenPercent:
		return Number(math.Mod(l, r)), nil
	case TokenGreater:
		return Boolean(l > r), nil
	case TokenGreaterEqual:
		return Boolean(l >= r), nil
	case TokenLess:
		return Boolean(l < r), nil
	case TokenLessEqual:
		return Boolean(l <= r), nil
	}

	return nil, newRuntimeError(ErrRuntime, op.Line,
		"Unknown operator '"+op.Lexeme+"'.")
}

func numeric(v Value) (float64, bool) {
	switch v := v.(type) {
	case Number:
		return float64(v), true
	case nil, Null:
		return 0, true
	}

	return 0, false
}

func (i *Interpreter) call(
	ctx context.Context,
	env *Environment,
	e *CallExpr,
) (Value, error) {
	callee, err := i.evaluate(ctx, env, e.Callee)
	if err != nil {
		return nil, err
	}

	i.trace(ctx, "call", e,
		displayAttr("callee", callee),
		slog.Int("args", len(e.Args)),
	)

	switch fn := callee.(type) {
	case *Class:
		// init runs without argument binding; call-site arguments are not
		// evaluated.
		inst := fn.Instantiate()

		if ctor := fn.FindMethod("init"); ctor != nil {
			bound := ctor.Bind(inst)

			_, err := i.invoke(ctx, NewEnvironment(bound.Closure), bound.Body, e.Line())
			if err != nil {
				return nil, err
			}
		}

		return inst, nil

	case *Builtin:
		args, err := i.arguments(ctx, env, e.Args)
		if err != nil {
			return nil, err
		}

		if len(args) != fn.Arity {
			return nil, arityError(fn.Name, fn.Arity, len(args), e.Line())
		}

		return fn.Fn(args)

	case *Function:
		if len(e.Args) != len(fn.Params) {
			return nil, arityError(fn.displayName(), len(fn.Params), len(e.Args), e.Line())
		}

		args, err := i.arguments(ctx, env, e.Args)
		if err != nil {
			return nil, err
		}

		local := NewEnvironment(fn.Closure)
		for n, p := range fn.Params {
			local.Define(p.Lexeme, args[n])
		}

		return i.invoke(ctx, local, fn.Body, e.Line())
	}

	return nil, newRuntimeError(ErrNotCallable, e.Line(),
		"Can only call functions and classes.")
}

func (i *Interpreter) arguments(
	ctx context.Context,
	env *Environment,
	exprs []Expr,
) ([]Value, error) {
	args := make([]Value, len(exprs))

	for n, a := range exprs {
		v, err := i.evaluate(ctx, env, a)
		if err != nil {
			return nil, err
		}

		args[n] = v
	}

	return args, nil
}

// invoke runs a function body in env and returns the value supplied by a
// return statement, or Null.
func (i *Interpreter) invoke(
	ctx context.Context,
	env *Environment,
	body []Stmt,
	line int,
) (Value, error) {
	if err := i.checkContext(ctx, line); err != nil {
		return nil, err
	}

	if i.depth >= i.opts.maxCallDepth {
		return nil, newRuntimeError(ErrStackOverflow, line,
			fmt.Sprintf("Maximum call depth (%d) exceeded.", i.opts.maxCallDepth))
	}

	i.depth++
	defer func() { i.depth-- }()

	f, err := i.executeBlock(ctx, env, body)
	if err != nil {
		return nil, err
	}

	switch f.signal {
	case signalReturn:
		return f.value, nil

	case signalExit:
		return nil, errExit

	case signalBreak, signalContinue:
		return nil, newRuntimeError(ErrControlFlow, line,
			"Cannot use '"+f.signal.String()+"' outside of a loop.")
	}

	return Null{}, nil
}

func (i *Interpreter) checkContext(ctx context.Context, line int) error {
	if ctx.Err() == nil {
		return nil
	}

	return newRuntimeError(ErrCanceled, line,
		"Execution canceled: "+context.Cause(ctx).Error()+".")
}

func (i *Interpreter) trace(
	ctx context.Context,
	msg string,
	node Node,
	attrs ...slog.Attr,
) {
	if !i.opts.trace {
		return
	}

	i.opts.logger.TraceContext(ctx, msg,
		append([]slog.Attr{slog.Int("line", node.Line())}, attrs...)...)
}

// display defers printing a value until a trace record is handled.
type display struct{ v Value }

func (d display) LogValue() slog.Value { return slog.StringValue(Stringify(d.v)) }

func displayAttr(key string, v Value) slog.Attr { return slog.Any(key, display{v}) }

func arityError(name string, want, got, line int) error {
	return newRuntimeError(ErrArity, line,
		fmt.Sprintf("Function '%s' expected %d arguments but got %d.", name, want, got))
}

// atLine attributes a runtime error that has no line yet.
func atLine(err error, line int) error {
	var re *RuntimeError
	if errors.As(err, &re) && re.Line == 0 {
		re.Line = line
	}

	return err
}
