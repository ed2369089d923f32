// Package lang implements the Flux scripting language: a lexer, a
// recursive-descent parser, a syntax tree, and a tree-walking interpreter.
//
// # Grammar
//
// Informal EBNF, loosest binding first:
//
//	program     → declaration* EOF
//	declaration → "class" IDENT "{" ( IDENT | function )* "}"
//	            | "fun" function
//	            | statement
//	function    → IDENT "(" params? ")" block
//	statement   → "print" expr ( "," expr )*
//	            | "exit" | "break" | "continue" | "return" expr?
//	            | "if" expr block ( "else" block )?
//	            | "while" expr block
//	            | "for" IDENT "=" expr "to" expr block
//	            | expr ( "=" expr )?
//	block       → "{" declaration* "}"
//	expr        → or
//	or          → and ( "or" and )*
//	and         → not ( "and" not )*
//	not         → "not" not | comparison
//	comparison  → term ( ( ">" | ">=" | "<" | "<=" | "==" | "!=" ) term )*
//	term        → factor ( ( "+" | "-" ) factor )*
//	factor      → call ( ( "*" | "/" | "%" ) call )*
//	call        → primary ( "(" args? ")" | "." IDENT | "[" expr "]" )*
//	primary     → NUMBER | STRING | "true" | "false" | "null" | "this"
//	            | IDENT | "(" expr ")" | "[" args? "]"
//	            | "{" ( expr ":" expr ( "," expr ":" expr )* )? "}"
//	            | "fun" "(" params? ")" block
//
// Statements are separated by whitespace; a semicolon may be used as an
// explicit separator. Comments run from "#" to the end of the line. Strings
// are raw: there are no escape sequences and a string may span lines.
//
// # Example
//
//	class Counter {
//	    count
//	    fun init() { this.count = 0 }
//	    fun inc() { this.count = this.count + 1; return this.count }
//	}
//
//	c = Counter()
//	for i = 1 to 3 { c.inc() }
//	print "count:", c.count   # count: 3
//
// # Evaluation
//
// Blocks do not introduce scopes: assignment always binds in the current
// environment, and only function calls create a new one. Closures share
// their defining environment by reference, so they observe later writes.
//
// Control flow (return, break, continue, exit) is a value returned up the
// call chain; it never unwinds the Go stack. Runtime errors are returned as
// *[RuntimeError] and match the sentinel errors of this package with
// [errors.Is].
//
// # Usage
//
//	prog, err := lang.ParseString(ctx, source)
//	if err != nil {
//		return err
//	}
//
//	interp := lang.NewInterpreter(lang.WithOutput(os.Stdout))
//	if err := interp.Run(ctx, prog); err != nil {
//		return err
//	}
package lang
