// Package formula implements the arithmetic mini-language used by
// formula and variable components.
//
// The grammar is deliberately tiny:
//
//	expr   = term { ("+" | "-") term }
//	term   = unary { ("*" | "/") unary }
//	unary  = [ "-" ] factor
//	factor = NUMBER | REF | "(" expr ")"
//	REF    = "$" identifier
//
// Identifiers are word characters only ([A-Za-z0-9_]). There are no bare
// identifiers, no function calls, and no access to the host runtime of
// any kind. This is a security boundary: formula text comes from users,
// and the only thing it can do is arithmetic over resolved component
// values.
//
// Parsing and evaluation are separate steps. Parse produces an Expr that
// can report its component references (for dependency tracking) and be
// evaluated any number of times against a resolver callback.
package formula
