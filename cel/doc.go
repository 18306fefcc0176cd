// Package cel builds rules for ruletree nodes from Google's Common
// Expression Language.
//
// See https://github.com/google/cel-go and https://opensource.google/projects/cel
// for more information about CEL. Expressions must conform to the CEL
// spec: https://github.com/google/cel-spec.
//
// CEL lets routing conditions live in configuration rather than code:
//
//	request.qty >= 1000 && request.symbol in ["AAPL", "MSFT"]
//
// A Compiler ties a request type R to expressions through a bind function
// that flattens the request into a map; the map is visible to expressions
// under a single declared variable, "request" by default. Each distinct
// expression is compiled once and cached, so the same condition attached
// to many nodes costs one compilation.
//
// Compilation errors (bad syntax, a non-bool result) are reported when
// the rule is built. Evaluation problems at selection time, such as a key
// missing from the bound data, make the rule reject the request; they are
// never surfaced as selection errors. Compile every expression at startup
// to catch mistakes early.
package cel
