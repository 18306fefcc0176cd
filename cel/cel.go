package cel

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/checker/decls"

	ruletree "github.com/DanielDubi/RuleTree"
)

// A Compiler turns CEL expressions into rules for a tree whose request
// type is R. The zero value is not usable; create compilers with New.
//
// Compiled programs are cached by expression text. The cache is safe for
// concurrent use, so rules may be compiled while selections run.
type Compiler[R any] struct {
	env      *cel.Env
	variable string
	bind     func(R) map[string]any

	mu       sync.RWMutex
	programs map[string]cel.Program
}

type compilerOptions struct {
	variable string
}

// Option configures a Compiler.
type Option func(o *compilerOptions)

// WithVariable renames the variable expressions see the request data
// under.
// Default: "request".
func WithVariable(name string) Option {
	return func(o *compilerOptions) {
		o.variable = name
	}
}

// New creates a Compiler whose rules evaluate expressions over the data
// bind extracts from a request. The data is declared to CEL as a
// map<string, dyn>:
//
//	comp, err := cel.New[*Order](func(o *Order) map[string]any {
//		return map[string]any{"qty": o.Qty, "symbol": o.Symbol}
//	})
//	r, err := comp.Rule(`request.qty >= 1000`)
func New[R any](bind func(R) map[string]any, opts ...Option) (*Compiler[R], error) {
	if bind == nil {
		return nil, fmt.Errorf("bind function is required")
	}

	o := compilerOptions{variable: "request"}
	for _, opt := range opts {
		opt(&o)
	}

	env, err := cel.NewEnv(
		cel.Declarations(
			decls.NewVar(o.variable, decls.NewMapType(decls.String, decls.Dyn)),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating CEL environment: %w", err)
	}

	return &Compiler[R]{
		env:      env,
		variable: o.variable,
		bind:     bind,
		programs: make(map[string]cel.Program),
	}, nil
}

// Rule compiles expr and returns a rule evaluating it. The expression
// must produce a bool; anything else is a compilation error. Evaluation
// problems at selection time reject the request rather than fail.
func (c *Compiler[R]) Rule(expr string) (ruletree.Rule[R], error) {
	p, err := c.program(expr)
	if err != nil {
		return nil, err
	}
	return ruletree.RuleFunc[R](func(req R) bool {
		out, _, err := p.Eval(map[string]any{c.variable: c.bind(req)})
		if err != nil {
			return false
		}
		b, ok := out.Value().(bool)
		return ok && b
	}), nil
}

// MustRule is Rule, panicking on compilation errors. Use it for
// expressions fixed at build time.
func (c *Compiler[R]) MustRule(expr string) ruletree.Rule[R] {
	r, err := c.Rule(expr)
	if err != nil {
		panic(err)
	}
	return r
}

// program returns the compiled program for expr, compiling and caching it
// on first use.
func (c *Compiler[R]) program(expr string) (cel.Program, error) {
	c.mu.RLock()
	if p, ok := c.programs[expr]; ok {
		c.mu.RUnlock()
		return p, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another goroutine may have compiled it while we waited.
	if p, ok := c.programs[expr]; ok {
		return p, nil
	}

	ast, issues := c.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compiling %q: %w", expr, issues.Err())
	}
	if !reflect.DeepEqual(ast.OutputType(), cel.BoolType) {
		return nil, fmt.Errorf("expression %q produces %v, want bool", expr, ast.OutputType())
	}

	p, err := c.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("building program for %q: %w", expr, err)
	}

	c.programs[expr] = p
	return p, nil
}
